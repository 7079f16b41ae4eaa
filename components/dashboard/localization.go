package dashboard

import (
	"context"
	"strconv"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"golang.org/x/text/number"
)

// TranslationService exposes locale-aware translation helpers backed by go-cms (or compatible) engines.
// Implementations can provide pluralization, interpolation, or other advanced behaviors while transports
// and loaders rely on the lightweight interface defined here.
type TranslationService interface {
	Translate(ctx context.Context, key, locale string, args map[string]any) (string, error)
}

// MessageKey identifies a built-in dashboard message.
type MessageKey string

const (
	MsgLoading           MessageKey = "dashboard.region.loading"
	MsgFetchFailed       MessageKey = "dashboard.region.fetch_failed"
	MsgInsufficientData  MessageKey = "dashboard.region.insufficient_data"
	MsgSeriesUnavailable MessageKey = "dashboard.region.series_unavailable"
	MsgRenderFailed      MessageKey = "dashboard.region.render_failed"
	MsgLoaderFailed      MessageKey = "dashboard.region.loader_failed"
	MsgValueUnavailable  MessageKey = "dashboard.table.value_unavailable"
	MsgDataUnavailable   MessageKey = "dashboard.table.data_unavailable"
	MsgQueriedAt         MessageKey = "dashboard.clock.queried_at"
)

var (
	localeBrazil  = language.BrazilianPortuguese
	localeEnglish = language.AmericanEnglish

	supportedLocales = []language.Tag{localeBrazil, localeEnglish}
	localeMatcher    = language.NewMatcher(supportedLocales)

	builtinMessages = map[language.Tag]map[MessageKey]string{
		localeBrazil: {
			MsgLoading:           "Carregando (%s)...",
			MsgFetchFailed:       "Não foi possível carregar (%s). Verifique os logs do servidor.",
			MsgInsufficientData:  "Dados insuficientes ou indisponíveis para exibir o gráfico %s.",
			MsgSeriesUnavailable: "Dados de '%s' não disponíveis (Série: %s).",
			MsgRenderFailed:      "Não foi possível desenhar o gráfico %s.",
			MsgLoaderFailed:      "Não foi possível carregar '%s'.",
			MsgValueUnavailable:  "Dado indisponível (%s)",
			MsgDataUnavailable:   "Dados não disponíveis",
			MsgQueriedAt:         "Consulta em: %s %s",
		},
		localeEnglish: {
			MsgLoading:           "Loading (%s)...",
			MsgFetchFailed:       "Could not load (%s). Check the server logs.",
			MsgInsufficientData:  "Not enough data to draw the chart %s.",
			MsgSeriesUnavailable: "Data for '%s' is not available (Series: %s).",
			MsgRenderFailed:      "Could not draw the chart %s.",
			MsgLoaderFailed:      "Could not load '%s'.",
			MsgValueUnavailable:  "Value unavailable (%s)",
			MsgDataUnavailable:   "Data not available",
			MsgQueriedAt:         "Queried at: %s %s",
		},
	}
)

// Messages localizes notices and numbers. A TranslationService, when set,
// is consulted first so hosts can override any key.
type Messages struct {
	catalog    *catalog.Builder
	fallback   language.Tag
	translator TranslationService
}

// NewMessages builds the catalog with the built-in pt-BR and en strings.
func NewMessages(translator TranslationService) *Messages {
	builder := catalog.NewBuilder(catalog.Fallback(localeBrazil))
	for tag, entries := range builtinMessages {
		for key, msg := range entries {
			_ = builder.SetString(tag, string(key), msg)
		}
	}
	return &Messages{catalog: builder, fallback: localeBrazil, translator: translator}
}

// Tag resolves a locale string to one of the supported tags.
func (m *Messages) Tag(locale string) language.Tag {
	locale = strings.TrimSpace(locale)
	if locale == "" {
		return m.fallback
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return m.fallback
	}
	_, index, confidence := localeMatcher.Match(tag)
	if confidence == language.No {
		return m.fallback
	}
	return supportedLocales[index]
}

// Printer returns an x/text printer bound to the catalog.
func (m *Messages) Printer(locale string) *message.Printer {
	return message.NewPrinter(m.Tag(locale), message.Catalog(m.catalog))
}

// Localize renders key for locale.
func (m *Messages) Localize(ctx context.Context, locale string, key MessageKey, args ...any) string {
	fallback := m.Printer(locale).Sprintf(string(key), args...)
	if m.translator == nil {
		return fallback
	}
	params := make(map[string]any, len(args))
	for i, arg := range args {
		params[argName(i)] = arg
	}
	return translateOrFallback(ctx, m.translator, string(key), locale, fallback, params)
}

// Notice localizes a notice; nil renders as an empty string.
func (m *Messages) Notice(ctx context.Context, locale string, notice *Notice) string {
	if notice == nil {
		return ""
	}
	return m.Localize(ctx, locale, notice.Key, notice.Args...)
}

// FormatDecimal renders v with exactly digits fraction digits and locale
// grouping ("1.234,50" in pt-BR).
func (m *Messages) FormatDecimal(locale string, v float64, digits int) string {
	return message.NewPrinter(m.Tag(locale)).Sprint(
		number.Decimal(v, number.MinFractionDigits(digits), number.MaxFractionDigits(digits)),
	)
}

// FormatInteger renders v with locale grouping.
func (m *Messages) FormatInteger(locale string, v int64) string {
	return message.NewPrinter(m.Tag(locale)).Sprint(number.Decimal(v))
}

func argName(i int) string {
	return "arg" + strconv.Itoa(i)
}

// ResolveLocalizedValue selects the best translation for the provided locale and falls back to the supplied value.
// Keys are matched case-insensitively, and language-region pairs (`pt-br`) automatically fall back to their
// base language (`pt`) when present.
func ResolveLocalizedValue(values map[string]string, locale, fallback string) string {
	if len(values) == 0 {
		return fallback
	}
	candidates := localeCandidates(locale)
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		for key, value := range values {
			if strings.EqualFold(key, candidate) && value != "" {
				return value
			}
		}
	}
	if value, ok := values["default"]; ok && value != "" {
		return value
	}
	return fallback
}

func localeCandidates(locale string) []string {
	locale = normalizeLocale(locale)
	if locale == "" {
		return []string{"default"}
	}
	candidates := []string{locale}
	if idx := strings.Index(locale, "-"); idx > 0 {
		candidates = append(candidates, locale[:idx])
	}
	candidates = append(candidates, "default")
	return candidates
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.TrimSpace(strings.ToLower(locale)), "_", "-")
}

func translateOrFallback(ctx context.Context, svc TranslationService, key, locale, fallback string, params map[string]any) string {
	if svc != nil {
		if translated, err := svc.Translate(ctx, key, locale, params); err == nil && translated != "" {
			return translated
		}
	}
	if fallback != "" {
		return fallback
	}
	return key
}
