package dashboard

import (
	"context"
	"math"
	"strconv"

	"golang.org/x/sync/errgroup"
)

const (
	defaultDecimalDigits = 2
	stateFetchLimit      = 4
)

var defaultLatestColumns = []string{"Indicador", "Valor (Ano Mais Recente)", "Ano"}

type latestRowOption struct {
	Label  string `mapstructure:"label"`
	Code   string `mapstructure:"code"`
	Digits *int   `mapstructure:"digits"`
}

type latestTableOptions struct {
	Rows    []latestRowOption `mapstructure:"rows"`
	Columns []string          `mapstructure:"columns"`
}

// loadLatestTable shows the most recent value of each configured series,
// one row per series. Rows are fetched in order.
func loadLatestTable(ctx context.Context, lc LoadContext) error {
	var o latestTableOptions
	if err := lc.DecodeOptions(&o); err != nil {
		return err
	}
	src, err := lc.Sources.SeriesSource(lc.Definition.Source)
	if err != nil {
		return err
	}
	columns := o.Columns
	if len(columns) == 0 {
		columns = defaultLatestColumns
	}

	table := Table{Columns: columns}
	for _, row := range o.Rows {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, ok := src.FetchSeries(ctx, SeriesQuery{
			Code:    row.Code,
			Order:   OrderDesc,
			Top:     1,
			Options: lc.Definition.Options,
		})
		cells := []TableCell{TextCell(lc.Expand(row.Label))}
		latest, found := latestPoint(raw, ok, lc)
		if !found {
			cells = append(cells, UnavailableCell(2, MsgValueUnavailable, row.Code))
		} else {
			digits := defaultDecimalDigits
			if row.Digits != nil {
				digits = *row.Digits
			}
			cells = append(cells,
				TextCell(lc.Messages.FormatDecimal(lc.Locale, latest.Value, digits)),
				TextCell(strconv.Itoa(latest.Date.Year())),
			)
		}
		table.Rows = append(table.Rows, TableRow{Cells: cells})
	}
	lc.Board.ShowTable(ctx, lc.RegionID(), table)
	return nil
}

func latestPoint(raw RawSeries, ok bool, lc LoadContext) (SeriesPoint, bool) {
	if !ok || len(raw.Points) == 0 {
		return SeriesPoint{}, false
	}
	return Normalize(raw.Points, raw.DateField, raw.ValueField, WithLocation(lc.Location)).Last()
}

type stateMetricOption struct {
	Field string `mapstructure:"field"`
	Label string `mapstructure:"label"`
}

type stateTableOptions struct {
	States      []string            `mapstructure:"states"`
	Year        int                 `mapstructure:"year"`
	Metrics     []stateMetricOption `mapstructure:"metrics"`
	SourceLabel string              `mapstructure:"source_label"`
}

// loadStateTable shows yearly security metrics per state. States are
// fetched concurrently and rows keep the configured order.
func loadStateTable(ctx context.Context, lc LoadContext) error {
	var o stateTableOptions
	if err := lc.DecodeOptions(&o); err != nil {
		return err
	}
	src, err := lc.Sources.StateStatsSource(lc.Definition.Source)
	if err != nil {
		return err
	}
	year := o.Year
	if year == 0 {
		year = lc.ReferenceYear()
	}
	fields := make([]string, len(o.Metrics))
	columns := []string{"Estado", "Ano"}
	for i, metric := range o.Metrics {
		fields[i] = metric.Field
		columns = append(columns, metric.Label)
	}

	rows := make([]TableRow, len(o.States))
	var g errgroup.Group
	g.SetLimit(stateFetchLimit)
	for i, state := range o.States {
		g.Go(func() error {
			stats, ok := src.FetchStateStats(ctx, StateStatsQuery{
				State:       state,
				Year:        year,
				Metrics:     fields,
				SourceLabel: o.SourceLabel,
				Options:     lc.Definition.Options,
			})
			cells := []TableCell{TextCell(state), TextCell(strconv.Itoa(year))}
			if !ok {
				cells = append(cells, UnavailableCell(len(fields), MsgDataUnavailable))
				rows[i] = TableRow{Cells: cells}
				return nil
			}
			for _, field := range fields {
				value, has := stats.Values[field]
				if !has {
					cells = append(cells, TextCell(NotAvailable))
					continue
				}
				cells = append(cells, TextCell(lc.Messages.FormatInteger(lc.Locale, int64(math.Round(value)))))
			}
			rows[i] = TableRow{Cells: cells}
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return err
	}
	lc.Board.ShowTable(ctx, lc.RegionID(), Table{Columns: columns, Rows: rows})
	return nil
}
