package dashboard

// Source names used by the default indicators.
const (
	SourceIPEA        = "ipea"
	SourceBrasilAPI   = "brasilapi"
	SourcePlaceholder = "placeholder"
	SourceStatic      = "static"
)

// Section codes used by the default indicators.
const (
	SectionSecurity = "seguranca-publica"
	SectionQuality  = "qualidade-de-vida"
	SectionSocial   = "fatores-sociais"
)

var defaultSectionDefinitions = []SectionDefinition{
	{
		Code:           SectionSecurity,
		Title:          "Segurança Pública",
		TitleLocalized: map[string]string{"en": "Public Security"},
	},
	{
		Code:           SectionQuality,
		Title:          "Qualidade de Vida",
		TitleLocalized: map[string]string{"en": "Quality of Life"},
	},
	{
		Code:           SectionSocial,
		Title:          "Outros Fatores Sociais",
		TitleLocalized: map[string]string{"en": "Other Social Factors"},
	},
}

var defaultIndicatorDefinitions = []IndicatorDefinition{
	{
		Code:    "homicidios_estaduais",
		Region:  "homicidios-estaduais",
		Section: SectionSecurity,
		Kind:    KindCategoryChart,
		Source:  SourcePlaceholder,
		Title:   "Homicídios Dolosos por Estado ({ref_year} - Simulado)",
		TitleLocalized: map[string]string{
			"en": "Intentional Homicides by State ({ref_year} - Simulated)",
		},
		Notes: "*Dados simulados.* A fonte real seria a BrasilAPI (SINESP) consultada por estado.",
		Options: map[string]any{
			"chart":         "bar",
			"horizontal":    true,
			"begin_at_zero": true,
			"dataset_label": "Homicídios Dolosos Registrados ({ref_year})",
			"x_axis_label":  "Número de Ocorrências",
			"color":         "rgba(220, 53, 69, 0.7)",
			"categories": []any{
				map[string]any{"label": "SP", "min": 2000, "max": 5000},
				map[string]any{"label": "RJ", "min": 3000, "max": 7000},
				map[string]any{"label": "MG", "min": 1500, "max": 4000},
				map[string]any{"label": "BA", "min": 2500, "max": 6000},
				map[string]any{"label": "AM", "min": 400, "max": 1200},
				map[string]any{"label": "RS", "min": 1000, "max": 2500},
			},
		},
	},
	{
		Code:    "roubos_furtos_sp",
		Region:  "roubos-furtos",
		Section: SectionSecurity,
		Kind:    KindSeriesChart,
		Source:  SourcePlaceholder,
		Title:   "Tendência Roubo/Furto Veículos - SP (Simulado)",
		TitleLocalized: map[string]string{
			"en": "Vehicle Robbery/Theft Trend - SP (Simulated)",
		},
		Notes: "*Dados simulados.*",
		Options: map[string]any{
			"chart":         "line",
			"dataset_label": "Roubo/Furto de Veículos - SP (Simulado)",
			"y_axis_label":  "Número de Ocorrências",
			"x_axis_label":  "Ano",
			"color":         "rgba(255, 193, 7, 1)",
			"fill":          true,
			"date_pattern":  string(PatternYearOnly),
			"points": []any{
				map[string]any{"year": 2020, "min": 80000, "max": 85000},
				map[string]any{"year": 2021, "min": 78000, "max": 83000},
				map[string]any{"year": 2022, "min": 82000, "max": 87000},
				map[string]any{"year": 2023, "min": 85000, "max": 90000},
				map[string]any{"year": 2024, "min": 83000, "max": 88000},
			},
		},
	},
	{
		Code:    "ocorrencias_estados",
		Region:  "ocorrencias-table",
		Section: SectionSecurity,
		Kind:    KindStateTable,
		Source:  SourcePlaceholder,
		Title:   "Ocorrências por Estado ({ref_year})",
		TitleLocalized: map[string]string{
			"en": "Occurrences by State ({ref_year})",
		},
		Notes: "*Dados simulados.*",
		Options: map[string]any{
			"states": []any{"SP", "RJ", "MG"},
			"metrics": []any{
				map[string]any{"field": "homicidio_doloso", "label": "Homicídio Doloso", "min": 1000, "max": 3000},
				map[string]any{"field": "roubo_veiculo", "label": "Roubo de Veículo", "min": 10000, "max": 25000},
				map[string]any{"field": "furto_veiculo", "label": "Furto de Veículo", "min": 20000, "max": 50000},
			},
		},
	},
	{
		Code:    "idhm_regioes",
		Region:  "idh-regioes",
		Section: SectionQuality,
		Kind:    KindCategoryChart,
		Source:  SourceStatic,
		Title:   "IDHM por Grandes Regiões (2010)",
		TitleLocalized: map[string]string{
			"en": "MHDI by Region (2010)",
		},
		Notes: "Fonte: Atlas do Desenvolvimento Humano no Brasil 2013 (dados de 2010), PNUD Brasil, Ipea e FJP.",
		Options: map[string]any{
			"chart":         "bar",
			"horizontal":    true,
			"begin_at_zero": true,
			"max":           1,
			"dataset_label": "IDHM (2010)",
			"x_axis_label":  "IDHM",
			"colors": []any{
				"rgba(255, 99, 132, 0.7)",
				"rgba(54, 162, 235, 0.7)",
				"rgba(255, 206, 86, 0.7)",
				"rgba(75, 192, 192, 0.7)",
				"rgba(153, 102, 255, 0.7)",
			},
			"categories": []any{
				map[string]any{"label": "Norte", "value": 0.667},
				map[string]any{"label": "Nordeste", "value": 0.663},
				map[string]any{"label": "Sudeste", "value": 0.766},
				map[string]any{"label": "Sul", "value": 0.754},
				map[string]any{"label": "Centro-Oeste", "value": 0.757},
			},
		},
	},
	ipeaSeriesIndicator("BM_TXANalf15S", "analfabetismo", SectionQuality, "Taxa de Analfabetismo (15+ anos)", "Illiteracy Rate (15+ years)", "%", PatternYearOnly),
	ipeaSeriesIndicator("SP_EXTVIDA", "expectativa-vida", SectionQuality, "Expectativa de Vida ao Nascer", "Life Expectancy at Birth", "Anos", PatternYearOnly),
	{
		Code:    "renda_pobreza",
		Region:  "renda-pobreza-table",
		Section: SectionQuality,
		Kind:    KindLatestTable,
		Source:  SourceIPEA,
		Title:   "Renda e Pobreza (Brasil)",
		TitleLocalized: map[string]string{
			"en": "Income and Poverty (Brazil)",
		},
		Notes: "Fonte: IPEAData, PNAD Contínua anual.",
		Options: map[string]any{
			"rows": []any{
				map[string]any{"label": "Renda Média Domiciliar per Capita (R$)", "code": "PNADC12_RDPCAP"},
				map[string]any{"label": "% Pessoas Abaixo da Linha de Pobreza", "code": "PNADC12_POBREZARP"},
			},
		},
	},
	{
		Code:    "pop_faixa_etaria",
		Region:  "pop-faixa-etaria",
		Section: SectionSocial,
		Kind:    KindCategoryChart,
		Source:  SourceStatic,
		Title:   "Distribuição Etária da População (Brasil - Estimativa %)",
		TitleLocalized: map[string]string{
			"en": "Population Age Distribution (Brazil - Estimated %)",
		},
		Notes: "*Estimativa.* Projeção populacional do IBGE por grandes grupos de idade.",
		Options: map[string]any{
			"chart":         "pie",
			"legend":        string(LegendBottom),
			"dataset_label": "População por Faixa Etária (Estimativa %)",
			"colors": []any{
				"rgba(75, 192, 192, 0.7)",
				"rgba(54, 162, 235, 0.7)",
				"rgba(255, 159, 64, 0.7)",
			},
			"categories": []any{
				map[string]any{"label": "0-14 anos", "value": 21},
				map[string]any{"label": "15-64 anos", "value": 67},
				map[string]any{"label": "65+ anos", "value": 12},
			},
		},
	},
	ipeaSeriesIndicator("PNADC_TX_DESOCUP", "desocupacao", SectionSocial, "Taxa de Desocupação (PNAD Cont.)", "Unemployment Rate (PNAD Cont.)", "%", PatternMonthYear),
	{
		Code:    "saneamento",
		Region:  "saneamento",
		Section: SectionSocial,
		Kind:    KindAlignedChart,
		Source:  SourceIPEA,
		Title:   "Acesso a Água e Esgotamento Sanitário (Brasil)",
		TitleLocalized: map[string]string{
			"en": "Access to Water and Sewage (Brazil)",
		},
		Notes: "Fonte: IPEAData, SNIS.",
		Options: map[string]any{
			"chart":         "line",
			"bucket":        "year",
			"begin_at_zero": true,
			"max":           100,
			"legend":        string(LegendBottom),
			"x_axis_label":  "Ano",
			"y_axis_label":  "% da População",
			"series": []any{
				map[string]any{"code": "SNIS_AGUAATEND", "label": "% Pop. Atendida com Água", "color": "rgba(54, 162, 235, 1)", "fill": true},
				map[string]any{"code": "SNIS_ESGOTOATEND", "label": "% Pop. Atendida com Esgoto", "color": "rgba(75, 192, 192, 1)", "fill": true},
			},
		},
	},
}

func ipeaSeriesIndicator(code, region, section, title, titleEN, yLabel string, pattern DatePattern) IndicatorDefinition {
	return IndicatorDefinition{
		Code:           code,
		Region:         region,
		Section:        section,
		Kind:           KindSeriesChart,
		Source:         SourceIPEA,
		Title:          title,
		TitleLocalized: map[string]string{"en": titleEN},
		Notes:          "Fonte: IPEAData, série `" + code + "`.",
		Options: map[string]any{
			"chart":        "line",
			"y_axis_label": yLabel,
			"x_axis_label": "Ano",
			"color":        "#5e72e4",
			"fill":         true,
			"date_pattern": string(pattern),
		},
	}
}

// DefaultSectionDefinitions exposes the built-in sections.
func DefaultSectionDefinitions() []SectionDefinition {
	out := make([]SectionDefinition, len(defaultSectionDefinitions))
	copy(out, defaultSectionDefinitions)
	return out
}

// DefaultIndicatorDefinitions exposes the built-in indicators.
func DefaultIndicatorDefinitions() []IndicatorDefinition {
	out := make([]IndicatorDefinition, len(defaultIndicatorDefinitions))
	copy(out, defaultIndicatorDefinitions)
	return out
}
