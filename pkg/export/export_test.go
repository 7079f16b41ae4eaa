package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

func sampleSnapshot() dashboard.Snapshot {
	f := dashboard.Float
	return dashboard.Snapshot{
		Title:       "Painel",
		GeneratedAt: time.Date(2025, 6, 2, 18, 4, 0, 0, time.UTC),
		Charts: []dashboard.ChartSnapshot{
			{
				Indicator: "saneamento",
				RegionID:  "saneamento",
				Title:     "Acesso a Água/Esgoto",
				Spec: dashboard.ChartSpec{
					Kind:   dashboard.ChartLine,
					Labels: []string{"2018", "2019"},
					Datasets: []dashboard.Dataset{
						{Label: "Água", Points: []dashboard.ChartPoint{{Label: "2018", Value: f(80)}, {Label: "2019", Value: f(81.5)}}},
						{Label: "Esgoto", Points: []dashboard.ChartPoint{{Label: "2018"}, {Label: "2019", Value: f(55)}}},
					},
					Options: dashboard.RenderOptions{XAxisLabel: "Ano"},
				},
			},
		},
		Tables: []dashboard.TableSnapshot{
			{
				Indicator: "renda_pobreza",
				RegionID:  "renda-pobreza-table",
				Title:     "Renda e Pobreza (Brasil)",
				Columns:   []string{"Indicador", "Valor", "Ano"},
				Rows: [][]string{
					{"Renda", "1.848,57", "2023"},
					{"Pobreza", "Valor não disponível", ""},
				},
			},
		},
	}
}

func TestExportWritesSheets(t *testing.T) {
	t.Parallel()

	loc := time.FixedZone("BRT", -3*3600)
	var buf bytes.Buffer
	require.NoError(t, NewExporter(Options{Location: loc}).Export(sampleSnapshot(), &buf))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Resumo", "Acesso a Água-Esgoto", "Renda e Pobreza (Brasil)"}, f.GetSheetList())

	summary, err := f.GetRows("Resumo")
	require.NoError(t, err)
	assert.Equal(t, []string{"Painel", "Painel"}, summary[0])
	assert.Equal(t, []string{"Gerado em", "02/06/2025 15:04"}, summary[1])
	assert.Equal(t, []string{"saneamento", "Acesso a Água/Esgoto", "Acesso a Água-Esgoto"}, summary[4])
	assert.Equal(t, []string{"renda_pobreza", "Renda e Pobreza (Brasil)", "Renda e Pobreza (Brasil)"}, summary[5])

	chart, err := f.GetRows("Acesso a Água-Esgoto")
	require.NoError(t, err)
	assert.Equal(t, []string{"Ano", "Água", "Esgoto"}, chart[2])
	assert.Equal(t, []string{"2018", "80"}, chart[3])
	assert.Equal(t, []string{"2019", "81.5", "55"}, chart[4])

	table, err := f.GetRows("Renda e Pobreza (Brasil)")
	require.NoError(t, err)
	assert.Equal(t, []string{"Indicador", "Valor", "Ano"}, table[2])
	assert.Equal(t, []string{"Renda", "1.848,57", "2023"}, table[3])
	assert.Equal(t, []string{"Pobreza", "Valor não disponível"}, table[4])
}

func TestWorkbookDeduplicatesSheetNames(t *testing.T) {
	t.Parallel()

	snap := dashboard.Snapshot{
		Tables: []dashboard.TableSnapshot{
			{Indicator: "a", Title: "Tabela", Columns: []string{"x"}},
			{Indicator: "b", Title: "tabela", Columns: []string{"x"}},
			{Indicator: "c", Columns: []string{"x"}},
		},
	}
	f, err := NewExporter(Options{}).Workbook(snap)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Resumo", "Tabela", "tabela (2)", "c"}, f.GetSheetList())
}

func TestSheetName(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a-b-c-d", SheetName("a:b/c?d"))
	assert.Equal(t, "Planilha", SheetName("  "))
	long := SheetName(strings.Repeat("é", 40))
	assert.Equal(t, 31, len([]rune(long)))
}
