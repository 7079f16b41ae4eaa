// Package export writes dashboard snapshots as XLSX workbooks.
package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	dashboard "github.com/goliatone/go-statboard/components/dashboard"
)

const (
	summarySheet  = "Resumo"
	maxSheetName  = 31
	defaultLabelH = "Rótulo"
)

// Options configures the workbook layout.
type Options struct {
	// Location formats the generation time; UTC when nil.
	Location *time.Location
}

// Exporter builds one sheet per chart and per table plus a summary sheet.
type Exporter struct {
	loc *time.Location
}

// NewExporter builds an exporter.
func NewExporter(opts Options) *Exporter {
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &Exporter{loc: opts.Location}
}

// Export writes snap as a workbook into w.
func (e *Exporter) Export(snap dashboard.Snapshot, w io.Writer) error {
	f, err := e.Workbook(snap)
	if err != nil {
		return err
	}
	defer f.Close()
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

// Workbook builds the workbook in memory. Callers own the returned file.
func (e *Exporter) Workbook(snap dashboard.Snapshot) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("export: rename summary sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("export: header style: %w", err)
	}
	b := &builder{file: f, bold: bold, used: map[string]struct{}{strings.ToLower(summarySheet): {}}}

	summary := [][]any{
		{"Painel", snap.Title},
		{"Gerado em", snap.GeneratedAt.In(e.loc).Format("02/01/2006 15:04")},
		{},
		{"Indicador", "Título", "Planilha"},
	}
	for _, chart := range snap.Charts {
		name, err := b.chartSheet(chart)
		if err != nil {
			f.Close()
			return nil, err
		}
		summary = append(summary, []any{chart.Indicator, chart.Title, name})
	}
	for _, table := range snap.Tables {
		name, err := b.tableSheet(table)
		if err != nil {
			f.Close()
			return nil, err
		}
		summary = append(summary, []any{table.Indicator, table.Title, name})
	}
	if err := b.writeRows(summarySheet, summary, 4); err != nil {
		f.Close()
		return nil, err
	}
	return f, nil
}

type builder struct {
	file *excelize.File
	bold int
	used map[string]struct{}
}

func (b *builder) chartSheet(chart dashboard.ChartSnapshot) (string, error) {
	name, err := b.newSheet(chart.Title, chart.Indicator)
	if err != nil {
		return "", err
	}
	spec := chart.Spec
	labels := spec.AxisLabels()
	header := []any{firstNonEmpty(spec.Options.XAxisLabel, defaultLabelH)}
	for i, ds := range spec.Datasets {
		header = append(header, firstNonEmpty(ds.Label, "Série "+strconv.Itoa(i+1)))
	}
	rows := [][]any{{chart.Title}, {}, header}
	for i, label := range labels {
		row := []any{label}
		for _, ds := range spec.Datasets {
			if i < len(ds.Points) && ds.Points[i].Value != nil {
				row = append(row, *ds.Points[i].Value)
			} else {
				row = append(row, nil)
			}
		}
		rows = append(rows, row)
	}
	return name, b.writeRows(name, rows, 3)
}

func (b *builder) tableSheet(table dashboard.TableSnapshot) (string, error) {
	name, err := b.newSheet(table.Title, table.Indicator)
	if err != nil {
		return "", err
	}
	header := make([]any, len(table.Columns))
	for i, col := range table.Columns {
		header[i] = col
	}
	rows := [][]any{{table.Title}, {}, header}
	for _, cells := range table.Rows {
		row := make([]any, len(cells))
		for i, cell := range cells {
			row[i] = cell
		}
		rows = append(rows, row)
	}
	return name, b.writeRows(name, rows, 3)
}

func (b *builder) newSheet(title, fallback string) (string, error) {
	name := b.uniqueName(SheetName(firstNonEmpty(title, fallback)))
	if _, err := b.file.NewSheet(name); err != nil {
		return "", fmt.Errorf("export: create sheet %q: %w", name, err)
	}
	return name, nil
}

func (b *builder) uniqueName(base string) string {
	name := base
	for i := 2; ; i++ {
		if _, taken := b.used[strings.ToLower(name)]; !taken {
			b.used[strings.ToLower(name)] = struct{}{}
			return name
		}
		suffix := " (" + strconv.Itoa(i) + ")"
		name = truncateRunes(base, maxSheetName-len(suffix)) + suffix
	}
}

// writeRows writes rows from A1 and bolds the header row (1-based).
func (b *builder) writeRows(sheet string, rows [][]any, header int) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("export: cell for row %d: %w", i+1, err)
		}
		if err := b.file.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("export: write %s!%s: %w", sheet, cell, err)
		}
	}
	for _, r := range []int{1, header} {
		if err := b.file.SetRowStyle(sheet, r, r, b.bold); err != nil {
			return fmt.Errorf("export: style %s row %d: %w", sheet, r, err)
		}
	}
	return nil
}

// SheetName makes title usable as a worksheet name: forbidden characters
// are replaced and the result is cut to Excel's 31 character limit.
func SheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	name = strings.Trim(name, "'")
	if name == "" {
		name = "Planilha"
	}
	return truncateRunes(name, maxSheetName)
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return strings.TrimSpace(string(runes[:n]))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
