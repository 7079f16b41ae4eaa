package dashboard

// Table is a small, pre-formatted grid rendered into a table region.
type Table struct {
	Columns []string   `json:"columns"`
	Rows    []TableRow `json:"rows"`
}

// TableRow is one line of cells.
type TableRow struct {
	Cells []TableCell `json:"cells"`
}

// TableCell holds display text. Span > 1 merges cells to the right and a
// Notice replaces Text with a localized message.
type TableCell struct {
	Text   string  `json:"text,omitempty"`
	Span   int     `json:"span,omitempty"`
	Notice *Notice `json:"notice,omitempty"`
}

// TextCell is a plain cell.
func TextCell(text string) TableCell {
	return TableCell{Text: text}
}

// UnavailableCell spans span columns and shows key.
func UnavailableCell(span int, key MessageKey, args ...any) TableCell {
	return TableCell{Span: span, Notice: &Notice{Key: key, Args: args}}
}
