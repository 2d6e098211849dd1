package spreadsheet

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/harun/tclog/pkg/record"
	"github.com/xuri/excelize/v2"
)

// Row is one data row read back from a log document
type Row struct {
	Number     int    `json:"number"`
	Time       string `json:"time"`
	Type       string `json:"type"`
	CaseName   string `json:"caseName"`
	Message    string `json:"message"`
	Screenshot string `json:"screenshot"`
	Link       string `json:"link,omitempty"`
	Fill       string `json:"fill,omitempty"`
}

// Severity returns the parsed Type column
func (r Row) Severity() (record.Severity, error) {
	return record.ParseSeverity(r.Type)
}

// Read loads every data row of the document at path
func Read(path string) ([]Row, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &record.IOError{Op: "open", Path: path, Err: err}
	}
	defer f.Close()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", SheetName, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("sheet %q has no header row", SheetName)
	}

	result := make([]Row, 0, len(rows)-1)
	for i, cells := range rows[1:] {
		number := i + 2
		for len(cells) < len(Headers) {
			cells = append(cells, "")
		}

		row := Row{
			Number:     number,
			Time:       cells[0],
			Type:       cells[1],
			CaseName:   cells[2],
			Message:    cells[3],
			Screenshot: cells[4],
		}

		linkCell, _ := excelize.CoordinatesToCellName(len(Headers), number)
		if ok, target, err := f.GetCellHyperLink(SheetName, linkCell); err == nil && ok {
			row.Link = target
		}

		row.Fill = cellFill(f, fmt.Sprintf("A%d", number))
		result = append(result, row)
	}

	return result, nil
}

// ResolveLink turns a stored screenshot link into a filesystem path
func ResolveLink(documentPath, link string) string {
	if link == "" {
		return ""
	}
	p := filepath.FromSlash(link)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(filepath.Dir(documentPath), p)
}

func cellFill(f *excelize.File, cell string) string {
	styleID, err := f.GetCellStyle(SheetName, cell)
	if err != nil || styleID == 0 {
		return ""
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil || len(style.Fill.Color) == 0 {
		return ""
	}

	color := strings.ToUpper(strings.TrimPrefix(style.Fill.Color[0], "#"))
	// ARGB -> RGB
	if len(color) == 8 {
		color = color[2:]
	}
	return color
}
