package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/harun/tclog/pkg/record"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

const (
	// SheetName is the worksheet holding the log rows
	SheetName = "Log"
	// TimeLayout formats the entry timestamp column (UTC)
	TimeLayout = "Mon, 02 Jan 2006 15:04:05"
	// ScreenshotLabel is the visible text of screenshot hyperlinks
	ScreenshotLabel = "Screenshot"
)

// Headers are the column titles of row 1
var Headers = []string{"Time", "Type", "Case name", "Message", "Screenshot"}

var columnWidths = []float64{21, 8, 50, 50, 14}

// FillColors maps severities to row backgrounds; INFO rows have no fill
var FillColors = map[record.Severity]string{
	record.SeveritySuccess: "D4FFD4",
	record.SeverityWarning: "FFF8D4",
	record.SeverityError:   "FFD4D4",
}

// Writer renders log entries into an xlsx workbook.
// It keeps no state between calls.
type Writer struct {
	logger zerolog.Logger
}

// NewWriter creates a spreadsheet writer
func NewWriter(logger zerolog.Logger) *Writer {
	return &Writer{
		logger: logger.With().Str("component", "spreadsheet-writer").Logger(),
	}
}

// Write renders entries into the document at path, replacing any previous
// version. Screenshot links are stored relative to the document directory.
//
// All failures are *record.IOError: Op "render" when the workbook cannot be
// built (an invalid entry, or excelize limits such as the per-sheet hyperlink
// cap) and Op "save" when it cannot be written.
func (w *Writer) Write(path string, entries []record.Entry) error {
	f, err := render(filepath.Dir(path), entries)
	if err != nil {
		return &record.IOError{Op: "render", Path: path, Err: err}
	}
	defer f.Close()

	// write next to the target and rename so a failed save never leaves a
	// truncated document behind
	tmp, err := os.CreateTemp(filepath.Dir(path), ".tclog-*.xlsx")
	if err != nil {
		return &record.IOError{Op: "save", Path: path, Err: err}
	}
	tmpName := tmp.Name()

	if _, err := f.WriteTo(tmp); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return &record.IOError{Op: "save", Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &record.IOError{Op: "save", Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &record.IOError{Op: "save", Path: path, Err: err}
	}

	w.logger.Debug().
		Str("path", path).
		Int("rows", len(entries)).
		Msg("Spreadsheet written")

	return nil
}

func render(baseDir string, entries []record.Entry) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		f.Close()
		return nil, err
	}

	st, err := newStyles(f)
	if err != nil {
		f.Close()
		return nil, err
	}

	if err := writeHeader(f, st.header); err != nil {
		f.Close()
		return nil, err
	}

	for i, entry := range entries {
		if err := entry.Validate(); err != nil {
			f.Close()
			return nil, fmt.Errorf("row %d: %w", i+2, err)
		}
		if err := writeRow(f, i+2, baseDir, entry, st); err != nil {
			f.Close()
			return nil, fmt.Errorf("row %d (%s): %w", i+2, entry.CaseName, err)
		}
	}

	if len(entries) > 0 {
		lastCell, err := excelize.CoordinatesToCellName(len(Headers), len(entries)+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.AutoFilter(SheetName, "A1:"+lastCell, nil); err != nil {
			f.Close()
			return nil, err
		}
	}

	return f, nil
}

func writeHeader(f *excelize.File, style int) error {
	for i, title := range Headers {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(SheetName, col, col, columnWidths[i]); err != nil {
			return err
		}
		if err := f.SetCellValue(SheetName, col+"1", title); err != nil {
			return err
		}
	}

	if err := f.SetCellStyle(SheetName, "A1", "E1", style); err != nil {
		return err
	}

	return f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	})
}

func writeRow(f *excelize.File, row int, baseDir string, entry record.Entry, st *styles) error {
	values := []string{
		entry.Timestamp.UTC().Format(TimeLayout),
		entry.Severity.String(),
		cellText(entry.CaseName),
		cellText(entry.Message),
		"",
	}

	for i, v := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellStr(SheetName, cell, v); err != nil {
			return err
		}
	}

	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(Headers), row)
	if err := f.SetCellStyle(SheetName, first, last, st.row[entry.Severity]); err != nil {
		return err
	}

	if !entry.HasScreenshot() {
		return nil
	}

	linkCell, _ := excelize.CoordinatesToCellName(len(Headers), row)
	if err := f.SetCellStr(SheetName, linkCell, ScreenshotLabel); err != nil {
		return err
	}
	if err := f.SetCellHyperLink(SheetName, linkCell, LinkTarget(baseDir, entry.ScreenshotPath), "External"); err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, linkCell, linkCell, st.link[entry.Severity])
}

// LinkTarget returns the screenshot reference stored in the document:
// relative to the document directory when possible, absolute otherwise.
func LinkTarget(baseDir, screenshotPath string) string {
	rel, err := filepath.Rel(baseDir, screenshotPath)
	if err != nil || !filepath.IsLocal(rel) {
		return filepath.ToSlash(screenshotPath)
	}
	return filepath.ToSlash(rel)
}

// cellText fits s into one cell. XML cannot carry invalid UTF-8 or control
// characters other than tab, newline and carriage return; those become
// U+FFFD so the stored text is what Read returns.
func cellText(s string) string {
	s = strings.ToValidUTF8(s, "\uFFFD")
	s = strings.Map(func(r rune) rune {
		if r < 0x20 && r != '\t' && r != '\n' && r != '\r' {
			return '\uFFFD'
		}
		return r
	}, s)

	if utf8.RuneCountInString(s) <= excelize.TotalCellChars {
		return s
	}
	runes := []rune(s)
	return string(runes[:excelize.TotalCellChars])
}
