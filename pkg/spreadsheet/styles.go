package spreadsheet

import (
	"github.com/harun/tclog/pkg/record"
	"github.com/xuri/excelize/v2"
)

const linkColor = "0563C1"

type styles struct {
	header int
	row    map[record.Severity]int
	link   map[record.Severity]int
}

func thinBorder() []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: "000000", Style: 1},
		{Type: "top", Color: "000000", Style: 1},
		{Type: "right", Color: "000000", Style: 1},
		{Type: "bottom", Color: "000000", Style: 1},
	}
}

func severityFill(severity record.Severity) excelize.Fill {
	color, ok := FillColors[severity]
	if !ok {
		return excelize.Fill{}
	}
	return excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{color}}
}

// newStyles registers one row style and one hyperlink style per severity
func newStyles(f *excelize.File) (*styles, error) {
	header, err := f.NewStyle(&excelize.Style{
		Border: thinBorder(),
		Font:   &excelize.Font{Bold: true},
	})
	if err != nil {
		return nil, err
	}

	st := &styles{
		header: header,
		row:    make(map[record.Severity]int, len(record.Severities)),
		link:   make(map[record.Severity]int, len(record.Severities)),
	}

	for _, severity := range record.Severities {
		rowStyle, err := f.NewStyle(&excelize.Style{
			Border:    thinBorder(),
			Fill:      severityFill(severity),
			Alignment: &excelize.Alignment{Vertical: "top", WrapText: true},
		})
		if err != nil {
			return nil, err
		}

		linkStyle, err := f.NewStyle(&excelize.Style{
			Border:    thinBorder(),
			Fill:      severityFill(severity),
			Font:      &excelize.Font{Color: linkColor, Underline: "single"},
			Alignment: &excelize.Alignment{Vertical: "top"},
		})
		if err != nil {
			return nil, err
		}

		st.row[severity] = rowStyle
		st.link[severity] = linkStyle
	}

	return st, nil
}
