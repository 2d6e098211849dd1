package cli

import (
	"fmt"
	"os"

	"github.com/harun/tclog/pkg/record"
	"github.com/harun/tclog/pkg/spreadsheet"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

var inspectCheckLinks bool

var severityColors = map[record.Severity]text.Colors{
	record.SeveritySuccess: {text.FgGreen},
	record.SeverityWarning: {text.FgYellow},
	record.SeverityError:   {text.FgRed},
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <result.xlsx>",
	Short: "Print a result document as a table",
	Long: `Print the rows of a result document as a table.
Rows with an unknown Type fail the command. With --check-links, rows whose
screenshot file is missing are reported and fail it too.`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().BoolVar(&inspectCheckLinks, "check-links", false, "fail when a linked screenshot is missing")

	rootCmd.AddCommand(inspectCmd)
}

func runInspect(cmd *cobra.Command, args []string) error {
	path := args[0]

	rows, err := spreadsheet.Read(path)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(rows) == 0 {
		fmt.Fprintln(out, "No entries")
		return nil
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Time", "Type", "Case name", "Message", "Screenshot"})

	var missing []string
	unknown := 0
	for _, row := range rows {
		kind := row.Type
		if sev, err := row.Severity(); err != nil {
			kind += " (unknown)"
			unknown++
		} else {
			kind = severityColors[sev].Sprint(sev.String())
		}

		shot := ""
		if row.Link != "" {
			target := spreadsheet.ResolveLink(path, row.Link)
			shot = row.Link
			if _, err := os.Stat(target); err != nil {
				shot += " (missing)"
				missing = append(missing, target)
			}
		}

		t.AppendRow(table.Row{
			row.Number,
			row.Time,
			kind,
			row.CaseName,
			row.Message,
			shot,
		})
	}
	t.AppendFooter(table.Row{"", "", "", "", "Total", len(rows)})

	fmt.Fprintln(out, t.Render())

	if unknown > 0 {
		return fmt.Errorf("%d row(s) with unknown type", unknown)
	}
	if inspectCheckLinks && len(missing) > 0 {
		return fmt.Errorf("%d linked screenshot(s) missing", len(missing))
	}

	return nil
}
