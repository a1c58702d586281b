package cli

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/forPelevin/vidscope/internal/domain/phrases"
)

func newStylesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "styles",
		Short: "List creative themes, styles and scene types",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := phrases.Describe()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Themes")
			fmt.Fprintln(out, renderEntries(c.Themes))
			fmt.Fprintln(out, "Styles")
			fmt.Fprintln(out, renderEntries(c.Styles))
			fmt.Fprintln(out, "Scene types")
			fmt.Fprintln(out, renderEntries(c.Scenes))
			return nil
		},
	}
}

func renderEntries(entries []phrases.Entry) string {
	rows := make([][]string, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []string{e.Name, e.Description})
	}
	return renderTable([]string{"Name", "Description"}, rows)
}

func renderTable(headers []string, rows [][]string) string {
	if len(headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i := range headers {
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return strings.TrimRight(tw.Render(), "\n")
}
