package cmd

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/gaurav-prasanna/pagescrub/core"
	"github.com/gaurav-prasanna/pagescrub/core/focus"
	"github.com/gaurav-prasanna/pagescrub/core/output"
	"github.com/gaurav-prasanna/pagescrub/internal/logger"
)

func newListCmd(v *viper.Viper) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the pages in the export as CSV",
		Long: `List prints title,id,status,date for the pages in the export. Pages named
in the pages list come first, in list order, followed by every other page.

With --details, prefix matching and case-insensitive matching are on by
default and two columns are added: the match label (exact, prefix or none)
and the list entry that matched.

Examples:
  pagescrub list
  pagescrub list --only --pages docs.list
  pagescrub list --details --output-dir ./out`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, v)
		},
	}

	flags := cmd.Flags()
	addSourceFlags(flags)
	flags.Bool("only", false, "only list pages named in the pages list")
	flags.Bool("details", false, "add match and focus columns")
	flags.String("output-dir", "", "write pages.csv to this directory instead of stdout")

	cmd.MarkFlagsMutuallyExclusive("only", "details")
	bindFlags(v, "list", flags)
	return cmd
}

// listRow is one CSV record.
type listRow struct {
	row   core.Row
	match string
	focus string
}

func runList(cmd *cobra.Command, v *viper.Viper) error {
	only := v.GetBool("list.only")
	details := v.GetBool("list.details")

	src := source{v: v, section: "list"}
	dumpOpts, err := src.dumpOptions(true)
	if err != nil {
		return err
	}
	matchOpts := src.matchOptions(details, !details)
	list, parsed, err := src.load(dumpOpts, matchOpts)
	if err != nil {
		return err
	}
	if only && len(list.Entries) == 0 {
		return errors.New("pages list must include at least one page name")
	}

	outputDir := v.GetString("list.output-dir")
	if outputDir != "" {
		if err := output.Prepare(outputDir, "output"); err != nil {
			return err
		}
	}

	records := listRows(list, parsed.Rows, matchOpts, only, details)
	data, err := encodeList(records, details)
	if err != nil {
		return err
	}

	if outputDir == "" {
		_, err := cmd.OutOrStdout().Write(data)
		return err
	}
	path := filepath.Join(outputDir, "pages.csv")
	if err := output.WriteFile(path, data, "output"); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s (%d pages)\n", path, len(records))
	return nil
}

// listRows orders the listing: matched list entries first, then every row
// not already listed unless only is set.
func listRows(list focus.List, rows []core.Row, opts focus.Options, only, details bool) []listRow {
	var out []listRow
	used := make(map[string]bool)
	for _, m := range focus.Resolve(list.Entries, rows, opts) {
		if m.Row == nil {
			logger.Warn("Missing page: " + m.Entry.Name)
			if details {
				out = append(out, listRow{match: focus.LabelNone, focus: m.Entry.Name})
			}
			continue
		}
		used[m.Row.ID] = true
		out = append(out, listRow{row: *m.Row, match: m.Label, focus: m.Entry.Name})
	}
	if only {
		return out
	}
	for _, row := range rows {
		if used[row.ID] {
			continue
		}
		r := listRow{row: row}
		if details {
			r.match, r.focus = focus.Label(row, list.Entries, opts)
		}
		out = append(out, r)
	}
	return out
}

func encodeList(records []listRow, details bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	for _, r := range records {
		rec := []string{r.row.Title, r.row.ID, r.row.Status, r.row.Date}
		if details {
			rec = append(rec, r.match, r.focus)
		}
		if err := w.Write(rec); err != nil {
			return nil, fmt.Errorf("writing CSV: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("writing CSV: %w", err)
	}
	return buf.Bytes(), nil
}
