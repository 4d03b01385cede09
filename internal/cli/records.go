package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/agripreserve/harvestkit/format"
	"github.com/agripreserve/harvestkit/transform"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// readRecords decodes a JSON array of objects from path, or from stdin
// when path is "-".
func readRecords(cmd *cobra.Command, path string) ([]transform.Record, error) {
	var r io.Reader
	if path == "-" {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "read records", err)
		}
		defer f.Close()
		r = f
	}
	var records []transform.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, WrapExitError(ExitCommandError, path+": want a JSON array of objects", err)
	}
	return records, nil
}

func renderRecords(records []transform.Record) func(io.Writer) error {
	return func(w io.Writer) error {
		for _, r := range records {
			if err := printJSON(w, r); err != nil {
				return err
			}
		}
		return nil
	}
}

func requireFlag(cmd *cobra.Command, name string) {
	if err := cmd.MarkFlagRequired(name); err != nil {
		panic(err)
	}
}

func newGroupCommand(opts *RootOptions) *cobra.Command {
	var by string
	cmd := &cobra.Command{
		Use:   "group FILE",
		Short: "Group records by a field, in order of first appearance",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			records, err := readRecords(cmd, args[0])
			if err != nil {
				return f.Failure(err)
			}
			groups := transform.GroupBy(records, transform.Key(by))
			opts.log().Debug("grouped", zap.Int("records", len(records)), zap.Int("groups", groups.Len()))
			return f.Success(groups, func(w io.Writer) error {
				var err error
				groups.Each(func(key string, bucket []transform.Record) bool {
					if _, err = fmt.Fprintf(w, "%s (%d)\n", key, len(bucket)); err != nil {
						return false
					}
					for _, r := range bucket {
						if _, err = fmt.Fprint(w, "  "); err != nil {
							return false
						}
						if err = printJSON(w, r); err != nil {
							return false
						}
					}
					return true
				})
				return err
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "field to group by")
	requireFlag(cmd, "by")
	return cmd
}

func newSortCommand(opts *RootOptions) *cobra.Command {
	var by string
	var desc bool
	cmd := &cobra.Command{
		Use:   "sort FILE",
		Short: "Stable-sort records by a field",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			records, err := readRecords(cmd, args[0])
			if err != nil {
				return f.Failure(err)
			}
			dir := transform.Ascending
			if desc {
				dir = transform.Descending
			}
			sorted := transform.SortBy(records, transform.Key(by), dir)
			return f.Success(sorted, renderRecords(sorted))
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "field to sort by")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort in descending order")
	requireFlag(cmd, "by")
	return cmd
}

func newFilterCommand(opts *RootOptions) *cobra.Command {
	var by, value string
	cmd := &cobra.Command{
		Use:   "filter FILE",
		Short: "Keep records whose field equals a JSON value",
		Long: `Keep records whose field equals the --value JSON exactly. There is no type
coercion: --value 2023 does not match "2023".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			want, err := parseJSONArg("--value", value)
			if err != nil {
				return f.Failure(err)
			}
			records, err := readRecords(cmd, args[0])
			if err != nil {
				return f.Failure(err)
			}
			kept := transform.FilterBy(records, transform.Key(by), want)
			return f.Success(kept, renderRecords(kept))
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "field to compare")
	cmd.Flags().StringVar(&value, "value", "", "JSON value to match")
	requireFlag(cmd, "by")
	requireFlag(cmd, "value")
	return cmd
}

func newSearchCommand(opts *RootOptions) *cobra.Command {
	var in []string
	var term string
	cmd := &cobra.Command{
		Use:   "search FILE",
		Short: "Keep records where any of the fields contains the term, ignoring case",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			records, err := readRecords(cmd, args[0])
			if err != nil {
				return f.Failure(err)
			}
			fields := make([]transform.Field[transform.Record], len(in))
			for i, name := range in {
				fields[i] = transform.Key(name)
			}
			found := transform.SearchBy(records, fields, term)
			return f.Success(found, renderRecords(found))
		},
	}
	cmd.Flags().StringSliceVar(&in, "in", nil, "comma-separated fields to search")
	cmd.Flags().StringVar(&term, "term", "", "text to look for")
	requireFlag(cmd, "in")
	return cmd
}

func newSummarizeCommand(opts *RootOptions) *cobra.Command {
	var by string
	var decimals int
	cmd := &cobra.Command{
		Use:   "summarize FILE",
		Short: "Count, sum, mean, min and max of a numeric field",
		Long: `Summarize a numeric field. Records where the field is missing or not a
number count as 0; how many did is reported as "coerced".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			records, err := readRecords(cmd, args[0])
			if err != nil {
				return f.Failure(err)
			}
			sum := transform.Summarize(records, transform.Key(by))
			if sum.Coerced > 0 {
				opts.log().Info("non-numeric values counted as 0",
					zap.String("field", by), zap.Int("coerced", sum.Coerced))
			}
			return f.Success(sum, func(w io.Writer) error {
				num := func(v float64) string { return format.Currency(v, "", decimals) }
				_, err := fmt.Fprintf(w, "count    %d\nsum      %s\nmean     %s\nmin      %s\nmax      %s\ncoerced  %d\n",
					sum.Count, num(sum.Sum), num(sum.Mean), num(sum.Min), num(sum.Max), sum.Coerced)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&by, "by", "", "numeric field to summarize")
	cmd.Flags().IntVar(&decimals, "decimals", 2, "decimal places in text output")
	requireFlag(cmd, "by")
	return cmd
}
