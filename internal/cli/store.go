package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"github.com/agripreserve/harvestkit/localstore"
	"github.com/agripreserve/harvestkit/validate"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// Entry is the json-format result of get.
type Entry struct {
	Key   string      `json:"key"`
	Value interface{} `json:"value"`
	Found bool        `json:"found"`
}

func checkKey(key string) error {
	if validate.IsEmpty(key) {
		return NewExitError(ExitCommandError, "key must not be blank")
	}
	return nil
}

func parseJSONArg(name, s string) (interface{}, error) {
	var v interface{}
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return nil, WrapExitError(ExitCommandError, name+" is not valid JSON", err)
	}
	return v, nil
}

func printJSON(w io.Writer, v interface{}) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

func newGetCommand(opts *RootOptions) *cobra.Command {
	var def string
	cmd := &cobra.Command{
		Use:   "get KEY",
		Short: "Print the JSON value stored under KEY",
		Long: `Print the JSON value stored under KEY.

If KEY is unset or its value cannot be decoded, the --default value is
printed instead. Without --default that is an error.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			key := args[0]
			if err := checkKey(key); err != nil {
				return f.Failure(err)
			}
			hasDefault := cmd.Flags().Changed("default")
			var fallback interface{}
			if hasDefault {
				v, err := parseJSONArg("--default", def)
				if err != nil {
					return f.Failure(err)
				}
				fallback = v
			}

			s, done, err := opts.openStore(cmd.Context())
			if err != nil {
				return f.Failure(err)
			}
			defer done()

			v, found, err := localstore.Lookup[interface{}](cmd.Context(), s, key)
			if err != nil {
				opts.log().Warn("unreadable entry", zap.String("key", key), zap.Error(err))
			}
			if !found {
				if !hasDefault {
					return f.Failure(NewExitError(ExitFailure, fmt.Sprintf("%s: not set", key)))
				}
				v = fallback
			}
			return f.Success(Entry{Key: key, Value: v, Found: found}, func(w io.Writer) error {
				return printJSON(w, v)
			})
		},
	}
	cmd.Flags().StringVar(&def, "default", "", "JSON value to print when KEY is unset")
	return cmd
}

func newSetCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY JSON",
		Short: "Store a JSON value under KEY",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			key := args[0]
			if err := checkKey(key); err != nil {
				return f.Failure(err)
			}
			v, err := parseJSONArg("value", args[1])
			if err != nil {
				return f.Failure(err)
			}
			s, done, err := opts.openStore(cmd.Context())
			if err != nil {
				return f.Failure(err)
			}
			defer done()
			if err := s.Put(cmd.Context(), key, v); err != nil {
				return f.Failure(WrapExitError(ExitCommandError, "set", err))
			}
			opts.log().Debug("stored", zap.String("key", key))
			return f.Success(Entry{Key: key, Value: v, Found: true}, func(io.Writer) error { return nil })
		},
	}
}

func newRemoveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "rm KEY",
		Aliases: []string{"remove"},
		Short:   "Remove KEY; removing an unset key succeeds",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			s, done, err := opts.openStore(cmd.Context())
			if err != nil {
				return f.Failure(err)
			}
			defer done()
			s.Remove(cmd.Context(), args[0])
			return f.Success(Entry{Key: args[0]}, func(io.Writer) error { return nil })
		},
	}
}

func newKeysCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "List keys in sorted order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			s, done, err := opts.openStore(cmd.Context())
			if err != nil {
				return f.Failure(err)
			}
			defer done()
			keys := s.Keys(cmd.Context())
			sort.Strings(keys)
			return f.Success(keys, func(w io.Writer) error {
				for _, k := range keys {
					if _, err := fmt.Fprintln(w, k); err != nil {
						return err
					}
				}
				return nil
			})
		},
	}
}

func newClearCommand(opts *RootOptions) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove every key in the namespace",
		Long: `Remove every key under --prefix. Without --prefix this empties the whole
store, including entries written by other programs sharing it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := opts.formatter(cmd)
			if !yes {
				return f.Failure(NewExitError(ExitCommandError, "refusing to clear without --yes"))
			}
			s, done, err := opts.openStore(cmd.Context())
			if err != nil {
				return f.Failure(err)
			}
			defer done()
			s.Clear(cmd.Context())
			return f.Success(struct{}{}, func(io.Writer) error { return nil })
		},
	}
	cmd.Flags().BoolVar(&yes, "yes", false, "confirm clearing")
	return cmd
}
