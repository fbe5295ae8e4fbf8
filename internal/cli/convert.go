package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tuannm99/elemsql/internal/format"
)

func newConvertCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert a database file between .dbexp and .sql",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, out := args[0], args[1]

			db, err := format.ImportFile(in)
			if err != nil {
				return err
			}
			f, err := format.ForPath(out)
			if err != nil {
				return err
			}
			if err := format.Export(db, f, out); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s -> %s (%d tables)\n", in, out, len(db.TableNames()))
			return nil
		},
	}
}
