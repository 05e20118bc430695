package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"go.trai.ch/zerr"

	"github.com/gogpu/lisa/checkpoint"
)

func newHistoryCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "history <run-id>",
		Short: "List the checkpoints stored for a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			store := checkpoint.NewSQLiteStore(dbPath)
			if err := store.Init(ctx); err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			recs, err := store.History(ctx, args[0])
			if err != nil {
				return err
			}
			if len(recs) == 0 {
				return zerr.With(zerr.Wrap(checkpoint.ErrNotFound, "history"), "run_id", args[0])
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "GENERATION\tFITNESS\tSHAPES\tMUTATIONS\tSAVED")
			for _, r := range recs {
				fmt.Fprintln(tw, printer.Sprintf("%d\t%.1f\t%d\t%d\t%s",
					r.Generation, r.Fitness, r.Individual.Shapes.Len(), r.Individual.Mutations,
					r.SavedAt.Local().Format(time.DateTime)))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "lisa.db", "SQLite checkpoint database")
	return cmd
}
