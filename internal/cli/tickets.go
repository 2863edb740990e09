package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

func newTicketsCommand(run runner) *cobra.Command {
	tickets := &cobra.Command{
		Use:   "tickets",
		Short: "Inspect repair tickets",
		RunE:  requireSubcommand,
	}

	var query string
	list := &cobra.Command{
		Use:   "list",
		Short: "List tickets, newest first",
		Long: `List repair tickets. --q filters by VIN or customer name, ignoring case.

Examples:
  vrsctl tickets list
  vrsctl tickets list --q HGCM`,
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, env *Env, _ []string) error {
			all, err := env.Tickets.Search(ctx, query)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No tickets.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tCREATED\tSTATUS\tVIN\tCUSTOMER")
			for _, t := range all {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.CreatedAt.Local().Format(time.DateTime), t.Status, t.VIN, t.Customer)
			}
			return w.Flush()
		}),
	}
	list.Flags().StringVar(&query, "q", "", "Search text")

	tickets.AddCommand(list)
	return tickets
}
