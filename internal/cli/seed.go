package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/spec-kit/repair-service/internal/repository"
)

func newSeedCommand(run runner) *cobra.Command {
	var pin string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Initialize empty collections",
		Long: `Create the default administrator when no user collection exists and an
empty ticket collection when none exists. Existing data is never touched.`,
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, env *Env, _ []string) error {
			if pin == "" {
				pin = env.Config.Auth.SeedAdminPIN
			}
			res, err := repository.SeedIfEmpty(ctx, env.Backend, pin)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if !res.Seeded() {
				fmt.Fprintln(out, "Store already initialized.")
				return nil
			}
			if res.Admin != nil {
				fmt.Fprintf(out, "Created administrator %s (PIN %s)\n", res.Admin.ID, res.Admin.PIN)
			}
			if res.Tickets {
				fmt.Fprintln(out, "Created empty ticket collection")
			}
			return nil
		}),
	}
	cmd.Flags().StringVar(&pin, "pin", "", "PIN for the default administrator (default SEED_ADMIN_PIN or 1234)")
	return cmd
}
