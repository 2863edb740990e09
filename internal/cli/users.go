package cli

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/spec-kit/repair-service/internal/domain"
	"github.com/spec-kit/repair-service/internal/service"
)

func newUsersCommand(run runner) *cobra.Command {
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage staff accounts",
		RunE:  requireSubcommand,
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "Show all users",
		Args:  cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, env *Env, _ []string) error {
			all, err := env.Admin.ListUsers(ctx)
			if err != nil {
				return err
			}
			if len(all) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No users. Run 'vrsctl seed' to create the administrator.")
				return nil
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tROLE\tBADGE")
			for _, u := range all {
				badgeID := "-"
				if u.NfcID != nil {
					badgeID = *u.NfcID
				}
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", u.ID, u.Name, u.Role, badgeID)
			}
			return w.Flush()
		}),
	}

	var name, role, pin string
	add := &cobra.Command{
		Use:   "add",
		Short: "Add a user",
		Long: `Add a staff account with no badge linked.

Examples:
  vrsctl users add --name Bob --pin 4321
  vrsctl users add --name Ann --role admin --pin 9876`,
		Args: cobra.NoArgs,
		RunE: run(func(ctx context.Context, cmd *cobra.Command, env *Env, _ []string) error {
			n, r, p, err := service.ValidateNewUser(name, domain.Role(role), pin)
			if err != nil {
				return err
			}
			user, err := env.Admin.AddUser(ctx, n, r, p)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s (%s) %s\n", user.Name, user.Role, user.ID)
			return nil
		}),
	}
	add.Flags().StringVar(&name, "name", "", "Display name")
	add.Flags().StringVar(&role, "role", string(domain.RoleTech), "Role: admin or tech")
	add.Flags().StringVar(&pin, "pin", "", "Login PIN")

	remove := &cobra.Command{
		Use:   "remove <id>",
		Short: "Remove a user",
		Args:  cobra.ExactArgs(1),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, env *Env, args []string) error {
			if err := env.Admin.RemoveUser(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		}),
	}

	link := &cobra.Command{
		Use:   "link <id> <badge>",
		Short: "Link a provisioned badge id to a user",
		Args:  cobra.ExactArgs(2),
		RunE: run(func(ctx context.Context, cmd *cobra.Command, env *Env, args []string) error {
			if err := env.Admin.LinkBadge(ctx, args[0], args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Linked badge %s to %s\n", args[1], args[0])
			return nil
		}),
	}

	users.AddCommand(list, add, remove, link)
	return users
}
