package cli

import (
	"github.com/spf13/cobra"

	"github.com/wrk-dev/wrk/internal/api"
	"github.com/wrk-dev/wrk/internal/models"
	"github.com/wrk-dev/wrk/internal/views"
)

func (a *app) usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "List and administer users",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List every user (dashboard view)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := views.NewDashboard(a.client)
			if err := d.Load(cmd.Context()); err != nil {
				return viewError(d, err)
			}
			printFields(cmd.OutOrStdout(), "Signed in as", d.User.Name+" ("+d.User.Role+")")
			printUsers(cmd, d.Users)
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <user-id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.Users.GetByID(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			printUsers(cmd, []models.User{*u})
			return nil
		},
	}

	var create api.CreateUserRequest
	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Create a user (admin)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			u, err := a.client.Users.Create(cmd.Context(), create)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Created user %s (%s)", u.Name, u.ID)
			return nil
		},
	}
	createCmd.Flags().StringVar(&create.Name, "name", "", "Display name")
	createCmd.Flags().StringVar(&create.Email, "email", "", "Email")
	createCmd.Flags().StringVar(&create.Password, "password", "", "Initial password")
	createCmd.Flags().StringVar(&create.Role, "role", "", "Role, e.g. STUDENT or DOCENTE")

	var update api.UpdateUserRequest
	var active bool
	updateCmd := &cobra.Command{
		Use:   "update <user-id>",
		Short: "Update a user (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("active") {
				update.Active = &active
			}
			u, err := a.client.Users.Update(cmd.Context(), args[0], update)
			if err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Updated user %s", u.ID)
			return nil
		},
	}
	updateCmd.Flags().StringVar(&update.Name, "name", "", "Display name")
	updateCmd.Flags().StringVar(&update.Email, "email", "", "Email")
	updateCmd.Flags().StringVar(&update.Role, "role", "", "Role")
	updateCmd.Flags().BoolVar(&active, "active", true, "Whether the account is active")

	deleteCmd := &cobra.Command{
		Use:   "delete <user-id>",
		Short: "Delete a user (admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.client.Users.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Deleted user %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, show, createCmd, updateCmd, deleteCmd)
	return cmd
}

func printUsers(cmd *cobra.Command, users []models.User) {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, u.Role})
	}
	printTable(cmd.OutOrStdout(), []string{"ID", "NAME", "EMAIL", "ROLE"}, rows)
}
