package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/akfinance/ledger/internal/cli"
	"github.com/akfinance/ledger/internal/ledger"
)

func usersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "users",
		Short: "Manage ledger users",
	}

	cmd.AddCommand(usersAddCmd())
	cmd.AddCommand(usersListCmd())

	return cmd
}

func usersAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Provision a new user with default preferences",
		RunE: func(cmd *cobra.Command, _ []string) error {
			email, _ := cmd.Flags().GetString("email")

			store, err := initStorage(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			user, err := ledger.New(store).CreateUser(cmd.Context(), email)
			if err != nil {
				return err
			}

			fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Created user %s", user.Email)))
			fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("  id: %s", user.ID)))
			return nil
		},
	}

	cmd.Flags().String("email", "", "email address of the new user")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func usersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List provisioned users",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := initStorage(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to initialize storage: %w", err)
			}
			defer func() { _ = store.Close() }()

			users, err := ledger.New(store).ListUsers(cmd.Context())
			if err != nil {
				return err
			}

			if len(users) == 0 {
				fmt.Println(cli.SubtleStyle.Render("No users provisioned yet."))
				return nil
			}

			fmt.Println(cli.TitleStyle.Render("Users"))
			for _, user := range users {
				fmt.Printf("%s  %s\n",
					cli.BoldStyle.Render(user.Email),
					cli.SubtleStyle.Render(user.ID))
			}
			return nil
		},
	}
}
