package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akfinance/ledger/internal/cli"
	"github.com/akfinance/ledger/internal/ledger"
)

func budgetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "budgets",
		Short: "List a user's budgets for a period, with progress",
		RunE:  runBudgets,
	}

	now := time.Now().UTC()
	cmd.Flags().String("user", "", "email of the user")
	cmd.Flags().Int("month", int(now.Month()), "month (1-12)")
	cmd.Flags().Int("year", now.Year(), "year")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runBudgets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	email, _ := cmd.Flags().GetString("user")
	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	userID, err := resolveUser(ctx, store, email)
	if err != nil {
		return err
	}

	budgets, err := ledger.New(store).ListBudgets(ctx, userID, month, year)
	if err != nil {
		return err
	}

	if len(budgets) == 0 {
		fmt.Println(cli.SubtleStyle.Render(fmt.Sprintf("No budgets for %04d-%02d.", year, month)))
		return nil
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Budgets for %04d-%02d", year, month)))
	for _, budget := range budgets {
		fmt.Printf("%s  %s / %s %s  %s\n",
			cli.TableCellStyle.Render(budget.Category.Name),
			budget.SpentAmount.String(),
			budget.LimitAmount.String(),
			cli.SubtleStyle.Render(budget.Currency),
			renderProgress(budget.ProgressPercent))
	}
	return nil
}
