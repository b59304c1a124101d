package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/akfinance/ledger/internal/cli"
	"github.com/akfinance/ledger/internal/ledger"
)

func dashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Show the monthly dashboard summary for a user",
		RunE:  runDashboard,
	}

	now := time.Now().UTC()
	cmd.Flags().String("user", "", "email of the user")
	cmd.Flags().Int("month", int(now.Month()), "month (1-12)")
	cmd.Flags().Int("year", now.Year(), "year")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runDashboard(cmd *cobra.Command, _ []string) error {
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

	summary, err := ledger.New(store).GetDashboardSummary(ctx, userID, month, year)
	if err != nil {
		return err
	}

	fmt.Println(cli.TitleStyle.Render(fmt.Sprintf("Dashboard for %04d-%02d", year, month)))
	fmt.Printf("%s %s\n", cli.BoldStyle.Render("Income: "), cli.IncomeStyle.Render(summary.TotalIncome.String()))
	fmt.Printf("%s %s\n", cli.BoldStyle.Render("Expense:"), cli.ExpenseStyle.Render(summary.TotalExpense.String()))
	fmt.Printf("%s %s\n", cli.BoldStyle.Render("Balance:"), summary.Balance.String())

	if len(summary.TopCategories) > 0 {
		fmt.Println()
		fmt.Println(cli.BoldStyle.Render("Top spending categories"))
		for _, entry := range summary.TopCategories {
			fmt.Printf("  %s  %s\n",
				cli.TableCellStyle.Render(entry.CategoryName),
				cli.ExpenseStyle.Render(entry.Amount.String()))
		}
	}

	if len(summary.Budgets) > 0 {
		fmt.Println()
		fmt.Println(cli.BoldStyle.Render("Budgets"))
		for _, preview := range summary.Budgets {
			fmt.Printf("  %s  %s / %s  %s\n",
				cli.TableCellStyle.Render(preview.CategoryName),
				preview.SpentAmount.String(),
				preview.LimitAmount.String(),
				renderProgress(preview.ProgressPercent))
		}
	}

	return nil
}

// renderProgress colors the percentage by how close the budget is to its
// limit.
func renderProgress(percent float64) string {
	text := fmt.Sprintf("%.1f%%", percent)
	switch {
	case percent >= 100:
		return cli.ErrorStyle.Render(text)
	case percent >= 80:
		return cli.WarningStyle.Render(text)
	default:
		return cli.SuccessStyle.Render(text)
	}
}
