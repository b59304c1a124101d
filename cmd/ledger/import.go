package main

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/akfinance/ledger/internal/cli"
	"github.com/akfinance/ledger/internal/ledger"
	"github.com/akfinance/ledger/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file.ofx>",
		Short: "Import transactions from an OFX/QFX bank statement",
		Long: `Import a downloaded OFX/QFX bank statement into the ledger.

Debits are recorded as expense transactions and credits as income.
Imported entries start uncategorized; classify them afterwards through
the API or your client of choice.`,
		Args: cobra.ExactArgs(1),
		RunE: runImport,
	}

	cmd.Flags().String("user", "", "email of the user to import for")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	email, _ := cmd.Flags().GetString("user")

	file, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open statement: %w", err)
	}
	defer func() { _ = file.Close() }()

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	userID, err := resolveUser(ctx, store, email)
	if err != nil {
		return err
	}

	entries, err := ofx.NewParser().ParseFile(ctx, file)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println(cli.WarningStyle.Render("No transactions found in statement."))
		return nil
	}

	svc := ledger.New(store)
	bar := progressbar.NewOptions(len(entries),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Importing transactions..."),
	)

	imported := 0
	for _, entry := range entries {
		_, err := svc.CreateTransaction(ctx, userID, ledger.TransactionInput{
			Type:       entry.Type,
			Amount:     entry.Amount,
			Currency:   entry.Currency,
			OccurredAt: entry.OccurredAt,
			Note:       entry.Note,
		})
		if err != nil {
			return fmt.Errorf("failed to import entry dated %s: %w",
				entry.OccurredAt.Format("2006-01-02"), err)
		}
		imported++
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Imported %d transactions for %s", imported, email)))
	return nil
}
