package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/config"
)

// syncCmd represents the sync command
var syncCmd = &cobra.Command{
	Use:   "sync [account-id]",
	Short: "Synchronise registered accounts into the mirror",
	Long: `Synchronise registered accounts into the mirror.

Without arguments, every registered account is synchronised in turn.
Pass an account ID (or --account) to synchronise a single account.

Example:
  iamctl sync
  iamctl sync 111111111111
  iamctl sync --account 111111111111`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		accountID, _ := cmd.Flags().GetString("account")
		if len(args) == 1 {
			accountID = args[0]
		}

		gormDB, err := connectDB()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		store := analyzer.NewGormStore(gormDB)
		a, err := buildAnalyzer(cmd.Context(), store)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to initialise AWS session:", err)
			os.Exit(1)
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), config.Get().SyncTimeout())
		defer cancel()

		var reports []analyzer.AccountReport
		if accountID != "" {
			report, err := a.SyncAccount(ctx, accountID)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Sync failed:", err)
				os.Exit(1)
			}
			reports = []analyzer.AccountReport{report}
		} else {
			reports, err = a.SyncAll(ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, "Sync failed:", err)
				os.Exit(1)
			}
		}

		failed := printReports(reports)
		if failed > 0 {
			os.Exit(1)
		}
	},
}

func printReports(reports []analyzer.AccountReport) (failed int) {
	for _, report := range reports {
		name := report.AccountName
		if name == "" {
			name = "-"
		}
		line := fmt.Sprintf("%s  %-20s %-12s %s",
			report.AccountID, name, report.Status, report.Duration.Round(time.Millisecond))
		if report.Error != "" {
			line += "  " + report.Error
		}
		fmt.Println(line)

		if report.Status != analyzer.SyncSucceeded {
			failed++
		}
	}

	fmt.Printf("Synchronised %d account(s), %d failed\n", len(reports), failed)
	return failed
}

func init() {
	rootCmd.AddCommand(syncCmd)
	syncCmd.Flags().String("account", "", "synchronise a single account ID")
}
