package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/audit"
	"iam-mirror/pkg/config"
)

// accountDeleteCmd represents the account delete command
var accountDeleteCmd = &cobra.Command{
	Use:   "delete <account-id>",
	Short: "Deregister an AWS account",
	Long: `Deregister an AWS account from the mirror.

All mirrored roles, policies and trust edges for the account are removed.

Example:
  iamctl account delete 111111111111`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		accountID := args[0]

		gormDB, err := connectDB()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		store := analyzer.NewGormStore(gormDB)
		account, err := store.GetAccount(accountID)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to look up account:", err)
			os.Exit(1)
		}
		if account == nil {
			fmt.Fprintf(os.Stderr, "Account %s is not registered\n", accountID)
			os.Exit(1)
		}

		if err := store.DeleteAccount(accountID); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to deregister account:", err)
			os.Exit(1)
		}

		if config.Get().AuditEnabled {
			audit.NewLogger().Log(audit.AccountChangeEvent{
				AccountID:   accountID,
				AccountName: account.AccountName,
				Deleted:     true,
			})
		}

		fmt.Printf("Deregistered account %s (%s)\n", accountID, account.AccountName)
	},
}

func init() {
	accountCmd.AddCommand(accountDeleteCmd)
}
