package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/audit"
	"iam-mirror/pkg/config"
)

// roleRemoveCmd represents the role remove command
var roleRemoveCmd = &cobra.Command{
	Use:   "remove <account-id> <role-name>",
	Short: "Remove a role from an account's watch list",
	Long: `Remove a role from an account's watch list.

The mirrored role data (trust policy, attached and inline policies, and
trust edges) is deleted immediately.

Example:
  iamctl role remove 111111111111 Admin`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		accountID, roleName := args[0], args[1]

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

		if i := slices.Index(account.RolesToAnalyze, roleName); i >= 0 {
			account.RolesToAnalyze = slices.Delete(account.RolesToAnalyze, i, i+1)
			if err := store.UpsertAccount(account); err != nil {
				fmt.Fprintln(os.Stderr, "Failed to update account:", err)
				os.Exit(1)
			}
		}

		a := analyzer.New(store, nil)
		if config.Get().AuditEnabled {
			a.SetAuditLogger(audit.NewLogger())
		}
		if err := a.RemoveRole(cmd.Context(), accountID, roleName); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to remove role:", err)
			os.Exit(1)
		}

		fmt.Printf("Removed role %s from account %s\n", roleName, accountID)
	},
}

func init() {
	roleCmd.AddCommand(roleRemoveCmd)
}
