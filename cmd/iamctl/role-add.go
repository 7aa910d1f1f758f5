package main

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"

	"iam-mirror/pkg/analyzer"
)

// roleAddCmd represents the role add command
var roleAddCmd = &cobra.Command{
	Use:   "add <account-id> <role-name>",
	Short: "Add a role to an account's watch list",
	Long: `Add a role to an account's watch list.

The role is mirrored on the account's next synchronisation. Adding a role
that is already watched is a no-op.

Example:
  iamctl role add 111111111111 Admin`,
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

		if slices.Contains(account.RolesToAnalyze, roleName) {
			fmt.Printf("Role %s is already watched for account %s\n", roleName, accountID)
			return
		}

		account.RolesToAnalyze = append(account.RolesToAnalyze, roleName)
		if err := store.UpsertAccount(account); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to update account:", err)
			os.Exit(1)
		}

		fmt.Printf("Added role %s to account %s\n", roleName, accountID)
	},
}

func init() {
	roleCmd.AddCommand(roleAddCmd)
}
