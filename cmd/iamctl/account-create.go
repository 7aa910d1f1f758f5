package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/audit"
	"iam-mirror/pkg/awsiam"
	"iam-mirror/pkg/config"
	"iam-mirror/pkg/model"
)

// accountCreateCmd represents the account create command
var accountCreateCmd = &cobra.Command{
	Use:   "create <name> <role-arn> [role-name...]",
	Short: "Register an AWS account with the mirror",
	Long: `Register an AWS account with the mirror.

The account ID is taken from the cross-account role ARN. Any role names
given after the ARN are added to the account's watch list.

Example:
  iamctl account create production arn:aws:iam::111111111111:role/MirrorAudit Admin Deploy`,
	Args: cobra.MinimumNArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		name := args[0]
		roleArn := args[1]
		roles := args[2:]

		accountID, err := awsiam.AccountNumber(roleArn)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Invalid role ARN:", err)
			os.Exit(1)
		}

		gormDB, err := connectDB()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		store := analyzer.NewGormStore(gormDB)
		account := &model.Account{
			ID:             accountID,
			AccountName:    name,
			RoleArn:        roleArn,
			RolesToAnalyze: model.RoleList(roles),
		}
		if err := store.UpsertAccount(account); err != nil {
			fmt.Fprintln(os.Stderr, "Failed to register account:", err)
			os.Exit(1)
		}

		if config.Get().AuditEnabled {
			audit.NewLogger().Log(audit.AccountChangeEvent{AccountID: accountID, AccountName: name})
		}

		fmt.Printf("Registered account %s (%s) with %d watched role(s)\n", accountID, name, len(roles))
	},
}

func init() {
	accountCmd.AddCommand(accountCreateCmd)
}
