package main

import (
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"iam-mirror/pkg/analyzer"
)

// accountListCmd represents the account list command
var accountListCmd = &cobra.Command{
	Use:   "list",
	Short: "List registered accounts",
	Long:  `List the AWS accounts registered with the mirror.`,
	Run: func(cmd *cobra.Command, args []string) {
		gormDB, err := connectDB()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Unable to connect to DB:", err)
			os.Exit(1)
		}

		store := analyzer.NewGormStore(gormDB)
		accounts, err := store.ListAccounts()
		if err != nil {
			fmt.Fprintln(os.Stderr, "Failed to list accounts:", err)
			os.Exit(1)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ACCOUNT\tNAME\tROLE ARN\tWATCHED ROLES")
		for _, account := range accounts {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n",
				account.ID,
				account.AccountName,
				account.RoleArn,
				strings.Join(account.RolesToAnalyze, ","),
			)
		}
		_ = w.Flush()
	},
}

func init() {
	accountCmd.AddCommand(accountListCmd)
}
