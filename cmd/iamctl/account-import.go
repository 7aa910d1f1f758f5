package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/awsiam"
	"iam-mirror/pkg/model"
)

// accountImportCmd represents the account import command
var accountImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Bulk-register accounts from a CSV file",
	Long: `Bulk-register accounts from a CSV file.

Each record has the form:

  account_id,account_name,role_arn,role1;role2;role3

The watched role list is semicolon-separated and may be empty. Existing
accounts are replaced. All records are applied in a single transaction.

Example:
  iamctl account import accounts.csv`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		count, err := importAccounts(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, "Import failed:", err)
			os.Exit(1)
		}
		fmt.Printf("Imported %d account(s)\n", count)
	},
}

func init() {
	accountCmd.AddCommand(accountImportCmd)
}

func importAccounts(filename string) (int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return 0, err
	}
	defer func() { _ = file.Close() }()

	accounts, err := parseAccountRecords(file)
	if err != nil {
		return 0, err
	}

	gormDB, err := connectDB()
	if err != nil {
		return 0, err
	}

	store := analyzer.NewGormStore(gormDB)
	err = store.Transaction(func(tx analyzer.Store) error {
		for i := range accounts {
			if err := tx.UpsertAccount(&accounts[i]); err != nil {
				return fmt.Errorf("account %s: %w", accounts[i].ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return len(accounts), nil
}

func parseAccountRecords(r io.Reader) ([]model.Account, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = 4

	var accounts []model.Account
	line := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		line++

		accountID := strings.TrimSpace(record[0])
		name := strings.TrimSpace(record[1])
		roleArn := strings.TrimSpace(record[2])
		if accountID == "" || name == "" || roleArn == "" {
			return nil, fmt.Errorf("record %d: account_id, account_name and role_arn are required", line)
		}

		arnAccount, err := awsiam.AccountNumber(roleArn)
		if err != nil {
			return nil, fmt.Errorf("record %d: %w", line, err)
		}
		if arnAccount != accountID {
			return nil, fmt.Errorf("record %d: role ARN belongs to account %s, not %s", line, arnAccount, accountID)
		}

		roles := model.RoleList{}
		for _, role := range strings.Split(record[3], ";") {
			if role = strings.TrimSpace(role); role != "" {
				roles = append(roles, role)
			}
		}

		accounts = append(accounts, model.Account{
			ID:             accountID,
			AccountName:    name,
			RoleArn:        roleArn,
			RolesToAnalyze: roles,
		})
	}
	return accounts, nil
}
