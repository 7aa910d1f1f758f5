package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "iamctl",
	Short: "IAM mirror server and utilities",
	Long: `iamctl manages the IAM mirror: a service that assumes an audit role in
each registered AWS account, reads the IAM roles and users of interest,
and mirrors them into a Postgres database for cross-account analysis.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func main() {
	Execute()
}
