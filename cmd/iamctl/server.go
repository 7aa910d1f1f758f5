package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"iam-mirror/pkg/analyzer"
	"iam-mirror/pkg/config"
	"iam-mirror/pkg/server"
	"iam-mirror/pkg/server/endpoints"
	"iam-mirror/pkg/server/middleware"
)

func defaultBindAddress() string {
	return lookupEnvDefault("BIND_ADDRESS", "0.0.0.0")
}

func defaultPort() string {
	return lookupEnvDefault("PORT", "8000")
}

// serverCmd represents the server command
var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Run the IAM mirror API server",
	Long: `Run the IAM mirror API server.

Requires the DATABASE_URL environment variable. Set IAM_MIRROR_API_SECRET
to require bearer-token authentication on all endpoints except the status
and health checks.

By default, database migrations are run on startup. Use --no-migrate to skip.`,
	Run: func(cmd *cobra.Command, args []string) {
		if os.Getenv("DATABASE_URL") == "" {
			fmt.Fprintln(os.Stderr, "DATABASE_URL environment variable is required")
			os.Exit(1)
		}

		noMigrate, _ := cmd.Flags().GetBool("no-migrate")
		if !noMigrate {
			log.Println("Running database migrations...")
			if err := runMigrations(); err != nil {
				fmt.Fprintf(os.Stderr, "Migration failed: %v\n", err)
				os.Exit(1)
			}
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

		host, _ := cmd.Flags().GetString("bind-address")
		port, _ := cmd.Flags().GetString("port")
		s := server.NewServer(store, a, gormDB, config.Get(), host, port)

		endpoints.RegisterAll(s)

		if secret := os.Getenv("IAM_MIRROR_API_SECRET"); secret != "" {
			authn := middleware.NewTokenAuthenticator([]byte(secret))
			s.Router.Use(exemptStatusEndpoints(authn.Middleware))
			log.Println("API token authentication enabled")
		}

		log.Printf("Running server at http://%s:%s...\n", host, port)
		log.Fatal(s.Start())
	},
}

// exemptStatusEndpoints leaves the status and health endpoints reachable
// without a token so probes keep working.
func exemptStatusEndpoints(authn func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		authed := authn(next)
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			path := strings.TrimSuffix(r.URL.Path, "/")
			if path == "" || path == "/health" {
				next.ServeHTTP(w, r)
				return
			}
			authed.ServeHTTP(w, r)
		})
	}
}

func init() {
	rootCmd.AddCommand(serverCmd)

	serverCmd.Flags().StringP("port", "p", defaultPort(), "server listen port")
	serverCmd.Flags().StringP("bind-address", "b", defaultBindAddress(), "server bind address")
	serverCmd.Flags().Bool("no-migrate", false, "skip running database migrations on start")
}
