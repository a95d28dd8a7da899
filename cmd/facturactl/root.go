package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/gestorfacturas/facturas-api/apiclient"
	"github.com/gestorfacturas/facturas-api/logger"
	"github.com/gestorfacturas/facturas-api/store"
)

var (
	flagAPI     string
	flagToken   string
	flagLocal   bool
	flagDataDir string
)

var rootCmd = &cobra.Command{
	Use:   "facturactl",
	Short: "Manage invoices and projects from the terminal",
	Long: `facturactl tracks invoices (facturas) grouped into projects.

By default it talks to a facturas API server. With --local it runs entirely
offline against a JSON store on disk, no server needed.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()
		return logger.Setup(getenv("LOG_LEVEL", "warn"), getenv("LOG_FORMAT", "console"))
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagAPI, "api", "",
		"API base URL (default $FACTURAS_API or http://localhost:8080/api/v1)")
	rootCmd.PersistentFlags().StringVar(&flagToken, "token", "",
		"bearer token (default $FACTURAS_TOKEN)")
	rootCmd.PersistentFlags().BoolVar(&flagLocal, "local", false,
		"use the on-disk store instead of the API")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data", "",
		"local store directory (default $DATA_DIR or data)")
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// openStore builds the selected backend behind the shared Store contract.
func openStore() (store.Store, error) {
	if flagLocal {
		dir := flagDataDir
		if dir == "" {
			dir = getenv("DATA_DIR", "data")
		}
		return store.NewLocal(dir)
	}
	return newClient(), nil
}

func newClient() *apiclient.Client {
	base := flagAPI
	if base == "" {
		base = getenv("FACTURAS_API", "http://localhost:8080/api/v1")
	}
	token := flagToken
	if token == "" {
		token = os.Getenv("FACTURAS_TOKEN")
	}
	return apiclient.New(apiclient.Config{BaseURL: base, Token: token})
}
