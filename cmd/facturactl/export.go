package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gestorfacturas/facturas-api/middleware"
	"github.com/gestorfacturas/facturas-api/store"
)

var exportCmd = &cobra.Command{
	Use:   "export <invoices|projects>",
	Short: "Get a spreadsheet export URL (server mode only)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagLocal {
			return fmt.Errorf("export needs a server; run without --local")
		}
		kind := args[0]
		if kind != "invoices" && kind != "projects" {
			return fmt.Errorf("type must be invoices or projects")
		}

		// The URL opens in a browser; the spreadsheet is generated server
		// side on request.
		url := newClient().ExportURL(kind, store.InvoiceFilter{
			ProjectID: listProject,
			Search:    listSearch,
		})
		fmt.Println(url)
		return nil
	},
}

var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "Check connectivity to the server",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := newClient().Ping(context.Background()); err != nil {
			return fmt.Errorf("server not reachable: %w", err)
		}
		fmt.Println("Server is reachable")
		return nil
	},
}

var tokenTTL time.Duration

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token from $AUTH_SECRET",
	RunE: func(cmd *cobra.Command, args []string) error {
		secret := os.Getenv("AUTH_SECRET")
		if secret == "" {
			return fmt.Errorf("AUTH_SECRET is not set")
		}
		token, err := middleware.MintToken(secret, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Println(token)
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&listProject, "project", "", "filter by project id")
	exportCmd.Flags().StringVar(&listSearch, "search", "", "text filter")

	tokenCmd.Flags().DurationVar(&tokenTTL, "ttl", 24*time.Hour, "token lifetime")

	rootCmd.AddCommand(exportCmd, pingCmd, tokenCmd)
}
