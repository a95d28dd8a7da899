package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gestorfacturas/facturas-api/models"
	"github.com/gestorfacturas/facturas-api/store"
)

var invoicesCmd = &cobra.Command{
	Use:   "invoices",
	Short: "Manage invoices",
}

var (
	listProject   string
	listNoProject bool
	listSearch    string
	listLimit     int
	listOffset    int
)

var invoicesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List invoices, newest first",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		invoices, err := st.ListInvoices(context.Background(), store.InvoiceFilter{
			ProjectID:      listProject,
			WithoutProject: listNoProject,
			Search:         listSearch,
			Limit:          listLimit,
			Offset:         listOffset,
		})
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDESCRIPTION\tPROJECT\tTOTAL\tSTATUS\tCREATED")
		for _, inv := range invoices {
			fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%s\t%s\n",
				inv.ID, truncate(inv.Description, 40), inv.ProjectName,
				inv.Total(), inv.Status, inv.CreatedAt.Format("2006-01-02"))
		}
		return w.Flush()
	},
}

var (
	invAmount   float64
	invExtra    float64
	invDesc     string
	invProject  string
	invImage    string
	invNoImage  bool
	invNumber   string
	invSupplier string
	invNotes    string
)

var invoicesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an invoice from a captured photo",
	RunE: func(cmd *cobra.Command, args []string) error {
		if invImage == "" && !invNoImage {
			return fmt.Errorf("an invoice photo is required (--image), or pass --no-image")
		}

		in := models.InvoiceInput{
			InvoiceNumber: invNumber,
			Supplier:      invSupplier,
			AmountBase:    invAmount,
			AmountExtra:   invExtra,
			Description:   invDesc,
			ProjectID:     invProject,
			Notes:         invNotes,
		}
		if errs := models.ValidateInvoice(in); len(errs) > 0 {
			return validationError(errs)
		}

		ctx := context.Background()

		if flagLocal {
			// Offline: the image reference is final as captured.
			in.ImageURL = invImage
		} else if invImage != "" {
			// Upload first; a failed upload degrades to saving the invoice
			// without an image rather than aborting.
			url, err := newClient().UploadImage(ctx, invImage)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: image upload failed (%v), saving without image\n", err)
			} else {
				in.ImageURL = url
			}
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		inv, err := st.CreateInvoice(ctx, in)
		if err != nil {
			return err
		}
		fmt.Printf("Created invoice %s (total %.2f, project %q)\n",
			inv.ID, inv.Total(), inv.ProjectName)
		return nil
	},
}

var invoicesShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		inv, err := st.GetInvoice(context.Background(), args[0])
		if errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("invoice %s not found", args[0])
		}
		if err != nil {
			return err
		}

		fmt.Printf("Invoice %s\n", inv.ID)
		if inv.InvoiceNumber != "" {
			fmt.Printf("  Number:      %s\n", inv.InvoiceNumber)
		}
		if inv.Supplier != "" {
			fmt.Printf("  Supplier:    %s\n", inv.Supplier)
		}
		fmt.Printf("  Description: %s\n", inv.Description)
		fmt.Printf("  Project:     %s\n", inv.ProjectName)
		fmt.Printf("  Amount:      %.2f + %.2f extra = %.2f\n",
			inv.AmountBase, inv.AmountExtra, inv.Total())
		fmt.Printf("  Status:      %s\n", inv.Status)
		if inv.ImageURL != "" {
			fmt.Printf("  Image:       %s\n", inv.ImageURL)
		}
		if inv.Notes != "" {
			fmt.Printf("  Notes:       %s\n", inv.Notes)
		}
		fmt.Printf("  Created:     %s\n", inv.CreatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}

var invoicesSetStatusCmd = &cobra.Command{
	Use:   "set-status <id> <pending|paid|cancelled>",
	Short: "Change an invoice's status",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := models.ParseStatus(args[1])
		if err != nil {
			return err
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		inv, err := st.UpdateInvoice(context.Background(), args[0],
			models.InvoiceUpdate{Status: &status})
		if err != nil {
			return err
		}
		fmt.Printf("Invoice %s is now %s\n", inv.ID, inv.Status)
		return nil
	},
}

var invoicesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an invoice",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.DeleteInvoice(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Invoice deleted")
		return nil
	},
}

var invoicesStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the invoice collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		stats, err := st.InvoiceStats(context.Background())
		if err != nil {
			return err
		}
		fmt.Printf("Invoices: %d, total %.2f\n", stats.Count, stats.TotalAmount)
		for status, count := range stats.ByStatus {
			fmt.Printf("  %s: %d\n", status, count)
		}
		return nil
	},
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}

func init() {
	invoicesListCmd.Flags().StringVar(&listProject, "project", "", "filter by project id")
	invoicesListCmd.Flags().BoolVar(&listNoProject, "no-project", false, "only general expenses")
	invoicesListCmd.Flags().StringVar(&listSearch, "search", "", "text search over description, supplier and number")
	invoicesListCmd.Flags().IntVar(&listLimit, "limit", 0, "page size")
	invoicesListCmd.Flags().IntVar(&listOffset, "offset", 0, "page offset")

	invoicesCreateCmd.Flags().Float64Var(&invAmount, "amount", 0, "base amount (required, > 0)")
	invoicesCreateCmd.Flags().Float64Var(&invExtra, "extra", 0, "extra amount")
	invoicesCreateCmd.Flags().StringVar(&invDesc, "desc", "", "description (required)")
	invoicesCreateCmd.Flags().StringVar(&invProject, "project", "", "project id (empty = general expense)")
	invoicesCreateCmd.Flags().StringVar(&invImage, "image", "", "path or URL of the invoice photo")
	invoicesCreateCmd.Flags().BoolVar(&invNoImage, "no-image", false, "allow saving without a photo")
	invoicesCreateCmd.Flags().StringVar(&invNumber, "number", "", "invoice number")
	invoicesCreateCmd.Flags().StringVar(&invSupplier, "supplier", "", "supplier name")
	invoicesCreateCmd.Flags().StringVar(&invNotes, "notes", "", "free-form notes")
	_ = invoicesCreateCmd.MarkFlagRequired("amount")
	_ = invoicesCreateCmd.MarkFlagRequired("desc")

	invoicesCmd.AddCommand(invoicesListCmd, invoicesCreateCmd, invoicesShowCmd,
		invoicesSetStatusCmd, invoicesDeleteCmd, invoicesStatsCmd)
	rootCmd.AddCommand(invoicesCmd)
}
