package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gestorfacturas/facturas-api/models"
)

var projectsCmd = &cobra.Command{
	Use:   "projects",
	Short: "Manage projects",
}

var projectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active projects with their invoice count and total",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		projects, err := st.ListProjects(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCOLOR\tINVOICES\tTOTAL")
		for _, p := range projects {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%.2f\n",
				p.ID, p.Name, p.Color, p.InvoiceCount, p.TotalAmount)
		}
		return w.Flush()
	},
}

var (
	projectName  string
	projectDesc  string
	projectColor string
)

var projectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a project",
	RunE: func(cmd *cobra.Command, args []string) error {
		in := models.ProjectInput{
			Name:        projectName,
			Description: projectDesc,
			Color:       projectColor,
		}
		if errs := models.ValidateProject(in); len(errs) > 0 {
			return validationError(errs)
		}

		st, err := openStore()
		if err != nil {
			return err
		}
		p, err := st.CreateProject(context.Background(), in)
		if err != nil {
			return err
		}
		fmt.Printf("Created project %s (%s)\n", p.Name, p.ID)
		return nil
	},
}

var projectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Soft-delete a project (its invoices are kept)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		if err := st.DeleteProject(context.Background(), args[0]); err != nil {
			return err
		}
		fmt.Println("Project deleted. Associated invoices were NOT removed.")
		return nil
	},
}

var projectsStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show per-project aggregates",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := openStore()
		if err != nil {
			return err
		}
		stats, err := st.ProjectStats(context.Background())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 2, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROJECT\tINVOICES\tTOTAL")
		for _, s := range stats {
			fmt.Fprintf(w, "%s\t%d\t%.2f\n", s.Name, s.InvoiceCount, s.TotalAmount)
		}
		return w.Flush()
	},
}

func validationError(errs models.ErrorMap) error {
	for field, msg := range errs {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", field, msg)
	}
	return fmt.Errorf("validation failed")
}

func init() {
	projectsCreateCmd.Flags().StringVar(&projectName, "name", "", "project name (required)")
	projectsCreateCmd.Flags().StringVar(&projectDesc, "desc", "", "description")
	projectsCreateCmd.Flags().StringVar(&projectColor, "color", "", "hex color (random palette pick if omitted)")
	_ = projectsCreateCmd.MarkFlagRequired("name")

	projectsCmd.AddCommand(projectsListCmd, projectsCreateCmd, projectsDeleteCmd, projectsStatsCmd)
	rootCmd.AddCommand(projectsCmd)
}
