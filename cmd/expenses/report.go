package main

import (
	"context"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/boddenberg/expense-control-go/internal/domain"
	"github.com/boddenberg/expense-control-go/internal/service"
)

func reportCmd() *cobra.Command {
	var by string

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print income, expense and balance totals",
		Example: `  expenses report --by person
  expenses report --by all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			switch by {
			case "person", "category", "all":
			default:
				return fmt.Errorf("--by must be person, category or all, got %q", by)
			}

			cfg, logger, err := loadConfig()
			defer logger.Sync()
			if err != nil {
				return err
			}
			a, err := newApp(cmd.Context(), cfg, logger, false)
			if err != nil {
				return err
			}
			defer a.Close()

			return printReports(cmd.Context(), cmd.OutOrStdout(), a.services.Reports, by)
		},
	}

	cmd.Flags().StringVar(&by, "by", "person", "grouping: person, category or all")
	return cmd
}

// printReports loads the requested reports concurrently and renders them in
// a fixed order.
func printReports(ctx context.Context, w io.Writer, reports *service.ReportService, by string) error {
	var (
		byPerson   *domain.PersonReportResponse
		byCategory *domain.CategoryReportResponse
	)

	g, ctx := errgroup.WithContext(ctx)
	if by == "person" || by == "all" {
		g.Go(func() (err error) {
			byPerson, err = reports.ByPerson(ctx)
			return err
		})
	}
	if by == "category" || by == "all" {
		g.Go(func() (err error) {
			byCategory, err = reports.ByCategory(ctx)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if byPerson != nil {
		renderPersonReport(w, byPerson)
	}
	if byCategory != nil {
		if byPerson != nil {
			fmt.Fprintln(w)
		}
		renderCategoryReport(w, byCategory)
	}
	return nil
}

func renderPersonReport(w io.Writer, r *domain.PersonReportResponse) {
	table := newTable(w, "Person")
	for _, p := range r.People {
		table.Append([]string{p.Name, money(p.TotalIncome), money(p.TotalExpense), money(p.Balance)})
	}
	table.SetFooter([]string{"Total", money(r.TotalIncome), money(r.TotalExpense), money(r.NetBalance)})
	table.Render()
}

func renderCategoryReport(w io.Writer, r *domain.CategoryReportResponse) {
	table := newTable(w, "Category")
	for _, c := range r.Categories {
		table.Append([]string{c.Description, money(c.TotalIncome), money(c.TotalExpense), money(c.Balance)})
	}
	table.SetFooter([]string{"Total", money(r.TotalIncome), money(r.TotalExpense), money(r.NetBalance)})
	table.Render()
}

func newTable(w io.Writer, first string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{first, "Income", "Expense", "Balance"})
	table.SetAutoFormatHeaders(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT,
	})
	return table
}

func money(m domain.Money) string {
	return m.StringFixed(2)
}
