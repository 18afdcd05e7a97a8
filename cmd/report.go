package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/frahmantamala/expense-tracker/internal/expense"
	"github.com/frahmantamala/expense-tracker/internal/summary"
	"github.com/spf13/cobra"
)

var (
	reportUserID   int64
	reportYear     int
	reportMonth    int
	reportPage     int
	reportPageSize int
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the monthly expense report for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		a, err := newApp(cfg)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}

		year, month := expense.CurrentPeriod(time.Now())
		if reportYear != 0 {
			year = reportYear
		}
		if reportMonth != 0 {
			month = reportMonth
		}

		criteria := expense.NewFilterCriteria(reportUserID, year, month)
		report, err := a.summaries.MonthlyReport(ctx, criteria, reportPage, reportPageSize)
		if err != nil {
			return err
		}
		return printReport(os.Stdout, report)
	},
}

func init() {
	reportCmd.Flags().Int64Var(&reportUserID, "user-id", 1, "user to report on")
	reportCmd.Flags().IntVar(&reportYear, "year", 0, "calendar year (default current)")
	reportCmd.Flags().IntVar(&reportMonth, "month", 0, "calendar month 1-12 (default current)")
	reportCmd.Flags().IntVar(&reportPage, "page", 1, "expense page")
	reportCmd.Flags().IntVar(&reportPageSize, "page-size", 0, "expenses per page (default from config)")
}

func printReport(out io.Writer, report summary.Report) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Period:\t%04d-%02d\n", report.Year, report.Month)
	fmt.Fprintf(w, "Years:\t%v\n", report.Years)
	fmt.Fprintf(w, "Total (cents):\t%d\n\n", report.TotalCents)

	fmt.Fprintln(w, "CATEGORY\tTOTAL\tSHARE %\tAVERAGE\tSHARE %")
	for _, t := range report.Totals {
		avg, _ := summary.Lookup(report.Averages, t.Category)
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			t.Category, t.Value.String(), t.Percentage.StringFixed(2),
			avg.Value.StringFixed(2), avg.Percentage.StringFixed(2))
	}

	page := report.Expenses
	fmt.Fprintf(w, "\nEXPENSES (page %d of %d, %d total)\n", page.Page, page.TotalPages, page.Total)
	fmt.Fprintln(w, "DATE\tCATEGORY\tAMOUNT\tDESCRIPTION")
	for _, e := range page.Items {
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Date.Format(expense.DateLayout), e.Category, e.AmountCents, e.Description)
	}
	return w.Flush()
}
