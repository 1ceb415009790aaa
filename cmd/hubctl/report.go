package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/iliyamo/stewardship-hub/internal/budget"
	"github.com/iliyamo/stewardship-hub/internal/repository"
	"github.com/iliyamo/stewardship-hub/internal/service"
)

var flagAt string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print budget metrics and per-item usage",
	RunE:  runReport,
}

func init() {
	reportCmd.Flags().StringVar(&flagAt, "at", "", "Evaluate at this RFC 3339 time instead of now")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, _ []string) error {
	now := time.Now()
	if flagAt != "" {
		t, err := time.Parse(time.RFC3339, flagAt)
		if err != nil {
			return fmt.Errorf("--at: %w", err)
		}
		now = t
	}

	db, err := openDB(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	d := &service.Dashboard{
		Semester:  repository.NewSemesterRepo(db),
		Purchases: repository.NewPurchaseRepo(db),
	}
	snap, err := d.Budget(cmd.Context(), now)
	if err != nil {
		return err
	}

	fmt.Println()
	if snap.Config == nil {
		fmt.Println("  No semester configured.")
	} else {
		fmt.Printf("  %s  (%s to %s)\n", snap.Config.SemesterName,
			snap.Config.StartDate.Format("2006-01-02"), snap.Config.EndDate.Format("2006-01-02"))
	}
	m := snap.Metrics
	fmt.Printf("  Total budget   %10.2f\n", m.TotalBudget)
	fmt.Printf("  Spent          %10.2f\n", m.TotalSpent)
	fmt.Printf("  Remaining      %10.2f\n", m.Remaining)
	fmt.Printf("  Projected      %10.2f\n", m.ProjectedSpending)

	usage := budget.SortedUsage(snap.Usage)
	if len(usage) == 0 {
		return nil
	}
	fmt.Println()
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "  Item\tPer week\tUnit cost\tQty\tSpent\tActive\t")
	for _, u := range usage {
		fmt.Fprintf(w, "  %s\t%.2f\t%.2f\t%d\t%.2f\t%t\t\n",
			u.ItemName, u.AvgWeeklyCount, u.AvgCost, u.TotalQuantity, u.TotalCost, u.IsActive)
	}
	return w.Flush()
}
