package cmd

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/thriftstore/pos/internal/config"
	"github.com/thriftstore/pos/internal/money"
	"github.com/thriftstore/pos/internal/repo"
	"github.com/thriftstore/pos/pkg/logger"
)

var (
	reportThreshold int
	reportFrom      string
	reportTo        string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print store reports",
}

var dashboardReportCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Headline counts and revenue",
	RunE: withReports(func(cmd *cobra.Command, reports *repo.ReportRepository, cfg *config.Config) error {
		stats, err := reports.Dashboard(cmd.Context(), cfg.LowStockThreshold)
		if err != nil {
			return err
		}
		writeDashboard(cmd.OutOrStdout(), stats)
		return nil
	}),
}

var lowStockReportCmd = &cobra.Command{
	Use:   "low-stock",
	Short: "Items at or below the low-stock threshold",
	RunE: withReports(func(cmd *cobra.Command, reports *repo.ReportRepository, cfg *config.Config) error {
		threshold := cfg.LowStockThreshold
		if cmd.Flags().Changed("threshold") {
			threshold = reportThreshold
		}
		rows, err := reports.LowStock(cmd.Context(), threshold)
		if err != nil {
			return err
		}
		writeLowStock(cmd.OutOrStdout(), threshold, rows)
		return nil
	}),
}

var salesReportCmd = &cobra.Command{
	Use:     "sales",
	Short:   "Transactions between two months, both included",
	Example: `  thriftd report sales --from 2024-01 --to 2024-03`,
	RunE: withReports(func(cmd *cobra.Command, reports *repo.ReportRepository, cfg *config.Config) error {
		from, err := parseYearMonth(reportFrom)
		if err != nil {
			return fmt.Errorf("--from: %w", err)
		}
		to, err := parseYearMonth(reportTo)
		if err != nil {
			return fmt.Errorf("--to: %w", err)
		}
		report, err := reports.SalesReport(cmd.Context(), from, to)
		if err != nil {
			return err
		}
		writeSalesReport(cmd.OutOrStdout(), report, time.Now())
		return nil
	}),
}

var inventoryReportCmd = &cobra.Command{
	Use:   "inventory",
	Short: "Stock value per category",
	RunE: withReports(func(cmd *cobra.Command, reports *repo.ReportRepository, cfg *config.Config) error {
		rows, err := reports.InventoryValuation(cmd.Context())
		if err != nil {
			return err
		}
		writeInventory(cmd.OutOrStdout(), rows)
		return nil
	}),
}

var employeesReportCmd = &cobra.Command{
	Use:   "employees",
	Short: "Lifetime sales per employee",
	RunE: withReports(func(cmd *cobra.Command, reports *repo.ReportRepository, cfg *config.Config) error {
		rows, err := reports.EmployeePerformance(cmd.Context())
		if err != nil {
			return err
		}
		writeEmployees(cmd.OutOrStdout(), rows)
		return nil
	}),
}

func init() {
	rootCmd.AddCommand(reportCmd)
	reportCmd.AddCommand(dashboardReportCmd, lowStockReportCmd, salesReportCmd, inventoryReportCmd, employeesReportCmd)

	lowStockReportCmd.Flags().IntVar(&reportThreshold, "threshold", repo.DefaultLowStockThreshold, "Report items with this many or fewer in stock")

	thisMonth := time.Now().Format("2006-01")
	salesReportCmd.Flags().StringVar(&reportFrom, "from", thisMonth, "First month (YYYY-MM)")
	salesReportCmd.Flags().StringVar(&reportTo, "to", thisMonth, "Last month (YYYY-MM)")
}

type reportFunc func(cmd *cobra.Command, reports *repo.ReportRepository, cfg *config.Config) error

// withReports opens the database for the duration of one report
func withReports(run reportFunc) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg := config.Load()
		log := logger.NewCLILogger(cfg.LogLevel)
		defer log.Sync()

		database, err := openDatabase(cfg, log)
		if err != nil {
			return err
		}
		defer database.Close()

		return run(cmd, repo.NewReportRepository(database, log), cfg)
	}
}

func parseYearMonth(value string) (repo.YearMonth, error) {
	parsed, err := time.Parse("2006-01", value)
	if err != nil {
		return repo.YearMonth{}, fmt.Errorf("expected YYYY-MM, got %q", value)
	}
	return repo.YearMonth{Year: parsed.Year(), Month: parsed.Month()}, nil
}

func newTable(rightAligned ...int) *uitable.Table {
	table := uitable.New()
	table.MaxColWidth = 40
	table.Wrap = true
	for _, col := range rightAligned {
		table.RightAlign(col)
	}
	return table
}

func writeDashboard(w io.Writer, stats *repo.DashboardStats) {
	table := newTable(1)
	table.AddRow("Customers", humanize.Comma(stats.TotalCustomers))
	table.AddRow("Items", humanize.Comma(stats.TotalItems))
	table.AddRow("Transactions", humanize.Comma(stats.TotalTransactions))
	table.AddRow("Revenue", money.Format(stats.TotalRevenue))
	table.AddRow("Low stock items", humanize.Comma(stats.LowStockCount))
	fmt.Fprintln(w, table)
}

func writeLowStock(w io.Writer, threshold int, rows []repo.LowStockRow) {
	if len(rows) == 0 {
		fmt.Fprintf(w, "No items at or below %d in stock\n", threshold)
		return
	}
	table := newTable(0, 3)
	table.AddRow("ID", "Item", "Category", "Available", "Location")
	for _, row := range rows {
		table.AddRow(row.ItemID, row.Name, row.CategoryName, row.QuantityAvailable, row.Location)
	}
	fmt.Fprintln(w, table)
}

func writeSalesReport(w io.Writer, report *repo.SalesReport, now time.Time) {
	if len(report.Rows) == 0 {
		fmt.Fprintln(w, "No transactions in the selected period")
		return
	}
	table := newTable(0, 5)
	table.AddRow("ID", "Date", "Customer", "Employee", "Payment", "Total")
	for _, row := range report.Rows {
		table.AddRow(
			row.TransactionID,
			fmt.Sprintf("%s (%s)", row.TransactionDate.Format("2006-01-02"), humanize.RelTime(row.TransactionDate, now, "ago", "from now")),
			row.CustomerFirstName+" "+row.CustomerLastName,
			row.EmployeeFirstName+" "+row.EmployeeLastName,
			row.PaymentMode,
			money.Format(row.TotalAmount),
		)
	}
	table.AddRow("", "", "", "", "", "")
	table.AddRow("", "Transactions", humanize.Comma(int64(report.Transactions)), "", "Revenue", money.Format(report.TotalRevenue))
	table.AddRow("", "", "", "", "Average", money.Format(report.Average))
	fmt.Fprintln(w, table)
}

func writeInventory(w io.Writer, rows []repo.CategoryValue) {
	table := newTable(2)
	table.AddRow("ID", "Category", "Stock value")
	var total int64
	for _, row := range rows {
		table.AddRow(row.CategoryID, row.CategoryName, money.Format(row.Value))
		total += row.Value
	}
	table.AddRow("", "Total", money.Format(total))
	fmt.Fprintln(w, table)
}

func writeEmployees(w io.Writer, rows []repo.EmployeeSales) {
	table := newTable(0, 3, 4)
	table.AddRow("ID", "Employee", "Role", "Transactions", "Sales")
	for _, row := range rows {
		table.AddRow(row.EmployeeID, row.FirstName+" "+row.LastName, row.Role, humanize.Comma(row.Transactions), money.Format(row.TotalSales))
	}
	fmt.Fprintln(w, table)
}
