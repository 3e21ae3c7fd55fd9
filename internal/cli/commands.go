package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rafaelleal24/stockledger/internal/core/domain"
	"github.com/rafaelleal24/stockledger/internal/core/service"
)

// ErrDrift is returned by reconcile --strict when the ledger does not reconcile.
var ErrDrift = errors.New("ledger has drifted from its transaction log")

func NewProductsCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "products",
		Short: "List products",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, closeFn, err := opts.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			products := ledger.ListProducts(cmd.Context())
			if opts.Format == "json" {
				return writeJSON(out(cmd), toProductOutputs(products))
			}

			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tCATEGORY\tPRICE\tQTY\tSTOCKED\tSOLD")
			for _, p := range products {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n", p.ID, p.Name, p.Category, p.Price, p.Quantity, p.TotalStocked, p.TotalSold)
			}
			return w.Flush()
		},
	}
}

func NewRecentCommand(opts *RootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "Show the most recent transactions, oldest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if limit <= 0 {
				return fmt.Errorf("--limit must be positive, got %d", limit)
			}
			ledger, closeFn, err := opts.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			transactions := ledger.RecentTransactions(cmd.Context(), limit)
			if opts.Format == "json" {
				return writeJSON(out(cmd), toTransactionOutputs(transactions))
			}

			w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "SEQ\tPRODUCT\tTYPE\tQTY\tDATE")
			for _, tx := range transactions {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\n", tx.Sequence, tx.ProductID, tx.Type, tx.Quantity, tx.Timestamp.Format("2006-01-02T15:04:05Z07:00"))
			}
			return w.Flush()
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", opts.config.Ledger.RecentLimit, "number of transactions")
	return cmd
}

func NewReportCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Inventory summary: stock value, revenue and low stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, closeFn, err := opts.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			summary := service.NewReportService(ledger).Summary(cmd.Context())
			if opts.Format == "json" {
				return writeJSON(out(cmd), toSummaryOutput(summary))
			}

			fmt.Fprintf(out(cmd), "products:     %d\n", summary.ProductCount)
			fmt.Fprintf(out(cmd), "units:        %d\n", summary.TotalUnits)
			fmt.Fprintf(out(cmd), "stock value:  %s\n", summary.TotalStockValue)
			fmt.Fprintf(out(cmd), "revenue:      %s\n", summary.TotalRevenue)
			fmt.Fprintf(out(cmd), "low stock (< %d): %d\n", summary.LowStockThreshold, len(summary.LowStock))
			for _, row := range summary.LowStock {
				fmt.Fprintf(out(cmd), "  %s\t%s\t%d\n", row.ProductID, row.Name, row.Quantity)
			}
			return nil
		},
	}
}

func NewReconcileCommand(opts *RootOptions) *cobra.Command {
	var strict bool

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Replay the transaction log and report products that disagree with it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ledger, closeFn, err := opts.openLedger(cmd.Context())
			if err != nil {
				return err
			}
			defer closeFn()

			report := service.NewReportService(ledger).Reconcile(cmd.Context())
			if opts.Format == "json" {
				if err := writeJSON(out(cmd), toReconciliationOutput(report)); err != nil {
					return err
				}
			} else {
				printReconciliation(cmd, report)
			}

			if strict && !report.Consistent() {
				return ErrDrift
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "exit non-zero when drift is found")
	return cmd
}

func printReconciliation(cmd *cobra.Command, report *domain.Reconciliation) {
	fmt.Fprintf(out(cmd), "checked %d products against %d transactions\n", report.CheckedProducts, report.CheckedTransactions)
	if report.Consistent() {
		fmt.Fprintln(out(cmd), "consistent")
		return
	}
	w := tabwriter.NewWriter(out(cmd), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PRODUCT\tFIELD\tRECORDED\tREPLAYED")
	for _, d := range report.Drifts {
		fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", d.ProductID, d.Field, d.Recorded, d.Replayed)
	}
	w.Flush()
}
