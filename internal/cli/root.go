package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/rafaelleal24/stockledger/internal/adapters/config"
	"github.com/rafaelleal24/stockledger/internal/adapters/storage"
	"github.com/rafaelleal24/stockledger/internal/core/logger"
	"github.com/rafaelleal24/stockledger/internal/core/service"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Format     string // "json" | "text"
	Storage    string
	DataDir    string
	SQLitePath string
	Verbose    bool

	config *config.Config
}

var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the ledgerctl root command. Defaults come from the same
// environment the service reads.
func NewRootCommand() *cobra.Command {
	cfg := config.NewConfig()
	opts := &RootOptions{config: cfg}

	cmd := &cobra.Command{
		Use:   "ledgerctl",
		Short: "Inspect a stock ledger",
		Long:  "Read-only operator tool over the stock ledger storage: products, recent transactions, reports and reconciliation.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			level := logger.LogLevelWarn
			if opts.Verbose {
				level = logger.LogLevelDebug
			}
			return logger.Initialize(logger.Options{
				ServiceName: "ledgerctl",
				Level:       level,
				Output:      cmd.ErrOrStderr(),
			})
		},
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Storage, "storage", string(cfg.Storage.Driver), "storage driver (file|sqlite|mongo)")
	cmd.PersistentFlags().StringVar(&opts.DataDir, "data-dir", cfg.Storage.DataDir, "directory of the file driver")
	cmd.PersistentFlags().StringVar(&opts.SQLitePath, "sqlite", "", "database path of the sqlite driver (default <data-dir>/ledger.db)")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose logging")

	cmd.AddCommand(NewProductsCommand(opts))
	cmd.AddCommand(NewRecentCommand(opts))
	cmd.AddCommand(NewReportCommand(opts))
	cmd.AddCommand(NewReconcileCommand(opts))

	return cmd
}

// openLedger loads the ledger from the selected storage. The caller must call close.
func (o *RootOptions) openLedger(ctx context.Context) (*service.LedgerService, func(), error) {
	cfg := *o.config
	cfg.Storage.Driver = config.StorageDriver(o.Storage)
	cfg.Storage.DataDir = o.DataDir
	cfg.Storage.SQLitePath = o.SQLitePath
	if cfg.Storage.SQLitePath == "" {
		cfg.Storage.SQLitePath = filepath.Join(o.DataDir, "ledger.db")
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	backend, err := storage.Open(ctx, &cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s storage: %w", cfg.Storage.Driver, err)
	}

	ledger := service.NewLedgerService(backend.Persistence, backend.TxManager,
		service.WithLowStockThreshold(cfg.Ledger.LowStockThreshold))
	if err := ledger.Load(ctx); err != nil {
		backend.Close()
		return nil, nil, err
	}
	return ledger, func() { backend.Close() }, nil
}

func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}
