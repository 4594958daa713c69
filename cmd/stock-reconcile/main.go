// Command stock-reconcile repairs free-text brand/model values in the stock
// table by matching them against the curated catalog. It is a one-shot
// maintenance tool: rows are visited sequentially, a failed write never
// aborts the batch, and re-running it is a no-op once the data is clean.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/autocentru/dealer/internal/catalog"
	"github.com/autocentru/dealer/internal/reconcile"
	"github.com/autocentru/dealer/internal/store"
	"go.uber.org/zap"
)

// storeSource adapts the stock store to the reconciler's row interface.
type storeSource struct {
	st *store.Postgres
}

func (s storeSource) ListStock(ctx context.Context) ([]reconcile.StockRow, error) {
	vehicles, err := s.st.ListStock(ctx, store.StockFilter{})
	if err != nil {
		return nil, err
	}
	rows := make([]reconcile.StockRow, len(vehicles))
	for i, v := range vehicles {
		rows[i] = reconcile.StockRow{ID: v.ID, Brand: v.Marca, Model: v.Model}
	}
	return rows, nil
}

func (s storeSource) UpdateBrandModel(ctx context.Context, id, brand, model string) error {
	return s.st.UpdateBrandModel(ctx, id, brand, model)
}

func main() {
	dryRun := flag.Bool("dry-run", false, "report what would change without writing")
	catalogFile := flag.String("catalog", "", "YAML catalog file overriding the compiled-in catalog")
	flag.Parse()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		fmt.Fprintln(os.Stderr, "error: DATABASE_URL must be set")
		os.Exit(1)
	}

	cat := catalog.Default()
	if *catalogFile != "" {
		var err error
		cat, err = catalog.LoadFile(*catalogFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
			os.Exit(1)
		}
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	ctx := context.Background()
	st, err := store.NewPostgres(ctx, dbURL, logger.Named("store"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	defer st.Close()

	runner := reconcile.NewRunner(storeSource{st: st}, cat, logger.Named("reconcile"))
	runner.DryRun = *dryRun
	runner.OnRow = func(row reconcile.StockRow, match reconcile.Match, changed bool) {
		if changed {
			fmt.Printf("%s: %q / %q -> %q / %q (%s)\n",
				row.ID, row.Brand, row.Model, match.Brand, match.Model, match.Tier)
		} else {
			fmt.Printf("%s: %q / %q ok\n", row.ID, row.Brand, row.Model)
		}
	}

	if *dryRun {
		fmt.Println("dry run: no rows will be written")
	}

	summary, err := runner.Run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("\nattempted %d rows: %d changed, %d unchanged, %d errored\n",
		summary.Attempted, summary.Changed, summary.Unchanged, len(summary.Errors))
	for _, rowErr := range summary.Errors {
		fmt.Printf("  %s: %v\n", rowErr.ID, rowErr.Err)
	}
}
