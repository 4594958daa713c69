package reconcile

import (
	"context"
	"fmt"

	"github.com/autocentru/dealer/internal/catalog"
	"go.uber.org/zap"
)

// StockRow is the slice of a stock record the reconciler cares about.
type StockRow struct {
	ID    string
	Brand string
	Model string
}

// StockSource abstracts the stock table for the batch driver.
type StockSource interface {
	ListStock(ctx context.Context) ([]StockRow, error)
	UpdateBrandModel(ctx context.Context, id, brand, model string) error
}

// RowError records a single row whose write-back failed.
type RowError struct {
	ID  string
	Err error
}

// Summary reports the outcome of one batch run. Partial completion is the
// expected outcome; Errors lists the rows that could not be written.
type Summary struct {
	Attempted int
	Changed   int
	Unchanged int
	Errors    []RowError
}

// Runner walks every stock row, reconciles its brand/model pair against the
// catalog, and writes back rows whose pair changed. Rows are processed
// strictly sequentially and a failed write never aborts the batch.
type Runner struct {
	source StockSource
	cat    catalog.Catalog
	logger *zap.Logger

	// DryRun reports what would change without writing anything.
	DryRun bool

	// OnRow, when set, is invoked for every visited row. The maintenance
	// CLI uses it to print per-row progress.
	OnRow func(row StockRow, match Match, changed bool)
}

// NewRunner creates a batch runner over the given source and catalog.
func NewRunner(source StockSource, cat catalog.Catalog, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{source: source, cat: cat, logger: logger}
}

// Run visits every stock row once. Only listing the rows can fail the run as
// a whole; per-row update failures are recorded in the summary and iteration
// continues.
func (r *Runner) Run(ctx context.Context) (Summary, error) {
	rows, err := r.source.ListStock(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("list stock rows: %w", err)
	}

	var sum Summary
	for _, row := range rows {
		sum.Attempted++

		match := Reconcile(row.Brand, row.Model, r.cat)
		changed := match.Brand != row.Brand || match.Model != row.Model
		if r.OnRow != nil {
			r.OnRow(row, match, changed)
		}

		if !changed {
			sum.Unchanged++
			continue
		}
		if r.DryRun {
			sum.Changed++
			continue
		}

		if err := r.source.UpdateBrandModel(ctx, row.ID, match.Brand, match.Model); err != nil {
			r.logger.Error("failed to update stock row",
				zap.String("op", "reconcile.Run"),
				zap.String("id", row.ID),
				zap.Error(err),
			)
			sum.Errors = append(sum.Errors, RowError{ID: row.ID, Err: err})
			continue
		}

		sum.Changed++
		r.logger.Info("reconciled stock row",
			zap.String("op", "reconcile.Run"),
			zap.String("id", row.ID),
			zap.String("marca", match.Brand),
			zap.String("model", match.Model),
			zap.String("tier", match.Tier.String()),
		)
	}
	return sum, nil
}
