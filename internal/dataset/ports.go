package dataset

import (
	"context"

	"momodash/internal/core"
)

// Source is an outbound port that yields the full transaction dataset.
// It is called once at startup; implementations need not be cheap.
type Source interface {
	Load(ctx context.Context) ([]core.Transaction, LoadReport, error)
}

// LoadReport describes what a Source read and what it had to drop.
type LoadReport struct {
	Source  string
	Rows    int
	Skipped int
	// Problems keeps the first maxProblems row errors for logging.
	Problems []*RowError
}

const maxProblems = 50

func (r *LoadReport) skip(err *RowError) {
	r.Skipped++
	if len(r.Problems) < maxProblems {
		r.Problems = append(r.Problems, err)
	}
}
