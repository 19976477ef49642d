// Package lineage appends one dataset version record per completed run per sink.
package lineage

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/BarkinBalci/event-dataset-generator/internal/domain"
	"github.com/BarkinBalci/event-dataset-generator/internal/repository"
)

// Ledger is a version ledger that can name itself
type Ledger interface {
	repository.VersionLedger
	Name() string
}

// Registry computes version ids against the freshest ledger state and appends the record
type Registry struct {
	now func() time.Time
	log *zap.Logger
}

func NewRegistry(log *zap.Logger) *Registry {
	return &Registry{now: time.Now, log: log}
}

// Record appends one version per ledger, each as 1 + that ledger's current maximum.
// Ledgers are processed in order and the first failure stops the remaining ones;
// versions already appended stay. The returned map holds the id assigned per ledger.
func (r *Registry) Record(ctx context.Context, ledgers []Ledger, summary domain.RunSummary) (map[string]int64, error) {
	createdAt := summary.CompletedAt
	if createdAt.IsZero() {
		createdAt = r.now().UTC()
	}

	versions := make(map[string]int64, len(ledgers))
	for _, l := range ledgers {
		current, err := l.MaxVersionID(ctx)
		if err != nil {
			return versions, domain.NewSinkError(l.Name(), "read version ledger", domain.ErrSinkWrite, err)
		}

		v := domain.DatasetVersion{
			VersionID:     current + 1,
			CreatedAt:     createdAt,
			GeneratorType: summary.GeneratorType,
			StartDate:     summary.StartDate,
			EndDate:       summary.EndDate,
			NUsers:        summary.Users,
			NEvents:       summary.Events,
		}
		if err := l.AppendVersion(ctx, v); err != nil {
			return versions, domain.NewSinkError(l.Name(), "append version", domain.ErrSinkWrite, err)
		}

		versions[l.Name()] = v.VersionID
		r.log.Info("Dataset version appended",
			zap.String("sink", l.Name()),
			zap.Int64("version_id", v.VersionID),
			zap.Int64("n_events", v.NEvents))
	}

	return versions, nil
}
