package timesource

import (
	"context"
	"time"

	"github.com/driftguard/driftguard/lib/util/logger"
)

var log = logger.GetDriftguardLogger()

// Source retrieves the reference timestamp. Implementations must resolve
// within the context's bound: a query still outstanding when the context
// expires is reported as an error, never left pending into the next cycle.
type Source interface {
	Sample(ctx context.Context) (time.Time, error)
}

// defaultQueryTimeout bounds a single reference query when the caller's
// context carries no earlier deadline.
const defaultQueryTimeout = 10 * time.Second
