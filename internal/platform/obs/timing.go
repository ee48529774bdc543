package obs

import (
	"context"
	"time"

	"sighting-intake-service/internal/logging"
	"sighting-intake-service/internal/platform/metrics"
)

// Time starts timing a named store operation. The returned func records the
// duration and logs it with the request id and, if *errp is set, the error.
//
//	defer obs.Time(ctx, "file", "append")(&err)
func Time(ctx context.Context, backend, op string) func(errp *error) {
	start := time.Now()

	return func(errp *error) {
		dur := time.Since(start)
		metrics.ObserveStoreOp(backend, op, dur)

		ev := logging.Ctx(ctx).Debug()
		if errp != nil && *errp != nil {
			ev = logging.Ctx(ctx).Warn().Err(*errp)
		}
		ev.Str("backend", backend).
			Str("op", op).
			Int64("dur_ms", dur.Milliseconds()).
			Msg("store operation")
	}
}
