package policy

import (
	"time"

	"github.com/abhisek/sqlcoach/internal/event"
)

// maxHintLevel is the deepest ladder level a learner can have reached.
const maxHintLevel = 3

// recentErrorWindow is how many trailing error subtypes the context keeps.
const recentErrorWindow = 5

// Context is the struggle snapshot derived from one problem's event
// slice. It is recomputed on every decision and never stored.
type Context struct {
	ErrorCount       int
	RetryCount       int
	Elapsed          time.Duration
	CurrentHintLevel int
	RecentErrors     []string
}

// DeriveContext folds an ordered event slice into a Context. Elapsed is
// measured from the first to the last event in the slice so the result
// depends only on the slice itself, not on the wall clock at call time.
func DeriveContext(events []event.Event) Context {
	ctx := Context{}

	hintViews := 0
	for _, e := range events {
		switch e.Kind {
		case event.KindError:
			ctx.ErrorCount++
			ctx.RecentErrors = append(ctx.RecentErrors, e.Payload.ErrorSubtype)
		case event.KindHintView:
			hintViews++
		}
	}

	if ctx.ErrorCount > 0 {
		ctx.RetryCount = ctx.ErrorCount - 1
	}

	if n := len(ctx.RecentErrors); n > recentErrorWindow {
		ctx.RecentErrors = ctx.RecentErrors[n-recentErrorWindow:]
	}

	ctx.CurrentHintLevel = hintViews
	if ctx.CurrentHintLevel > maxHintLevel {
		ctx.CurrentHintLevel = maxHintLevel
	}

	if len(events) > 0 {
		first := events[0].Timestamp
		last := events[len(events)-1].Timestamp
		if last.After(first) {
			ctx.Elapsed = last.Sub(first)
		}
	}

	return ctx
}
