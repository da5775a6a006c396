package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/censusindia/wikimatch/internal/match"
)

// Extractor runs the per-record Wikipedia match over one table's PENDING
// rows, committing each outcome as it lands so an interrupted run loses at
// most the record in flight.
type Extractor struct {
	Store   *Store
	Matcher *match.Matcher

	// Delay is the polite pause between records.
	Delay time.Duration
	// Limit caps the batch; zero means the whole backlog.
	Limit int
	// SkipStates excludes whole states from the batch. Island territories
	// have near-zero Wikipedia coverage and only burn API calls.
	SkipStates []string
}

// Run processes the backlog. It stops early only on context cancellation;
// per-record failures become the record's status.
func (e *Extractor) Run(ctx context.Context) error {
	records, err := e.Store.FetchPending(ctx, e.Limit, e.SkipStates)
	if err != nil {
		return err
	}

	fmt.Printf("Processing %d pending %s records...\n", len(records), e.Matcher.Kind.Name)

	var found, notFound, errored int
	for i, rec := range records {
		out, err := e.Matcher.Match(ctx, rec)
		if err != nil {
			e.printSummary(found, notFound, errored)
			return err
		}
		if err := e.Store.Apply(ctx, rec.Code, out); err != nil {
			return err
		}

		switch out.Status {
		case match.StatusFound:
			found++
			fmt.Printf("  [%d/%d] %s (%s) -> FOUND: %s\n",
				i+1, len(records), rec.Name, rec.State, out.Page.Title)
		case match.StatusError:
			errored++
			fmt.Printf("  [%d/%d] %s (%s) -> ERROR\n", i+1, len(records), rec.Name, rec.State)
		default:
			notFound++
			fmt.Printf("  [%d/%d] %s (%s) -> not found\n", i+1, len(records), rec.Name, rec.State)
		}

		if e.Delay > 0 && i < len(records)-1 {
			if !pause(ctx, e.Delay) {
				e.printSummary(found, notFound, errored)
				return ctx.Err()
			}
		}
	}

	e.printSummary(found, notFound, errored)
	return nil
}

func (e *Extractor) printSummary(found, notFound, errored int) {
	fmt.Printf("\nDone. Found: %d, Not found: %d, Errors: %d\n", found, notFound, errored)
}

// pause waits for d or until cancellation; it reports whether the full
// delay elapsed.
func pause(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
