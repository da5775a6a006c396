package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/censusindia/wikimatch/internal/match"
	"github.com/censusindia/wikimatch/internal/wikidata"
)

// EntrySource supplies knowledge-base entries for the bulk linker.
type EntrySource interface {
	Districts(ctx context.Context) ([]match.Entry, error)
	StateSubdistricts(ctx context.Context, stateQID string) ([]match.Entry, error)
}

// BulkLinker fills wikidata_id (and missing coordinates) from bulk SPARQL
// snapshots instead of per-record HTTP lookups. One query covers all
// districts; subdistricts go state by state.
type BulkLinker struct {
	Store  *Store
	Source EntrySource

	// Delay is the pause between per-state queries.
	Delay time.Duration
}

// LinkDistricts matches every unlinked district against a single nationwide
// snapshot.
func (b *BulkLinker) LinkDistricts(ctx context.Context) error {
	fmt.Println("Fetching all Indian districts from Wikidata...")
	entries, err := b.Source.Districts(ctx)
	if err != nil {
		return err
	}
	ix := match.NewIndex(entries)
	fmt.Printf("  %d districts indexed.\n", ix.Len())

	records, err := b.Store.FetchUnlinked(ctx, "")
	if err != nil {
		return err
	}
	linked := b.linkAll(ctx, ix, records)
	fmt.Printf("Done. Linked %d of %d unlinked districts.\n", linked, len(records))
	return ctx.Err()
}

// LinkSubdistricts walks the states that still have unlinked subdistricts,
// fetching one snapshot per state. States missing from the QID map are
// reported and skipped.
func (b *BulkLinker) LinkSubdistricts(ctx context.Context) error {
	states, err := b.Store.States(ctx)
	if err != nil {
		return err
	}

	var total, totalLinked int
	for _, state := range states {
		if err := ctx.Err(); err != nil {
			return err
		}

		records, err := b.Store.FetchUnlinked(ctx, state)
		if err != nil {
			return err
		}
		if len(records) == 0 {
			continue
		}

		qid, ok := wikidata.StateQID(state)
		if !ok {
			fmt.Printf("  [SKIP] no Wikidata item known for state %q\n", state)
			continue
		}

		fmt.Printf("%s: fetching subdistricts (%d unlinked)...\n", state, len(records))
		entries, err := b.Source.StateSubdistricts(ctx, qid)
		if err != nil {
			fmt.Printf("  [SKIP] %s: %v\n", state, err)
			continue
		}

		ix := match.NewIndex(entries)
		linked := b.linkAll(ctx, ix, records)
		fmt.Printf("  linked %d of %d.\n", linked, len(records))
		total += len(records)
		totalLinked += linked

		if b.Delay > 0 && !pause(ctx, b.Delay) {
			return ctx.Err()
		}
	}

	fmt.Printf("Done. Linked %d of %d unlinked subdistricts.\n", totalLinked, total)
	return nil
}

func (b *BulkLinker) linkAll(ctx context.Context, ix *match.Index, records []match.Record) int {
	linked := 0
	for _, rec := range records {
		if ctx.Err() != nil {
			return linked
		}
		parent := rec.District
		if parent == "" {
			parent = rec.State
		}
		e := ix.Find(rec.Name, parent)
		if e == nil {
			continue
		}
		if err := b.Store.LinkWikidata(ctx, rec.Code, e); err != nil {
			fmt.Printf("  [WARN] %s: %v\n", rec.Code, err)
			continue
		}
		linked++
	}
	return linked
}
