// Package routing turns a classification decision and chunk plans into the
// manifest of (chunk, collection) writes.
package routing

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

// Builder assembles routing manifests.
type Builder struct {
	collections domain.Collections
	newID       func() string
}

// Option configures a Builder.
type Option func(*Builder)

// WithIDFunc overrides entry ID generation. Useful for deterministic tests.
func WithIDFunc(f func() string) Option {
	return func(b *Builder) { b.newID = f }
}

// NewBuilder creates a manifest builder.
func NewBuilder(cols domain.Collections, opts ...Option) *Builder {
	b := &Builder{
		collections: cols,
		newID:       func() string { return uuid.NewString() },
	}
	for _, o := range opts {
		o(b)
	}
	return b
}

// Build produces the full manifest for one item. Plans are ordered primary
// first; special-collection copies are taken from the primary plan's chunks.
func (b *Builder) Build(
	floatID domain.FloatID,
	sourcePath string,
	decision *domain.RoutingDecision,
	plans []domain.ChunkPlan,
	matches []domain.PatternMatch,
) ([]*domain.ManifestEntry, error) {
	if decision == nil {
		return nil, fmt.Errorf("build manifest: %w: nil decision", domain.ErrInvalidInput)
	}
	if len(plans) == 0 {
		return nil, fmt.Errorf("build manifest: %w: no chunk plans", domain.ErrInvalidInput)
	}

	var entries []*domain.ManifestEntry

	for _, plan := range plans {
		collection := b.collections.ForDomain(plan.Domain)
		planDomain := plan.Domain
		if decision.Ambiguous {
			// Ambiguous content goes to the general fallback only.
			collection = b.collections.General
			planDomain = ""
		}
		for _, ch := range plan.Chunks {
			entries = append(entries, b.entry(floatID, sourcePath, collection, planDomain, ch, len(plan.Chunks)))
		}
	}

	entries = append(entries, b.specialCopies(floatID, sourcePath, decision, plans[0], matches)...)

	logger.Debug("manifest for %s: %d entries across %d plans", floatID, len(entries), len(plans))
	return entries, nil
}

// specialCopies duplicates marker-bearing chunks into the special
// collections. Copies come from the primary plan; each (chunk, collection)
// pair is written once no matter how many markers it holds.
func (b *Builder) specialCopies(
	floatID domain.FloatID,
	sourcePath string,
	decision *domain.RoutingDecision,
	primary domain.ChunkPlan,
	matches []domain.PatternMatch,
) []*domain.ManifestEntry {
	wanted := make(map[string]bool, len(decision.SpecialCollections))
	for _, c := range decision.SpecialCollections {
		wanted[c] = true
	}
	if len(wanted) == 0 {
		return nil
	}

	var out []*domain.ManifestEntry
	seen := make(map[string]bool)
	for _, m := range matches {
		collection := b.collectionForFamily(m.Family)
		if collection == "" || !wanted[collection] {
			continue
		}
		for _, ch := range primary.Chunks {
			if !ch.Contains(m.Start) {
				continue
			}
			k := fmt.Sprintf("%s#%d", collection, ch.Index)
			if seen[k] {
				break
			}
			seen[k] = true
			out = append(out, b.entry(floatID, sourcePath, collection, primary.Domain, ch, len(primary.Chunks)))
			break
		}
	}
	return out
}

func (b *Builder) collectionForFamily(f domain.PatternFamily) string {
	switch f {
	case domain.FamilyDispatch:
		return b.collections.DispatchBay
	case domain.FamilyRFC:
		return b.collections.RFC
	case domain.FamilyEchoCopy:
		return b.collections.EchoCopy
	default:
		return ""
	}
}

func (b *Builder) entry(
	floatID domain.FloatID,
	sourcePath, collection string,
	d domain.Domain,
	ch domain.Chunk,
	total int,
) *domain.ManifestEntry {
	return &domain.ManifestEntry{
		ID:          b.newID(),
		FloatID:     floatID,
		SourcePath:  sourcePath,
		Collection:  collection,
		ChunkText:   ch.Text,
		ChunkIndex:  ch.Index,
		TotalChunks: total,
		Domain:      d,
		Oversized:   ch.Oversized,
		Truncated:   ch.Truncated,
	}
}
