// Package chunker splits content into collection-sized pieces. Chunks are
// contiguous slices of the source text, so concatenating a plan in order
// reproduces the input byte for byte.
package chunker

import (
	"fmt"
	"sort"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

// Chunker plans chunk boundaries under per-domain sizing.
type Chunker struct {
	sizes domain.ChunkSizes
}

// New creates a chunker with the given sizing table.
func New(sizes domain.ChunkSizes) *Chunker {
	return &Chunker{sizes: sizes}
}

// span is a half-open byte range that must stay inside one chunk.
type span struct {
	start, end int
}

// Plan splits text for one domain. Matches flagged atomic are never split
// across chunks; a chunk forced past the domain maximum by an atomic block
// is marked oversized rather than broken.
func (c *Chunker) Plan(text string, d domain.Domain, matches []domain.PatternMatch) (domain.ChunkPlan, error) {
	if !d.IsValid() {
		return domain.ChunkPlan{}, fmt.Errorf("chunk plan: %w: domain %q", domain.ErrInvalidInput, d)
	}

	plan := domain.ChunkPlan{Domain: d}
	if text == "" {
		return plan, nil
	}

	size := c.sizes.ForDomain(d)
	atomics := atomicSpans(matches, len(text))
	cuts := planCuts(text, size, atomics)

	prev := 0
	for i, cut := range cuts {
		chunk := domain.Chunk{
			Text:       text[prev:cut],
			Domain:     d,
			Start:      prev,
			Index:      i,
			CharLength: cut - prev,
			Oversized:  cut-prev > size.Max,
			Truncated:  overlapsTruncated(matches, prev, cut),
		}
		plan.Chunks = append(plan.Chunks, chunk)
		prev = cut
	}

	logger.Debug("chunked %d bytes into %d %s chunks", len(text), len(plan.Chunks), d)
	return plan, nil
}

// overlapsTruncated reports whether a truncated marker match intersects the
// half-open range [start, end).
func overlapsTruncated(matches []domain.PatternMatch, start, end int) bool {
	for _, m := range matches {
		if m.Truncated && m.Start < end && m.End > start {
			return true
		}
	}
	return false
}

// atomicSpans extracts the protected ranges, clamped to the text.
func atomicSpans(matches []domain.PatternMatch, limit int) []span {
	var out []span
	for _, m := range matches {
		if !m.Atomic {
			continue
		}
		s := span{start: m.Start, end: m.End}
		if s.end > limit {
			s.end = limit
		}
		if s.start < s.end {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// planCuts chooses the chunk end offsets. Greedy walk: aim for the target,
// prefer paragraph breaks, fall back to sentence breaks, hard-cut at the
// maximum, and push any cut that lands inside an atomic span to the span end.
func planCuts(text string, size domain.DomainChunkSize, atomics []span) []int {
	paras := paragraphBreaks(text)
	sentences := sentenceBreaks(text)

	var cuts []int
	pos := 0
	for pos < len(text) {
		if len(text)-pos <= size.Max {
			cuts = append(cuts, len(text))
			break
		}

		ideal := pos + size.Target
		hard := pos + size.Max

		cut := lastBreakIn(paras, pos, ideal)
		if cut < 0 {
			cut = lastBreakIn(sentences, pos, ideal)
		}
		if cut < 0 {
			cut = lastBreakIn(paras, pos, hard)
		}
		if cut < 0 {
			cut = lastBreakIn(sentences, pos, hard)
		}
		if cut < 0 {
			cut = hard
		}

		// Never cut inside a protected block.
		for _, a := range atomics {
			if cut > a.start && cut < a.end {
				cut = a.end
				break
			}
		}
		if cut <= pos {
			cut = pos + size.Max
			if cut > len(text) {
				cut = len(text)
			}
		}
		if cut > len(text) {
			cut = len(text)
		}

		cuts = append(cuts, cut)
		pos = cut
	}
	return cuts
}

// lastBreakIn returns the largest break in (lo, hi], or -1.
func lastBreakIn(breaks []int, lo, hi int) int {
	best := -1
	for _, b := range breaks {
		if b > lo && b <= hi {
			best = b
		}
		if b > hi {
			break
		}
	}
	return best
}

// paragraphBreaks returns the offsets just past each blank-line run. The
// separator stays attached to the preceding paragraph.
func paragraphBreaks(text string) []int {
	var out []int
	i := 0
	for i < len(text)-1 {
		if text[i] == '\n' && text[i+1] == '\n' {
			j := i + 1
			for j < len(text) && text[j] == '\n' {
				j++
			}
			out = append(out, j)
			i = j
			continue
		}
		i++
	}
	return out
}

// sentenceBreaks returns offsets just past sentence-ending punctuation
// followed by a space, and past single newlines.
func sentenceBreaks(text string) []int {
	var out []int
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '.', '!', '?':
			if i+1 < len(text) && text[i+1] == ' ' {
				out = append(out, i+2)
			}
		case '\n':
			out = append(out, i+1)
		}
	}
	return out
}
