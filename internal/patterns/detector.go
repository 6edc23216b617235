package patterns

import (
	"fmt"
	"sort"
	"strings"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

// Detector scans text against the pattern table. It is stateless and safe
// for concurrent use.
type Detector struct {
	specs []spec
}

// NewDetector creates a detector over the full pattern library.
func NewDetector() *Detector {
	return &Detector{specs: table}
}

// Detect scans an item's text and returns every match in document order.
// Empty text yields an empty slice, not an error.
func (d *Detector) Detect(item *domain.ContentItem) ([]domain.PatternMatch, error) {
	if err := item.Validate(); err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	matches := d.DetectText(item.Text)
	logger.Debug("detected %d pattern matches in %s", len(matches), item.SourcePath)
	return matches, nil
}

// DetectText scans raw text. One pass per table entry; results are merged,
// ordered by offset, and deduplicated per (type, start).
func (d *Detector) DetectText(text string) []domain.PatternMatch {
	if text == "" {
		return []domain.PatternMatch{}
	}

	type keyed struct {
		domain.PatternMatch
		order int
	}
	var all []keyed

	for i, sp := range d.specs {
		var raws []rawMatch
		if sp.scan != nil {
			raws = sp.scan(text)
		} else {
			for _, loc := range sp.re.FindAllStringIndex(text, -1) {
				raws = append(raws, rawMatch{start: loc[0], end: loc[1]})
			}
		}
		for _, r := range raws {
			all = append(all, keyed{
				PatternMatch: domain.PatternMatch{
					Type:      sp.typ,
					Family:    sp.family,
					Start:     r.start,
					End:       r.end,
					Snippet:   text[r.start:r.end],
					Atomic:    sp.atomic,
					Truncated: r.truncated,
				},
				order: i,
			})
		}
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start < all[j].Start
		}
		if all[i].End != all[j].End {
			return all[i].End < all[j].End
		}
		return all[i].order < all[j].order
	})

	// Two table entries can claim the same span for the same type; keep
	// the first.
	seen := make(map[string]bool, len(all))
	out := make([]domain.PatternMatch, 0, len(all))
	for _, m := range all {
		k := fmt.Sprintf("%s@%d", m.Type, m.Start)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, m.PatternMatch)
	}
	return out
}

const dispatchOpen = "float.dispatch("

// scanDispatch locates dispatch blocks by balancing parentheses and braces
// from the opening marker. An unterminated block matches through end of
// input and is flagged truncated.
func scanDispatch(text string) []rawMatch {
	var out []rawMatch
	offset := 0
	for {
		idx := strings.Index(text[offset:], dispatchOpen)
		if idx < 0 {
			return out
		}
		start := offset + idx
		pos := start + len(dispatchOpen)
		depth := 1
		for pos < len(text) && depth > 0 {
			switch text[pos] {
			case '(', '{':
				depth++
			case ')', '}':
				depth--
			}
			pos++
		}
		if depth > 0 {
			out = append(out, rawMatch{start: start, end: len(text), truncated: true})
			return out
		}
		out = append(out, rawMatch{start: start, end: pos})
		offset = pos
	}
}

// normalizePersona canonicalises a bracketed annotation name.
func normalizePersona(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	n = strings.ReplaceAll(n, "_", "-")
	if n == "lf" || n == "littlefucker" {
		n = "little-fucker"
	}
	return n
}

// PersonaName extracts the canonical persona name from a persona-family
// match snippet. Returns "" for non-bracket snippets such as mood lines.
func PersonaName(snippet string) string {
	m := personaRe.FindStringSubmatch(snippet)
	if m == nil {
		return ""
	}
	return normalizePersona(m[1])
}
