package patterns

import (
	"strings"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
)

// BuildProfile aggregates detector output into a signal profile. The profile
// is derived data; callers recompute it per run.
func BuildProfile(text string, matches []domain.PatternMatch, th domain.Thresholds) *domain.SignalProfile {
	p := &domain.SignalProfile{
		CountsByType:   make(map[domain.PatternType]int),
		CountsByFamily: make(map[domain.PatternFamily]int),
		TotalCount:     len(matches),
		WordCount:      len(strings.Fields(text)),
	}

	personas := make(map[string]bool)
	for _, m := range matches {
		p.CountsByType[m.Type]++
		p.CountsByFamily[m.Family]++
		if m.Family == domain.FamilyPersona && m.Type != domain.PatternMood {
			if name := PersonaName(m.Snippet); name != "" {
				personas[name] = true
			}
		}
	}
	p.DistinctPersonas = len(personas)

	// Density is per word, capped so pattern-only fragments stay in range.
	words := p.WordCount
	if words < 1 {
		words = 1
	}
	p.SignalDensity = float64(p.TotalCount) / float64(words)
	if p.SignalDensity > 1.0 {
		p.SignalDensity = 1.0
	}

	p.Complexity = complexityFor(p.SignalDensity, p.TotalCount, th)
	return p
}

// complexityFor derives the tier from density and volume. High mirrors the
// all-domain override inputs; medium needs either moderate density or a
// moderate match count.
func complexityFor(density float64, total int, th domain.Thresholds) domain.ComplexityTier {
	switch {
	case density > th.AllDomainDensity && total > th.AllDomainPatternCount:
		return domain.ComplexityHigh
	case density > 0.02 || total > 5:
		return domain.ComplexityMedium
	default:
		return domain.ComplexityLow
	}
}
