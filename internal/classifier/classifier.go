// Package classifier scores content against the three tripartite domains
// and produces the routing decision.
package classifier

import (
	"fmt"
	"sort"
	"strings"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

// weighted binds a pattern type to its evidence weight for one domain.
type weighted struct {
	typ    domain.PatternType
	weight int
}

// Evidence tables. Core markers and domain-defining markers weigh triple;
// supporting vocabulary double; weak structural hints single.
var (
	conceptEvidence = []weighted{
		{domain.PatternCtx, 3},
		{domain.PatternHighlight, 3},
		{domain.PatternSignal, 3},
		{domain.PatternExpandOn, 2},
		{domain.PatternRelatesTo, 2},
		{domain.PatternDefinition, 2},
		{domain.PatternClarification, 2},
		{domain.PatternAtomicKnowledge, 2},
		{domain.PatternHeading, 1},
		{domain.PatternBulletPoint, 1},
	}

	frameworkEvidence = []weighted{
		{domain.PatternDispatch, 3},
		{domain.PatternLovable, 2},
		{domain.PatternV0, 2},
		{domain.PatternMagicPatterns, 2},
		{domain.PatternGitHub, 2},
		{domain.PatternImplementation, 2},
		{domain.PatternArchitecture, 2},
		{domain.PatternWorkflow, 2},
		{domain.PatternDataFormat, 2},
		{domain.PatternCodeBlock, 1},
		{domain.PatternInlineCode, 1},
		{domain.PatternNumberedList, 1},
		{domain.PatternActionItem, 1},
	}

	metaphorEvidence = []weighted{
		{domain.PatternStoryTime, 3},
		{domain.PatternRememberWhen, 3},
		{domain.PatternPersona, 2},
		{domain.PatternPersonaLF1M, 2},
		{domain.PatternPersonaQTB, 2},
		{domain.PatternPersonaKaren, 2},
		{domain.PatternPersonaSysop, 2},
		{domain.PatternPersonaAny, 2},
		{domain.PatternPersonaLilFckr, 2},
		{domain.PatternMood, 2},
		{domain.PatternStoryMarker, 2},
		{domain.PatternExperience, 2},
		{domain.PatternPhilosophy, 2},
		{domain.PatternRitualLanguage, 2},
		{domain.PatternShackCathedral, 2},
		{domain.PatternFeralDuality, 2},
		{domain.PatternRotfield, 2},
		{domain.PatternNeurodivergent, 2},
		{domain.PatternEmbodied, 2},
		{domain.PatternPersonalPronoun, 1},
		{domain.PatternCasualLanguage, 1},
		{domain.PatternExample, 1},
	}
)

// Classifier turns a signal profile into a routing decision. Stateless;
// thresholds and collection names come from settings at construction.
type Classifier struct {
	thresholds  domain.Thresholds
	collections domain.Collections
}

// New creates a classifier.
func New(th domain.Thresholds, cols domain.Collections) *Classifier {
	return &Classifier{thresholds: th, collections: cols}
}

// Classify produces the routing decision for one profile.
func (c *Classifier) Classify(profile *domain.SignalProfile) (*domain.RoutingDecision, error) {
	if profile == nil {
		return nil, fmt.Errorf("classify: %w: nil profile", domain.ErrInvalidInput)
	}

	scores := map[domain.Domain]domain.DomainScore{
		domain.DomainConcept:   c.score(profile, conceptEvidence),
		domain.DomainFramework: c.score(profile, frameworkEvidence),
		domain.DomainMetaphor:  c.score(profile, metaphorEvidence),
	}

	decision := &domain.RoutingDecision{Scores: scores}

	// Primary: highest confidence, ties broken by precedence order.
	decision.Primary = domain.DomainConcept
	best := scores[domain.DomainConcept].Confidence
	for _, d := range domain.AllDomains()[1:] {
		if scores[d].Confidence > best {
			best = scores[d].Confidence
			decision.Primary = d
		}
	}

	var reasons []string

	switch {
	case profile.SignalDensity > c.thresholds.AllDomainDensity &&
		profile.TotalCount > c.thresholds.AllDomainPatternCount:
		// Ultra-high-signal content goes everywhere; the per-domain
		// guards do not apply.
		decision.AllDomains = true
		for _, d := range domain.AllDomains() {
			if d != decision.Primary {
				decision.Secondaries = append(decision.Secondaries, d)
			}
		}
		reasons = append(reasons, fmt.Sprintf(
			"all-domain override: density %.3f, %d patterns", profile.SignalDensity, profile.TotalCount))

	case best < c.thresholds.AmbiguityFloor:
		decision.Ambiguous = true
		reasons = append(reasons, fmt.Sprintf(
			"ambiguous: best confidence %.2f below floor %.2f", best, c.thresholds.AmbiguityFloor))

	default:
		for _, d := range domain.AllDomains() {
			if d == decision.Primary {
				continue
			}
			if scores[d].Confidence < c.thresholds.Secondary {
				continue
			}
			if reason, ok := c.secondaryGuard(d, profile); !ok {
				reasons = append(reasons, reason)
				continue
			}
			decision.Secondaries = append(decision.Secondaries, d)
		}
		reasons = append(reasons, fmt.Sprintf(
			"primary %s at %.2f", decision.Primary, best))
	}

	decision.SpecialCollections = c.specials(profile)
	decision.Reasoning = strings.Join(reasons, "; ")

	logger.Debug("classified: primary=%s secondaries=%v special=%v ambiguous=%v",
		decision.Primary, decision.Secondaries, decision.SpecialCollections, decision.Ambiguous)
	return decision, nil
}

// score accumulates weighted evidence for one domain and normalises it
// against the saturation point.
func (c *Classifier) score(profile *domain.SignalProfile, table []weighted) domain.DomainScore {
	s := domain.DomainScore{Hits: make(map[domain.PatternType]int)}
	for _, w := range table {
		n := profile.Count(w.typ)
		if n == 0 {
			continue
		}
		s.Hits[w.typ] = n
		s.Evidence += n * w.weight
	}
	s.Confidence = float64(s.Evidence) / float64(c.thresholds.Saturation)
	if s.Confidence > 1.0 {
		s.Confidence = 1.0
	}
	return s
}

// secondaryGuard applies the extra requirement a domain must meet to ride
// as a secondary. Concept has none.
func (c *Classifier) secondaryGuard(d domain.Domain, profile *domain.SignalProfile) (string, bool) {
	switch d {
	case domain.DomainFramework:
		refs := profile.FamilyCount(domain.FamilyPlatform)
		if refs <= c.thresholds.FrameworkPlatformRefs {
			return fmt.Sprintf("framework secondary rejected: %d platform refs (need >%d)",
				refs, c.thresholds.FrameworkPlatformRefs), false
		}
	case domain.DomainMetaphor:
		if profile.DistinctPersonas <= c.thresholds.MetaphorPersonas {
			return fmt.Sprintf("metaphor secondary rejected: %d distinct personas (need >%d)",
				profile.DistinctPersonas, c.thresholds.MetaphorPersonas), false
		}
	}
	return "", true
}

// specials lists the auxiliary collections triggered by marker presence.
// These are unconditional: they fire even for ambiguous content.
func (c *Classifier) specials(profile *domain.SignalProfile) []string {
	var out []string
	if profile.FamilyCount(domain.FamilyDispatch) > 0 {
		out = append(out, c.collections.DispatchBay)
	}
	if profile.FamilyCount(domain.FamilyRFC) > 0 {
		out = append(out, c.collections.RFC)
	}
	if profile.FamilyCount(domain.FamilyEchoCopy) > 0 {
		out = append(out, c.collections.EchoCopy)
	}
	sort.Strings(out)
	return out
}
