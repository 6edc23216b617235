package domain

import "fmt"

// Domain is one of the three fixed semantic buckets content routes to.
// The enumeration is closed; it is not extensible at runtime.
type Domain string

// The tripartite domains, in tie-break precedence order.
const (
	// DomainConcept favours short, high-signal definitional passages.
	DomainConcept Domain = "concept"

	// DomainFramework favours process and workflow structure.
	DomainFramework Domain = "framework"

	// DomainMetaphor favours narrative and lived-experience resonance.
	DomainMetaphor Domain = "metaphor"
)

// AllDomains returns the three domains in precedence order
// (Concept > Framework > Metaphor for primary tie-breaks).
func AllDomains() []Domain {
	return []Domain{DomainConcept, DomainFramework, DomainMetaphor}
}

// IsValid returns true if the domain is recognised.
func (d Domain) IsValid() bool {
	switch d {
	case DomainConcept, DomainFramework, DomainMetaphor:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (d Domain) String() string {
	return string(d)
}

// ParseDomain converts a string to a Domain.
func ParseDomain(s string) (Domain, error) {
	d := Domain(s)
	if !d.IsValid() {
		return "", fmt.Errorf("%w: domain %q", ErrInvalidInput, s)
	}
	return d, nil
}

// DomainScore is one domain's accumulated evidence and the confidence
// derived from it. Scores are normalised independently per domain;
// domains are not mutually exclusive.
type DomainScore struct {
	// Confidence is in [0,1].
	Confidence float64

	// Evidence is the raw weighted evidence count behind Confidence.
	Evidence int

	// Hits records the pattern types that contributed, with match counts.
	Hits map[PatternType]int
}

// RoutingDecision is the classifier's verdict for one content item.
type RoutingDecision struct {
	// Primary is the max-scoring domain.
	Primary Domain

	// Secondaries are additional domains whose confidence cleared the
	// secondary threshold (plus any family-count guard). Never contains
	// Primary.
	Secondaries []Domain

	// SpecialCollections are auxiliary collections triggered by marker
	// families, receiving copies in addition to domain routing.
	SpecialCollections []string

	// AllDomains is the ultra-high-signal override: when true all three
	// domains are routed regardless of individual scores, and Secondaries
	// holds the full domain set minus Primary.
	AllDomains bool

	// Ambiguous is set when every domain score fell below the ambiguity
	// floor; such content routes to the general fallback collection only.
	Ambiguous bool

	// Scores holds the per-domain evidence behind the decision.
	Scores map[Domain]DomainScore

	// Reasoning is a human-readable explanation for the note file and logs.
	Reasoning string
}

// Routes returns the domains this decision routes to, primary first.
func (r *RoutingDecision) Routes() []Domain {
	routes := make([]Domain, 0, 3)
	routes = append(routes, r.Primary)
	routes = append(routes, r.Secondaries...)
	return routes
}

// HasSecondary returns true if d is a secondary route.
func (r *RoutingDecision) HasSecondary(d Domain) bool {
	for _, s := range r.Secondaries {
		if s == d {
			return true
		}
	}
	return false
}
