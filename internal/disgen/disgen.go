// Package disgen writes the .float_dis.md sidecar note next to each
// processed file: a human-readable record of where the content went and why.
package disgen

import (
	"fmt"
	"os"
	"strings"
	"text/template"
	"time"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
	"github.com/float-ritual-stack/floatd/internal/logger"
)

// Suffix is appended to the source path to name the sidecar. The dropzone
// watcher skips files carrying it, so the daemon never ingests its own notes.
const Suffix = ".float_dis.md"

// note is the template input.
type note struct {
	FloatID     domain.FloatID
	SourcePath  string
	ProcessedAt string
	Primary     domain.Domain
	Secondaries []domain.Domain
	Specials    []string
	AllDomains  bool
	Ambiguous   bool
	Complexity  domain.ComplexityTier
	Patterns    int
	Density     string
	Chunks      int
	Reasoning   string
	Summary     string
}

var noteTemplate = template.Must(template.New("float_dis").Parse(`---
float_id: {{.FloatID}}
source: {{.SourcePath}}
processed_at: {{.ProcessedAt}}
primary_domain: {{if .Ambiguous}}general{{else}}{{.Primary}}{{end}}
{{- if .Secondaries}}
secondary_domains: [{{range $i, $d := .Secondaries}}{{if $i}}, {{end}}{{$d}}{{end}}]
{{- end}}
{{- if .Specials}}
special_collections: [{{range $i, $c := .Specials}}{{if $i}}, {{end}}{{$c}}{{end}}]
{{- end}}
all_domains: {{.AllDomains}}
complexity: {{.Complexity}}
pattern_count: {{.Patterns}}
signal_density: {{.Density}}
chunk_count: {{.Chunks}}
---

# float.dis: {{.FloatID}}

{{if .Summary}}{{.Summary}}

{{end}}Routing: {{.Reasoning}}
`))

// Generator renders and writes sidecar notes.
type Generator struct{}

// New creates a generator.
func New() *Generator {
	return &Generator{}
}

// Render produces the note body for one processed file.
func (g *Generator) Render(
	item *domain.ContentItem,
	floatID domain.FloatID,
	decision *domain.RoutingDecision,
	profile *domain.SignalProfile,
	chunkCount int,
	summary string,
	processedAt time.Time,
) (string, error) {
	if decision == nil || profile == nil {
		return "", fmt.Errorf("render note: %w: nil decision or profile", domain.ErrInvalidInput)
	}

	n := note{
		FloatID:     floatID,
		SourcePath:  item.SourcePath,
		ProcessedAt: processedAt.UTC().Format(time.RFC3339),
		Primary:     decision.Primary,
		Secondaries: decision.Secondaries,
		Specials:    decision.SpecialCollections,
		AllDomains:  decision.AllDomains,
		Ambiguous:   decision.Ambiguous,
		Complexity:  profile.Complexity,
		Patterns:    profile.TotalCount,
		Density:     fmt.Sprintf("%.4f", profile.SignalDensity),
		Chunks:      chunkCount,
		Reasoning:   decision.Reasoning,
		Summary:     strings.TrimSpace(summary),
	}

	var b strings.Builder
	if err := noteTemplate.Execute(&b, n); err != nil {
		return "", fmt.Errorf("render note: %w", err)
	}
	return b.String(), nil
}

// Write renders the note and writes it next to the source file.
func (g *Generator) Write(
	item *domain.ContentItem,
	floatID domain.FloatID,
	decision *domain.RoutingDecision,
	profile *domain.SignalProfile,
	chunkCount int,
	summary string,
	processedAt time.Time,
) error {
	body, err := g.Render(item, floatID, decision, profile, chunkCount, summary, processedAt)
	if err != nil {
		return err
	}
	path := item.SourcePath + Suffix
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return fmt.Errorf("write note %s: %w", path, err)
	}
	logger.Debug("wrote sidecar note %s", path)
	return nil
}
