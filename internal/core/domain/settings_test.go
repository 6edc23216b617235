package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSettingsValidate(t *testing.T) {
	s := DefaultSettings()
	require.NoError(t, s.Validate())
}

func TestSettingsValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Settings)
	}{
		{"zero workers", func(s *Settings) { s.Workers = 0 }},
		{"secondary above one", func(s *Settings) { s.Thresholds.Secondary = 1.5 }},
		{"zero saturation", func(s *Settings) { s.Thresholds.Saturation = 0 }},
		{"unknown backend", func(s *Settings) { s.StateBackend = "redis" }},
		{"max below target", func(s *Settings) { s.Chunks.Concept = DomainChunkSize{Target: 600, Max: 100} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)
			assert.ErrorIs(t, s.Validate(), ErrInvalidInput)
		})
	}
}

func TestChunkSizesForDomain(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 600, s.Chunks.ForDomain(DomainConcept).Target)
	assert.Equal(t, 1800, s.Chunks.ForDomain(DomainFramework).Max)
	assert.Equal(t, 800, s.Chunks.ForDomain(DomainMetaphor).Target)
}

func TestCollectionsForDomain(t *testing.T) {
	c := DefaultSettings().Collections

	assert.Equal(t, "float_tripartite_v2_concept", c.ForDomain(DomainConcept))
	assert.Equal(t, "float_tripartite_v2_framework", c.ForDomain(DomainFramework))
	assert.Equal(t, "float_tripartite_v2_metaphor", c.ForDomain(DomainMetaphor))
}

func TestParseDomain(t *testing.T) {
	d, err := ParseDomain("framework")
	require.NoError(t, err)
	assert.Equal(t, DomainFramework, d)

	_, err = ParseDomain("vibes")
	assert.ErrorIs(t, err, ErrInvalidInput)
}
