package domain

import "fmt"

// Settings is the full runtime configuration of the ingestion pipeline.
// Every threshold the classifier and chunker consult lives here; there are
// no package-level tuning globals.
type Settings struct {
	// Dropzone is the watched directory.
	Dropzone string `toml:"dropzone"`

	// StateBackend selects the processing-record store: "file" (default)
	// or "sqlite".
	StateBackend string `toml:"state_backend"`

	// StatePath is the state file (file backend) or database path (sqlite
	// backend).
	StatePath string `toml:"state_path"`

	// MaxFileSize is the largest file, in bytes, the pipeline will extract.
	MaxFileSize int64 `toml:"max_file_size"`

	// SettleDelayMS is how long a newly seen file must stay unchanged
	// before it is processed, in milliseconds.
	SettleDelayMS int `toml:"settle_delay_ms"`

	// Workers is the size of the processing pool.
	Workers int `toml:"workers"`

	// Thresholds holds the classifier tuning values.
	Thresholds Thresholds `toml:"thresholds"`

	// Chunks holds the per-domain chunk sizing.
	Chunks ChunkSizes `toml:"chunks"`

	// Collections holds the destination collection names.
	Collections Collections `toml:"collections"`

	// Chroma configures the optional Chroma sink.
	Chroma ChromaSettings `toml:"chroma"`

	// Ollama configures the optional summariser.
	Ollama OllamaSettings `toml:"ollama"`
}

// Thresholds are the classifier and profile tuning values.
type Thresholds struct {
	// Secondary is the minimum confidence for a non-primary domain to be
	// routed as a secondary.
	Secondary float64 `toml:"secondary"`

	// AllDomainDensity and AllDomainPatternCount together trigger the
	// ultra-high-signal override: density strictly above the first AND
	// total pattern count strictly above the second routes all domains.
	AllDomainDensity      float64 `toml:"all_domain_density"`
	AllDomainPatternCount int     `toml:"all_domain_pattern_count"`

	// FrameworkPlatformRefs is the platform-reference count a framework
	// secondary additionally requires (strictly more than this).
	FrameworkPlatformRefs int `toml:"framework_platform_refs"`

	// MetaphorPersonas is the distinct-persona count a metaphor secondary
	// additionally requires (strictly more than this).
	MetaphorPersonas int `toml:"metaphor_personas"`

	// Saturation is the weighted-evidence count at which a domain's
	// confidence reaches 1.0.
	Saturation int `toml:"saturation"`

	// AmbiguityFloor sends content to the general fallback when every
	// domain confidence falls below it.
	AmbiguityFloor float64 `toml:"ambiguity_floor"`
}

// DomainChunkSize is the target and hard maximum chunk size for one domain,
// in characters. Only atomic dispatch blocks may exceed Max.
type DomainChunkSize struct {
	Target int `toml:"target"`
	Max    int `toml:"max"`
}

// ChunkSizes is the per-domain chunk sizing table.
type ChunkSizes struct {
	Concept   DomainChunkSize `toml:"concept"`
	Framework DomainChunkSize `toml:"framework"`
	Metaphor  DomainChunkSize `toml:"metaphor"`
}

// ForDomain returns the sizing for d, falling back to the concept sizing
// for unrecognised domains.
func (c ChunkSizes) ForDomain(d Domain) DomainChunkSize {
	switch d {
	case DomainFramework:
		return c.Framework
	case DomainMetaphor:
		return c.Metaphor
	default:
		return c.Concept
	}
}

// Collections names every destination collection.
type Collections struct {
	Concept   string `toml:"concept"`
	Framework string `toml:"framework"`
	Metaphor  string `toml:"metaphor"`

	// DispatchBay receives copies of chunks carrying dispatch blocks.
	DispatchBay string `toml:"dispatch_bay"`

	// RFC receives copies of chunks carrying float.rfc markers.
	RFC string `toml:"rfc"`

	// EchoCopy receives copies of chunks carrying echoCopy markers.
	EchoCopy string `toml:"echo_copy"`

	// General is the fallback for ambiguous content.
	General string `toml:"general"`
}

// ForDomain returns the collection name for a tripartite domain.
func (c Collections) ForDomain(d Domain) string {
	switch d {
	case DomainFramework:
		return c.Framework
	case DomainMetaphor:
		return c.Metaphor
	default:
		return c.Concept
	}
}

// ChromaSettings configures the Chroma HTTP sink.
type ChromaSettings struct {
	// Enabled turns the sink on. When false, manifests are kept in memory
	// only.
	Enabled bool `toml:"enabled"`

	// BaseURL is the Chroma server address.
	BaseURL string `toml:"base_url"`

	// RequestsPerSecond rate-limits sink writes. Zero disables limiting.
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// OllamaSettings configures the optional local summariser.
type OllamaSettings struct {
	Enabled bool   `toml:"enabled"`
	BaseURL string `toml:"base_url"`
	Model   string `toml:"model"`
}

// DefaultSettings returns the stock configuration.
func DefaultSettings() Settings {
	return Settings{
		StateBackend:  "file",
		MaxFileSize:   50 << 20,
		SettleDelayMS: 500,
		Workers:       4,
		Thresholds: Thresholds{
			Secondary:             0.6,
			AllDomainDensity:      0.05,
			AllDomainPatternCount: 10,
			FrameworkPlatformRefs: 3,
			MetaphorPersonas:      2,
			Saturation:            10,
			AmbiguityFloor:        0.15,
		},
		Chunks: ChunkSizes{
			Concept:   DomainChunkSize{Target: 600, Max: 1200},
			Framework: DomainChunkSize{Target: 900, Max: 1800},
			Metaphor:  DomainChunkSize{Target: 800, Max: 1600},
		},
		Collections: Collections{
			Concept:     "float_tripartite_v2_concept",
			Framework:   "float_tripartite_v2_framework",
			Metaphor:    "float_tripartite_v2_metaphor",
			DispatchBay: "float_dispatch_bay",
			RFC:         "float_rfc",
			EchoCopy:    "float_echo_copy",
			General:     "float_general",
		},
		Chroma: ChromaSettings{
			BaseURL:           "http://localhost:8000",
			RequestsPerSecond: 10,
		},
		Ollama: OllamaSettings{
			BaseURL: "http://localhost:11434",
			Model:   "llama3.2",
		},
	}
}

// Validate rejects settings the pipeline cannot run with.
func (s *Settings) Validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1", ErrInvalidInput)
	}
	if s.Thresholds.Secondary < 0 || s.Thresholds.Secondary > 1 {
		return fmt.Errorf("%w: secondary threshold must be in [0,1]", ErrInvalidInput)
	}
	if s.Thresholds.Saturation < 1 {
		return fmt.Errorf("%w: saturation must be at least 1", ErrInvalidInput)
	}
	switch s.StateBackend {
	case "file", "sqlite":
	default:
		return fmt.Errorf("%w: unknown state backend %q", ErrInvalidInput, s.StateBackend)
	}
	for _, sz := range []DomainChunkSize{s.Chunks.Concept, s.Chunks.Framework, s.Chunks.Metaphor} {
		if sz.Target < 1 || sz.Max < sz.Target {
			return fmt.Errorf("%w: chunk sizes must satisfy 1 <= target <= max", ErrInvalidInput)
		}
	}
	return nil
}
