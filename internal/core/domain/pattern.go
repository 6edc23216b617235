package domain

// PatternType identifies one marker or vocabulary pattern the detector scans
// for. The set is closed; adding a type is a data change in the pattern table,
// not new control flow.
type PatternType string

// Core line markers.
const (
	PatternCtx       PatternType = "ctx"
	PatternHighlight PatternType = "highlight"
	PatternSignal    PatternType = "signal"
)

// Atomic dispatch block. The payload is brace-delimited and indivisible:
// it is never split across chunks and never paraphrased.
const PatternDispatch PatternType = "dispatch"

// Extended annotation markers.
const (
	PatternExpandOn     PatternType = "expand_on"
	PatternRelatesTo    PatternType = "relates_to"
	PatternRememberWhen PatternType = "remember_when"
	PatternStoryTime    PatternType = "story_time"
)

// Special-collection markers beyond dispatch.
const (
	PatternEchoCopy PatternType = "echo_copy"
	PatternFloatRFC PatternType = "float_rfc"
)

// Bracketed persona annotations. PatternPersona is the generic fallback for
// names outside the known set.
const (
	PatternPersona         PatternType = "persona"
	PatternPersonaLF1M     PatternType = "persona_lf1m"
	PatternPersonaQTB      PatternType = "persona_qtb"
	PatternPersonaKaren    PatternType = "persona_karen"
	PatternPersonaSysop    PatternType = "persona_sysop"
	PatternPersonaAny      PatternType = "persona_any"
	PatternPersonaLilFckr  PatternType = "persona_little_fucker"
	PatternMood            PatternType = "mood"
)

// Platform references (literal domain substrings).
const (
	PatternLovable       PatternType = "platform_lovable"
	PatternV0            PatternType = "platform_v0"
	PatternMagicPatterns PatternType = "platform_magicpatterns"
	PatternGitHub        PatternType = "platform_github"
)

// Legacy heritage markers.
const (
	PatternFloatDis  PatternType = "float_dis"
	PatternFileIDDiz PatternType = "file_id_diz"
)

// Concept vocabulary.
const (
	PatternDefinition      PatternType = "definition"
	PatternClarification   PatternType = "clarification"
	PatternAtomicKnowledge PatternType = "atomic_knowledge"
)

// Framework vocabulary.
const (
	PatternImplementation PatternType = "implementation"
	PatternArchitecture   PatternType = "architecture"
	PatternWorkflow       PatternType = "workflow"
	PatternDataFormat     PatternType = "data_format"
)

// Metaphor vocabulary.
const (
	PatternStoryMarker      PatternType = "story_marker"
	PatternExperience       PatternType = "experience"
	PatternPhilosophy       PatternType = "philosophy"
	PatternPersonalPronoun  PatternType = "personal_pronoun"
	PatternCasualLanguage   PatternType = "casual_language"
	PatternExample          PatternType = "example"
	PatternRitualLanguage   PatternType = "ritual_language"
	PatternShackCathedral   PatternType = "shack_cathedral"
	PatternFeralDuality     PatternType = "feral_duality"
	PatternRotfield         PatternType = "rotfield"
	PatternNeurodivergent   PatternType = "neurodivergent"
	PatternEmbodied         PatternType = "embodied"
)

// Document structure.
const (
	PatternHeading      PatternType = "heading"
	PatternBulletPoint  PatternType = "bullet_point"
	PatternNumberedList PatternType = "numbered_list"
	PatternActionItem   PatternType = "action_item"
	PatternCodeBlock    PatternType = "code_block"
	PatternInlineCode   PatternType = "inline_code"
)

// PatternFamily groups related pattern types. Families drive routing rules:
// the classifier counts platform and persona families, and the manifest
// builder dual-routes the three special families.
type PatternFamily string

// Pattern families.
const (
	FamilyCore      PatternFamily = "core"
	FamilyDispatch  PatternFamily = "dispatch"
	FamilyExtended  PatternFamily = "extended"
	FamilyEchoCopy  PatternFamily = "echo_copy"
	FamilyRFC       PatternFamily = "rfc"
	FamilyPersona   PatternFamily = "persona"
	FamilyPlatform  PatternFamily = "platform"
	FamilyHeritage  PatternFamily = "heritage"
	FamilyVocab     PatternFamily = "vocab"
	FamilyStructure PatternFamily = "structure"
)

// PatternMatch is one detected occurrence of a pattern in document order.
type PatternMatch struct {
	// Type is the matched pattern type.
	Type PatternType

	// Family is the family of Type.
	Family PatternFamily

	// Start is the byte offset of the match in the source text.
	Start int

	// End is the byte offset just past the match.
	End int

	// Snippet is the matched text (markers) or matched word (vocabulary).
	Snippet string

	// Atomic marks matches whose span must never be split across chunks.
	Atomic bool

	// Truncated marks a malformed marker matched up to end of input
	// (for example an unterminated dispatch payload).
	Truncated bool
}

// ComplexityTier buckets content by signal density and pattern volume.
type ComplexityTier string

// Complexity tiers.
const (
	ComplexityLow    ComplexityTier = "low"
	ComplexityMedium ComplexityTier = "medium"
	ComplexityHigh   ComplexityTier = "high"
)

// SignalProfile aggregates detector output for one content item. Profiles
// are recomputed each run and never persisted on their own.
type SignalProfile struct {
	// CountsByType is the number of matches per pattern type.
	CountsByType map[PatternType]int

	// CountsByFamily is the number of matches per family.
	CountsByFamily map[PatternFamily]int

	// TotalCount is the total number of matches.
	TotalCount int

	// WordCount is the whitespace-token count of the source text.
	WordCount int

	// SignalDensity is TotalCount / max(WordCount, 1), capped at 1.0.
	SignalDensity float64

	// DistinctPersonas is the number of distinct persona names annotated.
	DistinctPersonas int

	// Complexity is the deterministic tier derived from density and count.
	Complexity ComplexityTier
}

// Count returns the match count for a pattern type.
func (p *SignalProfile) Count(t PatternType) int {
	if p == nil || p.CountsByType == nil {
		return 0
	}
	return p.CountsByType[t]
}

// FamilyCount returns the match count for a family.
func (p *SignalProfile) FamilyCount(f PatternFamily) int {
	if p == nil || p.CountsByFamily == nil {
		return 0
	}
	return p.CountsByFamily[f]
}
