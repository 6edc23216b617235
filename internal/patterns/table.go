// Package patterns scans extracted text for the marker and vocabulary
// patterns that drive classification and routing.
package patterns

import (
	"regexp"

	"github.com/float-ritual-stack/floatd/internal/core/domain"
)

// spec is one entry in the pattern table. A spec matches either through a
// compiled regexp or through a custom scan function, never both.
type spec struct {
	typ    domain.PatternType
	family domain.PatternFamily
	re     *regexp.Regexp
	scan   scanFunc
	atomic bool
}

// scanFunc finds all occurrences of a pattern in text, returning raw matches.
type scanFunc func(text string) []rawMatch

// rawMatch is a located occurrence before it is lifted into a PatternMatch.
type rawMatch struct {
	start     int
	end       int
	truncated bool
}

// lineMarker matches a `name::` marker and its payload to end of line.
func lineMarker(name string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)` + regexp.QuoteMeta(name) + `::[^\n]*`)
}

// literal matches a fixed substring.
func literal(s string) *regexp.Regexp {
	return regexp.MustCompile(regexp.QuoteMeta(s))
}

// vocab matches any of the given phrases on word boundaries, case-insensitive.
func vocab(phrases ...string) *regexp.Regexp {
	alt := ""
	for i, p := range phrases {
		if i > 0 {
			alt += "|"
		}
		alt += regexp.QuoteMeta(p)
	}
	return regexp.MustCompile(`(?i)\b(?:` + alt + `)\b`)
}

// personaRe matches bracketed persona annotations like [sysop:: on deck].
var personaRe = regexp.MustCompile(`(?i)\[\s*([a-z0-9_-]+)\s*::[^\]]*\]`)

// table is the full pattern library. Order matters only as the final
// tie-break when two matches share an offset.
var table = []spec{
	// Core line markers.
	{typ: domain.PatternCtx, family: domain.FamilyCore, re: lineMarker("ctx")},
	{typ: domain.PatternHighlight, family: domain.FamilyCore, re: lineMarker("highlight")},
	{typ: domain.PatternSignal, family: domain.FamilyCore, re: lineMarker("signal")},

	// Atomic dispatch blocks need balanced-delimiter scanning.
	{typ: domain.PatternDispatch, family: domain.FamilyDispatch, scan: scanDispatch, atomic: true},

	// Extended annotations.
	{typ: domain.PatternExpandOn, family: domain.FamilyExtended, re: lineMarker("expandOn")},
	{typ: domain.PatternRelatesTo, family: domain.FamilyExtended, re: lineMarker("relatesTo")},
	{typ: domain.PatternRememberWhen, family: domain.FamilyExtended, re: lineMarker("rememberWhen")},
	{typ: domain.PatternStoryTime, family: domain.FamilyExtended, re: lineMarker("storyTime")},

	// Special-collection markers.
	{typ: domain.PatternEchoCopy, family: domain.FamilyEchoCopy, re: lineMarker("echoCopy")},
	{typ: domain.PatternFloatRFC, family: domain.FamilyRFC, re: literal("float.rfc")},

	// Personas. The named set first, then the generic fallback for any
	// other bracketed annotation; mood:: rides with the persona family.
	{typ: domain.PatternPersonaLF1M, family: domain.FamilyPersona, scan: scanPersona("lf1m")},
	{typ: domain.PatternPersonaQTB, family: domain.FamilyPersona, scan: scanPersona("qtb")},
	{typ: domain.PatternPersonaKaren, family: domain.FamilyPersona, scan: scanPersona("karen")},
	{typ: domain.PatternPersonaSysop, family: domain.FamilyPersona, scan: scanPersona("sysop")},
	{typ: domain.PatternPersonaAny, family: domain.FamilyPersona, scan: scanPersona("any")},
	{typ: domain.PatternPersonaLilFckr, family: domain.FamilyPersona, scan: scanPersona("little-fucker")},
	{typ: domain.PatternPersona, family: domain.FamilyPersona, scan: scanUnknownPersona},
	{typ: domain.PatternMood, family: domain.FamilyPersona, re: lineMarker("mood")},

	// Platform references.
	{typ: domain.PatternLovable, family: domain.FamilyPlatform, re: literal("lovable.dev")},
	{typ: domain.PatternV0, family: domain.FamilyPlatform, re: literal("v0.dev")},
	{typ: domain.PatternMagicPatterns, family: domain.FamilyPlatform, re: literal("magicpatterns.com")},
	{typ: domain.PatternGitHub, family: domain.FamilyPlatform, re: literal("github.com")},

	// Heritage markers.
	{typ: domain.PatternFloatDis, family: domain.FamilyHeritage, re: literal("float.dis")},
	{typ: domain.PatternFileIDDiz, family: domain.FamilyHeritage, re: literal("file_id.diz")},

	// Concept vocabulary.
	{typ: domain.PatternDefinition, family: domain.FamilyVocab,
		re: vocab("is defined as", "definition", "means that", "refers to", "is a term")},
	{typ: domain.PatternClarification, family: domain.FamilyVocab,
		re: vocab("in other words", "to clarify", "specifically", "that is to say", "put simply")},
	{typ: domain.PatternAtomicKnowledge, family: domain.FamilyVocab,
		re: vocab("key insight", "core idea", "fundamental", "principle", "axiom")},

	// Framework vocabulary.
	{typ: domain.PatternImplementation, family: domain.FamilyVocab,
		re: vocab("implementation", "implement", "deploy", "deployment", "install", "setup", "configure")},
	{typ: domain.PatternArchitecture, family: domain.FamilyVocab,
		re: vocab("architecture", "system design", "component", "module", "pipeline", "infrastructure")},
	{typ: domain.PatternWorkflow, family: domain.FamilyVocab,
		re: vocab("workflow", "process", "step by step", "procedure", "checklist", "first", "then", "finally")},
	{typ: domain.PatternDataFormat, family: domain.FamilyVocab,
		re: vocab("json", "yaml", "toml", "schema", "api", "endpoint", "payload")},

	// Metaphor vocabulary.
	{typ: domain.PatternStoryMarker, family: domain.FamilyVocab,
		re: vocab("once", "back when", "there was a time", "story", "remember")},
	{typ: domain.PatternExperience, family: domain.FamilyVocab,
		re: vocab("felt like", "it seemed", "experience", "lived", "visceral")},
	{typ: domain.PatternPhilosophy, family: domain.FamilyVocab,
		re: vocab("philosophy", "belief", "meaning", "purpose", "why we")},
	{typ: domain.PatternPersonalPronoun, family: domain.FamilyVocab,
		re: vocab("i", "me", "my", "we", "our")},
	{typ: domain.PatternCasualLanguage, family: domain.FamilyVocab,
		re: vocab("kinda", "sorta", "honestly", "basically", "anyway", "y'know")},
	{typ: domain.PatternExample, family: domain.FamilyVocab,
		re: vocab("for example", "for instance", "such as", "like when", "e.g")},
	{typ: domain.PatternRitualLanguage, family: domain.FamilyVocab,
		re: vocab("ritual", "practice", "ceremony", "sacred", "invocation")},
	{typ: domain.PatternShackCathedral, family: domain.FamilyVocab,
		re: vocab("shack", "cathedral")},
	{typ: domain.PatternFeralDuality, family: domain.FamilyVocab,
		re: vocab("feral", "tame", "wild", "domesticated")},
	{typ: domain.PatternRotfield, family: domain.FamilyVocab,
		re: vocab("rotfield", "compost", "decay", "fertile")},
	{typ: domain.PatternNeurodivergent, family: domain.FamilyVocab,
		re: vocab("neurodivergent", "adhd", "autistic", "executive function", "hyperfocus")},
	{typ: domain.PatternEmbodied, family: domain.FamilyVocab,
		re: vocab("body", "breath", "somatic", "grounding", "embodied")},

	// Document structure.
	{typ: domain.PatternHeading, family: domain.FamilyStructure,
		re: regexp.MustCompile(`(?m)^#{1,6}\s+\S`)},
	{typ: domain.PatternBulletPoint, family: domain.FamilyStructure,
		re: regexp.MustCompile(`(?m)^\s*[-*+]\s+\S`)},
	{typ: domain.PatternNumberedList, family: domain.FamilyStructure,
		re: regexp.MustCompile(`(?m)^\s*\d+[.)]\s+\S`)},
	{typ: domain.PatternActionItem, family: domain.FamilyStructure,
		re: regexp.MustCompile(`(?m)^\s*[-*] \[[ xX]\]`)},
	{typ: domain.PatternCodeBlock, family: domain.FamilyStructure,
		re: regexp.MustCompile("(?s)```.*?```")},
	{typ: domain.PatternInlineCode, family: domain.FamilyStructure,
		re: regexp.MustCompile("`[^`\n]+`")},
}

// scanPersona returns a scanner for one known persona name.
func scanPersona(name string) scanFunc {
	return func(text string) []rawMatch {
		var out []rawMatch
		for _, loc := range personaRe.FindAllStringSubmatchIndex(text, -1) {
			got := normalizePersona(text[loc[2]:loc[3]])
			if got == name {
				out = append(out, rawMatch{start: loc[0], end: loc[1]})
			}
		}
		return out
	}
}

// scanUnknownPersona matches bracketed annotations whose name is outside the
// known persona set.
func scanUnknownPersona(text string) []rawMatch {
	var out []rawMatch
	for _, loc := range personaRe.FindAllStringSubmatchIndex(text, -1) {
		got := normalizePersona(text[loc[2]:loc[3]])
		if !knownPersonas[got] {
			out = append(out, rawMatch{start: loc[0], end: loc[1]})
		}
	}
	return out
}

var knownPersonas = map[string]bool{
	"lf1m":          true,
	"qtb":           true,
	"karen":         true,
	"sysop":         true,
	"any":           true,
	"little-fucker": true,
}
