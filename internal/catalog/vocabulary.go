package catalog

import (
	"strings"
	"unicode"
)

// Vocabulary canonicalizes free-text skill mentions against the catalog's
// controlled skill names. Matching is case- and punctuation-insensitive;
// alternatives declared on an archetype's required skill fold into the same
// canonical identity as the primary name.
type Vocabulary struct {
	canonical map[string]string
}

func buildVocabulary(archetypes []RoleArchetype) *Vocabulary {
	v := &Vocabulary{canonical: make(map[string]string)}

	for _, a := range archetypes {
		for _, rs := range a.RequiredSkills {
			v.add(rs.Name, rs.Name)
			for _, alt := range rs.Alternatives {
				v.add(alt, rs.Name)
			}
		}
	}

	return v
}

// add registers a spelling for a canonical name. The first declaration of a
// spelling wins, keeping normalization deterministic across archetypes that
// disagree about an alternative.
func (v *Vocabulary) add(spelling, canonical string) {
	key := Fold(spelling)
	if key == "" {
		return
	}
	if _, ok := v.canonical[key]; ok {
		return
	}
	v.canonical[key] = strings.TrimSpace(canonical)
}

// Normalize resolves a raw skill mention to its canonical name. The second
// return value reports whether the mention was recognized.
func (v *Vocabulary) Normalize(raw string) (string, bool) {
	if v == nil {
		return "", false
	}
	name, ok := v.canonical[Fold(raw)]
	return name, ok
}

// Len reports the number of distinct spellings in the vocabulary.
func (v *Vocabulary) Len() int {
	if v == nil {
		return 0
	}
	return len(v.canonical)
}

// Fold lowercases a skill mention and strips punctuation and whitespace.
// '+' and '#' survive folding so that C, C++ and C# stay distinct.
func Fold(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '+' || r == '#' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
