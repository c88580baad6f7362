package signals

import "github.com/jtarasov/rolefit/internal/catalog"

// Match resolves an archetype's required skill against the profile. The
// canonical name is tried first; the declared alternatives then catch
// free-text skills that never resolved against the vocabulary.
func (p *ProfileSignals) Match(rs catalog.RequiredSkill) (SkillSignal, bool) {
	if s, ok := p.skills[catalog.Fold(rs.Name)]; ok {
		return s, true
	}
	for _, alt := range rs.Alternatives {
		if s, ok := p.skills[catalog.Fold(alt)]; ok {
			return s, true
		}
	}
	return SkillSignal{}, false
}
