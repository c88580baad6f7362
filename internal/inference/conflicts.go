package inference

import "github.com/google/uuid"

const (
	// conflictScoreWindow is the fit-score distance within which two roles
	// count as comparably strong.
	conflictScoreWindow = 15
	// conflictOverlapCeiling is the Jaccard similarity below which two
	// matched-skill sets count as largely disjoint.
	conflictOverlapCeiling = 0.3
)

// detectConflicts compares the selected candidates pairwise and tags roles
// whose supporting evidence is comparably strong but largely disjoint with a
// shared conflict group ID. Such roles are presented as parallel paths
// instead of collapsed into one winner. The returned slice is index-aligned
// with selected; untagged roles get an empty string.
func detectConflicts(selected []scoredArchetype) []string {
	groups := make([]string, len(selected))

	for i := 0; i < len(selected); i++ {
		for j := i + 1; j < len(selected); j++ {
			diff := selected[i].fitScore - selected[j].fitScore
			if diff < 0 {
				diff = -diff
			}
			if diff > conflictScoreWindow {
				continue
			}
			if jaccard(selected[i].matchedKeys, selected[j].matchedKeys) >= conflictOverlapCeiling {
				continue
			}

			switch {
			case groups[i] == "" && groups[j] == "":
				id := uuid.NewString()
				groups[i], groups[j] = id, id
			case groups[i] != "" && groups[j] == "":
				groups[j] = groups[i]
			case groups[i] == "" && groups[j] != "":
				groups[i] = groups[j]
			case groups[i] != groups[j]:
				// Two existing groups turn out to be connected; merge.
				old := groups[j]
				for k := range groups {
					if groups[k] == old {
						groups[k] = groups[i]
					}
				}
			}
		}
	}

	return groups
}

// jaccard computes the Jaccard similarity of two skill-key sets. Two empty
// sets count as fully disjoint, not identical.
func jaccard(a, b map[string]bool) float64 {
	intersection := 0
	for key := range a {
		if b[key] {
			intersection++
		}
	}

	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}

	return float64(intersection) / float64(union)
}
