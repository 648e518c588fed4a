package questions

import (
	"math/rand/v2"

	"github.com/Epistemic-Technology/assessa-mcp/models"
)

// SampleResult is the outcome of Sample.
type SampleResult struct {
	Selected []models.Question
	Desired  int
	// DuplicatesUsed is set when too few distinct texts existed and
	// repeated texts were used to reach Desired.
	DuplicatesUsed bool
}

// DesiredCount is ceil(m/2).
func DesiredCount(m int) int {
	return (m + 1) / 2
}

// Sample shuffles qs and picks DesiredCount(len(qs)) of them, preferring
// distinct question texts. When too few distinct texts exist the remainder is
// filled with not-yet-picked questions in shuffled order. The input slice is
// not modified. A nil rng uses the global source.
func Sample(qs []models.Question, rng *rand.Rand) SampleResult {
	desired := DesiredCount(len(qs))
	res := SampleResult{Desired: desired, Selected: make([]models.Question, 0, desired)}
	if desired == 0 {
		return res
	}

	order := make([]int, len(qs))
	for i := range order {
		order[i] = i
	}
	swap := func(i, j int) { order[i], order[j] = order[j], order[i] }
	if rng != nil {
		rng.Shuffle(len(order), swap)
	} else {
		rand.Shuffle(len(order), swap)
	}

	picked := make([]bool, len(qs))
	seen := make(map[string]struct{}, desired)
	for _, idx := range order {
		if len(res.Selected) >= desired {
			break
		}
		text := qs[idx].QuestionText
		if _, dup := seen[text]; dup {
			continue
		}
		seen[text] = struct{}{}
		picked[idx] = true
		res.Selected = append(res.Selected, qs[idx])
	}

	if len(res.Selected) < desired {
		res.DuplicatesUsed = true
		for _, idx := range order {
			if len(res.Selected) >= desired {
				break
			}
			if !picked[idx] {
				picked[idx] = true
				res.Selected = append(res.Selected, qs[idx])
			}
		}
	}
	return res
}
