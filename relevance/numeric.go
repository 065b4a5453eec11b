package relevance

import (
	"sort"

	"github.com/zero-day-ai/goap/state"
	"github.com/zero-day-ai/goap/step"
)

// resolveNumericRequirements derives implicit sub-goals from the
// integer preconditions of goal-relevant steps.
//
// A step with an integer precondition (say, raw-food count >= 1) that
// produces a goal-relevant effect is invisible to a heuristic that
// only inspects constraints named in the goal. Promoting those integer
// preconditions to sub-goals lets the heuristic count the missing
// quantities toward its remaining-cost estimate, so the search
// discovers transitive acquisition chains the goal never mentions.
//
// One sub-goal is produced per integer fact key, carrying the highest
// threshold required by any relevant step. Keys the goal itself
// constrains are skipped; the heuristic already counts goal
// constraints directly.
func resolveNumericRequirements(relevant []*step.Step, goal *state.Goal) []state.Condition {
	inGoal := make(map[state.Key]bool, goal.Len())
	for _, c := range goal.Conditions() {
		inGoal[c.Key] = true
	}

	thresholds := make(map[state.Key]int)
	for _, s := range relevant {
		for _, pre := range s.Preconditions() {
			if pre.Kind != state.KindInt || inGoal[pre.Key] {
				continue
			}
			if pre.Min > thresholds[pre.Key] {
				thresholds[pre.Key] = pre.Min
			}
		}
	}

	out := make([]state.Condition, 0, len(thresholds))
	for key, min := range thresholds {
		out = append(out, state.MinCondition(key, min))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}
