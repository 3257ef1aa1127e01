// Package plan implements the pattern planner: choosing which of the three
// rotated indexes (CSPO, CPOS, COSP) best serves a triple pattern, and how
// many of its leading fields are bound.
//
// For each rotation the relevant index presents subject, predicate and
// object in a different order. A pattern's bound terms form a run of
// consecutive matches only when they align with that order starting from
// the index's first field; Plan scores each rotation by the length of that
// run and picks the best.
package plan

// Plan selects the rotation (0 = CSPO, 1 = CPOS, 2 = COSP) that maximizes
// the number of leading bound fields it can use as a scan prefix, and
// returns that rotation along with the run length (0 to 3).
//
// Ties are broken in favor of the lowest rotation index: CSPO over CPOS
// over COSP.
func Plan(sBound, pBound, oBound bool) (rotation, boundRun int) {
	var mask int
	if sBound {
		mask |= 1
	}
	if pBound {
		mask |= 2
	}
	if oBound {
		mask |= 4
	}

	bestScore := -1
	bestTieBreak := -1
	for start := 0; start < 3; start++ {
		score := 1
		length := 0
		for j := start; j < start+3; j++ {
			if mask&(1<<(uint(j)%3)) != 0 {
				score <<= 1
				length++
			} else {
				break
			}
		}
		tieBreak := 2 - start

		if score > bestScore || (score == bestScore && tieBreak > bestTieBreak) {
			bestScore = score
			bestTieBreak = tieBreak
			rotation = start
			boundRun = length
		}
	}
	return rotation, boundRun
}
