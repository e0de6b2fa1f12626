package availability

import "github.com/shiftmatch/shiftmatch/internal/domain/timeslot"

// OverlapScore returns the fraction of the candidate's slots that overlap
// the seeker's schedule, in [0, 1].
//
// Counting is all-pairs per weekday: every slot of theirs increments the
// denominator once, and every (theirSlot, mySlot) overlapping pair
// increments the numerator. A candidate slot overlapping two of mine
// counts twice, so the fraction can exceed what a best-match-per-slot
// count would give.
//
// An empty candidate schedule scores 0, never a division by zero.
func OverlapScore(mine, theirs Weekly) float64 {
	totalSlots := 0
	matchingSlots := 0

	for day, theirSlots := range theirs {
		mySlots := mine[day]
		for _, theirSlot := range theirSlots {
			totalSlots++
			for _, mySlot := range mySlots {
				if timeslot.Overlaps(theirSlot, mySlot) {
					matchingSlots++
				}
			}
		}
	}

	if totalSlots == 0 {
		return 0
	}
	return float64(matchingSlots) / float64(totalSlots)
}
