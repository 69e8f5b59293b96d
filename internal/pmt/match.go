package pmt

import "math"

// MatchTolerance is the largest accepted squared distance between a channel's
// centroid and its nearest PMT slot.
const MatchTolerance = 0.05

// Match returns the index of the slot in g closest to (x, y) and its squared
// distance. Ties go to the lowest index. A *CalibrationError is returned when
// the closest slot is further than MatchTolerance.
func Match(g Geometry, channel int, x, y float64) (int, float64, error) {
	if len(g) == 0 {
		return -1, 0, &DataError{Reason: "empty geometry table"}
	}

	minPos := -1
	minDist := math.Inf(1)
	for i, p := range g {
		d := (p.X-x)*(p.X-x) + (p.Y-y)*(p.Y-y)
		if d < minDist {
			minPos = i
			minDist = d
		}
	}

	if !(minDist <= MatchTolerance) {
		return -1, minDist, &CalibrationError{Channel: channel, DistanceSq: minDist, Nearest: minPos}
	}
	return minPos, minDist, nil
}
