package pmt

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yourbasic/bit"
	"golang.org/x/exp/maps"
)

// ChannelEstimate is the centroid measured for one readout channel.
type ChannelEstimate struct {
	Channel int
	X, Y    float64
}

// Assignment records the slot a channel was matched to.
type Assignment struct {
	Estimate   ChannelEstimate
	Position   int
	DistanceSq float64
}

// ChannelMap associates readout channels with PMT slots. It is built once
// from a complete set of assignments and never modified afterwards.
type ChannelMap struct {
	toChannel  []int
	toPosition []int
	estimates  []ChannelEstimate
}

// NewChannelMap builds the channel <-> position association for an array of
// the given number of positions. Every channel must appear once and every
// position must be taken by exactly one channel.
func NewChannelMap(assignments []Assignment, positions int) (*ChannelMap, error) {
	if len(assignments) != positions {
		return nil, &DataError{Reason: fmt.Sprintf("%d channel assignments for %d positions", len(assignments), positions)}
	}

	m := &ChannelMap{
		toChannel:  make([]int, positions),
		toPosition: make([]int, positions),
		estimates:  make([]ChannelEstimate, positions),
	}

	seenChannels := bit.New()
	covered := bit.New()
	byPosition := make(map[int][]int)
	for _, a := range assignments {
		ch := a.Estimate.Channel
		if ch < 0 || ch >= positions {
			return nil, &DataError{Reason: fmt.Sprintf("channel %d out of range [0, %d)", ch, positions)}
		}
		if a.Position < 0 || a.Position >= positions {
			return nil, &DataError{Reason: fmt.Sprintf("channel %d matched to position %d out of range [0, %d)", ch, a.Position, positions)}
		}
		if seenChannels.Contains(ch) {
			return nil, &DataError{Reason: fmt.Sprintf("channel %d assigned more than once", ch)}
		}
		seenChannels.Add(ch)
		covered.Add(a.Position)
		byPosition[a.Position] = append(byPosition[a.Position], ch)

		m.toChannel[a.Position] = ch
		m.toPosition[ch] = a.Position
		m.estimates[ch] = a.Estimate
	}

	if covered.Size() != positions {
		return nil, &DataError{Reason: describeCollisions(byPosition, covered, positions)}
	}
	return m, nil
}

func describeCollisions(byPosition map[int][]int, covered *bit.Set, positions int) string {
	positionsTaken := maps.Keys(byPosition)
	slices.Sort(positionsTaken)

	var parts []string
	for _, pos := range positionsTaken {
		if chs := byPosition[pos]; len(chs) > 1 {
			parts = append(parts, fmt.Sprintf("position %d claimed by channels %v", pos, chs))
		}
	}
	var missing []int
	for pos := 0; pos < positions; pos++ {
		if !covered.Contains(pos) {
			missing = append(missing, pos)
		}
	}
	if len(missing) > 0 {
		parts = append(parts, fmt.Sprintf("positions %v have no channel", missing))
	}
	return "channel mapping is not one-to-one: " + strings.Join(parts, "; ")
}

// Len returns the number of positions (and channels) in the map.
func (m *ChannelMap) Len() int {
	return len(m.toChannel)
}

// ChannelAt returns the channel read out at position pos.
func (m *ChannelMap) ChannelAt(pos int) int {
	return m.toChannel[pos]
}

// PositionOf returns the position of channel ch.
func (m *ChannelMap) PositionOf(ch int) int {
	return m.toPosition[ch]
}

// Estimate returns the centroid measured for channel ch.
func (m *ChannelMap) Estimate(ch int) ChannelEstimate {
	return m.estimates[ch]
}

// Estimates returns the centroids indexed by channel.
func (m *ChannelMap) Estimates() []ChannelEstimate {
	return slices.Clone(m.estimates)
}
