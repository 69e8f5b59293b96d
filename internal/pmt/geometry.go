package pmt

// NumChannels is the number of readout channels (and PMT slots) in the array.
const NumChannels = 19

// Position is a PMT slot centre in the normalized scan frame, in metres.
type Position struct {
	X, Y float64
}

// Geometry is an ordered table of PMT slots; the slice index is the position index.
type Geometry []Position

// mpmt19 is the calibrated 19-PMT layout. Index 0 is the central PMT,
// 1..6 the inner ring and 7..18 the outer ring.
var mpmt19 = [NumChannels]Position{
	{0.44746439, 0.20756987},
	{0.45201267, 0.30725607},
	{0.36634413, 0.25269358},
	{0.36318949, 0.16297828},
	{0.44738879, 0.11218644},
	{0.53094878, 0.15698004},
	{0.53155534, 0.25496038},
	{0.45061428, 0.3963719},
	{0.35594699, 0.36829472},
	{0.29006354, 0.30136363},
	{0.26234593, 0.20776005},
	{0.29398638, 0.11559652},
	{0.35488732, 0.04815216},
	{0.45238402, 0.02182653},
	{0.5428919, 0.04878102},
	{0.60687074, 0.11148197},
	{0.63501597, 0.21287161},
	{0.61255901, 0.30104175},
	{0.54385138, 0.36338586},
}

// MPMT19 returns a copy of the 19-PMT array geometry.
func MPMT19() Geometry {
	g := make(Geometry, len(mpmt19))
	copy(g, mpmt19[:])
	return g
}
