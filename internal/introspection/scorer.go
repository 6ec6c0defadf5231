package introspection

import "math"

// Suspicion weights.
const (
	weightSystemCall        = 1
	weightTokenOperation    = 1
	weightElevatedPrivilege = 1
	weightLargeData         = 2
)

// complexityBytesPerPoint is the payload size worth one complexity point.
const complexityBytesPerPoint = 100

// SuspicionScore adds one point per system, token and elevated-privilege
// flag, two for large data, and one per repeated program.
func SuspicionScore(a Aggregates) uint8 {
	score := uint64(a.RepeatedPrograms)
	if a.SystemCalls {
		score += weightSystemCall
	}
	if a.TokenOperations {
		score += weightTokenOperation
	}
	if a.ElevatedPrivilege {
		score += weightElevatedPrivilege
	}
	if a.LargeData {
		score += weightLargeData
	}
	return saturateU8(score)
}

// ComplexityScore is total operations plus custom operations plus one point
// per full hundred data bytes.
func ComplexityScore(a Aggregates) uint8 {
	score := uint64(a.TotalOperations) + uint64(a.CustomCount) + a.TotalDataBytes/complexityBytesPerPoint
	return saturateU8(score)
}

func saturateU8(v uint64) uint8 {
	if v > math.MaxUint8 {
		return math.MaxUint8
	}
	return uint8(v)
}

func saturateU16(v uint64) uint16 {
	if v > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(v)
}

func saturateU32(v uint64) uint32 {
	if v > math.MaxUint32 {
		return math.MaxUint32
	}
	return uint32(v)
}
