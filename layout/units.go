package layout

import "math"

// Conversion constants between pt and mm.
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// A4 in points, and the fixed page furniture of a report.
const (
	A4Width            = 595.28
	A4Height           = 841.89
	DefaultMargin      = 40.0
	DefaultBottomSlack = 20.0
)

// ToMM converts points to millimetres.
func ToMM(pt float64) float64 { return pt * PtToMm }

// ToPT converts millimetres to points.
func ToPT(mm float64) float64 { return mm * MmToPt }

// widthEpsilon absorbs float noise when comparing measured widths.
const widthEpsilon = 1e-9

func exceeds(width, limit float64) bool {
	return width-limit > widthEpsilon*math.Max(1, math.Abs(limit))
}
