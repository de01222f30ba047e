package overlay

import "github.com/carlosapgomes/eqmd-sub001/pkg/schema"

// PointsPerCM converts schema centimeters into PDF points.
const PointsPerCM = 28.35

// Defaults applied when a field omits the corresponding schema property.
const (
	DefaultFieldHeightCM  = 0.7
	DefaultCheckboxSideCM = 0.5
	DefaultFontSize       = 12
)

// Baseline converts a field's top-left schema position (centimeters) into
// the text baseline in PDF coordinates (points, bottom-left origin). The
// baseline sits three quarters of the way down the declared field box, which
// visually centers typical single-line text.
func Baseline(pos schema.Position, fontSize float64, pageHeight float64) (xPt, yPt float64) {
	height := pos.Height
	if height <= 0 {
		height = DefaultFieldHeightCM
	}
	fieldHeight := height * PointsPerCM
	xPt = pos.X*PointsPerCM + fontSize*0.1
	yPt = pageHeight - pos.Y*PointsPerCM - fieldHeight*0.75
	return xPt, yPt
}

func fontSizeOf(field schema.FieldSpec) float64 {
	if field.FontSize >= schema.MinFontSize && field.FontSize <= schema.MaxFontSize {
		return float64(field.FontSize)
	}
	return DefaultFontSize
}
