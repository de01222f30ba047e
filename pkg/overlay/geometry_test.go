package overlay

import (
	"math"
	"testing"

	"github.com/carlosapgomes/eqmd-sub001/pkg/schema"
)

const a4HeightPt = 841.89

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

func TestBaseline(t *testing.T) {
	pos := schema.Position{X: 2, Y: 10, Height: 0.7}
	x, y := Baseline(pos, 12, a4HeightPt)

	wantX := 2*PointsPerCM + 12*0.1
	wantY := a4HeightPt - 10*PointsPerCM - 0.7*PointsPerCM*0.75
	if !near(x, wantX) || !near(y, wantY) {
		t.Fatalf("baseline = (%.4f, %.4f), want (%.4f, %.4f)", x, y, wantX, wantY)
	}
}

func TestBaseline_DefaultHeight(t *testing.T) {
	_, withDefault := Baseline(schema.Position{X: 1, Y: 5}, 12, a4HeightPt)
	_, explicit := Baseline(schema.Position{X: 1, Y: 5, Height: DefaultFieldHeightCM}, 12, a4HeightPt)
	if !near(withDefault, explicit) {
		t.Fatalf("omitted height must default to %.1fcm: %.4f vs %.4f",
			DefaultFieldHeightCM, withDefault, explicit)
	}
}

func TestBaseline_PaddingScalesWithFontSize(t *testing.T) {
	pos := schema.Position{X: 3, Y: 4}
	xSmall, _ := Baseline(pos, 6, a4HeightPt)
	xLarge, _ := Baseline(pos, 24, a4HeightPt)
	if !near(xLarge-xSmall, (24-6)*0.1) {
		t.Fatalf("left padding delta = %.4f, want %.4f", xLarge-xSmall, (24-6)*0.1)
	}
}

func TestFontSizeOf(t *testing.T) {
	cases := []struct {
		name string
		size int
		want float64
	}{
		{"default when unset", 0, DefaultFontSize},
		{"below minimum", 4, DefaultFontSize},
		{"above maximum", 96, DefaultFontSize},
		{"minimum", schema.MinFontSize, float64(schema.MinFontSize)},
		{"maximum", schema.MaxFontSize, float64(schema.MaxFontSize)},
		{"in range", 14, 14},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := fontSizeOf(schema.FieldSpec{FontSize: tc.size})
			if got != tc.want {
				t.Fatalf("fontSizeOf(%d) = %v, want %v", tc.size, got, tc.want)
			}
		})
	}
}
