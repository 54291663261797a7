package spectral

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestAxisExclusionMaskGeometry(t *testing.T) {
	rows, cols := 50, 40
	mask := AxisExclusionMask(rows, cols, 23, 12)
	defer mask.Close()

	// Horizontal band: rows 14..36 inclusive, full width.
	if mask.GetUCharAt(25, 0) != 255 || mask.GetUCharAt(14, 39) != 255 || mask.GetUCharAt(36, 0) != 255 {
		t.Fatal("horizontal band incomplete")
	}
	if mask.GetUCharAt(13, 0) != 0 || mask.GetUCharAt(37, 0) != 0 {
		t.Fatal("horizontal band too tall")
	}

	// Vertical band: columns 14..25 inclusive, full height.
	if mask.GetUCharAt(0, 20) != 255 || mask.GetUCharAt(49, 14) != 255 || mask.GetUCharAt(0, 25) != 255 {
		t.Fatal("vertical band incomplete")
	}
	if mask.GetUCharAt(0, 13) != 0 || mask.GetUCharAt(0, 26) != 0 {
		t.Fatal("vertical band too wide")
	}

	// The DC position at the grid center is always protected.
	if mask.GetUCharAt(rows/2, cols/2) != 255 {
		t.Fatal("spectrum center unprotected")
	}
}

func TestAxisExclusionMaskClipsOversizedBands(t *testing.T) {
	mask := AxisExclusionMask(8, 8, 100, 100)
	defer mask.Close()
	if n := gocv.CountNonZero(mask); n != 64 {
		t.Fatalf("oversized bands cover %d pixels, want all 64", n)
	}
}

func TestSuppressionMaskSparesAxisPeaks(t *testing.T) {
	rows, cols := 32, 32
	peaks := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	defer peaks.Close()
	peaks.SetTo(gocv.NewScalar(0, 0, 0, 0))
	peaks.SetUCharAt(16, 16, 255) // on both bands
	peaks.SetUCharAt(4, 4, 255)   // off axis

	axis := AxisExclusionMask(rows, cols, 5, 5)
	defer axis.Close()

	mask, suppressed := suppressionMask(peaks, axis)
	defer mask.Close()

	if suppressed != 1 {
		t.Fatalf("suppressed = %d, want 1", suppressed)
	}
	if mask.GetUCharAt(4, 4) != 0 {
		t.Fatal("off-axis peak not suppressed")
	}
	if mask.GetUCharAt(16, 16) != 255 {
		t.Fatal("axis peak suppressed")
	}
	if mask.GetUCharAt(10, 20) != 255 {
		t.Fatal("non-peak pixel suppressed")
	}
}
