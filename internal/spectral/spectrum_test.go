package spectral

import (
	"math"
	"math/cmplx"
	"testing"

	"gocv.io/x/gocv"
)

func newGrayMat(t *testing.T, rows, cols int, value func(y, x int) uint8) gocv.Mat {
	t.Helper()
	mat := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			mat.SetUCharAt(y, x, value(y, x))
		}
	}
	return mat
}

func TestShiftRoundTripOddDimensions(t *testing.T) {
	rows, cols := 5, 7
	field := make([][]float64, rows)
	for y := range field {
		field[y] = make([]float64, cols)
		for x := range field[y] {
			field[y][x] = float64(y*cols + x)
		}
	}

	shifted := rollFloat(field, rows/2, cols/2)
	back := inverseShiftFloat(shifted)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			if back[y][x] != field[y][x] {
				t.Fatalf("round trip mismatch at (%d,%d): got %v, want %v", y, x, back[y][x], field[y][x])
			}
		}
	}
}

func TestShiftedCentersDC(t *testing.T) {
	for _, dims := range [][2]int{{5, 5}, {4, 6}, {5, 8}} {
		rows, cols := dims[0], dims[1]
		mat := newGrayMat(t, rows, cols, func(y, x int) uint8 { return 10 })
		spectrum, err := Forward(mat)
		mat.Close()
		if err != nil {
			t.Fatalf("Forward: %v", err)
		}

		shifted := spectrum.Shifted()
		want := 10.0 * float64(rows*cols)
		got := cmplx.Abs(shifted[rows/2][cols/2])
		if math.Abs(got-want) > 1e-6 {
			t.Errorf("%dx%d: DC at center = %v, want %v", rows, cols, got, want)
		}
		if mag := cmplx.Abs(shifted[0][0]); mag > 1e-6 {
			t.Errorf("%dx%d: corner magnitude = %v after shift, want ~0", rows, cols, mag)
		}
	}
}

func TestReconstructWithIdentityMask(t *testing.T) {
	rows, cols := 16, 16
	mat := newGrayMat(t, rows, cols, func(y, x int) uint8 { return uint8(y*cols + x) })
	defer mat.Close()

	spectrum, err := Forward(mat)
	if err != nil {
		t.Fatalf("Forward: %v", err)
	}

	mask := make([][]float64, rows)
	for y := range mask {
		mask[y] = make([]float64, cols)
		for x := range mask[y] {
			mask[y][x] = 1
		}
	}

	field := spectrum.reconstruct(mask)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			want := float64(mat.GetUCharAt(y, x))
			if math.Abs(field[y][x]-want) > 1e-6 {
				t.Fatalf("identity reconstruction drift at (%d,%d): got %v, want %v", y, x, field[y][x], want)
			}
		}
	}
}

func TestForwardRejectsDegenerateInput(t *testing.T) {
	mat := gocv.NewMatWithSize(1, 1, gocv.MatTypeCV8UC1)
	defer mat.Close()
	if _, err := Forward(mat); err == nil {
		t.Fatal("expected error for near-zero-dimension input")
	}
}
