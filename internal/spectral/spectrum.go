// Package spectral implements frequency-domain suppression of periodic
// interference patterns in scanned grayscale pages. The spatial-domain
// operations (filtering, morphology, thresholding, mask algebra) run on
// OpenCV mats; the 2D transform itself runs on complex grids, mirroring the
// numpy-next-to-OpenCV split the algorithm was developed with.
package spectral

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gocv.io/x/gocv"
)

// Spectrum is the unshifted 2D discrete Fourier transform of a grayscale
// page. Coef[0][0] is the DC term.
type Spectrum struct {
	Coef [][]complex128
	Rows int
	Cols int
}

// Forward computes the unshifted transform of an 8-bit single-channel mat.
func Forward(gray gocv.Mat) (*Spectrum, error) {
	rows, cols := gray.Rows(), gray.Cols()
	if rows < 2 || cols < 2 {
		return nil, fmt.Errorf("image too small for spectral processing: %dx%d", cols, rows)
	}
	if gray.Channels() != 1 {
		return nil, fmt.Errorf("expected single-channel image, got %d channels", gray.Channels())
	}

	field := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		field[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			field[y][x] = float64(gray.GetUCharAt(y, x))
		}
	}

	return &Spectrum{Coef: fft.FFT2Real(field), Rows: rows, Cols: cols}, nil
}

// Shifted returns the center-shifted view of the spectrum, with the DC term
// relocated to the grid center.
func (s *Spectrum) Shifted() [][]complex128 {
	return rollComplex(s.Coef, s.Rows/2, s.Cols/2)
}

// reconstruct multiplies the unshifted spectrum by a real-valued [0,1] mask
// (given in unshifted layout), inverts the transform and returns the real
// part. Phase is untouched since the mask is real.
func (s *Spectrum) reconstruct(mask [][]float64) [][]float64 {
	masked := make([][]complex128, s.Rows)
	for y := 0; y < s.Rows; y++ {
		masked[y] = make([]complex128, s.Cols)
		for x := 0; x < s.Cols; x++ {
			masked[y][x] = s.Coef[y][x] * complex(mask[y][x], 0)
		}
	}

	inverse := fft.IFFT2(masked)
	field := make([][]float64, s.Rows)
	for y := 0; y < s.Rows; y++ {
		field[y] = make([]float64, s.Cols)
		for x := 0; x < s.Cols; x++ {
			field[y][x] = real(inverse[y][x])
		}
	}
	return field
}

// LogMagnitude builds the 8-bit detection view of a shifted spectrum:
// log1p-compressed magnitude, min-max normalized to 0-255.
func LogMagnitude(shifted [][]complex128) (gocv.Mat, error) {
	rows, cols := len(shifted), len(shifted[0])
	field := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		field[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			field[y][x] = math.Log1p(cmplx.Abs(shifted[y][x]))
		}
	}
	return normalizeToU8(field)
}

// normalizeToU8 min-max normalizes a real field to 0-255 and converts it to
// an 8-bit single-channel mat.
func normalizeToU8(field [][]float64) (gocv.Mat, error) {
	rows, cols := len(field), len(field[0])

	f := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV64F)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			f.SetDoubleAt(y, x, field[y][x])
		}
	}
	defer f.Close()

	gocv.Normalize(f, &f, 0, 255, gocv.NormMinMax)

	u8 := gocv.NewMat()
	if err := f.ConvertTo(&u8, gocv.MatTypeCV8U); err != nil {
		u8.Close()
		return gocv.Mat{}, fmt.Errorf("convert to 8-bit: %w", err)
	}
	return u8, nil
}

// rollComplex cyclically shifts a grid down by dy and right by dx. A shift
// of (rows/2, cols/2) centers the DC term; the inverse shift uses the
// ceiling halves, which differ on odd dimensions.
func rollComplex(src [][]complex128, dy, dx int) [][]complex128 {
	rows, cols := len(src), len(src[0])
	dst := make([][]complex128, rows)
	for y := range dst {
		dst[y] = make([]complex128, cols)
	}
	for y := 0; y < rows; y++ {
		ty := (y + dy) % rows
		for x := 0; x < cols; x++ {
			dst[ty][(x+dx)%cols] = src[y][x]
		}
	}
	return dst
}

func rollFloat(src [][]float64, dy, dx int) [][]float64 {
	rows, cols := len(src), len(src[0])
	dst := make([][]float64, rows)
	for y := range dst {
		dst[y] = make([]float64, cols)
	}
	for y := 0; y < rows; y++ {
		ty := (y + dy) % rows
		for x := 0; x < cols; x++ {
			dst[ty][(x+dx)%cols] = src[y][x]
		}
	}
	return dst
}

// inverseShiftFloat undoes a center shift on a real-valued grid.
func inverseShiftFloat(shifted [][]float64) [][]float64 {
	rows, cols := len(shifted), len(shifted[0])
	return rollFloat(shifted, rows-rows/2, cols-cols/2)
}
