// Package tone corrects the global contrast drift the suppression transform
// and its min-max normalization introduce. Pixels that were exactly black or
// white in the source act as reference points: the output is rescaled so
// they average back to 0 and 255, then forced back to their exact values.
package tone

import (
	"fmt"

	"gonum.org/v1/gonum/stat"

	"gocv.io/x/gocv"
)

// Recalibrate rescales a reconstructed page against its source. Both mats
// must be 8-bit single-channel of identical dimensions. The returned mat is
// newly allocated.
func Recalibrate(original, reconstructed gocv.Mat) (gocv.Mat, error) {
	rows, cols := original.Rows(), original.Cols()
	if reconstructed.Rows() != rows || reconstructed.Cols() != cols {
		return gocv.Mat{}, fmt.Errorf("dimension mismatch: source %dx%d, reconstruction %dx%d",
			cols, rows, reconstructed.Cols(), reconstructed.Rows())
	}

	var whiteVals, blackVals []float64
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			switch original.GetUCharAt(y, x) {
			case 255:
				whiteVals = append(whiteVals, float64(reconstructed.GetUCharAt(y, x)))
			case 0:
				blackVals = append(blackVals, float64(reconstructed.GetUCharAt(y, x)))
			}
		}
	}

	avgWhite := 255.0
	if len(whiteVals) > 0 {
		avgWhite = stat.Mean(whiteVals, nil)
	}
	avgBlack := 0.0
	if len(blackVals) > 0 {
		avgBlack = stat.Mean(blackVals, nil)
	}

	denom := avgWhite - avgBlack
	if denom == 0 {
		denom = 1
	}

	out := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			src := original.GetUCharAt(y, x)
			if src == 0 || src == 255 {
				out.SetUCharAt(y, x, src)
				continue
			}

			v := (float64(reconstructed.GetUCharAt(y, x)) - avgBlack) / denom
			if v < 0 {
				v = 0
			} else if v > 1 {
				v = 1
			}
			out.SetUCharAt(y, x, uint8(v*255))
		}
	}
	return out, nil
}
