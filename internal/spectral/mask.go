package spectral

import (
	"image"

	"gocv.io/x/gocv"
)

// AxisExclusionMask marks the region around the central axes of a shifted
// spectrum that is never suppressed: a horizontal band of bandHeight pixels
// spanning the full width and a vertical band of bandWidth pixels spanning
// the full height, both centered on the spectrum center. The band protects
// the DC term and legitimate low-frequency content along the axes.
func AxisExclusionMask(rows, cols, bandHeight, bandWidth int) gocv.Mat {
	mask := gocv.NewMatWithSize(rows, cols, gocv.MatTypeCV8UC1)
	mask.SetTo(gocv.NewScalar(0, 0, 0, 0))

	fillCenteredRect(&mask, cols, bandHeight)
	fillCenteredRect(&mask, bandWidth, rows)
	return mask
}

// fillCenteredRect paints a w-by-h rectangle centered on the mat with 255,
// clipped to the mat bounds.
func fillCenteredRect(mask *gocv.Mat, w, h int) {
	rows, cols := mask.Rows(), mask.Cols()
	x0 := cols/2 - w/2
	y0 := rows/2 - h/2
	rect := image.Rect(x0, y0, x0+w, y0+h).Intersect(image.Rect(0, 0, cols, rows))
	if rect.Empty() {
		return
	}

	region := mask.Region(rect)
	defer region.Close()
	region.SetTo(gocv.NewScalar(255, 0, 0, 0))
}

// suppressionMask combines peak and axis masks in the shifted domain:
// off-axis peaks are zeroed, everything else passes. The returned mat is a
// 0/255 mask; suppressed is the number of spectrum pixels being zeroed.
func suppressionMask(peaks, axis gocv.Mat) (mask gocv.Mat, suppressed int) {
	offAxis := gocv.NewMat()
	defer offAxis.Close()

	invAxis := gocv.NewMat()
	defer invAxis.Close()
	gocv.BitwiseNot(axis, &invAxis)
	gocv.BitwiseAnd(peaks, invAxis, &offAxis)

	mask = gocv.NewMat()
	gocv.BitwiseNot(offAxis, &mask)
	return mask, gocv.CountNonZero(offAxis)
}

// unitField converts a 0/255 mask into a [0,1] multiplier grid.
func unitField(mask gocv.Mat) [][]float64 {
	rows, cols := mask.Rows(), mask.Cols()
	field := make([][]float64, rows)
	for y := 0; y < rows; y++ {
		field[y] = make([]float64, cols)
		for x := 0; x < cols; x++ {
			field[y][x] = float64(mask.GetUCharAt(y, x)) / 255.0
		}
	}
	return field
}
