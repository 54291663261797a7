package spectral

import "gocv.io/x/gocv"

// Result is the outcome of one suppression run. Image is the reconstructed
// 8-bit page; the remaining fields are diagnostics for logging.
type Result struct {
	Image      gocv.Mat
	Threshold  int
	Degenerate bool
	Suppressed int
}

// Suppress removes off-axis spectral peaks from a grayscale page:
//
//  1. forward transform, center-shifted view for detection
//  2. log-magnitude image fed to the peak detector
//  3. axis-exclusion bands subtracted from the detected peaks
//  4. inverted peak mask inverse-shifted and multiplied against the
//     unshifted spectrum
//  5. inverse transform, real part, min-max normalized to 0-255
//
// With an empty peak mask the output reproduces the input up to
// normalization round-off.
func Suppress(gray gocv.Mat, opts Options) (Result, error) {
	spectrum, err := Forward(gray)
	if err != nil {
		return Result{}, err
	}

	logMag, err := LogMagnitude(spectrum.Shifted())
	if err != nil {
		return Result{}, err
	}
	defer logMag.Close()

	peaks, threshold, degenerate, err := DetectPeaks(logMag, opts)
	if err != nil {
		return Result{}, err
	}
	defer peaks.Close()

	axis := AxisExclusionMask(spectrum.Rows, spectrum.Cols, opts.BandHeight, opts.BandWidth)
	defer axis.Close()

	mask, suppressed := suppressionMask(peaks, axis)
	defer mask.Close()

	field := spectrum.reconstruct(inverseShiftFloat(unitField(mask)))

	img, err := normalizeToU8(field)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Image:      img,
		Threshold:  threshold,
		Degenerate: degenerate,
		Suppressed: suppressed,
	}, nil
}
