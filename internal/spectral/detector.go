package spectral

import (
	"fmt"
	"image"
	"math"

	"gocv.io/x/gocv"
)

const massEpsilon = 1e-9

// Options carries the tunable constants of the suppression pipeline. The
// band and kernel sizes are empirically tuned; there is no derivation to
// recover them from.
type Options struct {
	MedianWindow      int
	OpeningKernel     int
	FallbackThreshold int
	BandHeight        int
	BandWidth         int
}

func DefaultOptions() Options {
	return Options{
		MedianWindow:      7,
		OpeningKernel:     17,
		FallbackThreshold: 127,
		BandHeight:        23,
		BandWidth:         12,
	}
}

// DetectPeaks isolates moire energy in a log-magnitude image. It denoises
// with a median filter, extracts small bright blobs with a white top-hat
// (image minus its opening), and binarizes the residual at the
// maximum-entropy threshold. The returned mask marks peak pixels with 255.
// degenerate reports that no valid entropy split existed and the fallback
// threshold was used instead.
func DetectPeaks(logMag gocv.Mat, opts Options) (mask gocv.Mat, threshold int, degenerate bool, err error) {
	median := gocv.NewMat()
	defer median.Close()
	gocv.MedianBlur(logMag, &median, opts.MedianWindow)

	kernel := gocv.GetStructuringElement(gocv.MorphRect, image.Pt(opts.OpeningKernel, opts.OpeningKernel))
	defer kernel.Close()

	opened := gocv.NewMat()
	defer opened.Close()
	gocv.MorphologyEx(median, &opened, gocv.MorphOpen, kernel)

	topHat := gocv.NewMat()
	defer topHat.Close()
	gocv.Subtract(median, opened, &topHat)

	counts, err := histogram(topHat)
	if err != nil {
		return gocv.Mat{}, 0, false, err
	}

	threshold, ok := entropyThreshold(counts)
	if !ok {
		threshold = opts.FallbackThreshold
	}

	mask = gocv.NewMat()
	gocv.Threshold(topHat, &mask, float32(threshold), 255, gocv.ThresholdBinary)
	return mask, threshold, !ok, nil
}

// histogram counts 8-bit intensities of a single-channel mat.
func histogram(img gocv.Mat) ([]float64, error) {
	hist := gocv.NewMat()
	defer hist.Close()
	mask := gocv.NewMat()
	defer mask.Close()

	if err := gocv.CalcHist([]gocv.Mat{img}, []int{0}, mask, &hist, []int{256}, []float64{0, 256}, false); err != nil {
		return nil, fmt.Errorf("intensity histogram: %w", err)
	}

	counts := make([]float64, 256)
	for i := range counts {
		counts[i] = float64(hist.GetFloatAt(i, 0))
	}
	return counts, nil
}

// entropyThreshold selects the two-class maximum-entropy (Kapur) split of a
// 256-bin histogram. It reports ok=false when every candidate split leaves
// one class without mass, which happens on flat or single-intensity
// histograms.
func entropyThreshold(counts []float64) (threshold int, ok bool) {
	total := 0.0
	for _, c := range counts {
		total += c
	}
	if total <= 0 {
		return 0, false
	}

	p := make([]float64, len(counts))
	plogp := make([]float64, len(counts))
	for i, c := range counts {
		p[i] = c / total
		if p[i] > massEpsilon {
			plogp[i] = p[i] * math.Log(p[i])
		}
	}

	sumP := 0.0
	sumPlogp := 0.0
	totalPlogp := 0.0
	for _, v := range plogp {
		totalPlogp += v
	}

	best := math.Inf(-1)
	threshold = 0
	for s := 0; s < 255; s++ {
		sumP += p[s]
		sumPlogp += plogp[s]

		background := sumP
		foreground := 1.0 - sumP
		if background < massEpsilon || foreground < massEpsilon {
			continue
		}

		te := math.Log(background*foreground) - sumPlogp/background - (totalPlogp-sumPlogp)/foreground
		if te > best {
			best = te
			threshold = s
		}
	}

	if math.IsInf(best, -1) {
		return 0, false
	}
	return threshold, true
}
