package spectral

import (
	"testing"

	"gocv.io/x/gocv"
)

func TestEntropyThresholdTwoClusters(t *testing.T) {
	counts := make([]float64, 256)
	for i := 18; i <= 22; i++ {
		counts[i] = 100
	}
	for i := 198; i <= 202; i++ {
		counts[i] = 100
	}

	threshold, ok := entropyThreshold(counts)
	if !ok {
		t.Fatal("expected a valid split for a two-cluster histogram")
	}
	if threshold <= 20 || threshold >= 200 {
		t.Fatalf("threshold = %d, want strictly between the cluster means 20 and 200", threshold)
	}
}

func TestEntropyThresholdDegenerate(t *testing.T) {
	flat := make([]float64, 256)
	if _, ok := entropyThreshold(flat); ok {
		t.Fatal("expected no valid split for an empty histogram")
	}

	single := make([]float64, 256)
	single[128] = 4096
	if _, ok := entropyThreshold(single); ok {
		t.Fatal("expected no valid split for a single-intensity histogram")
	}
}

func TestDetectPeaksDegenerateFallback(t *testing.T) {
	flat := newGrayMat(t, 64, 64, func(y, x int) uint8 { return 60 })
	defer flat.Close()

	mask, threshold, degenerate, err := DetectPeaks(flat, DefaultOptions())
	if err != nil {
		t.Fatalf("DetectPeaks: %v", err)
	}
	defer mask.Close()

	if !degenerate {
		t.Fatal("expected degenerate flag for a flat image")
	}
	if threshold != 127 {
		t.Fatalf("fallback threshold = %d, want 127", threshold)
	}
	if n := gocv.CountNonZero(mask); n != 0 {
		t.Fatalf("flat image produced %d peak pixels, want 0", n)
	}
}

func TestDetectPeaksFindsBrightBlob(t *testing.T) {
	img := newGrayMat(t, 64, 64, func(y, x int) uint8 {
		if y >= 16 && y < 25 && x >= 16 && x < 25 {
			return 200
		}
		return 0
	})
	defer img.Close()

	mask, threshold, degenerate, err := DetectPeaks(img, DefaultOptions())
	if err != nil {
		t.Fatalf("DetectPeaks: %v", err)
	}
	defer mask.Close()

	if degenerate {
		t.Fatal("unexpected degenerate flag")
	}
	if threshold < 0 || threshold >= 200 {
		t.Fatalf("threshold = %d, want below the blob intensity 200", threshold)
	}
	if mask.GetUCharAt(20, 20) != 255 {
		t.Fatal("blob center not marked as peak")
	}
	if mask.GetUCharAt(5, 5) != 0 {
		t.Fatal("background marked as peak")
	}
}
