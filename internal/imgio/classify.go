package imgio

import (
	"fmt"
	"image"
	"os"

	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

// Kind is the classification of an input file. Every file lands in exactly
// one of the three states before dispatch.
type Kind int

const (
	// KindGrayscale is a decodable image whose channels agree on every
	// pixel; it goes through the suppression pipeline.
	KindGrayscale Kind = iota
	// KindColor is a decodable image carrying real color; it is copied
	// through untouched.
	KindColor
	// KindUnreadable could not be decoded; it is copied through and the
	// cause logged.
	KindUnreadable
)

func (k Kind) String() string {
	switch k {
	case KindGrayscale:
		return "grayscale"
	case KindColor:
		return "color"
	case KindUnreadable:
		return "unreadable"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Classification tags an input file with its processing route. Err carries
// the decode failure for KindUnreadable and is nil otherwise.
type Classification struct {
	Kind   Kind
	Format string
	Err    error
}

// Classify decodes a file and decides its route. Single-channel images are
// grayscale outright; multi-channel images are grayscale only if every
// pixel's channels are identical. The scan is exhaustive on purpose: a page
// with even one tinted pixel must not be run through the grayscale pipeline.
func Classify(path string) Classification {
	f, err := os.Open(path)
	if err != nil {
		return Classification{Kind: KindUnreadable, Err: err}
	}
	defer f.Close()

	img, format, err := image.Decode(f)
	if err != nil {
		return Classification{Kind: KindUnreadable, Err: fmt.Errorf("decode image: %w", err)}
	}

	switch img.(type) {
	case *image.Gray, *image.Gray16:
		return Classification{Kind: KindGrayscale, Format: format}
	}

	bounds := img.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			r, g, b, _ := img.At(x, y).RGBA()
			if r != g || g != b {
				return Classification{Kind: KindColor, Format: format}
			}
		}
	}
	return Classification{Kind: KindGrayscale, Format: format}
}
