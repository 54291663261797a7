// Package imgio handles decoding, classification and file transfer for the
// batch orchestrator. Grayscale pages are loaded through OpenCV for the
// numeric pipeline; classification uses the standard image decoders so any
// openable image can be routed.
package imgio

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gocv.io/x/gocv"
)

// LoadGray reads an image as a single-channel 8-bit mat. Formats OpenCV
// cannot read, such as GIF, go through the registered standard decoders
// instead. Callers own the returned mat and must Close it.
func LoadGray(path string) (gocv.Mat, error) {
	mat := gocv.IMRead(path, gocv.IMReadGrayscale)
	if !mat.Empty() {
		return mat, nil
	}
	return decodeGray(path)
}

func decodeGray(path string) (gocv.Mat, error) {
	f, err := os.Open(path)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("open image %q: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return gocv.Mat{}, fmt.Errorf("decode image %q: %w", path, err)
	}

	bounds := img.Bounds()
	mat := gocv.NewMatWithSize(bounds.Dy(), bounds.Dx(), gocv.MatTypeCV8UC1)
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			r, _, _, _ := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			mat.SetUCharAt(y, x, uint8(r>>8))
		}
	}
	return mat, nil
}

// WriteImage encodes a mat to path, with the format chosen from the
// extension. GIF output is encoded through the standard library since
// OpenCV cannot write it.
func WriteImage(path string, img gocv.Mat) error {
	if strings.EqualFold(filepath.Ext(path), ".gif") {
		return writeGIF(path, img)
	}
	if ok := gocv.IMWrite(path, img); !ok {
		return fmt.Errorf("write image %q", path)
	}
	return nil
}

// writeGIF encodes a single-channel mat with a full 256-level gray palette,
// so the pixel values survive the encoding unchanged.
func writeGIF(path string, img gocv.Mat) error {
	rows, cols := img.Rows(), img.Cols()

	palette := make(color.Palette, 256)
	for i := range palette {
		palette[i] = color.Gray{Y: uint8(i)}
	}
	paletted := image.NewPaletted(image.Rect(0, 0, cols, rows), palette)
	for y := 0; y < rows; y++ {
		for x := 0; x < cols; x++ {
			paletted.Pix[paletted.PixOffset(x, y)] = img.GetUCharAt(y, x)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create image %q: %w", path, err)
	}
	if err := gif.Encode(f, paletted, nil); err != nil {
		f.Close()
		return fmt.Errorf("encode gif %q: %w", path, err)
	}
	return f.Close()
}

// CopyFile copies src to dst byte-for-byte and carries the source
// modification time over, so a re-run can recognize the copy as up to date.
func CopyFile(src, dst string) (int64, error) {
	info, err := os.Stat(src)
	if err != nil {
		return 0, fmt.Errorf("stat source: %w", err)
	}

	in, err := os.Open(src)
	if err != nil {
		return 0, fmt.Errorf("open source: %w", err)
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create destination: %w", err)
	}

	n, err := io.Copy(out, in)
	if err != nil {
		out.Close()
		return n, fmt.Errorf("copy contents: %w", err)
	}
	if err := out.Close(); err != nil {
		return n, fmt.Errorf("close destination: %w", err)
	}

	if err := os.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		return n, fmt.Errorf("preserve modification time: %w", err)
	}
	return n, nil
}

// UpToDate reports whether dst exists and is at least as new as src, in
// which case a copy-through can be skipped.
func UpToDate(src, dst string) bool {
	srcInfo, err := os.Stat(src)
	if err != nil {
		return false
	}
	dstInfo, err := os.Stat(dst)
	if err != nil {
		return false
	}
	return !dstInfo.ModTime().Before(srcInfo.ModTime())
}

// AcceptedExtension reports whether the file name carries one of the
// configured image extensions, case-insensitively. Routing never depends on
// it; the orchestrator uses it only to decide how loudly to report a file
// that failed to decode.
func AcceptedExtension(name string, extensions []string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, accepted := range extensions {
		if ext == strings.ToLower(accepted) {
			return true
		}
	}
	return false
}
