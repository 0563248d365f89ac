package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/jung-kurt/gofpdf"

	"github.com/abhisek/mathsheet/internal/compose"
)

// pageEpsilon absorbs float noise when the capture height is an exact
// multiple of the page height, in pages.
const pageEpsilon = 1e-9

// PageCount returns how many A4 pages an image of imgHeight needs when
// sliced into bands of pageHeight. It is never less than one.
func PageCount(imgHeight, pageHeight float64) int {
	if pageHeight <= 0 || imgHeight <= 0 {
		return 1
	}
	return max(1, int(math.Ceil(imgHeight/pageHeight-pageEpsilon)))
}

// pageCountPx is PageCount for an image of w×h device pixels sliced into
// A4 portrait bands of its own width.
func pageCountPx(w, h int) int {
	if w <= 0 {
		return 1
	}
	return PageCount(float64(h), float64(w)*compose.A4HeightMM/compose.A4WidthMM)
}

const captureImage = "capture"

// assemble places img at full page width on as many A4 portrait pages as
// its height needs. Page k shows the band starting k page heights down.
func assemble(img image.Image) ([]byte, int, error) {
	b := img.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return nil, 0, fmt.Errorf("empty capture %dx%d", b.Dx(), b.Dy())
	}

	var encoded bytes.Buffer
	if err := png.Encode(&encoded, img); err != nil {
		return nil, 0, fmt.Errorf("encode capture: %w", err)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pageW, pageH := pdf.GetPageSize()

	opts := gofpdf.ImageOptions{ImageType: "PNG"}
	pdf.RegisterImageOptionsReader(captureImage, opts, &encoded)

	imgH := float64(b.Dy()) * pageW / float64(b.Dx())
	pages := pageCountPx(b.Dx(), b.Dy())
	for k := 0; k < pages; k++ {
		pdf.AddPage()
		pdf.ImageOptions(captureImage, 0, -float64(k)*pageH, pageW, imgH, false, opts, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, 0, fmt.Errorf("write pdf: %w", err)
	}
	return out.Bytes(), pages, nil
}
