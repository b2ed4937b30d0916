package document

import (
	_ "embed"

	"github.com/go-pdf/fpdf"
)

// DejaVu Sans Condensed, as distributed with fpdf. Covers Latin Extended-A,
// so Polish names render unchanged.
const fontFamily = "dejavu"

var (
	//go:embed fonts/DejaVuSansCondensed.ttf
	regularFont []byte

	//go:embed fonts/DejaVuSansCondensed-Bold.ttf
	boldFont []byte
)

func addFonts(pdf *fpdf.Fpdf) {
	pdf.AddUTF8FontFromBytes(fontFamily, "", regularFont)
	pdf.AddUTF8FontFromBytes(fontFamily, "B", boldFont)
}
