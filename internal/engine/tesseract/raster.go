package tesseract

import (
	"bytes"
	"image"

	"github.com/gen2brain/go-fitz"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/tiff"

	"github.com/pagelens/pagelens/internal/domain"
	"github.com/pagelens/pagelens/internal/payload"
)

// document abstracts page rasterization so PDFs and single images follow the
// same per-page path.
type document interface {
	PageCount() int
	RenderPage(index int) (image.Image, error)
	Close()
}

// openDocument inspects the byte format and returns a rasterizable document.
// PDFs render through go-fitz; supported images decode as one-page documents.
func openDocument(data []byte, dpi int) (document, error) {
	switch payload.DetectFormat(data) {
	case payload.PDF:
		doc, err := fitz.NewFromMemory(data)
		if err != nil {
			return nil, domain.UnsupportedDocumentError("cannot open PDF document", err)
		}
		if doc.NumPage() == 0 {
			doc.Close()
			return nil, domain.UnsupportedDocumentError("PDF document has no pages", nil)
		}
		return &pdfDocument{doc: doc, dpi: dpi}, nil
	case payload.PNG, payload.JPEG, payload.TIFF:
		img, _, err := image.Decode(bytes.NewReader(data))
		if err != nil {
			return nil, domain.UnsupportedDocumentError("cannot decode image document", err)
		}
		return &imageDocument{img: img}, nil
	default:
		return nil, domain.UnsupportedDocumentError("unrecognized document format", nil)
	}
}

type pdfDocument struct {
	doc *fitz.Document
	dpi int
}

func (d *pdfDocument) PageCount() int { return d.doc.NumPage() }

func (d *pdfDocument) RenderPage(index int) (image.Image, error) {
	return d.doc.ImageDPI(index, float64(d.dpi))
}

func (d *pdfDocument) Close() { d.doc.Close() }

type imageDocument struct {
	img image.Image
}

func (d *imageDocument) PageCount() int { return 1 }

func (d *imageDocument) RenderPage(index int) (image.Image, error) {
	return d.img, nil
}

func (d *imageDocument) Close() {}
