package tesseract

import (
	"bytes"
	"image"
	"image/png"
	"testing"

	"github.com/otiai10/gosseract/v2"

	"github.com/pagelens/pagelens/internal/domain"
	"github.com/pagelens/pagelens/internal/engine"
)

func TestBlocksFromBoxes(t *testing.T) {
	boxes := []gosseract.BoundingBox{
		{Box: image.Rect(10, 10, 200, 40), Word: "  Title  ", Confidence: 91},
		{Box: image.Rect(10, 60, 200, 120), Word: "", Confidence: 50},
		{Box: image.Rect(10, 140, 200, 180), Word: "Body paragraph.", Confidence: 83.5},
	}

	blocks := blocksFromBoxes(boxes)
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d", len(blocks))
	}
	if blocks[0].Text != "Title" {
		t.Fatalf("unexpected first block text: %q", blocks[0].Text)
	}
	if blocks[0].Confidence != 0.91 {
		t.Fatalf("unexpected confidence: %v", blocks[0].Confidence)
	}
	if blocks[1].Bounds != image.Rect(10, 140, 200, 180) {
		t.Fatalf("unexpected bounds: %v", blocks[1].Bounds)
	}
}

func TestRenderMarkdown(t *testing.T) {
	blocks := []domain.LayoutBlock{
		{Text: "Heading"},
		{Text: "First paragraph."},
		{Text: "Second paragraph."},
	}
	got := renderMarkdown(blocks)
	want := "Heading\n\nFirst paragraph.\n\nSecond paragraph."
	if got != want {
		t.Fatalf("renderMarkdown() = %q, want %q", got, want)
	}

	if renderMarkdown(nil) != "" {
		t.Fatal("expected empty rendering for no blocks")
	}
}

func TestPageSegMode(t *testing.T) {
	e := &Engine{opts: engine.Options{}}
	if e.pageSegMode() != gosseract.PSM_AUTO {
		t.Fatalf("expected PSM_AUTO, got %v", e.pageSegMode())
	}

	e.opts.EnableOrientationClassify = true
	if e.pageSegMode() != gosseract.PSM_AUTO_OSD {
		t.Fatalf("expected PSM_AUTO_OSD, got %v", e.pageSegMode())
	}
}

func TestVariables(t *testing.T) {
	e := &Engine{opts: engine.Options{RenderDPI: 200}}
	vars := e.variables()
	if vars["user_defined_dpi"] != "200" {
		t.Fatalf("unexpected dpi variable: %q", vars["user_defined_dpi"])
	}
	if vars["textord_tabfind_vertical_text"] != "0" {
		t.Fatalf("expected vertical text disabled, got %q", vars["textord_tabfind_vertical_text"])
	}

	e.opts.EnableTextlineOrientation = true
	if e.variables()["textord_tabfind_vertical_text"] != "1" {
		t.Fatal("expected vertical text enabled")
	}
}

func TestOpenDocumentImage(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 8, 8))); err != nil {
		t.Fatal(err)
	}

	doc, err := openDocument(buf.Bytes(), 200)
	if err != nil {
		t.Fatalf("openDocument() error = %v", err)
	}
	defer doc.Close()

	if doc.PageCount() != 1 {
		t.Fatalf("expected single page, got %d", doc.PageCount())
	}
	img, err := doc.RenderPage(0)
	if err != nil {
		t.Fatalf("RenderPage() error = %v", err)
	}
	if img.Bounds().Dx() != 8 {
		t.Fatalf("unexpected image width: %d", img.Bounds().Dx())
	}
}

func TestOpenDocumentUnknownFormat(t *testing.T) {
	_, err := openDocument([]byte("not a document"), 200)
	if err == nil {
		t.Fatal("expected error for unknown format")
	}
	if domain.TypeOf(err) != domain.ErrorTypeUnsupportedDocument {
		t.Fatalf("unexpected error type: %v", domain.TypeOf(err))
	}
}

func TestOpenDocumentTruncatedImage(t *testing.T) {
	// Valid PNG magic followed by garbage.
	data := append([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}, []byte("garbage")...)
	_, err := openDocument(data, 200)
	if err == nil {
		t.Fatal("expected error for truncated image")
	}
	if domain.TypeOf(err) != domain.ErrorTypeUnsupportedDocument {
		t.Fatalf("unexpected error type: %v", domain.TypeOf(err))
	}
}
