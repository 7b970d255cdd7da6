// Package artifacts persists per-page diagnostic outputs: the markdown
// rendering, an annotated page image, and an optional HTML preview. Artifacts
// are best effort and never part of the response contract.
package artifacts

import (
	"bytes"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/yuin/goldmark"

	"github.com/pagelens/pagelens/internal/domain"
)

// Writer persists page artifacts under an output directory. Concurrent
// requests sharing one directory overwrite each other's files; artifact
// names are stable and derivable from page order only.
type Writer struct {
	htmlPreview bool
	md          goldmark.Markdown
}

// NewWriter creates a writer. When htmlPreview is set, each page also gets a
// rendered HTML preview of its markdown.
func NewWriter(htmlPreview bool) *Writer {
	return &Writer{
		htmlPreview: htmlPreview,
		md:          goldmark.New(),
	}
}

// WritePage persists one page's artifacts. The first failed write is
// returned; the caller decides containment (the service logs and moves on).
func (w *Writer) WritePage(page domain.PageResult, outputDir string) error {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return domain.ArtifactWriteError("create artifact directory", err)
	}

	base := fmt.Sprintf("page_%04d", page.Index+1)

	mdPath := filepath.Join(outputDir, base+".md")
	if err := os.WriteFile(mdPath, []byte(page.Markdown+"\n"), 0o644); err != nil {
		return domain.ArtifactWriteError(fmt.Sprintf("write %s", mdPath), err)
	}

	if page.Image != nil {
		annotated := Annotate(page)
		var buf bytes.Buffer
		if err := png.Encode(&buf, annotated); err != nil {
			return domain.ArtifactWriteError(fmt.Sprintf("encode annotated page %d", page.Index+1), err)
		}
		imgPath := filepath.Join(outputDir, base+".png")
		if err := os.WriteFile(imgPath, buf.Bytes(), 0o644); err != nil {
			return domain.ArtifactWriteError(fmt.Sprintf("write %s", imgPath), err)
		}
	}

	if w.htmlPreview {
		var html bytes.Buffer
		if err := w.md.Convert([]byte(page.Markdown), &html); err != nil {
			return domain.ArtifactWriteError(fmt.Sprintf("render preview for page %d", page.Index+1), err)
		}
		htmlPath := filepath.Join(outputDir, base+".html")
		if err := os.WriteFile(htmlPath, html.Bytes(), 0o644); err != nil {
			return domain.ArtifactWriteError(fmt.Sprintf("write %s", htmlPath), err)
		}
	}

	return nil
}
