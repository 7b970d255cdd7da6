// Package tesseract implements the structure extraction engine on top of
// Tesseract (via gosseract) with go-fitz rasterizing PDF pages.
package tesseract

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/pagelens/pagelens/internal/domain"
	"github.com/pagelens/pagelens/internal/engine"
)

// Engine runs layout-aware OCR per page. A fresh gosseract client is created
// for every page, so one Engine instance is safe to share across concurrent
// requests; only the thread budget set at startup is shared state.
type Engine struct {
	opts          engine.Options
	clientFactory func() *gosseract.Client
}

// New constructs a Tesseract-backed engine with the given startup options.
// The CPU thread budget is applied process-wide.
func New(opts engine.Options) (*Engine, error) {
	if len(opts.Languages) == 0 {
		opts.Languages = engine.DefaultOptions().Languages
	}
	if opts.CPUThreads < 1 {
		opts.CPUThreads = engine.DefaultOptions().CPUThreads
	}
	if opts.RenderDPI < 1 {
		opts.RenderDPI = engine.DefaultOptions().RenderDPI
	}

	// Tesseract parallelizes via OpenMP; the budget must be pinned before
	// the first recognition call.
	if err := os.Setenv("OMP_THREAD_LIMIT", strconv.Itoa(opts.CPUThreads)); err != nil {
		return nil, domain.EngineUnavailableError("cannot set engine thread budget", err)
	}

	e := &Engine{
		opts:          opts,
		clientFactory: gosseract.NewClient,
	}
	if err := e.probe(); err != nil {
		return nil, err
	}
	return e, nil
}

// probe verifies the native engine can be initialized with the configured
// options before the first request arrives.
func (e *Engine) probe() error {
	c := e.clientFactory()
	defer c.Close()
	if e.opts.RecognitionModel != "" {
		if err := c.SetTessdataPrefix(e.opts.RecognitionModel); err != nil {
			return domain.EngineUnavailableError(
				fmt.Sprintf("recognition model %q is not usable", e.opts.RecognitionModel), err)
		}
	}
	if err := c.SetLanguage(e.opts.Languages...); err != nil {
		return domain.EngineUnavailableError(
			fmt.Sprintf("languages %v are not available", e.opts.Languages), err)
	}
	return nil
}

func (e *Engine) Name() string { return "tesseract" }

// Extract opens the document synchronously, then renders and recognizes
// pages one at a time into the returned stream.
func (e *Engine) Extract(ctx context.Context, data []byte) (*engine.Stream, error) {
	doc, err := openDocument(data, e.opts.RenderDPI)
	if err != nil {
		return nil, err
	}

	stream, producer := engine.NewStream(1)

	go func() {
		defer doc.Close()
		for i := 0; i < doc.PageCount(); i++ {
			select {
			case <-ctx.Done():
				producer.Fail(ctx.Err())
				return
			default:
			}

			img, err := doc.RenderPage(i)
			if err != nil {
				producer.Fail(domain.UnsupportedDocumentError(
					fmt.Sprintf("cannot render page %d", i+1), err))
				return
			}

			page, err := e.recognizePage(i, img)
			if err != nil {
				producer.Fail(err)
				return
			}
			producer.Emit(page)
		}
		producer.Close()
	}()

	return stream, nil
}

// recognizePage runs block-level OCR on one rendered page and assembles its
// markdown rendering in reading order.
func (e *Engine) recognizePage(index int, img image.Image) (domain.PageResult, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return domain.PageResult{}, domain.InternalError(
			fmt.Sprintf("encode page %d for recognition", index+1), err)
	}

	c := e.clientFactory()
	defer c.Close()

	if e.opts.RecognitionModel != "" {
		if err := c.SetTessdataPrefix(e.opts.RecognitionModel); err != nil {
			return domain.PageResult{}, domain.EngineUnavailableError("set recognition model", err)
		}
	}
	if err := c.SetLanguage(e.opts.Languages...); err != nil {
		return domain.PageResult{}, domain.EngineUnavailableError("set recognition languages", err)
	}
	if err := c.SetPageSegMode(e.pageSegMode()); err != nil {
		return domain.PageResult{}, domain.EngineUnavailableError("set page segmentation mode", err)
	}
	for name, value := range e.variables() {
		if err := c.SetVariable(gosseract.SettableVariable(name), value); err != nil {
			return domain.PageResult{}, domain.EngineUnavailableError(
				fmt.Sprintf("set engine variable %s", name), err)
		}
	}
	if err := c.SetImageFromBytes(buf.Bytes()); err != nil {
		return domain.PageResult{}, domain.UnsupportedDocumentError(
			fmt.Sprintf("page %d image rejected by recognizer", index+1), err)
	}

	boxes, err := c.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return domain.PageResult{}, domain.UnsupportedDocumentError(
			fmt.Sprintf("recognition failed on page %d", index+1), err)
	}

	blocks := blocksFromBoxes(boxes)
	return domain.PageResult{
		Index:    index,
		Markdown: renderMarkdown(blocks),
		Blocks:   blocks,
		Image:    img,
	}, nil
}

// pageSegMode selects automatic segmentation, with orientation/script
// detection when orientation classification is enabled.
func (e *Engine) pageSegMode() gosseract.PageSegMode {
	if e.opts.EnableOrientationClassify {
		return gosseract.PSM_AUTO_OSD
	}
	return gosseract.PSM_AUTO
}

// variables maps the preprocessing toggles onto Tesseract variables.
// Chart recognition has no Tesseract analog; the option is accepted and
// ignored here so engine configuration stays uniform across backends.
func (e *Engine) variables() map[string]string {
	vars := map[string]string{
		"user_defined_dpi": strconv.Itoa(e.opts.RenderDPI),
	}
	if e.opts.EnableTextlineOrientation {
		vars["textord_tabfind_vertical_text"] = "1"
	} else {
		vars["textord_tabfind_vertical_text"] = "0"
	}
	return vars
}

// blocksFromBoxes converts recognizer bounding boxes into layout blocks,
// dropping empty detections. Box order follows the recognizer's reading
// order.
func blocksFromBoxes(boxes []gosseract.BoundingBox) []domain.LayoutBlock {
	blocks := make([]domain.LayoutBlock, 0, len(boxes))
	for _, b := range boxes {
		text := strings.TrimSpace(b.Word)
		if text == "" {
			continue
		}
		blocks = append(blocks, domain.LayoutBlock{
			Text:       text,
			Bounds:     b.Box,
			Confidence: b.Confidence / 100.0,
		})
	}
	return blocks
}

// renderMarkdown joins block texts into the page's canonical rendering, one
// paragraph per block in reading order.
func renderMarkdown(blocks []domain.LayoutBlock) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		parts = append(parts, b.Text)
	}
	return strings.Join(parts, "\n\n")
}
