package commands

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pagelens/pagelens/cmd/pagelens-cli/ui"
	"github.com/pagelens/pagelens/internal/artifacts"
	"github.com/pagelens/pagelens/internal/engine"
	"github.com/pagelens/pagelens/internal/engine/tesseract"
)

var (
	extractOutputDir   string
	extractLanguages   []string
	extractDPI         int
	extractThreads     int
	extractHTMLPreview bool
	extractQuiet       bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract document structure from a local file",
	Long: `Extract runs the structure extraction pipeline against a local PDF or
image file. Per-page artifacts are written to the output directory and the
aggregated markdown is printed to stdout.`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	extractCmd.Flags().StringVarP(&extractOutputDir, "output", "o", "output", "artifact output directory")
	extractCmd.Flags().StringSliceVarP(&extractLanguages, "languages", "l", []string{"eng"}, "recognition languages")
	extractCmd.Flags().IntVar(&extractDPI, "dpi", 200, "PDF rasterization DPI")
	extractCmd.Flags().IntVar(&extractThreads, "threads", 8, "engine CPU thread budget")
	extractCmd.Flags().BoolVar(&extractHTMLPreview, "html", false, "also write HTML previews")
	extractCmd.Flags().BoolVarP(&extractQuiet, "quiet", "q", false, "suppress the aggregated result on stdout")

	rootCmd.AddCommand(extractCmd)
}

func runExtract(cmd *cobra.Command, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		ui.Failure("Cannot read %s", args[0])
		return err
	}

	sp := ui.NewSpinner("Initializing extraction engine...")
	sp.Start()
	eng, err := tesseract.New(engine.Options{
		Languages:  extractLanguages,
		CPUThreads: extractThreads,
		RenderDPI:  extractDPI,
	})
	sp.Stop()
	if err != nil {
		ui.Failure("Engine initialization failed")
		return err
	}

	start := time.Now()
	stream, err := eng.Extract(cmd.Context(), data)
	if err != nil {
		ui.Failure("Cannot process %s", args[0])
		return err
	}

	writer := artifacts.NewWriter(extractHTMLPreview)
	progress := ui.NewPageProgress("Extracting pages")

	var renderings []string
	for {
		page, ok := stream.Next()
		if !ok {
			break
		}
		renderings = append(renderings, page.Markdown)
		if werr := writer.WritePage(page, extractOutputDir); werr != nil {
			ui.Info("warning: page %d artifacts not written: %v", page.Index+1, werr)
		}
		progress.Add(1)
	}
	progress.Finish()

	if err := stream.Err(); err != nil {
		ui.Failure("Extraction failed")
		return err
	}

	ui.Success("Processed %d pages in %s, artifacts in %s",
		len(renderings), time.Since(start).Round(time.Millisecond), extractOutputDir)

	if !extractQuiet {
		fmt.Println(strings.Join(renderings, "\n\n"))
	}
	return nil
}
