package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonathan/resume-optimizer/internal/config"
	"github.com/jonathan/resume-optimizer/internal/optimizer"
	"github.com/jonathan/resume-optimizer/internal/presenter"
	"github.com/jonathan/resume-optimizer/internal/types"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize",
	Short: "Optimize a resume for a job description",
	Long: `Send a PDF resume and a job description to the optimizer API and save the tailored LaTeX.

The result is streamed as it is generated. If streaming fails the request is repeated as a single
call. After a failure you are asked whether to retry with the same inputs.`,
	RunE: runOptimize,
}

var (
	optResume    string
	optJob       string
	optJobText   string
	optServerURL string
	optOutDir    string
	optCopy      bool
	optNoRetry   bool
	optVerbose   bool
)

// progressInterval is how often the atomic-mode progress bar advances
const progressInterval = 500 * time.Millisecond

// systemClipboard is replaced in tests
var systemClipboard presenter.Clipboard = presenter.SystemClipboard{}

func init() {
	optimizeCmd.Flags().StringVarP(&optResume, "resume", "r", "", "Path to resume PDF")
	optimizeCmd.Flags().StringVarP(&optJob, "job", "j", "", "Path to job description text file (mutually exclusive with --job-text)")
	optimizeCmd.Flags().StringVar(&optJobText, "job-text", "", "Job description text (mutually exclusive with --job)")
	optimizeCmd.Flags().StringVar(&optServerURL, "server", "", "Optimizer API base URL (default "+config.DefaultServerURL+")")
	optimizeCmd.Flags().StringVarP(&optOutDir, "out-dir", "o", "", "Directory for "+types.DefaultArtifactFilename)
	optimizeCmd.Flags().BoolVar(&optCopy, "copy", false, "Copy the optimized LaTeX to the clipboard")
	optimizeCmd.Flags().BoolVar(&optNoRetry, "no-retry", false, "Exit on failure instead of offering a retry")
	optimizeCmd.Flags().BoolVarP(&optVerbose, "verbose", "v", false, "Print the LaTeX as it streams")
	optimizeCmd.MarkFlagsMutuallyExclusive("job", "job-text")

	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, _ []string) error {
	overrides := config.Config{
		Resume:    optResume,
		Job:       optJob,
		JobText:   optJobText,
		ServerURL: optServerURL,
		OutDir:    optOutDir,
		Copy:      optCopy,
		NoRetry:   optNoRetry,
		Verbose:   optVerbose,
	}
	cfg, err := loadConfig(overrides)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return runOptimization(ctx, cfg, cmd.InOrStdin(), cmd.OutOrStdout())
}

// loadRequest reads the resume and job description named by cfg.
func loadRequest(cfg config.Config) (types.OptimizationRequest, error) {
	if cfg.Resume == "" {
		return types.OptimizationRequest{}, fmt.Errorf("--resume is required")
	}
	data, err := os.ReadFile(cfg.Resume)
	if err != nil {
		return types.OptimizationRequest{}, fmt.Errorf("failed to read resume: %w", err)
	}

	jobDescription := cfg.JobText
	if cfg.Job != "" {
		content, err := os.ReadFile(cfg.Job)
		if err != nil {
			return types.OptimizationRequest{}, fmt.Errorf("failed to read job description: %w", err)
		}
		jobDescription = string(content)
	}
	if strings.TrimSpace(jobDescription) == "" {
		return types.OptimizationRequest{}, fmt.Errorf("a job description is required (--job or --job-text)")
	}

	req := types.OptimizationRequest{
		Document: types.Document{
			Filename:    filepath.Base(cfg.Resume),
			ContentType: types.PDFContentType,
			Data:        data,
		},
		JobDescription: jobDescription,
	}
	if err := req.Validate(); err != nil {
		return types.OptimizationRequest{}, fmt.Errorf("invalid input: %w", err)
	}
	return req, nil
}

// runOptimization drives one session to success, or to failure the user
// declines to retry.
func runOptimization(ctx context.Context, cfg config.Config, in io.Reader, out io.Writer) error {
	req, err := loadRequest(cfg)
	if err != nil {
		return err
	}

	transport := optimizer.NewHTTPTransport(cfg.ServerURL, &http.Client{})
	view := newConsoleView(out, req.Document.Filename, cfg.Verbose)
	session := optimizer.NewSession(optimizer.NewOrchestrator(transport), view.update)
	defer session.Close()

	tickCtx, stopTicks := context.WithCancel(ctx)
	defer stopTicks()
	go view.tickProgress(tickCtx, progressInterval)

	if err := session.Submit(ctx, req.Document, req.JobDescription); err != nil {
		return err
	}

	answers := bufio.NewReader(in)
	for {
		snapshot, err := session.Wait(ctx)
		if err != nil {
			return err
		}
		if !snapshot.State.IsTerminal() {
			return fmt.Errorf("optimization ended in state %s", snapshot.State)
		}

		if presenter.RegionFor(snapshot.State, snapshot.Result.ArtifactText) == presenter.RegionComplete {
			if !presenter.ActionsEnabled(snapshot.State, snapshot.Result) {
				return fmt.Errorf("optimization returned an empty resume")
			}
			return finishOptimization(cfg, view.printer, out, snapshot.Result)
		}

		view.printer.PrintFailure(snapshot.Reason)
		if cfg.NoRetry || !confirmRetry(answers, out) {
			return fmt.Errorf("optimization failed: %s", snapshot.Reason)
		}
		if err := session.Retry(ctx); err != nil {
			return err
		}
	}
}

// finishOptimization presents a completed result and exports it.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func finishOptimization(cfg config.Config, printer *presenter.Printer, out io.Writer, result types.OptimizationResult) error {
	printer.PrintResult(result)
	printer.PrintImprovements(result)

	path, err := presenter.DownloadArtifact(cfg.OutDir, types.DefaultArtifactFilename, result)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Saved optimized resume to %s\n", path)

	if cfg.Copy {
		if presenter.CopyToClipboard(systemClipboard, result) {
			fmt.Fprintln(out, "Copied LaTeX to clipboard")
		} else {
			fmt.Fprintln(out, "Could not copy to clipboard")
		}
	}
	return nil
}

// confirmRetry asks whether to run the same request again. Anything other
// than y/yes, including end of input, is a no.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func confirmRetry(answers *bufio.Reader, out io.Writer) bool {
	fmt.Fprint(out, "Retry optimization? [y/N] ")
	line, _ := answers.ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

// consoleView renders session snapshots to the terminal. Snapshots arrive on
// the session goroutine and progress ticks on another, so output is serialized.
type consoleView struct {
	mu       sync.Mutex
	out      io.Writer
	printer  *presenter.Printer
	filename string
	verbose  bool

	state    types.PipelineState
	printed  int
	progress int
}

func newConsoleView(out io.Writer, filename string, verbose bool) *consoleView {
	return &consoleView{
		out:      out,
		printer:  presenter.NewPrinter(out),
		filename: filename,
		verbose:  verbose,
	}
}

//nolint:errcheck // writing to stdout; errors are not recoverable
func (v *consoleView) update(s optimizer.Snapshot) {
	v.mu.Lock()
	defer v.mu.Unlock()

	prev := v.state
	v.state = s.State
	text := s.Result.ArtifactText

	switch s.State {
	case types.StateSubmitting:
		v.printed = 0
		v.progress = 0
		fmt.Fprintf(v.out, "Optimizing %s (attempt %d)...\n", v.filename, s.Attempt)

	case types.StateStreamingInProgress:
		if len(text) > v.printed {
			if v.verbose {
				v.printer.PrintStreamChunk(text[v.printed:])
			} else {
				fmt.Fprintf(v.out, "\rReceived %d characters", s.Result.Length())
			}
			v.printed = len(text)
		}

	case types.StateAtomicPending:
		if prev == types.StateAtomicPending {
			return
		}
		if v.printed > 0 {
			fmt.Fprintln(v.out)
		}
		fmt.Fprintln(v.out, "Streaming unavailable, waiting for the complete response...")
		v.printed = 0
		v.progress = 0
		v.printer.PrintProgress(v.progress)

	case types.StateSucceeded:
		if prev == types.StateAtomicPending {
			v.printer.PrintProgress(100)
		} else if v.printed > 0 {
			fmt.Fprintln(v.out)
		}

	case types.StateFailed:
		if prev == types.StateAtomicPending || v.printed > 0 {
			fmt.Fprintln(v.out)
		}
	}
}

// tickProgress advances the progress bar while an atomic request is pending.
func (v *consoleView) tickProgress(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			v.mu.Lock()
			if v.state == types.StateAtomicPending {
				v.progress = presenter.NextProgress(v.progress)
				v.printer.PrintProgress(v.progress)
			}
			v.mu.Unlock()
		}
	}
}
