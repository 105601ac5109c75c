package importer

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/vvka-141/taqload/internal/splitter"
	"github.com/vvka-141/taqload/pkg/taqload"
)

// Summarize aggregates per-chunk results into run statistics.
func Summarize(results []taqload.ChunkResult, totalElapsed time.Duration) taqload.RunSummary {
	summary := taqload.RunSummary{
		TotalChunks:  len(results),
		TotalElapsed: totalElapsed,
	}

	var successTotal time.Duration
	for _, r := range results {
		if r.Status == taqload.StatusSuccess {
			summary.Succeeded++
			successTotal += r.Elapsed
		} else {
			summary.Failed++
		}
	}

	if summary.Succeeded > 0 {
		summary.AvgSuccess = successTotal / time.Duration(summary.Succeeded)
		summary.AvgSuccessValid = true
	}

	return summary
}

// Reporter renders the end-of-run banner, summary and per-chunk detail.
type Reporter struct {
	logger taqload.Logger
}

// NewReporter creates a Reporter writing through logger.
func NewReporter(logger taqload.Logger) *Reporter {
	return &Reporter{logger: logger}
}

// Report prints the completion banner, the aggregate summary and the detail
// table. Results arrive indexed by chunk, so the detail rows are always in
// chunk order regardless of completion order.
func (r *Reporter) Report(summary taqload.RunSummary, results []taqload.ChunkResult) {
	r.logger.Info("")
	r.logger.Info("==================================================")
	r.logger.Info("IMPORT JOB COMPLETED")
	r.logger.Info("==================================================")
	r.logger.Info("Total chunks:    %d", summary.TotalChunks)
	r.logger.Info("Succeeded:       %d", summary.Succeeded)
	r.logger.Info("Failed:          %d", summary.Failed)
	r.logger.Info("Total elapsed:   %s", formatElapsed(summary.TotalElapsed))
	if summary.AvgSuccessValid {
		r.logger.Info("Avg chunk time:  %s", formatElapsed(summary.AvgSuccess))
	}
	r.logger.Info("")
	r.logger.Info("%-7s %-15s %-8s %s", "CHUNK", "LINES", "STATUS", "ELAPSED")
	for _, res := range results {
		r.logger.Info("%-7d %-15s %-8s %s",
			res.Chunk.Index,
			fmt.Sprintf("%d-%d", res.Chunk.StartLine, res.Chunk.EndLine),
			res.Status,
			formatElapsed(res.Elapsed),
		)
	}
}

// Cleanup removes the run directory when every chunk succeeded and the
// operator did not ask to keep it. On any failure (or with --keep-temp) the
// chunk files are retained so failed chunks can be inspected and re-run.
// Returns whether the directory was removed.
func (r *Reporter) Cleanup(dir *splitter.RunDir, summary *taqload.RunSummary, keepTemp bool) bool {
	if keepTemp {
		r.logger.Info("")
		r.logger.Info("Temporary files retained in %s", dir.Path)
		return false
	}
	if !summary.AllSucceeded() {
		r.logger.Info("")
		r.logger.Info("Some chunks failed; temporary files retained in %s for inspection", dir.Path)
		return false
	}

	if err := dir.Remove(); err != nil {
		r.logger.Error("Failed to remove temporary directory %s: %v", dir.Path, err)
		return false
	}
	r.logger.Verbose("Removed temporary directory %s", dir.Path)
	return true
}

// jsonReport is the machine-readable run report schema.
type jsonReport struct {
	Table       string            `json:"table"`
	SourcePath  string            `json:"source_path"`
	TotalChunks int               `json:"total_chunks"`
	Succeeded   int               `json:"succeeded"`
	Failed      int               `json:"failed"`
	TotalMillis int64             `json:"total_elapsed_ms"`
	AvgMillis   *int64            `json:"avg_success_elapsed_ms,omitempty"`
	CleanedUp   bool              `json:"cleaned_up"`
	Chunks      []jsonChunkReport `json:"chunks"`
	GeneratedAt time.Time         `json:"generated_at"`
}

type jsonChunkReport struct {
	Index     int    `json:"index"`
	StartLine int    `json:"start_line"`
	EndLine   int    `json:"end_line"`
	Status    string `json:"status"`
	ElapsedMs int64  `json:"elapsed_ms"`
	Error     string `json:"error,omitempty"`
}

// WriteJSONReport writes the run report to path.
func WriteJSONReport(path string, cfg *taqload.ImportConfig, summary taqload.RunSummary, results []taqload.ChunkResult) error {
	report := jsonReport{
		Table:       cfg.Table,
		SourcePath:  cfg.SourcePath,
		TotalChunks: summary.TotalChunks,
		Succeeded:   summary.Succeeded,
		Failed:      summary.Failed,
		TotalMillis: summary.TotalElapsed.Milliseconds(),
		CleanedUp:   summary.CleanedUp,
		GeneratedAt: time.Now().UTC(),
	}
	if summary.AvgSuccessValid {
		avg := summary.AvgSuccess.Milliseconds()
		report.AvgMillis = &avg
	}

	for _, res := range results {
		cr := jsonChunkReport{
			Index:     res.Chunk.Index,
			StartLine: res.Chunk.StartLine,
			EndLine:   res.Chunk.EndLine,
			Status:    res.Status.String(),
			ElapsedMs: res.Elapsed.Milliseconds(),
		}
		if res.Err != nil {
			cr.Error = res.Err.Error()
		}
		report.Chunks = append(report.Chunks, cr)
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode run report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write run report: %w", err)
	}
	return nil
}
