package importer

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/taqload/internal/splitter"
	"github.com/vvka-141/taqload/pkg/taqload"
)

func sampleResults() []taqload.ChunkResult {
	return []taqload.ChunkResult{
		{Chunk: taqload.Chunk{Index: 0, StartLine: 1, EndLine: 10}, Status: taqload.StatusSuccess, Elapsed: 100 * time.Millisecond},
		{Chunk: taqload.Chunk{Index: 1, StartLine: 11, EndLine: 20}, Status: taqload.StatusFailed, Elapsed: 50 * time.Millisecond, Err: assert.AnError},
		{Chunk: taqload.Chunk{Index: 2, StartLine: 21, EndLine: 30}, Status: taqload.StatusSuccess, Elapsed: 300 * time.Millisecond},
	}
}

func TestSummarize(t *testing.T) {
	summary := Summarize(sampleResults(), 2*time.Second)

	assert.Equal(t, 3, summary.TotalChunks)
	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.Equal(t, 2*time.Second, summary.TotalElapsed)
	assert.True(t, summary.AvgSuccessValid)
	assert.Equal(t, 200*time.Millisecond, summary.AvgSuccess)
	assert.False(t, summary.AllSucceeded())
}

func TestSummarize_NoSuccesses(t *testing.T) {
	results := []taqload.ChunkResult{
		{Chunk: taqload.Chunk{Index: 0}, Status: taqload.StatusFailed, Err: assert.AnError},
	}

	summary := Summarize(results, time.Second)
	assert.False(t, summary.AvgSuccessValid)
	assert.Zero(t, summary.AvgSuccess)
}

func TestReporter_DetailRowsInChunkOrder(t *testing.T) {
	logger := &recordingLogger{}
	results := sampleResults()

	// Shuffle completion order; the report must still be by index because
	// results are positioned by chunk index.
	NewReporter(logger).Report(Summarize(results, time.Second), results)

	joined := strings.Join(logger.info, "\n")
	assert.Contains(t, joined, "IMPORT JOB COMPLETED")
	assert.Contains(t, joined, "Succeeded:       2")
	assert.Contains(t, joined, "Failed:          1")

	var detail []string
	for _, line := range logger.info {
		if strings.Contains(line, "SUCCESS") || strings.Contains(line, "FAILED") {
			detail = append(detail, line)
		}
	}
	require.Len(t, detail, 3)
	assert.True(t, strings.HasPrefix(detail[0], "0 "))
	assert.True(t, strings.HasPrefix(detail[1], "1 "))
	assert.True(t, strings.HasPrefix(detail[2], "2 "))
	assert.Contains(t, detail[1], "FAILED")
}

func TestReporter_Cleanup(t *testing.T) {
	newDir := func(t *testing.T) *splitter.RunDir {
		dir, err := splitter.NewRunDir(t.TempDir())
		require.NoError(t, err)
		return dir
	}

	t.Run("removes on full success", func(t *testing.T) {
		dir := newDir(t)
		summary := &taqload.RunSummary{TotalChunks: 2, Succeeded: 2}

		removed := NewReporter(&recordingLogger{}).Cleanup(dir, summary, false)
		assert.True(t, removed)
		assert.NoDirExists(t, dir.Path)
	})

	t.Run("retains on failure", func(t *testing.T) {
		dir := newDir(t)
		defer dir.Remove()
		summary := &taqload.RunSummary{TotalChunks: 2, Succeeded: 1, Failed: 1}

		logger := &recordingLogger{}
		removed := NewReporter(logger).Cleanup(dir, summary, false)
		assert.False(t, removed)
		assert.DirExists(t, dir.Path)
		assert.Contains(t, strings.Join(logger.info, "\n"), "retained")
	})

	t.Run("retains with keep-temp", func(t *testing.T) {
		dir := newDir(t)
		defer dir.Remove()
		summary := &taqload.RunSummary{TotalChunks: 2, Succeeded: 2}

		removed := NewReporter(&recordingLogger{}).Cleanup(dir, summary, true)
		assert.False(t, removed)
		assert.DirExists(t, dir.Path)
	})
}

func TestWriteJSONReport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	cfg := &taqload.ImportConfig{Table: "taq_trades", SourcePath: "/data/taq.txt"}
	results := sampleResults()
	summary := Summarize(results, 2*time.Second)
	summary.CleanedUp = false

	require.NoError(t, WriteJSONReport(path, cfg, summary, results))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "taq_trades", decoded["table"])
	assert.EqualValues(t, 3, decoded["total_chunks"])
	assert.EqualValues(t, 2, decoded["succeeded"])
	assert.EqualValues(t, 1, decoded["failed"])
	assert.EqualValues(t, 200, decoded["avg_success_elapsed_ms"])

	chunks, ok := decoded["chunks"].([]interface{})
	require.True(t, ok)
	require.Len(t, chunks, 3)

	failed := chunks[1].(map[string]interface{})
	assert.Equal(t, "FAILED", failed["status"])
	assert.NotEmpty(t, failed["error"])
}
