package logging

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vvka-141/taqload/pkg/taqload"
)

// Compile-time interface checks.
var (
	_ taqload.Logger = (*ConsoleLogger)(nil)
	_ taqload.Logger = (*NullLogger)(nil)
)

func fixedClock() time.Time {
	return time.Date(2026, 8, 27, 9, 30, 15, 0, time.UTC)
}

func TestProgressLineIsTimestamped(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(false, &buf, fixedClock)

	logger.Progress("Starting import of chunk %d/%d", 1, 8)

	assert.Equal(t, "[09:30:15] Starting import of chunk 1/8\n", buf.String())
}

func TestProgressWithoutArgs(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(false, &buf, fixedClock)

	logger.Progress("Preprocessing file (removing header and footer)")

	assert.Equal(t, "[09:30:15] Preprocessing file (removing header and footer)\n", buf.String())
}

func TestInfoWritesPlainLine(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(false, &buf, fixedClock)

	logger.Info("Total chunks: %d", 8)

	assert.Equal(t, "Total chunks: 8\n", buf.String())
}

// Concurrent workers must not interleave partial lines.
func TestConcurrentProgressLinesStayWhole(t *testing.T) {
	var buf bytes.Buffer
	logger := NewConsoleLoggerTo(false, &buf, fixedClock)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			logger.Progress("SUCCESS: Chunk %d/32 completed in 0.10 seconds", n+1)
		}(i)
	}
	wg.Wait()

	lines := bytes.Split(bytes.TrimRight(buf.Bytes(), "\n"), []byte("\n"))
	assert.Len(t, lines, 32)
	for _, line := range lines {
		assert.True(t, bytes.HasPrefix(line, []byte("[09:30:15] ")), "line %q lacks timestamp prefix", line)
	}
}

func TestNullLoggerDiscardsEverything(t *testing.T) {
	logger := NewNullLogger()
	logger.Verbose("v")
	logger.Info("i")
	logger.Progress("p")
	logger.Error("e")
}
