package splitter

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/vvka-141/taqload/pkg/taqload"
)

// readerBufSize is sized for wide TAQ records; bufio.Scanner's default
// 64KB token limit is too small for some vendor extracts.
const readerBufSize = 1 << 20

// Splitter turns a raw TAQ source file into chunk files ready for COPY.
type Splitter struct {
	logger taqload.Logger
}

// NewSplitter creates a Splitter that reports progress through logger.
func NewSplitter(logger taqload.Logger) *Splitter {
	return &Splitter{logger: logger}
}

// Split strips the header and footer records from the source file and
// partitions the remaining lines into chunkCount contiguous chunk files
// inside dir.
//
// With L data lines and N chunks, each chunk holds L/N lines and the last
// chunk absorbs the remainder, so chunk ranges tile [1, L] exactly. When
// L < N the leading chunks are empty files; they still participate in the
// run so the report always covers chunkCount chunks.
func (s *Splitter) Split(srcPath string, dir *RunDir, chunkCount int) ([]taqload.Chunk, error) {
	lineCount, err := s.stripHeaderFooter(srcPath, dir.CleanedPath())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", taqload.ErrSplitFailed, err)
	}
	s.logger.Verbose("Cleaned source: %d data lines", lineCount)

	chunks := planChunks(lineCount, chunkCount, dir)

	if err := s.writeChunks(dir.CleanedPath(), chunks); err != nil {
		return nil, fmt.Errorf("%w: %v", taqload.ErrSplitFailed, err)
	}

	for _, c := range chunks {
		s.logger.Verbose("Chunk %d: lines %d-%d (%d lines) -> %s",
			c.Index, c.StartLine, c.EndLine, c.Lines(), c.Path)
	}

	return chunks, nil
}

// stripHeaderFooter copies srcPath to dstPath dropping the first and last
// lines, and returns the number of lines written. The footer is only known
// at EOF, so each line is held back until the next one arrives.
func (s *Splitter) stripHeaderFooter(srcPath, dstPath string) (int, error) {
	src, err := os.Open(srcPath)
	if err != nil {
		return 0, err
	}
	defer src.Close()

	dst, err := os.Create(dstPath)
	if err != nil {
		return 0, err
	}
	defer dst.Close()

	reader := bufio.NewReaderSize(src, readerBufSize)
	writer := bufio.NewWriterSize(dst, readerBufSize)

	var (
		pending   []byte
		havePend  bool
		seenFirst bool
		count     int
	)

	for {
		line, err := readLine(reader)
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, err
		}

		if !seenFirst {
			// Header record, dropped.
			seenFirst = true
			continue
		}

		if havePend {
			if _, err := writer.Write(pending); err != nil {
				return 0, err
			}
			if err := writer.WriteByte('\n'); err != nil {
				return 0, err
			}
			count++
		}
		pending = line
		havePend = true
	}

	// pending now holds the footer record, dropped.

	if err := writer.Flush(); err != nil {
		return 0, err
	}
	return count, nil
}

// planChunks computes the contiguous 1-indexed line ranges for chunkCount
// chunks over lineCount lines.
func planChunks(lineCount, chunkCount int, dir *RunDir) []taqload.Chunk {
	chunkSize := lineCount / chunkCount

	chunks := make([]taqload.Chunk, chunkCount)
	for i := 0; i < chunkCount; i++ {
		start := i*chunkSize + 1
		end := (i + 1) * chunkSize
		if i == chunkCount-1 {
			end = lineCount
		}
		chunks[i] = taqload.Chunk{
			Index:     i,
			Path:      dir.ChunkPath(i),
			StartLine: start,
			EndLine:   end,
		}
	}
	return chunks
}

// writeChunks materializes each chunk range as its own file by streaming
// the cleaned file once, in order.
func (s *Splitter) writeChunks(cleanedPath string, chunks []taqload.Chunk) error {
	src, err := os.Open(cleanedPath)
	if err != nil {
		return err
	}
	defer src.Close()

	reader := bufio.NewReaderSize(src, readerBufSize)

	for _, chunk := range chunks {
		if err := writeOneChunk(reader, chunk); err != nil {
			return fmt.Errorf("chunk %d: %w", chunk.Index, err)
		}
	}
	return nil
}

func writeOneChunk(reader *bufio.Reader, chunk taqload.Chunk) error {
	out, err := os.Create(chunk.Path)
	if err != nil {
		return err
	}
	writer := bufio.NewWriterSize(out, readerBufSize)

	for n := chunk.Lines(); n > 0; n-- {
		line, err := readLine(reader)
		if err != nil {
			out.Close()
			return fmt.Errorf("reading line for range %d-%d: %w", chunk.StartLine, chunk.EndLine, err)
		}
		if _, err := writer.Write(line); err != nil {
			out.Close()
			return err
		}
		if err := writer.WriteByte('\n'); err != nil {
			out.Close()
			return err
		}
	}

	if err := writer.Flush(); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// readLine returns the next line without its terminator. A final line with
// no trailing newline is still returned; io.EOF is only reported when no
// bytes remain.
func readLine(reader *bufio.Reader) ([]byte, error) {
	line, err := reader.ReadBytes('\n')
	if err == io.EOF {
		if len(line) == 0 {
			return nil, io.EOF
		}
		return trimCR(line), nil
	}
	if err != nil {
		return nil, err
	}
	return trimCR(line[:len(line)-1]), nil
}

func trimCR(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		return line[:len(line)-1]
	}
	return line
}
