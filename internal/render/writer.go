package render

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Writer sends rendered payload blocks to an io.Writer or a file.
// Each block is flushed immediately and terminated with a newline.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	count     int
	closeFunc func() error
}

// NewWriter creates a new Writer that writes to the specified output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{output: w}
}

// NewFileWriter creates a new Writer that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		output:    file,
		closeFunc: file.Close,
	}, nil
}

// Write writes a single rendered block followed by a newline.
func (w *Writer) Write(block []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.output.Write(block); err != nil {
		return fmt.Errorf("failed to write block: %w", err)
	}
	if len(block) == 0 || block[len(block)-1] != '\n' {
		if _, err := io.WriteString(w.output, "\n"); err != nil {
			return fmt.Errorf("failed to write block: %w", err)
		}
	}

	w.count++
	return nil
}

// Count returns the number of blocks written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it's a file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
