package render

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWriter(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	if writer == nil {
		t.Fatal("NewWriter returned nil")
	}
	if writer.output != &buf {
		t.Error("Writer output doesn't match provided buffer")
	}
	if writer.count != 0 {
		t.Errorf("Initial count should be 0, got %d", writer.count)
	}
}

func TestWriter_Write(t *testing.T) {
	tests := []struct {
		name   string
		blocks []string
		want   string
	}{
		{
			name:   "single block",
			blocks: []string{`{"online":true}`},
			want:   "{\"online\":true}\n",
		},
		{
			name:   "multiple blocks",
			blocks: []string{`{"a":1}`, `{"b":2}`},
			want:   "{\"a\":1}\n{\"b\":2}\n",
		},
		{
			name:   "block with trailing newline",
			blocks: []string{"{\"a\":1}\n"},
			want:   "{\"a\":1}\n",
		},
		{
			name:   "no blocks",
			blocks: nil,
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			writer := NewWriter(&buf)

			for _, block := range tt.blocks {
				if err := writer.Write([]byte(block)); err != nil {
					t.Fatalf("Write failed: %v", err)
				}
			}

			if writer.Count() != len(tt.blocks) {
				t.Errorf("Count mismatch: got %d, want %d", writer.Count(), len(tt.blocks))
			}
			if buf.String() != tt.want {
				t.Errorf("Output mismatch:\ngot:  %q\nwant: %q", buf.String(), tt.want)
			}
		})
	}
}

func TestWriter_Concurrent(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriter(&buf)

	numGoroutines := 10
	blocksPerGoroutine := 100
	totalBlocks := numGoroutines * blocksPerGoroutine

	errCh := make(chan error, numGoroutines)

	for i := 0; i < numGoroutines; i++ {
		go func(goroutineID int) {
			for j := 0; j < blocksPerGoroutine; j++ {
				block := fmt.Sprintf(`{"goroutine":%d,"block":%d}`, goroutineID, j)
				if err := writer.Write([]byte(block)); err != nil {
					errCh <- err
					return
				}
			}
			errCh <- nil
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		if err := <-errCh; err != nil {
			t.Fatalf("Concurrent write failed: %v", err)
		}
	}

	if writer.Count() != totalBlocks {
		t.Errorf("Count mismatch: got %d, want %d", writer.Count(), totalBlocks)
	}

	// Every line must be intact JSON; interleaved writes would corrupt them.
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != totalBlocks {
		t.Errorf("Line count mismatch: got %d, want %d", len(lines), totalBlocks)
	}
	for i, line := range lines {
		var block map[string]interface{}
		if err := json.Unmarshal([]byte(line), &block); err != nil {
			t.Errorf("Invalid JSON at line %d: %v", i, err)
		}
	}
}

func TestNewFileWriter(t *testing.T) {
	tmpDir := t.TempDir()
	filename := filepath.Join(tmpDir, "out.json")

	writer, err := NewFileWriter(filename)
	if err != nil {
		t.Fatalf("NewFileWriter failed: %v", err)
	}
	defer writer.Close()

	blocks := []string{`{"info":{}}`, `{"array":{}}`}
	for _, block := range blocks {
		if err := writer.Write([]byte(block)); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
	}

	if err := writer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		t.Fatalf("Failed to read output file: %v", err)
	}

	want := "{\"info\":{}}\n{\"array\":{}}\n"
	if string(data) != want {
		t.Errorf("File contents mismatch:\ngot:  %q\nwant: %q", data, want)
	}
}

func TestNewFileWriter_Error(t *testing.T) {
	_, err := NewFileWriter("/non/existent/path/out.json")
	if err == nil {
		t.Error("Expected error for non-existent directory, got nil")
	}
}
