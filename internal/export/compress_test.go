package export

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
)

func TestCompressFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "report.csv")
	payload := strings.Repeat("COURSE_KEY,COURSE_TOKEN\r\n", 200)
	if err := os.WriteFile(src, []byte(payload), 0o644); err != nil {
		t.Fatal(err)
	}

	outPath, err := CompressFile(src)
	if err != nil {
		t.Fatalf("CompressFile() error = %v", err)
	}
	if outPath != src+".br" {
		t.Errorf("Expected output path %q, got %q", src+".br", outPath)
	}

	compressed, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(compressed) >= len(payload) {
		t.Errorf("Expected compressed output smaller than %d bytes, got %d", len(payload), len(compressed))
	}

	decompressed, err := io.ReadAll(brotli.NewReader(bytes.NewReader(compressed)))
	if err != nil {
		t.Fatalf("Failed to decompress: %v", err)
	}
	if string(decompressed) != payload {
		t.Error("Round trip through brotli did not preserve content")
	}
}

func TestCompressFileMissingSource(t *testing.T) {
	if _, err := CompressFile(filepath.Join(t.TempDir(), "missing.csv")); err == nil {
		t.Error("Expected an error for a missing source file")
	}
}
