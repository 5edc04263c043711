package export

import (
	"fmt"
	"io"
	"os"

	"github.com/andybalholm/brotli"
)

// CompressFile brotli-compresses a written report next to the original and
// returns the compressed path ("<path>.br").
func CompressFile(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("export: open %s: %w", path, err)
	}
	defer src.Close()

	outPath := path + ".br"
	dst, err := os.Create(outPath)
	if err != nil {
		return "", fmt.Errorf("export: create %s: %w", outPath, err)
	}

	bw := brotli.NewWriter(dst)
	if _, err := io.Copy(bw, src); err != nil {
		dst.Close()
		return "", fmt.Errorf("export: compress %s: %w", path, err)
	}
	if err := bw.Close(); err != nil {
		dst.Close()
		return "", fmt.Errorf("export: flush %s: %w", outPath, err)
	}
	if err := dst.Close(); err != nil {
		return "", fmt.Errorf("export: close %s: %w", outPath, err)
	}
	return outPath, nil
}
