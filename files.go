package vocab

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// ScanFiles is ScanReaders over the named files, scanned one goroutine per
// file.
func ScanFiles(files []string, opts ...Option) (*Vocabulary[string], []int, error) {
	var fs []*os.File
	closeAll := func() {
		for _, f := range fs {
			f.Close()
		}
	}
	defer closeAll()
	readers := make([]io.Reader, 0, len(files))
	for _, file := range files {
		f, err := os.Open(file)
		if err != nil {
			return nil, nil, fmt.Errorf("open %s: %w", file, err)
		}
		fs = append(fs, f)
		readers = append(readers, f)
	}
	v, counts, err := scanReaders(readers, func(i int) string {
		return files[i]
	}, buildOptions(opts))
	if err != nil {
		return nil, nil, fmt.Errorf("scan files: %w", err)
	}
	return v, counts, nil
}

// ScanString scans a single in-memory document.
func ScanString(str string, opts ...Option) (*Vocabulary[string], []int, error) {
	return ScanReaders([]io.Reader{strings.NewReader(str)}, opts...)
}
