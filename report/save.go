package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/givxl33t/torrentinfo-go/torrentparser"
)

// Format is an output format for a report file.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
)

// ParseFormat maps a format name (case-insensitive) onto a Format.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case JSON, CSV:
		return f, nil
	default:
		return "", fmt.Errorf("unknown report format %q", name)
	}
}

// Write serializes t to w in format f.
func Write(w io.Writer, f Format, t torrentparser.TorrentInfo) error {
	switch f {
	case JSON:
		return WriteJSON(w, t)
	case CSV:
		return WriteCSV(w, t)
	default:
		return fmt.Errorf("unknown report format %q", f)
	}
}

// Stem returns the base name of a torrent file without its .torrent suffix.
func Stem(torrentPath string) string {
	base := filepath.Base(torrentPath)
	return strings.TrimSuffix(base, ".torrent")
}

// Save writes one report file per format into outDir, named <stem>.<format>,
// and returns the written paths. outDir defaults to the current directory
// and is created when missing.
func Save(outDir, stem string, t torrentparser.TorrentInfo, formats ...Format) ([]string, error) {
	if outDir == "" {
		outDir = "./"
	}

	// ensure directory exists
	_, err := os.Stat(outDir)
	if os.IsNotExist(err) {
		err := os.MkdirAll(outDir, 0o755)
		if err != nil {
			return nil, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	var written []string
	for _, f := range formats {
		// the report is built in memory before the file is created
		var buf bytes.Buffer
		if err := Write(&buf, f, t); err != nil {
			return written, err
		}

		outPath := filepath.Join(outDir, stem+"."+string(f))
		err := os.WriteFile(outPath, buf.Bytes(), 0o644)
		if err != nil {
			return written, fmt.Errorf("failed to write file: %w", err)
		}
		written = append(written, outPath)
	}

	return written, nil
}
