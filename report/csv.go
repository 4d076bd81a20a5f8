package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/givxl33t/torrentinfo-go/torrentparser"
)

var (
	singleFileHeader = []string{"file_name", "file_size", "total_size", "total_pieces", "piece_length", "pieces_hash", "trackers", "info_hash"}
	multiFileHeader  = []string{"file_path", "file_size", "piece_length", "total_size", "total_pieces", "pieces_hash", "trackers", "info_hash"}
)

// trackers share one cell, separated by a space
const trackerSeparator = " "

// WriteCSV writes t as CSV with a header row.
//
// A single-file torrent is one data row. A multi-file torrent is one row per
// file, with the torrent-wide fields repeated on every row; with no files it
// is a single row with empty file_path and file_size.
func WriteCSV(w io.Writer, t torrentparser.TorrentInfo) error {
	cw := csv.NewWriter(w)

	trackers := strings.Join(t.Trackers, trackerSeparator)
	u := func(n uint64) string { return strconv.FormatUint(n, 10) }

	var rows [][]string
	if t.Mode == torrentparser.SingleFile {
		rows = append(rows, singleFileHeader, []string{
			t.FileName, u(t.FileSize), u(t.TotalSize), u(t.TotalPieces), u(t.PieceLength),
			t.PiecesHash, trackers, t.InfoHash,
		})
	} else {
		rows = append(rows, multiFileHeader)
		if len(t.Files) == 0 {
			rows = append(rows, []string{
				"", "", u(t.PieceLength), u(t.TotalSize), u(t.TotalPieces),
				t.PiecesHash, trackers, t.InfoHash,
			})
		}
		for _, f := range t.Files {
			rows = append(rows, []string{
				f.Path, u(f.Size), u(t.PieceLength), u(t.TotalSize), u(t.TotalPieces),
				t.PiecesHash, trackers, t.InfoHash,
			})
		}
	}

	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("writing csv report: %w", err)
	}
	return nil
}
