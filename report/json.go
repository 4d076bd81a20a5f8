package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/givxl33t/torrentinfo-go/torrentparser"
)

type singleFileRecord struct {
	FileName    string   `json:"file_name"`
	FileSize    uint64   `json:"file_size"`
	TotalSize   uint64   `json:"total_size"`
	TotalPieces uint64   `json:"total_pieces"`
	PieceLength uint64   `json:"piece_length"`
	PiecesHash  string   `json:"pieces_hash"`
	Trackers    []string `json:"trackers"`
	InfoHash    string   `json:"info_hash,omitempty"`
	MagnetLink  string   `json:"magnet_link,omitempty"`
}

type fileRecord struct {
	FilePath string `json:"file_path"`
	FileSize uint64 `json:"file_size"`
}

type multiFileRecord struct {
	Name        string       `json:"name,omitempty"`
	Files       []fileRecord `json:"files"`
	PieceLength uint64       `json:"piece_length"`
	TotalSize   uint64       `json:"total_size"`
	TotalPieces uint64       `json:"total_pieces"`
	PiecesHash  string       `json:"pieces_hash"`
	Trackers    []string     `json:"trackers"`
	InfoHash    string       `json:"info_hash,omitempty"`
	MagnetLink  string       `json:"magnet_link,omitempty"`
}

// record returns the mode-specific shape that is serialized for t.
func record(t torrentparser.TorrentInfo) interface{} {
	trackers := t.Trackers
	if trackers == nil {
		trackers = []string{}
	}

	if t.Mode == torrentparser.SingleFile {
		return singleFileRecord{
			FileName:    t.FileName,
			FileSize:    t.FileSize,
			TotalSize:   t.TotalSize,
			TotalPieces: t.TotalPieces,
			PieceLength: t.PieceLength,
			PiecesHash:  t.PiecesHash,
			Trackers:    trackers,
			InfoHash:    t.InfoHash,
			MagnetLink:  torrentparser.MagnetLink(t),
		}
	}

	files := make([]fileRecord, 0, len(t.Files))
	for _, f := range t.Files {
		files = append(files, fileRecord{FilePath: f.Path, FileSize: f.Size})
	}
	return multiFileRecord{
		Name:        t.Name,
		Files:       files,
		PieceLength: t.PieceLength,
		TotalSize:   t.TotalSize,
		TotalPieces: t.TotalPieces,
		PiecesHash:  t.PiecesHash,
		Trackers:    trackers,
		InfoHash:    t.InfoHash,
		MagnetLink:  torrentparser.MagnetLink(t),
	}
}

// WriteJSON writes t as an indented JSON object using snake_case keys.
func WriteJSON(w io.Writer, t torrentparser.TorrentInfo) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(record(t)); err != nil {
		return fmt.Errorf("encoding json report: %w", err)
	}
	return nil
}
