package torrentparser

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/givxl33t/torrentinfo-go/bencode"
)

// Normalize projects a decoded metainfo tree onto a TorrentInfo.
//
// The presence of info.length selects single-file mode and info.files
// selects multi-file mode; having both or neither is an error. Trackers come
// from the first tier of announce-list, falling back to announce. Any text
// field that is not UTF-8 aborts the whole extraction.
//
// Errors match ErrSchema or ErrEncoding.
func Normalize(v bencode.Value) (TorrentInfo, error) {
	root, ok := v.(*bencode.Dict)
	if !ok {
		return TorrentInfo{}, schemaErrorf("", "top-level value is a %s, want dictionary", kindOf(v))
	}

	info, err := dictField(root, "info", "info")
	if err != nil {
		return TorrentInfo{}, err
	}

	trackers, err := trackerURLs(root)
	if err != nil {
		return TorrentInfo{}, err
	}

	pieceLength, err := intField(info, "piece length", "info.piece length")
	if err != nil {
		return TorrentInfo{}, err
	}
	if pieceLength <= 0 {
		return TorrentInfo{}, schemaErrorf("info.piece length", "must be positive, got %d", pieceLength)
	}

	pieces, err := stringField(info, "pieces", "info.pieces")
	if err != nil {
		return TorrentInfo{}, err
	}
	if len(pieces)%pieceHashLen != 0 {
		return TorrentInfo{}, schemaErrorf("info.pieces", "length %d is not a multiple of %d", len(pieces), pieceHashLen)
	}

	t := TorrentInfo{
		PieceLength: uint64(pieceLength),
		PiecesHash:  hex.EncodeToString(pieces),
		Trackers:    trackers,
	}

	// either length OR files must be present (but not both)
	hasLength, hasFiles := info.Has("length"), info.Has("files")
	switch {
	case hasLength && hasFiles:
		return TorrentInfo{}, schemaErrorf("info", "both length and files are present")
	case hasLength:
		err = t.appendSingleFile(info)
	case hasFiles:
		err = t.appendMultiFile(info)
	default:
		return TorrentInfo{}, schemaErrorf("info", "neither length nor files is present")
	}
	if err != nil {
		return TorrentInfo{}, err
	}

	totalPieces, err := CalculatePieces(int64(t.TotalSize), pieceLength)
	if err != nil {
		return TorrentInfo{}, err
	}
	t.TotalPieces = uint64(totalPieces)

	return t, nil
}

func (t *TorrentInfo) appendSingleFile(info *bencode.Dict) error {
	length, err := intField(info, "length", "info.length")
	if err != nil {
		return err
	}
	if length < 0 {
		return schemaErrorf("info.length", "must not be negative, got %d", length)
	}

	name, err := stringField(info, "name", "info.name")
	if err != nil {
		return err
	}
	fileName, err := text("info.name", name)
	if err != nil {
		return err
	}

	t.Mode = SingleFile
	t.FileName = fileName
	t.FileSize = uint64(length)
	t.TotalSize = uint64(length)
	return nil
}

func (t *TorrentInfo) appendMultiFile(info *bencode.Dict) error {
	files, err := listField(info, "files", "info.files")
	if err != nil {
		return err
	}

	// name is the suggested directory; optional for the report
	if info.Has("name") {
		name, err := stringField(info, "name", "info.name")
		if err != nil {
			return err
		}
		if t.Name, err = text("info.name", name); err != nil {
			return err
		}
	}

	var total int64
	t.Files = make([]File, 0, len(files))
	for i, entry := range files {
		field := fmt.Sprintf("info.files[%d]", i)
		fd, ok := entry.(*bencode.Dict)
		if !ok {
			return schemaErrorf(field, "is a %s, want dictionary", kindOf(entry))
		}

		length, err := intField(fd, "length", field+".length")
		if err != nil {
			return err
		}
		if length < 0 {
			return schemaErrorf(field+".length", "must not be negative, got %d", length)
		}
		if length > math.MaxInt64-total {
			return schemaErrorf(field+".length", "total size overflows")
		}

		path, err := filePath(fd, field+".path")
		if err != nil {
			return err
		}

		t.Files = append(t.Files, File{Path: path, Size: uint64(length)})
		total += length
	}

	t.Mode = MultiFile
	t.TotalSize = uint64(total)
	return nil
}

func filePath(fd *bencode.Dict, field string) (string, error) {
	segments, err := listField(fd, "path", field)
	if err != nil {
		return "", err
	}
	if len(segments) == 0 {
		return "", schemaErrorf(field, "is empty")
	}

	parts := make([]string, 0, len(segments))
	for i, seg := range segments {
		segField := fmt.Sprintf("%s[%d]", field, i)
		s, ok := seg.(bencode.String)
		if !ok {
			return "", schemaErrorf(segField, "is a %s, want byte string", kindOf(seg))
		}
		part, err := text(segField, s)
		if err != nil {
			return "", err
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, "/"), nil
}

// trackerURLs flattens only the first announce-list tier; later tiers are
// ignored. Without announce-list, announce is used on its own.
func trackerURLs(root *bencode.Dict) ([]string, error) {
	if root.Has("announce-list") {
		tiers, err := listField(root, "announce-list", "announce-list")
		if err != nil {
			return nil, err
		}
		if len(tiers) > 0 {
			tier, ok := tiers[0].(bencode.List)
			if !ok {
				return nil, schemaErrorf("announce-list[0]", "is a %s, want list", kindOf(tiers[0]))
			}
			urls := make([]string, 0, len(tier))
			for i, u := range tier {
				field := fmt.Sprintf("announce-list[0][%d]", i)
				s, ok := u.(bencode.String)
				if !ok {
					return nil, schemaErrorf(field, "is a %s, want byte string", kindOf(u))
				}
				url, err := text(field, s)
				if err != nil {
					return nil, err
				}
				urls = append(urls, url)
			}
			return urls, nil
		}
	}

	if !root.Has("announce") {
		if root.Has("announce-list") {
			return nil, schemaErrorf("announce-list", "is empty and announce is missing")
		}
		return nil, schemaErrorf("", "missing both announce and announce-list")
	}
	announce, err := stringField(root, "announce", "announce")
	if err != nil {
		return nil, err
	}
	url, err := text("announce", announce)
	if err != nil {
		return nil, err
	}
	return []string{url}, nil
}

func text(field string, s bencode.String) (string, error) {
	if !utf8.Valid(s) {
		return "", &EncodingError{Field: field}
	}
	return string(s), nil
}

func lookup(d *bencode.Dict, key, field string, want bencode.Kind) (bencode.Value, error) {
	v, ok := d.Get(key)
	if !ok {
		return nil, schemaErrorf(field, "is missing")
	}
	if v == nil || v.Kind() != want {
		return nil, schemaErrorf(field, "is a %s, want %s", kindOf(v), want)
	}
	return v, nil
}

func dictField(d *bencode.Dict, key, field string) (*bencode.Dict, error) {
	v, err := lookup(d, key, field, bencode.KindDict)
	if err != nil {
		return nil, err
	}
	return v.(*bencode.Dict), nil
}

func listField(d *bencode.Dict, key, field string) (bencode.List, error) {
	v, err := lookup(d, key, field, bencode.KindList)
	if err != nil {
		return nil, err
	}
	return v.(bencode.List), nil
}

func intField(d *bencode.Dict, key, field string) (int64, error) {
	v, err := lookup(d, key, field, bencode.KindInteger)
	if err != nil {
		return 0, err
	}
	return int64(v.(bencode.Integer)), nil
}

func stringField(d *bencode.Dict, key, field string) (bencode.String, error) {
	v, err := lookup(d, key, field, bencode.KindString)
	if err != nil {
		return nil, err
	}
	return v.(bencode.String), nil
}

func kindOf(v bencode.Value) string {
	if v == nil {
		return "nil value"
	}
	return v.Kind().String()
}
