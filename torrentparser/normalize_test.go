package torrentparser

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/givxl33t/torrentinfo-go/bencode"
)

func str(s string) bencode.String { return bencode.String(s) }

func entry(k string, v bencode.Value) bencode.Entry { return bencode.Entry{Key: k, Value: v} }

func pieces(n int) bencode.String {
	return bencode.String(bytes.Repeat([]byte("A"), n*pieceHashLen))
}

func singleFileTorrent() *bencode.Dict {
	return bencode.NewDict(
		entry("announce", str("http://tracker.example/announce")),
		entry("info", bencode.NewDict(
			entry("length", bencode.Integer(1024)),
			entry("name", str("file.bin")),
			entry("piece length", bencode.Integer(512)),
			entry("pieces", pieces(2)),
		)),
	)
}

func multiFileTorrent() *bencode.Dict {
	return bencode.NewDict(
		entry("announce", str("http://tracker.example/announce")),
		entry("info", bencode.NewDict(
			entry("files", bencode.List{
				bencode.NewDict(entry("length", bencode.Integer(10)), entry("path", bencode.List{str("a")})),
				bencode.NewDict(entry("length", bencode.Integer(20)), entry("path", bencode.List{str("b")})),
			}),
			entry("name", str("dir")),
			entry("piece length", bencode.Integer(16)),
			entry("pieces", pieces(2)),
		)),
	)
}

func info(root *bencode.Dict) *bencode.Dict {
	v, _ := root.Get("info")
	return v.(*bencode.Dict)
}

func TestNormalizeSingleFile(t *testing.T) {
	got, err := Normalize(singleFileTorrent())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	want := TorrentInfo{
		Mode:        SingleFile,
		FileName:    "file.bin",
		FileSize:    1024,
		PieceLength: 512,
		TotalSize:   1024,
		TotalPieces: 2,
		PiecesHash:  strings.Repeat("41", 2*pieceHashLen),
		Trackers:    []string{"http://tracker.example/announce"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Normalize = %+v\nwant %+v", got, want)
	}
	if len(got.PiecesHash)%40 != 0 {
		t.Errorf("len(PiecesHash) = %d, not a multiple of 40", len(got.PiecesHash))
	}
}

func TestNormalizeMultiFile(t *testing.T) {
	got, err := Normalize(multiFileTorrent())
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}

	if got.Mode != MultiFile {
		t.Errorf("Mode = %s, want multi-file", got.Mode)
	}
	if got.TotalSize != 30 {
		t.Errorf("TotalSize = %d, want 30", got.TotalSize)
	}
	if got.TotalPieces != 2 {
		t.Errorf("TotalPieces = %d, want 2", got.TotalPieces)
	}
	wantFiles := []File{{Path: "a", Size: 10}, {Path: "b", Size: 20}}
	if !reflect.DeepEqual(got.Files, wantFiles) {
		t.Errorf("Files = %+v, want %+v", got.Files, wantFiles)
	}
	if got.Name != "dir" {
		t.Errorf("Name = %q, want dir", got.Name)
	}
	if got.FileName != "" || got.FileSize != 0 {
		t.Errorf("single-file fields set in multi-file mode: %q %d", got.FileName, got.FileSize)
	}
}

func TestNormalizeNestedPath(t *testing.T) {
	root := multiFileTorrent()
	info(root).Set("files", bencode.List{
		bencode.NewDict(entry("length", bencode.Integer(5)), entry("path", bencode.List{str("sub"), str("dir"), str("x.txt")})),
	})

	got, err := Normalize(root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.Files[0].Path != "sub/dir/x.txt" {
		t.Errorf("Path = %q, want sub/dir/x.txt", got.Files[0].Path)
	}
}

func TestNormalizeTrackers(t *testing.T) {
	tests := []struct {
		name    string
		prepare func(root *bencode.Dict) *bencode.Dict
		want    []string
	}{
		{
			name:    "announce only",
			prepare: func(root *bencode.Dict) *bencode.Dict { return root },
			want:    []string{"http://tracker.example/announce"},
		},
		{
			name: "first tier wins over announce",
			prepare: func(root *bencode.Dict) *bencode.Dict {
				root.Set("announce-list", bencode.List{
					bencode.List{str("udp://one"), str("udp://two")},
					bencode.List{str("udp://backup")},
				})
				return root
			},
			want: []string{"udp://one", "udp://two"},
		},
		{
			name: "announce-list without announce",
			prepare: func(root *bencode.Dict) *bencode.Dict {
				return bencode.NewDict(
					entry("announce-list", bencode.List{bencode.List{str("udp://only")}}),
					entry("info", info(root)),
				)
			},
			want: []string{"udp://only"},
		},
		{
			name: "empty announce-list falls back",
			prepare: func(root *bencode.Dict) *bencode.Dict {
				root.Set("announce-list", bencode.List{})
				return root
			},
			want: []string{"http://tracker.example/announce"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.prepare(singleFileTorrent()))
			if err != nil {
				t.Fatalf("Normalize: %v", err)
			}
			if !reflect.DeepEqual(got.Trackers, tt.want) {
				t.Errorf("Trackers = %q, want %q", got.Trackers, tt.want)
			}
		})
	}
}

func TestNormalizeSchemaErrors(t *testing.T) {
	tests := []struct {
		name    string
		prepare func() bencode.Value
		field   string
	}{
		{"not a dictionary", func() bencode.Value { return bencode.List{} }, ""},
		{"missing info", func() bencode.Value {
			return bencode.NewDict(entry("announce", str("http://x")))
		}, "info"},
		{"info not a dictionary", func() bencode.Value {
			root := singleFileTorrent()
			root.Set("info", str("nope"))
			return root
		}, "info"},
		{"no trackers", func() bencode.Value {
			return bencode.NewDict(entry("info", info(singleFileTorrent())))
		}, ""},
		{"empty announce-list and no announce", func() bencode.Value {
			return bencode.NewDict(entry("announce-list", bencode.List{}), entry("info", info(singleFileTorrent())))
		}, "announce-list"},
		{"announce-list tier not a list", func() bencode.Value {
			root := singleFileTorrent()
			root.Set("announce-list", bencode.List{str("http://x")})
			return root
		}, "announce-list[0]"},
		{"announce not a string", func() bencode.Value {
			root := singleFileTorrent()
			root.Set("announce", bencode.Integer(1))
			return root
		}, "announce"},
		{"missing piece length", func() bencode.Value {
			return bencode.NewDict(entry("announce", str("http://x")), entry("info", bencode.NewDict(
				entry("length", bencode.Integer(1)), entry("name", str("f")), entry("pieces", pieces(1)),
			)))
		}, "info.piece length"},
		{"zero piece length", func() bencode.Value {
			root := singleFileTorrent()
			info(root).Set("piece length", bencode.Integer(0))
			return root
		}, "info.piece length"},
		{"negative piece length", func() bencode.Value {
			root := singleFileTorrent()
			info(root).Set("piece length", bencode.Integer(-5))
			return root
		}, "info.piece length"},
		{"pieces not a string", func() bencode.Value {
			root := singleFileTorrent()
			info(root).Set("pieces", bencode.Integer(3))
			return root
		}, "info.pieces"},
		{"pieces wrong length", func() bencode.Value {
			root := singleFileTorrent()
			info(root).Set("pieces", str("short"))
			return root
		}, "info.pieces"},
		{"length and files", func() bencode.Value {
			root := singleFileTorrent()
			info(root).Set("files", bencode.List{})
			return root
		}, "info"},
		{"neither length nor files", func() bencode.Value {
			return bencode.NewDict(entry("announce", str("http://x")), entry("info", bencode.NewDict(
				entry("name", str("f")), entry("piece length", bencode.Integer(1)), entry("pieces", pieces(1)),
			)))
		}, "info"},
		{"length not an integer", func() bencode.Value {
			root := singleFileTorrent()
			info(root).Set("length", str("10"))
			return root
		}, "info.length"},
		{"negative length", func() bencode.Value {
			root := singleFileTorrent()
			info(root).Set("length", bencode.Integer(-1))
			return root
		}, "info.length"},
		{"single file without name", func() bencode.Value {
			return bencode.NewDict(entry("announce", str("http://x")), entry("info", bencode.NewDict(
				entry("length", bencode.Integer(1)), entry("piece length", bencode.Integer(1)), entry("pieces", pieces(1)),
			)))
		}, "info.name"},
		{"files not a list", func() bencode.Value {
			root := multiFileTorrent()
			info(root).Set("files", bencode.NewDict())
			return root
		}, "info.files"},
		{"file entry not a dictionary", func() bencode.Value {
			root := multiFileTorrent()
			info(root).Set("files", bencode.List{bencode.Integer(1)})
			return root
		}, "info.files[0]"},
		{"file without length", func() bencode.Value {
			root := multiFileTorrent()
			info(root).Set("files", bencode.List{bencode.NewDict(entry("path", bencode.List{str("a")}))})
			return root
		}, "info.files[0].length"},
		{"file without path", func() bencode.Value {
			root := multiFileTorrent()
			info(root).Set("files", bencode.List{bencode.NewDict(entry("length", bencode.Integer(1)))})
			return root
		}, "info.files[0].path"},
		{"file with empty path", func() bencode.Value {
			root := multiFileTorrent()
			info(root).Set("files", bencode.List{bencode.NewDict(entry("length", bencode.Integer(1)), entry("path", bencode.List{}))})
			return root
		}, "info.files[0].path"},
		{"path segment not a string", func() bencode.Value {
			root := multiFileTorrent()
			info(root).Set("files", bencode.List{bencode.NewDict(entry("length", bencode.Integer(1)), entry("path", bencode.List{str("a"), bencode.Integer(2)}))})
			return root
		}, "info.files[0].path[1]"},
		{"total size overflows", func() bencode.Value {
			root := multiFileTorrent()
			info(root).Set("files", bencode.List{
				bencode.NewDict(entry("length", bencode.Integer(1<<62)), entry("path", bencode.List{str("a")})),
				bencode.NewDict(entry("length", bencode.Integer(1<<62)), entry("path", bencode.List{str("b")})),
			})
			return root
		}, "info.files[1].length"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(tt.prepare())
			if !errors.Is(err, ErrSchema) {
				t.Fatalf("Normalize err = %v, want ErrSchema", err)
			}
			var schemaErr *SchemaError
			if !errors.As(err, &schemaErr) {
				t.Fatalf("err %T is not a *SchemaError", err)
			}
			if schemaErr.Field != tt.field {
				t.Errorf("Field = %q, want %q", schemaErr.Field, tt.field)
			}
		})
	}
}

func TestNormalizeEncodingErrors(t *testing.T) {
	invalid := str("\xff\xfe")
	tests := []struct {
		name    string
		prepare func() bencode.Value
		field   string
	}{
		{"file name", func() bencode.Value {
			root := singleFileTorrent()
			info(root).Set("name", invalid)
			return root
		}, "info.name"},
		{"announce", func() bencode.Value {
			root := singleFileTorrent()
			root.Set("announce", invalid)
			return root
		}, "announce"},
		{"tracker in first tier", func() bencode.Value {
			root := singleFileTorrent()
			root.Set("announce-list", bencode.List{bencode.List{str("udp://ok"), invalid}})
			return root
		}, "announce-list[0][1]"},
		{"path segment", func() bencode.Value {
			root := multiFileTorrent()
			info(root).Set("files", bencode.List{
				bencode.NewDict(entry("length", bencode.Integer(1)), entry("path", bencode.List{str("ok")})),
				bencode.NewDict(entry("length", bencode.Integer(1)), entry("path", bencode.List{invalid})),
			})
			return root
		}, "info.files[1].path[0]"},
		{"directory name", func() bencode.Value {
			root := multiFileTorrent()
			info(root).Set("name", invalid)
			return root
		}, "info.name"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.prepare())
			if !errors.Is(err, ErrEncoding) {
				t.Fatalf("Normalize err = %v, want ErrEncoding", err)
			}
			var encErr *EncodingError
			if !errors.As(err, &encErr) || encErr.Field != tt.field {
				t.Errorf("err = %v, want EncodingError on %q", err, tt.field)
			}
			if !reflect.DeepEqual(got, TorrentInfo{}) {
				t.Errorf("partial result returned: %+v", got)
			}
		})
	}
}

func TestNormalizeBinaryPiecesAreNotText(t *testing.T) {
	root := singleFileTorrent()
	info(root).Set("pieces", bencode.String(bytes.Repeat([]byte{0xff}, pieceHashLen)))

	got, err := Normalize(root)
	if err != nil {
		t.Fatalf("Normalize: %v", err)
	}
	if got.PiecesHash != strings.Repeat("ff", pieceHashLen) {
		t.Errorf("PiecesHash = %s", got.PiecesHash)
	}
}

func TestPieceHashes(t *testing.T) {
	ti := TorrentInfo{PiecesHash: strings.Repeat("ab", 20) + strings.Repeat("cd", 20)}
	hashes := ti.PieceHashes()
	if len(hashes) != 2 || hashes[0] != strings.Repeat("ab", 20) || hashes[1] != strings.Repeat("cd", 20) {
		t.Errorf("PieceHashes = %q", hashes)
	}
}
