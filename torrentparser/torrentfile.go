package torrentparser

// Mode tells which of the two metadata layouts a torrent uses.
type Mode int

const (
	// SingleFile torrents carry info.length and describe one file directly.
	SingleFile Mode = iota
	// MultiFile torrents carry info.files, a list of files under info.name.
	MultiFile
)

var modeStrings = map[Mode]string{
	SingleFile: "single-file",
	MultiFile:  "multi-file",
}

func (m Mode) String() string {
	return modeStrings[m]
}

// TorrentInfo is the normalized, read-only report of a torrent's metadata.
//
// FileName and FileSize are set only in SingleFile mode; Name and Files only
// in MultiFile mode. TotalSize equals FileSize for single-file torrents and
// the sum of file sizes otherwise.
//
// PiecesHash is the hex rendering of the concatenated 20-byte SHA-1 piece
// hashes, so its length is always a multiple of 40.
type TorrentInfo struct {
	Mode        Mode
	FileName    string
	FileSize    uint64
	Name        string
	Files       []File
	PieceLength uint64
	TotalSize   uint64
	TotalPieces uint64
	PiecesHash  string
	Trackers    []string
	// InfoHash is the hex SHA-1 of the raw info dictionary. Normalize leaves
	// it empty since it needs the original bytes; ParseBytes fills it in.
	InfoHash string
}

// File is one entry of a multi-file torrent
type File struct {
	Path string // path segments joined with "/"
	Size uint64
}

// hex characters per 20-byte SHA-1 piece hash
const pieceHashHexLen = 2 * pieceHashLen

// PieceHashes splits PiecesHash into one hex string per piece.
func (t TorrentInfo) PieceHashes() []string {
	hashes := make([]string, 0, len(t.PiecesHash)/pieceHashHexLen)
	for i := 0; i+pieceHashHexLen <= len(t.PiecesHash); i += pieceHashHexLen {
		hashes = append(hashes, t.PiecesHash[i:i+pieceHashHexLen])
	}
	return hashes
}

// DisplayName is the file name of a single-file torrent or the directory
// name of a multi-file one.
func (t TorrentInfo) DisplayName() string {
	if t.Mode == SingleFile {
		return t.FileName
	}
	return t.Name
}
