package torrentparser

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/givxl33t/torrentinfo-go/bencode"
)

// Parser decodes and normalizes raw torrent files.
type Parser struct {
	// MaxDepth is handed to the bencode decoder; zero uses its default.
	MaxDepth int
}

// ParseTorrentFile parses the torrent file at path with default settings.
func ParseTorrentFile(path string) (TorrentInfo, error) {
	return Parser{}.ParseTorrentFile(path)
}

// ParseBytes parses an in-memory torrent file with default settings.
func ParseBytes(data []byte) (TorrentInfo, error) {
	return Parser{}.ParseBytes(data)
}

// parses a raw torrent file, read fully into memory before decoding
func (p Parser) ParseTorrentFile(path string) (TorrentInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return TorrentInfo{}, err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return TorrentInfo{}, fmt.Errorf("reading torrent file: %w", err)
	}

	return p.ParseBytes(data)
}

// ParseBytes decodes data, normalizes the tree and fills in the info hash.
// Decoding failures match bencode.ErrMalformedInput; metadata failures
// match ErrSchema or ErrEncoding.
func (p Parser) ParseBytes(data []byte) (TorrentInfo, error) {
	dec := bencode.Decoder{MaxDepth: p.MaxDepth}
	tree, err := dec.Decode(data)
	if err != nil {
		return TorrentInfo{}, fmt.Errorf("decoding torrent: %w", err)
	}

	t, err := Normalize(tree)
	if err != nil {
		return TorrentInfo{}, err
	}

	infoHash, err := InfoHash(data)
	if err != nil {
		return TorrentInfo{}, fmt.Errorf("hashing info dict: %w", err)
	}
	t.InfoHash = hex.EncodeToString(infoHash[:])

	return t, nil
}
