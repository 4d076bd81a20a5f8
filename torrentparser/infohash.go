package torrentparser

import (
	"crypto/sha1"
	"fmt"

	zbencode "github.com/zeebo/bencode"
)

type bencodeTorrent struct {
	// info is parsed as a RawMessage so the info hash covers the exact input
	// bytes, even when the dictionary is not in canonical key order
	Info zbencode.RawMessage `bencode:"info"`
}

// InfoHash returns the SHA-1 of the info dictionary exactly as it appears in
// data.
func InfoHash(data []byte) ([20]byte, error) {
	var btor bencodeTorrent
	err := zbencode.DecodeBytes(data, &btor)
	if err != nil {
		return [20]byte{}, fmt.Errorf("unmarshalling info dict: %w", err)
	}
	if len(btor.Info) == 0 {
		return [20]byte{}, schemaErrorf("info", "is missing")
	}

	// SHA-1 hash the entire info dictionary to get the info_hash
	return sha1.Sum(btor.Info), nil
}
