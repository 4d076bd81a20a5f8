package torrentparser

// length of a SHA-1 piece hash
const pieceHashLen = 20

// CalculatePieces returns ceil(totalSize / pieceLength).
func CalculatePieces(totalSize, pieceLength int64) (int64, error) {
	if pieceLength <= 0 {
		return 0, schemaErrorf("info.piece length", "must be positive, got %d", pieceLength)
	}
	if totalSize < 0 {
		return 0, schemaErrorf("total size", "must not be negative, got %d", totalSize)
	}

	// same as (totalSize + pieceLength - 1) / pieceLength without overflowing
	pieces := totalSize / pieceLength
	if totalSize%pieceLength != 0 {
		pieces++
	}
	return pieces, nil
}
