package bencode

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strconv"
)

// Encode returns the canonical encoding of v: dictionary keys are written in
// ascending byte order whatever order the tree holds them in.
func Encode(v Value) []byte {
	var buf bytes.Buffer
	encodeValue(&buf, v)
	return buf.Bytes()
}

// EncodeTo writes the canonical encoding of v to w.
func EncodeTo(w io.Writer, v Value) error {
	_, err := w.Write(Encode(v))
	if err != nil {
		return fmt.Errorf("writing bencoded value: %w", err)
	}
	return nil
}

func encodeValue(buf *bytes.Buffer, v Value) {
	switch v := v.(type) {
	case Integer:
		buf.WriteByte('i')
		buf.WriteString(strconv.FormatInt(int64(v), 10))
		buf.WriteByte('e')
	case String:
		encodeString(buf, v)
	case List:
		buf.WriteByte('l')
		for _, item := range v {
			encodeValue(buf, item)
		}
		buf.WriteByte('e')
	case *Dict:
		entries := make([]Entry, v.Len())
		copy(entries, v.Entries())
		// Go string comparison is byte-wise, which is the canonical order
		sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

		buf.WriteByte('d')
		for _, e := range entries {
			encodeString(buf, []byte(e.Key))
			encodeValue(buf, e.Value)
		}
		buf.WriteByte('e')
	default:
		// only reachable with a nil Value inside a hand-built tree
		panic(fmt.Sprintf("bencode: cannot encode %T", v))
	}
}

func encodeString(buf *bytes.Buffer, b []byte) {
	buf.WriteString(strconv.Itoa(len(b)))
	buf.WriteByte(':')
	buf.Write(b)
}
