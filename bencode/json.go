package bencode

import (
	"bytes"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// MarshalJSON renders a tree as JSON. Byte strings that are valid UTF-8
// become JSON strings and all others become {"hex": "..."}. Dictionaries
// keep their entry order; a key that is not valid UTF-8, or that already
// starts with "hex:", is written as "hex:" followed by its bytes in hex.
func MarshalJSON(v Value) ([]byte, error) {
	var buf bytes.Buffer
	if err := marshalJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func marshalJSON(buf *bytes.Buffer, v Value) error {
	switch v := v.(type) {
	case Integer:
		buf.WriteString(fmt.Sprint(int64(v)))
	case String:
		return writeJSONString(buf, v)
	case List:
		buf.WriteByte('[')
		for i, item := range v {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := marshalJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Dict:
		buf.WriteByte('{')
		for i, e := range v.Entries() {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(jsonKey(e.Key))
			if err != nil {
				return fmt.Errorf("marshalling key %q: %w", e.Key, err)
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := marshalJSON(buf, e.Value); err != nil {
				return err
			}
		}
		buf.WriteByte('}')
	default:
		return fmt.Errorf("bencode: cannot marshal %T", v)
	}
	return nil
}

const hexKeyPrefix = "hex:"

func jsonKey(key string) string {
	if !utf8.ValidString(key) || strings.HasPrefix(key, hexKeyPrefix) {
		return hexKeyPrefix + hex.EncodeToString([]byte(key))
	}
	return key
}

func writeJSONString(buf *bytes.Buffer, s String) error {
	var raw []byte
	var err error
	if utf8.Valid(s) {
		raw, err = json.Marshal(string(s))
	} else {
		raw, err = json.Marshal(map[string]string{"hex": hex.EncodeToString(s)})
	}
	if err != nil {
		return fmt.Errorf("marshalling byte string: %w", err)
	}
	buf.Write(raw)
	return nil
}
