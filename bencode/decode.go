package bencode

import (
	"errors"
	"fmt"
	"strconv"
)

// DefaultMaxDepth is the nesting limit used by Decode.
const DefaultMaxDepth = 1000

// ErrMalformedInput is matched by every error returned from decoding.
var ErrMalformedInput = errors.New("bencode: malformed input")

// SyntaxError describes a grammar violation or truncation at Offset.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("bencode: %s at offset %d", e.Msg, e.Offset)
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrMalformedInput
}

// Decoder decodes a complete bencoded buffer into a Value tree.
type Decoder struct {
	// MaxDepth caps list/dictionary nesting. Zero means DefaultMaxDepth.
	MaxDepth int
}

// Decode decodes data with DefaultMaxDepth. The whole buffer must hold
// exactly one value.
func Decode(data []byte) (Value, error) {
	var d Decoder
	return d.Decode(data)
}

// Decode decodes data. Dictionary keys may arrive in any order; the order is
// preserved in the returned tree.
func (d *Decoder) Decode(data []byte) (Value, error) {
	maxDepth := d.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}

	s := &scanner{data: data, maxDepth: maxDepth}
	v, err := s.value(0)
	if err != nil {
		return nil, err
	}
	if s.pos != len(s.data) {
		return nil, s.errorf("%d trailing bytes after top-level value", len(s.data)-s.pos)
	}
	return v, nil
}

// scanner is a single forward pass over the input with an explicit cursor.
type scanner struct {
	data     []byte
	pos      int
	maxDepth int
}

func (s *scanner) errorf(format string, args ...interface{}) error {
	return &SyntaxError{Offset: s.pos, Msg: fmt.Sprintf(format, args...)}
}

func (s *scanner) value(depth int) (Value, error) {
	if s.pos >= len(s.data) {
		return nil, s.errorf("unexpected end of input")
	}

	switch c := s.data[s.pos]; {
	case c == 'i':
		return s.integer()
	case isDigit(c):
		return s.str()
	case c == 'l':
		return s.list(depth + 1)
	case c == 'd':
		return s.dict(depth + 1)
	default:
		return nil, s.errorf("unexpected byte %q", c)
	}
}

func (s *scanner) integer() (Value, error) {
	s.pos++ // 'i'
	start := s.pos
	for s.pos < len(s.data) && s.data[s.pos] != 'e' {
		s.pos++
	}
	if s.pos >= len(s.data) {
		return nil, &SyntaxError{Offset: start - 1, Msg: "unterminated integer"}
	}

	token := s.data[start:s.pos]
	if err := validInteger(token); err != "" {
		return nil, &SyntaxError{Offset: start, Msg: err}
	}
	n, err := strconv.ParseInt(string(token), 10, 64)
	if err != nil {
		return nil, &SyntaxError{Offset: start, Msg: fmt.Sprintf("integer %q out of range", token)}
	}

	s.pos++ // 'e'
	return Integer(n), nil
}

// validInteger checks the i<digits>e body: an optional single '-', no
// leading zeros except the literal 0, and no -0.
func validInteger(token []byte) string {
	digits := token
	if len(digits) > 0 && digits[0] == '-' {
		digits = digits[1:]
	}
	if len(digits) == 0 {
		return "empty integer"
	}
	for _, c := range digits {
		if !isDigit(c) {
			return fmt.Sprintf("invalid integer %q", token)
		}
	}
	if digits[0] == '0' {
		if len(digits) > 1 {
			return fmt.Sprintf("leading zero in integer %q", token)
		}
		if len(token) != len(digits) {
			return "negative zero"
		}
	}
	return ""
}

func (s *scanner) str() (String, error) {
	start := s.pos
	for s.pos < len(s.data) && isDigit(s.data[s.pos]) {
		s.pos++
	}
	if s.pos >= len(s.data) {
		return nil, &SyntaxError{Offset: start, Msg: "unterminated byte string length"}
	}
	if s.data[s.pos] != ':' {
		return nil, s.errorf("expected ':' after byte string length, got %q", s.data[s.pos])
	}

	length, err := strconv.Atoi(string(s.data[start:s.pos]))
	if err != nil {
		return nil, &SyntaxError{Offset: start, Msg: fmt.Sprintf("invalid byte string length %q", s.data[start:s.pos])}
	}
	s.pos++ // ':'

	if length > len(s.data)-s.pos {
		return nil, s.errorf("byte string length %d exceeds remaining %d bytes", length, len(s.data)-s.pos)
	}
	b := make([]byte, length)
	copy(b, s.data[s.pos:s.pos+length])
	s.pos += length
	return String(b), nil
}

func (s *scanner) list(depth int) (Value, error) {
	if depth > s.maxDepth {
		return nil, s.errorf("nesting deeper than %d", s.maxDepth)
	}
	start := s.pos
	s.pos++ // 'l'

	l := List{}
	for {
		if s.pos >= len(s.data) {
			return nil, &SyntaxError{Offset: start, Msg: "unterminated list"}
		}
		if s.data[s.pos] == 'e' {
			s.pos++
			return l, nil
		}
		v, err := s.value(depth)
		if err != nil {
			return nil, err
		}
		l = append(l, v)
	}
}

func (s *scanner) dict(depth int) (Value, error) {
	if depth > s.maxDepth {
		return nil, s.errorf("nesting deeper than %d", s.maxDepth)
	}
	start := s.pos
	s.pos++ // 'd'

	d := NewDict()
	for {
		if s.pos >= len(s.data) {
			return nil, &SyntaxError{Offset: start, Msg: "unterminated dictionary"}
		}
		if s.data[s.pos] == 'e' {
			s.pos++
			return d, nil
		}
		if !isDigit(s.data[s.pos]) {
			return nil, s.errorf("dictionary key must be a byte string, got %q", s.data[s.pos])
		}

		keyOffset := s.pos
		key, err := s.str()
		if err != nil {
			return nil, err
		}
		if d.Has(string(key)) {
			return nil, &SyntaxError{Offset: keyOffset, Msg: fmt.Sprintf("duplicate dictionary key %q", key)}
		}
		v, err := s.value(depth)
		if err != nil {
			return nil, err
		}
		d.Set(string(key), v)
	}
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
