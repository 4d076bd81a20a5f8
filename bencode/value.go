package bencode

import "bytes"

// Kind identifies which of the four bencode node types a Value holds.
type Kind int

const (
	KindInteger Kind = iota
	KindString
	KindList
	KindDict
)

var kindStrings = map[Kind]string{
	KindInteger: "integer",
	KindString:  "byte string",
	KindList:    "list",
	KindDict:    "dictionary",
}

func (k Kind) String() string {
	return kindStrings[k]
}

// Value is a node of a decoded bencode tree. It is one of Integer, String,
// List or *Dict.
type Value interface {
	Kind() Kind
}

// Integer is a bencoded integer, i<digits>e
type Integer int64

// String is a bencoded byte string, <length>:<bytes>. It is not guaranteed
// to be valid UTF-8.
type String []byte

// List is a bencoded list, l<values>e
type List []Value

func (Integer) Kind() Kind { return KindInteger }
func (String) Kind() Kind  { return KindString }
func (List) Kind() Kind    { return KindList }
func (*Dict) Kind() Kind   { return KindDict }

// Entry is a single key/value pair of a Dict.
type Entry struct {
	Key   string
	Value Value
}

// Dict is a bencoded dictionary. Keys are byte strings (held in Go strings,
// which may carry arbitrary bytes) and are unique. Entries keep the order
// they were added in; Encode sorts them.
type Dict struct {
	entries []Entry
	index   map[string]int
}

// NewDict returns a dictionary holding the given entries. A repeated key
// replaces the earlier value in place.
func NewDict(entries ...Entry) *Dict {
	d := &Dict{index: make(map[string]int, len(entries))}
	for _, e := range entries {
		d.Set(e.Key, e.Value)
	}
	return d
}

// Get returns the value stored under key.
func (d *Dict) Get(key string) (Value, bool) {
	if d == nil {
		return nil, false
	}
	i, ok := d.index[key]
	if !ok {
		return nil, false
	}
	return d.entries[i].Value, true
}

// Has reports whether key is present.
func (d *Dict) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Set stores v under key, keeping the original position if key exists.
func (d *Dict) Set(key string, v Value) {
	if d.index == nil {
		d.index = make(map[string]int)
	}
	if i, ok := d.index[key]; ok {
		d.entries[i].Value = v
		return
	}
	d.index[key] = len(d.entries)
	d.entries = append(d.entries, Entry{Key: key, Value: v})
}

// Len returns the number of entries.
func (d *Dict) Len() int {
	if d == nil {
		return 0
	}
	return len(d.entries)
}

// Entries returns the entries in insertion order. The slice must not be
// modified.
func (d *Dict) Entries() []Entry {
	if d == nil {
		return nil
	}
	return d.entries
}

// Keys returns the keys in insertion order.
func (d *Dict) Keys() []string {
	keys := make([]string, 0, d.Len())
	for _, e := range d.Entries() {
		keys = append(keys, e.Key)
	}
	return keys
}

// Equal reports whether a and b hold the same tree. Dictionaries compare as
// mappings, so key order does not matter.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Kind() != b.Kind() {
		return false
	}

	switch av := a.(type) {
	case Integer:
		return av == b.(Integer)
	case String:
		return bytes.Equal(av, b.(String))
	case List:
		bv := b.(List)
		if len(av) != len(bv) {
			return false
		}
		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}
		return true
	case *Dict:
		bv := b.(*Dict)
		if av.Len() != bv.Len() {
			return false
		}
		for _, e := range av.Entries() {
			other, ok := bv.Get(e.Key)
			if !ok || !Equal(e.Value, other) {
				return false
			}
		}
		return true
	}
	return false
}
