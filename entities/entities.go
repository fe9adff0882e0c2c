// Package entities parses the key-value text stored in the entities lump of a
// Source engine map.
//
//	{
//	"classname" "worldspawn"
//	"skyname" "sky_day01_01"
//	}
//	{
//	"classname" "light"
//	"origin" "0 0 64"
//	}
//
// Each block becomes a Record. Records keep every pair in file order, so a key
// that occurs more than once (e.g. the output connections of logic entities)
// keeps all of its values; Map gives the last-value-wins view.
package entities

import (
	"encoding/json"
	"errors"
	"strconv"

	"golang.org/x/text/encoding/unicode"
)

// ErrSyntax is matched by *SyntaxError.
var ErrSyntax = errors.New("entities: syntax error")

// SyntaxError reports a grammar violation at a byte offset in the input.
type SyntaxError struct {
	Offset int
	Msg    string
}

func (e *SyntaxError) Error() string {
	return "entities: syntax error at offset " + strconv.Itoa(e.Offset) + ": " + e.Msg
}

func (e *SyntaxError) Is(target error) bool {
	return target == ErrSyntax
}

// Pair is a single key-value pair.
type Pair struct {
	Key   string
	Value string
}

// Record is the ordered list of pairs from one block.
type Record []Pair

// Get returns the last value for key.
func (r Record) Get(key string) (string, bool) {
	for i := len(r) - 1; i >= 0; i-- {
		if r[i].Key == key {
			return r[i].Value, true
		}
	}
	return "", false
}

// Values returns every value for key in file order.
func (r Record) Values(key string) []string {
	var v []string
	for _, p := range r {
		if p.Key == key {
			v = append(v, p.Value)
		}
	}
	return v
}

// Map returns the record with later duplicate keys overriding earlier ones.
func (r Record) Map() map[string]string {
	m := make(map[string]string, len(r))
	for _, p := range r {
		m[p.Key] = p.Value
	}
	return m
}

// MultiMap returns the record with every value of each key, in file order.
func (r Record) MultiMap() map[string][]string {
	m := make(map[string][]string, len(r))
	for _, p := range r {
		m[p.Key] = append(m[p.Key], p.Value)
	}
	return m
}

// MarshalJSON encodes the record as an object of single strings (last value
// wins).
func (r Record) MarshalJSON() ([]byte, error) {
	return json.Marshal(r.Map())
}

// Multi wraps records so they encode as objects of string lists.
type Multi []Record

func (m Multi) MarshalJSON() ([]byte, error) {
	v := make([]map[string][]string, len(m))
	for i, r := range m {
		v[i] = r.MultiMap()
	}
	return json.Marshal(v)
}

// Parse parses entity text. Blocks without pairs are dropped.
func Parse(s string) ([]Record, error) {
	var (
		t       = NewTokenizer(s)
		records []Record
	)
	for {
		tok, ok := t.Next()
		if !ok || tok.Kind == TokenEnd {
			return records, nil
		}
		if tok.Kind != TokenOpen {
			return nil, &SyntaxError{tok.Offset, "expected { or end of input, got " + tok.Kind.String()}
		}
		var r Record
	block:
		for {
			key, ok := t.Next()
			if !ok {
				return nil, &SyntaxError{len(s), "unexpected end of input in block"}
			}
			switch key.Kind {
			case TokenClose:
				break block
			case TokenString:
			default:
				return nil, &SyntaxError{key.Offset, "expected key or }, got " + key.Kind.String()}
			}
			value, ok := t.Next()
			if !ok {
				return nil, &SyntaxError{len(s), "unexpected end of input after key " + strconv.Quote(key.Value)}
			}
			if value.Kind != TokenString {
				return nil, &SyntaxError{value.Offset, "expected value for key " + strconv.Quote(key.Value) + ", got " + value.Kind.String()}
			}
			r = append(r, Pair{key.Value, value.Value})
		}
		if len(r) != 0 {
			records = append(records, r)
		}
	}
}

// ParseBytes is like Parse, but decodes b as UTF-8 first, replacing invalid
// sequences with U+FFFD.
func ParseBytes(b []byte) ([]Record, error) {
	s, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return nil, err
	}
	return Parse(string(s))
}
