package agg

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

const (
	fieldSep  = ','
	recordSep = '\n'
)

var ErrPriceFormat = errors.New("price is not a plain decimal")

// Record is one parsed input line. City and Product alias the input
// buffer and are only valid while it is.
type Record struct {
	City    []byte
	Product []byte
	Price   float64
}

// RecordError reports a malformed record at an absolute byte offset.
type RecordError struct {
	Offset int
	Reason string
	Err    error
}

func (e *RecordError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("malformed record at offset %d: %s: %v", e.Offset, e.Reason, e.Err)
	}
	return fmt.Sprintf("malformed record at offset %d: %s", e.Offset, e.Reason)
}

func (e *RecordError) Unwrap() error {
	return e.Err
}

// consumeField returns the bytes from pos up to the next delimiter or
// newline, the terminator found (0 at end of data), and the position
// just past the terminator.
func consumeField(b []byte, pos int) ([]byte, byte, int) {
	rest := b[pos:]
	for i, c := range rest {
		if c == fieldSep || c == recordSep {
			return rest[:i], c, pos + i + 1
		}
	}
	return rest, 0, len(b)
}

// ParseRecord parses the record starting at pos and returns it with the
// position of the next record. Offsets in errors are relative to b.
func ParseRecord(b []byte, pos int) (Record, int, error) {
	start := pos

	city, term, pos := consumeField(b, pos)
	if term != fieldSep {
		return Record{}, pos, &RecordError{Offset: start, Reason: "missing product field"}
	}
	product, term, pos := consumeField(b, pos)
	if term != fieldSep {
		return Record{}, pos, &RecordError{Offset: start, Reason: "missing price field"}
	}
	price, term, pos := consumeField(b, pos)
	if term == fieldSep {
		return Record{}, pos, &RecordError{Offset: start, Reason: "too many fields"}
	}

	if len(city) == 0 {
		return Record{}, pos, &RecordError{Offset: start, Reason: "empty city name"}
	}
	if len(product) == 0 {
		return Record{}, pos, &RecordError{Offset: start, Reason: "empty product name"}
	}

	p, err := ParsePrice(bytes.TrimSuffix(price, []byte{'\r'}))
	if err != nil {
		return Record{}, pos, &RecordError{Offset: start, Reason: "bad price", Err: err}
	}
	return Record{City: city, Product: product, Price: p}, pos, nil
}

// ParsePrice accepts plain decimals: digits, optionally followed by a dot
// and more digits. Signs, exponents, hex floats, NaN and Inf are rejected.
func ParsePrice(b []byte) (float64, error) {
	if !isDecimal(b) {
		return 0, fmt.Errorf("%w: %q", ErrPriceFormat, b)
	}
	return strconv.ParseFloat(string(b), 64)
}

func isDecimal(b []byte) bool {
	whole, frac, hasDot := bytes.Cut(b, []byte{'.'})
	if len(whole) == 0 || (hasDot && len(frac) == 0) {
		return false
	}
	return allDigits(whole) && allDigits(frac)
}

func allDigits(b []byte) bool {
	for _, c := range b {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
