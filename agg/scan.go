package agg

import (
	"cheapcity/partition"
	"context"
)

// checkEvery is how many records are parsed between context checks.
const checkEvery = 1 << 16

// Scan aggregates every record in buf[r.Start:r.End]. The range must begin
// at a record boundary. base is added to error offsets so they point into
// the original input rather than buf.
func Scan(ctx context.Context, buf []byte, r partition.Range, base int) (*Aggregate, error) {
	a := New()
	if r.Empty() {
		return a, nil
	}

	chunk := buf[r.Start:r.End]
	pos := 0
	for pos < len(chunk) {
		if blank := blankLine(chunk[pos:]); blank > 0 {
			pos += blank
			continue
		}

		rec, next, err := ParseRecord(chunk, pos)
		if err != nil {
			if re, ok := err.(*RecordError); ok {
				re.Offset += base + r.Start
			}
			return nil, err
		}
		a.Add(rec.City, rec.Product, rec.Price)
		pos = next

		if a.Records%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
	}
	return a, nil
}

// blankLine returns the length of the empty line ("\n" or "\r\n") at the
// start of b, or 0 if b starts with a record.
func blankLine(b []byte) int {
	switch {
	case b[0] == recordSep:
		return 1
	case b[0] == '\r' && (len(b) == 1 || b[1] == recordSep):
		return min(len(b), 2)
	}
	return 0
}
