package partition

import "bytes"

// Range is a half-open byte range [Start, End) that begins at a record
// boundary.
type Range struct {
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) Empty() bool {
	return r.End <= r.Start
}

// Split divides buf into exactly workers contiguous ranges. Every internal
// boundary is moved forward to the start of the next record, so no record
// is split and trailing ranges may end up empty.
func Split(buf []byte, workers int) []Range {
	if workers < 1 {
		workers = 1
	}

	size := len(buf)
	step := size / workers

	offsets := make([]int, workers+1)
	offsets[workers] = size
	for i := 1; i < workers; i++ {
		pos := max(i*step, offsets[i-1])
		offsets[i] = alignToRecord(buf, pos)
	}

	ranges := make([]Range, workers)
	for i := range workers {
		ranges[i] = Range{Start: offsets[i], End: offsets[i+1]}
	}
	return ranges
}

// alignToRecord returns the first record start at or after pos.
func alignToRecord(buf []byte, pos int) int {
	if pos <= 0 {
		return 0
	}
	if pos >= len(buf) {
		return len(buf)
	}
	if buf[pos-1] == '\n' {
		return pos
	}

	newline := bytes.IndexByte(buf[pos:], '\n')
	if newline < 0 {
		return len(buf)
	}
	return pos + newline + 1
}
