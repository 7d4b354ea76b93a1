package gen

import (
	"bufio"
	"fmt"
	"io"

	"golang.org/x/exp/rand"
)

const Header = "city,product,price"

type Options struct {
	Rows     int
	Cities   int
	Products int
	Seed     uint64
	// Skew is the Zipf exponent used to pick names, must be > 1.
	Skew float64
}

func DefaultOptions() Options {
	return Options{
		Rows:     1_000_000,
		Cities:   101,
		Products: 100,
		Seed:     1,
		Skew:     1.1,
	}
}

// Generate writes a header and opts.Rows records to w. The same options
// always produce the same bytes.
func Generate(w io.Writer, opts Options) (int, error) {
	if opts.Cities < 1 || opts.Products < 1 {
		return 0, fmt.Errorf("need at least one city and product (cities=%d, products=%d)", opts.Cities, opts.Products)
	}
	if opts.Skew <= 1 {
		return 0, fmt.Errorf("zipf skew must be > 1, got %.3f", opts.Skew)
	}

	r := rand.New(rand.NewSource(opts.Seed))
	cities := rand.NewZipf(r, opts.Skew, 1, uint64(opts.Cities-1))
	products := rand.NewZipf(r, opts.Skew, 1, uint64(opts.Products-1))

	bw := bufio.NewWriterSize(w, 1024*1024)
	fmt.Fprintln(bw, Header)

	for range opts.Rows {
		cents := 1 + r.Intn(10_000)
		fmt.Fprintf(bw, "City_%d,Product_%d,%d.%02d\n",
			cities.Uint64(), products.Uint64(), cents/100, cents%100)
	}

	if err := bw.Flush(); err != nil {
		return 0, fmt.Errorf("unable to write generated input: %w", err)
	}
	return opts.Rows, nil
}
