package main

import (
	"cheapcity/gen"
	"flag"
	"log"
	"os"
)

func main() {
	opts := gen.DefaultOptions()

	flag.IntVar(&opts.Rows, "rows", opts.Rows, "number of records")
	flag.IntVar(&opts.Cities, "cities", opts.Cities, "number of distinct cities")
	flag.IntVar(&opts.Products, "products", opts.Products, "number of distinct products")
	flag.Uint64Var(&opts.Seed, "seed", opts.Seed, "random seed")
	flag.Float64Var(&opts.Skew, "skew", opts.Skew, "zipf exponent for picking names")
	out := flag.String("out", "input.txt", "output file")
	flag.Parse()

	f, err := os.Create(*out)
	if err != nil {
		log.Fatalf("unable to create %s: %v", *out, err)
	}

	n, err := gen.Generate(f, opts)
	if err != nil {
		f.Close()
		log.Fatal(err)
	}
	if err := f.Close(); err != nil {
		log.Fatalf("unable to close %s: %v", *out, err)
	}
	log.Printf("wrote %d records to %s", n, *out)
}
