package report

import (
	"bytes"
	"cheapcity/agg"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"golang.org/x/exp/slices"
)

const DefaultTopN = 5

var ErrNoRecords = errors.New("no records to report on")

type Product struct {
	Name  string
	Price float64
}

type Report struct {
	City     string
	Total    float64
	Products []Product
}

// Select picks the city with the lowest total and its n cheapest products
// ordered by (price, name). Cities with equal totals resolve to the
// lexicographically smallest name, so the winner does not depend on how
// the input was partitioned.
func Select(a *agg.Aggregate, n int) (Report, error) {
	if a == nil || a.Empty() {
		return Report{}, ErrNoRecords
	}

	best := 0
	for cid := 1; cid < a.Cities.Len(); cid++ {
		if CompareCities(a, cid, best) < 0 {
			best = cid
		}
	}

	prices := a.CityProducts(best)
	products := make([]Product, len(prices))
	for i, p := range prices {
		products[i] = Product{Name: a.Products.Name(p.Product), Price: p.Price}
	}
	slices.SortFunc(products, compareProducts)

	if n < 0 {
		n = 0
	}
	products = products[:min(n, len(products))]

	return Report{
		City:     a.Cities.Name(best),
		Total:    a.Cost[best],
		Products: products,
	}, nil
}

// CompareCities orders two city ids by total rounded to cents, then by
// name. Totals are float sums whose last bits depend on how the input was
// partitioned, so only the printed precision takes part in the comparison.
func CompareCities(a *agg.Aggregate, x, y int) int {
	cx, cy := cents(a.Cost[x]), cents(a.Cost[y])
	switch {
	case cx < cy:
		return -1
	case cx > cy:
		return 1
	}
	return strings.Compare(a.Cities.Name(x), a.Cities.Name(y))
}

func cents(v float64) int64 {
	return int64(math.Round(v * 100))
}

func compareProducts(a, b Product) int {
	switch {
	case a.Price < b.Price:
		return -1
	case a.Price > b.Price:
		return 1
	case a.Name < b.Name:
		return -1
	case a.Name > b.Name:
		return 1
	}
	return 0
}

// WriteTo renders the report: the city and its total on the first line,
// then one line per product.
func (r Report) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s %.2f\n", r.City, r.Total)
	for _, p := range r.Products {
		fmt.Fprintf(&buf, "%s %.2f\n", p.Name, p.Price)
	}
	return buf.WriteTo(w)
}

func (r Report) String() string {
	var buf bytes.Buffer
	r.WriteTo(&buf)
	return buf.String()
}
