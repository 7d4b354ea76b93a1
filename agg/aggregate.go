package agg

import (
	"cheapcity/intern"
	"math"
)

// NoPrice marks a (city, product) pair that has no recorded price. It is
// larger than any legal price.
var NoPrice = math.Inf(1)

// Aggregate summarizes a set of records: the total spend per city and the
// cheapest price per (city, product) pair, keyed by ids from its own
// identifier tables.
type Aggregate struct {
	Cities   *intern.Table
	Products *intern.Table

	// Cost is indexed by city id.
	Cost []float64
	// MinPrice is indexed by city id, then product id. Rows only grow as
	// far as the largest product id recorded for that city.
	MinPrice [][]float64

	Records int
}

type ProductPrice struct {
	Product int
	Price   float64
}

func New() *Aggregate {
	return &Aggregate{
		Cities:   intern.NewTable(),
		Products: intern.NewTable(),
	}
}

func (a *Aggregate) Add(city, product []byte, price float64) {
	cid := a.cityID(a.Cities.Intern(city))
	pid := a.Products.Intern(product)
	a.Cost[cid] += price
	a.setMin(cid, pid, price)
	a.Records++
}

// cityID makes sure the per-city slices cover id.
func (a *Aggregate) cityID(id int) int {
	for len(a.Cost) <= id {
		a.Cost = append(a.Cost, 0)
		a.MinPrice = append(a.MinPrice, nil)
	}
	return id
}

func (a *Aggregate) setMin(cid, pid int, price float64) {
	row := a.MinPrice[cid]
	for len(row) <= pid {
		row = append(row, NoPrice)
	}
	if price < row[pid] {
		row[pid] = price
	}
	a.MinPrice[cid] = row
}

func (a *Aggregate) Empty() bool {
	return a.Cities.Len() == 0
}

func (a *Aggregate) Total(city string) (float64, bool) {
	cid, ok := a.Cities.Lookup([]byte(city))
	if !ok {
		return 0, false
	}
	return a.Cost[cid], true
}

func (a *Aggregate) Min(city, product string) (float64, bool) {
	cid, ok := a.Cities.Lookup([]byte(city))
	if !ok {
		return 0, false
	}
	pid, ok := a.Products.Lookup([]byte(product))
	if !ok {
		return 0, false
	}
	row := a.MinPrice[cid]
	if pid >= len(row) || row[pid] == NoPrice {
		return 0, false
	}
	return row[pid], true
}

// CityProducts returns every product with a recorded price in the given city,
// in product id order.
func (a *Aggregate) CityProducts(cid int) []ProductPrice {
	row := a.MinPrice[cid]
	prices := make([]ProductPrice, 0, len(row))
	for pid, price := range row {
		if price == NoPrice {
			continue
		}
		prices = append(prices, ProductPrice{Product: pid, Price: price})
	}
	return prices
}
