package agg

// Merge folds partial aggregates into a new global one. Each partial has
// its own id space, so names are reconciled through the global tables.
// The order of parts only affects global id assignment, never the totals
// or minima.
func Merge(parts []*Aggregate) *Aggregate {
	global := New()

	var products []int
	for _, part := range parts {
		if part == nil {
			continue
		}

		// Local product id -> global product id, built once per partial.
		products = products[:0]
		for _, name := range part.Products.Names() {
			products = append(products, global.Products.InternString(name))
		}

		for lcid, name := range part.Cities.Names() {
			gcid := global.cityID(global.Cities.InternString(name))
			global.Cost[gcid] += part.Cost[lcid]

			for lpid, price := range part.MinPrice[lcid] {
				if price == NoPrice {
					continue
				}
				global.setMin(gcid, products[lpid], price)
			}
		}
		global.Records += part.Records
	}
	return global
}
