package stats

import (
	"cheapcity/agg"
	"cheapcity/partition"
	"cheapcity/report"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jamiealquiza/tachymeter"
	"github.com/olekukonko/tablewriter"
	"github.com/rodaine/table"
	"golang.org/x/exp/slices"
)

// Worker describes what one scan worker did.
type Worker struct {
	ID       int
	Range    partition.Range
	Records  int
	Cities   int
	Products int
	Elapsed  time.Duration
}

func PrintWorkers(w io.Writer, workers []Worker) {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()
	tbl := table.
		New("Worker", "Start", "End", "Bytes", "Records", "Cities", "Products", "Elapsed").
		WithHeaderFormatter(headerFmt).
		WithFirstColumnFormatter(columnFmt).
		WithWriter(w)

	tm := tachymeter.New(&tachymeter.Config{Size: max(len(workers), 1)})
	for _, wk := range workers {
		tbl.AddRow(
			wk.ID,
			wk.Range.Start,
			wk.Range.End,
			wk.Range.Len(),
			wk.Records,
			wk.Cities,
			wk.Products,
			wk.Elapsed,
		)
		tm.AddTime(wk.Elapsed)
	}
	tbl.Print()

	if len(workers) == 0 {
		return
	}
	m := tm.Calc()
	fmt.Fprintf(w, "workers: %d, fastest: %s, p50: %s, slowest: %s\n",
		len(workers), m.Time.Min, m.Time.P50, m.Time.Max)
}

// PrintCities renders the n cities with the lowest totals.
func PrintCities(w io.Writer, a *agg.Aggregate, n int) {
	ids := make([]int, a.Cities.Len())
	for i := range ids {
		ids[i] = i
	}
	slices.SortFunc(ids, func(x, y int) int {
		return report.CompareCities(a, x, y)
	})
	ids = ids[:min(max(n, 0), len(ids))]

	tw := tablewriter.NewWriter(w)
	tw.SetHeader([]string{"Rank", "City", "Total", "Products"})
	for rank, cid := range ids {
		tw.Append([]string{
			fmt.Sprintf("%d", rank+1),
			a.Cities.Name(cid),
			fmt.Sprintf("%.2f", a.Cost[cid]),
			fmt.Sprintf("%d", len(a.CityProducts(cid))),
		})
	}
	tw.Render()
}
