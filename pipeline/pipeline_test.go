package pipeline

import (
	"bytes"
	"cheapcity/agg"
	"cheapcity/partition"
	"cheapcity/report"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/exp/rand"
)

const header = "city,product,price\n"

func run(t *testing.T, input string, options ...Option) *Result {
	res, err := New(options...).Run(context.Background(), []byte(input))
	require.NoError(t, err)
	return res
}

func TestRunScenarios(t *testing.T) {
	var tests = []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "cheapest city",
			input: header + "CityA,P1,10.00\nCityB,P2,5.00\nCityA,P2,3.00\n",
			want:  "CityB 5.00\nP2 5.00\n",
		},
		{
			name:  "price tie ordered by name",
			input: header + "X,Banana,1.00\nX,Apple,1.00\nX,Cherry,0.50\nY,Apple,9.00\n",
			want:  "X 2.50\nCherry 0.50\nApple 1.00\nBanana 1.00\n",
		},
		{
			name:  "fewer than five products",
			input: header + "Nice,Bread,1.00\nNice,Wine,2.00\nNice,Bread,1.50\nParis,Bread,10.00\n",
			want:  "Nice 4.50\nBread 1.00\nWine 2.00\n",
		},
		{
			name:  "top five of many",
			input: header + "Q,A,6\nQ,B,5\nQ,C,4\nQ,D,3\nQ,E,2\nQ,F,1\nQ,F,7\n",
			want:  "Q 28.00\nF 1.00\nE 2.00\nD 3.00\nC 4.00\nB 5.00\n",
		},
		{
			name:  "no trailing newline",
			input: header + "CityA,P1,1.00\nCityA,P2,2.00",
			want:  "CityA 3.00\nP1 1.00\nP2 2.00\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for workers := 1; workers <= 8; workers++ {
				res := run(t, tt.input, WithWorkers(workers))
				assert.Equal(t, tt.want, res.Report.String(), "workers %d", workers)
				assert.Len(t, res.Workers, workers)
			}
		})
	}
}

func TestRunCentTieIndependentOfWorkers(t *testing.T) {
	// A sums to 0.6000000000000001 in one pass but to 0.6 when its records
	// are split across workers, while B is 0.6 either way.
	input := header + "A," + strings.Repeat("x", 20) + ",0.10\nA,P,0.20\nA,P,0.30\nB,P,0.60\n"
	want := "A 0.60\n" + strings.Repeat("x", 20) + " 0.10\nP 0.20\n"

	for workers := 1; workers <= 4; workers++ {
		res := run(t, input, WithWorkers(workers))
		assert.Equal(t, want, res.Report.String(), "workers %d", workers)
	}
}

func TestRunWithoutHeader(t *testing.T) {
	res := run(t, "CityA,P1,1.00\nCityB,P1,0.50\n", WithHeader(false), WithWorkers(2))
	assert.Equal(t, "CityB 0.50\nP1 0.50\n", res.Report.String())
	assert.Equal(t, 2, res.Aggregate.Records)
}

func TestRunCRLF(t *testing.T) {
	res := run(t, "h\r\nA,P,1.00\r\n\r\n", WithWorkers(3))
	assert.Equal(t, "A 1.00\nP 1.00\n", res.Report.String())
}

func TestRunTopN(t *testing.T) {
	res := run(t, header+"A,P1,1\nA,P2,2\nA,P3,3\n", WithTopN(2))
	assert.Equal(t, "A 6.00\nP1 1.00\nP2 2.00\n", res.Report.String())
}

func TestRunEmptyInput(t *testing.T) {
	for _, input := range []string{"", header, header + "\n\n"} {
		_, err := New(WithWorkers(4)).Run(context.Background(), []byte(input))
		assert.ErrorIs(t, err, report.ErrNoRecords, "%q", input)
	}
}

func TestRunMalformedRecord(t *testing.T) {
	input := header + "CityA,P1,1.00\nCityB,P2\nCityC,P3,3.00\n"

	for workers := 1; workers <= 4; workers++ {
		_, err := New(WithWorkers(workers)).Run(context.Background(), []byte(input))

		var re *agg.RecordError
		require.True(t, errors.As(err, &re), "workers %d", workers)
		assert.Equal(t, len(header)+len("CityA,P1,1.00\n"), re.Offset)
		assert.Equal(t, "missing price field", re.Reason)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var in bytes.Buffer
	in.WriteString(header)
	for i := range 200_000 {
		fmt.Fprintf(&in, "C%d,P%d,1.00\n", i%10, i%7)
	}
	_, err := New(WithWorkers(1)).Run(ctx, in.Bytes())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunWorkerCountInvariance(t *testing.T) {
	r := rand.New(rand.NewSource(9))
	var in bytes.Buffer
	in.WriteString(header)
	for range 30_000 {
		fmt.Fprintf(&in, "City%d,Product%d,%d.%02d\n", r.Intn(80), r.Intn(150), 1+r.Intn(500), r.Intn(100))
	}

	want := run(t, in.String(), WithWorkers(1))
	for _, workers := range []int{2, 3, 5, 8, 13, 32} {
		got := run(t, in.String(), WithWorkers(workers))
		assert.Equal(t, want.Report.City, got.Report.City, "workers %d", workers)
		assert.InDelta(t, want.Report.Total, got.Report.Total, 1e-6)
		assert.Equal(t, want.Report.Products, got.Report.Products)
		assert.Equal(t, want.Aggregate.Records, got.Aggregate.Records)
	}
}

func TestRunLogsPhases(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	run(t, header+"A,P1,1.00\n", WithWorkers(2), WithLogger(logger))
	assert.Contains(t, logs.String(), "partitioned input")
	assert.Contains(t, logs.String(), "worker finished")
	assert.Contains(t, logs.String(), "merged partial aggregates")
}

func TestSkipHeader(t *testing.T) {
	var tests = []struct {
		in       string
		body     string
		consumed int
	}{
		{"h\nA,P,1\n", "A,P,1\n", 2},
		{"header only", "", 11},
		{"header\n", "", 7},
		{"", "", 0},
	}

	for _, tt := range tests {
		body, n := SkipHeader([]byte(tt.in))
		assert.Equal(t, tt.body, string(body))
		assert.Equal(t, tt.consumed, n)
	}
}

func TestExecuteCollectsEveryPartition(t *testing.T) {
	buf := []byte("A,P1,1\nB,P2,2\nC,P3,3\n")
	ranges := partition.Split(buf, 10)

	parts, workers, err := Execute(context.Background(), buf, ranges, 0, New().logger)
	require.NoError(t, err)
	require.Len(t, parts, 10)
	require.Len(t, workers, 10)

	var records int
	for i, part := range parts {
		require.NotNil(t, part)
		records += part.Records
		assert.Equal(t, i, workers[i].ID)
		assert.Equal(t, ranges[i], workers[i].Range)
	}
	assert.Equal(t, 3, records)
}
