package session

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/cloudconso/internal/carbon"
	"github.com/rshade/cloudconso/internal/report"
)

const (
	numGoroutines = 150
	numIterations = 10
)

// TestConcurrentAccess_Evaluator evaluates alternating snapshots from many
// goroutines and checks every report matches its snapshot.
func TestConcurrentAccess_Evaluator(t *testing.T) {
	catalog, err := carbon.LoadCatalog()
	require.NoError(t, err)
	e := NewEvaluator(report.NewBuilder(carbon.NewCalculator(catalog)), zerolog.Nop())

	hdd, err := newTestSnapshot(t).WithQuantity(carbon.ResourceHDDStorage, 10)
	require.NoError(t, err)
	gcp, err := hdd.WithProvider(carbon.ProviderGCP)
	require.NoError(t, err)

	want := map[string]float64{
		hdd.Revision(): 64626.9,
		gcp.Revision(): 62634.1,
	}

	var wg sync.WaitGroup
	errs := make(chan error, numGoroutines*numIterations)
	mismatches := make(chan string, numGoroutines*numIterations)

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < numIterations; j++ {
				s := hdd
				if (i+j)%2 == 1 {
					s = gcp
				}
				r, err := e.Evaluate(s)
				if err != nil {
					errs <- err
					return
				}
				if r.ID != s.Revision() || r.Totals.Electric != want[s.Revision()] {
					mismatches <- r.ID
				}
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	close(mismatches)

	require.Empty(t, errs, "no errors should occur during concurrent access")
	assert.Empty(t, mismatches, "every report should match the evaluated snapshot")
}

// TestConcurrentAccess_CompareProviders checks the calculator returns
// identical comparisons under concurrent use.
func TestConcurrentAccess_CompareProviders(t *testing.T) {
	catalog, err := carbon.LoadCatalog()
	require.NoError(t, err)
	calc := carbon.NewCalculator(catalog)
	q := carbon.Quantities{carbon.ResourceVCPUCount: 4, carbon.ResourceVCPUUtilization: 50}

	expected := calc.CompareProviders(q, "")

	var wg sync.WaitGroup
	results := make(chan []carbon.ProviderComparison, numGoroutines)
	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results <- calc.CompareProviders(q, "")
		}()
	}
	wg.Wait()
	close(results)

	count := 0
	for r := range results {
		assert.Equal(t, expected, r)
		count++
	}
	assert.Equal(t, numGoroutines, count)
}
