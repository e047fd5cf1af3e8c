// internal/worker/worker_race_test.go - Test des race conditions

package worker

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

// TestWorkerStateConsistency teste la cohérence de l'état du worker
func TestWorkerStateConsistency(t *testing.T) {
	worker := &Worker{id: 1, status: StateIdle}

	const numGoroutines = 100
	const numOperations = 1000

	var wg sync.WaitGroup
	var inconsistencies int64

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < numOperations; j++ {
				worker.setState(StateBusy, uuid.NewString())

				// busy implique un job courant
				status, currentJobID := worker.getState()
				if status == StateBusy && currentJobID == "" {
					atomic.AddInt64(&inconsistencies, 1)
				}

				worker.setState(StateIdle, "")

				status, currentJobID = worker.getState()
				if status == StateIdle && currentJobID != "" {
					atomic.AddInt64(&inconsistencies, 1)
				}
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int64(0), atomic.LoadInt64(&inconsistencies), "Detected state inconsistencies")
}

// TestWorkerStatisticsAtomic teste que les statistiques sont thread-safe
func TestWorkerStatisticsAtomic(t *testing.T) {
	worker := &Worker{id: 1, status: StateIdle}

	const numGoroutines = 50
	const numIncrements = 1000

	var wg sync.WaitGroup

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			for j := 0; j < numIncrements; j++ {
				atomic.AddInt64(&worker.jobsTotal, 1)
				if j%2 == 0 {
					atomic.AddInt64(&worker.jobsSuccess, 1)
				} else {
					atomic.AddInt64(&worker.jobsFailed, 1)
				}
			}
		}()
	}

	wg.Wait()

	stats := worker.GetStats()
	expectedTotal := int64(numGoroutines * numIncrements)

	assert.Equal(t, 1, stats.ID)
	assert.Equal(t, expectedTotal, stats.JobsTotal)
	assert.Equal(t, expectedTotal/2, stats.JobsSuccess)
	assert.Equal(t, expectedTotal/2, stats.JobsFailed)
}

func BenchmarkWorkerStateOperations(b *testing.B) {
	worker := &Worker{id: 1, status: StateIdle}
	jobID := uuid.NewString()

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			worker.setState(StateBusy, jobID)
			worker.getState()
			worker.setState(StateIdle, "")
		}
	})
}
