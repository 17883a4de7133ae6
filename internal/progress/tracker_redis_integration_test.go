//go:build integration

package progress

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"idrecon/pkg/testutil/containers"
)

func TestRedisTrackerAgainstRedis(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)

	suite.Run(t, &TrackerContractSuite{newTracker: func() Tracker {
		require.NoError(t, rc.FlushAll(context.Background()))
		return NewRedis(rc.Client.Client)
	}})
}

// Concurrent progress writers race on the same key; the WATCH transaction
// must retry rather than drop or corrupt the document.
func TestRedisTrackerConcurrentUpdates(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.GetManager().GetRedis(t)
	ctx := context.Background()
	require.NoError(t, rc.FlushAll(ctx))

	tracker := NewRedis(rc.Client.Client)
	require.NoError(t, tracker.Start(ctx, "job-1"))

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			_ = tracker.Update(ctx, "job-1", n, 20, "Validating...")
		}(i)
	}
	wg.Wait()

	job, err := tracker.Get(ctx, "job-1")
	require.NoError(t, err)
	require.Equal(t, 20, job.Total)
	require.Equal(t, "Validating...", job.Status)
	require.False(t, job.Finished())
}
