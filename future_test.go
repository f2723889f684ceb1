package tabular_test

import (
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	tabular "github.com/colstack/tabular"
)

func TestFutureProducesExactlyOnceAcrossConcurrentWaiters(t *testing.T) {
	var calls int32
	f := tabular.NewFuture(func() (int, error) {
		atomic.AddInt32(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return 42, nil
	})

	var wg sync.WaitGroup
	results := make([]int, 10)
	for i := 0; i < 10; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := f.Get()
			require.NoError(t, err)
			results[i] = v
		}()
	}
	wg.Wait()

	assert.EqualValues(t, 1, calls)
	for _, v := range results {
		assert.Equal(t, 42, v)
	}
}

func TestFutureAwaitAfterCompletionRunsSynchronouslyWithCachedResult(t *testing.T) {
	f := tabular.NewFuture(func() (string, error) { return "done", nil })
	_, _ = f.Get()

	var got string
	f.Await(func(v string, err error) { got = v })
	assert.Equal(t, "done", got)
}

func TestFuturePropagatesProducerError(t *testing.T) {
	wantErr := errors.New("boom")
	f := tabular.NewFuture(func() (int, error) { return 0, wantErr })
	_, err := f.Get()
	assert.Equal(t, wantErr, err)
}

func TestFutureExpirePreventsNewWaitersButKeepsExisting(t *testing.T) {
	release := make(chan struct{})
	f := tabular.NewFuture(func() (int, error) {
		<-release
		return 1, nil
	})

	var firstGot int32
	go f.Await(func(v int, err error) { atomic.StoreInt32(&firstGot, int32(v)) })
	time.Sleep(5 * time.Millisecond) // let the first Await start the producer

	f.Expire()

	var secondCalled int32
	f.Await(func(v int, err error) { atomic.StoreInt32(&secondCalled, 1) })

	close(release)
	time.Sleep(20 * time.Millisecond)

	assert.EqualValues(t, 1, firstGot)
	assert.EqualValues(t, 0, secondCalled, "waiter registered after Expire must not run")
}

func TestFutureWithTimeLimitExpiresOnTimeout(t *testing.T) {
	f := tabular.NewFutureWithTimeLimit(func() (int, error) {
		time.Sleep(time.Hour)
		return 1, nil
	}, 5*time.Millisecond)

	time.Sleep(20 * time.Millisecond)
	var called int32
	f.Await(func(v int, err error) { atomic.StoreInt32(&called, 1) })
	time.Sleep(5 * time.Millisecond)
	assert.EqualValues(t, 0, called)
}
