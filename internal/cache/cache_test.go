package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCache(t *testing.T, ttl time.Duration) *Cache {
	t.Helper()
	c, err := New(100, ttl, time.Second)
	require.NoError(t, err)
	return c
}

func TestQueryCachesResult(t *testing.T) {
	c := newCache(t, time.Minute)
	var calls int32
	load := func(context.Context) (string, error) {
		atomic.AddInt32(&calls, 1)
		return "portfolio", nil
	}

	key := Key{Topic: TopicPortfolio, ID: 1}
	for i := 0; i < 3; i++ {
		v, err := Query(context.Background(), c, key, load)
		require.NoError(t, err)
		assert.Equal(t, "portfolio", v)
	}
	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestQueryCollapsesConcurrentLoads(t *testing.T) {
	c := newCache(t, time.Minute)
	var calls int32
	release := make(chan struct{})
	load := func(context.Context) (int, error) {
		atomic.AddInt32(&calls, 1)
		<-release
		return 7, nil
	}

	key := Key{Topic: TopicCommentsToUser, ID: 3, Variant: "page=1"}
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			v, err := Query(context.Background(), c, key, load)
			assert.NoError(t, err)
			assert.Equal(t, 7, v)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, atomic.LoadInt32(&calls))
}

func TestInvalidateDropsAllVariants(t *testing.T) {
	c := newCache(t, time.Minute)
	load := func(context.Context) (int, error) { return 1, nil }

	for _, k := range []Key{
		{Topic: TopicCommentsToUser, ID: 3, Variant: "page=1"},
		{Topic: TopicCommentsToUser, ID: 3, Variant: "page=2", Viewer: 9},
		{Topic: TopicCommentsToUser, ID: 4, Variant: "page=1"},
		{Topic: TopicUserComments, ID: 3, Variant: "page=1"},
	} {
		_, err := Query(context.Background(), c, k, load)
		require.NoError(t, err)
	}
	require.Equal(t, 4, c.Len())

	c.Invalidate(TopicCommentsToUser, 3)
	assert.Equal(t, 2, c.Len())

	c.InvalidateTopic(TopicUserComments)
	assert.Equal(t, 1, c.Len())
}

func TestInvalidateDuringLoadSkipsStaleWrite(t *testing.T) {
	c := newCache(t, time.Minute)
	started := make(chan struct{})
	release := make(chan struct{})
	key := Key{Topic: TopicPortfolio, ID: 42}

	done := make(chan struct{})
	go func() {
		defer close(done)
		_, _ = Query(context.Background(), c, key, func(context.Context) (int, error) {
			close(started)
			<-release
			return 10, nil
		})
	}()

	<-started
	c.Invalidate(TopicPortfolio, 42)
	close(release)
	<-done

	assert.Equal(t, 0, c.Len())
}

func TestStoreAfterInvalidateIsRejected(t *testing.T) {
	c := newCache(t, time.Minute)
	key := Key{Topic: TopicCommentsToUser, ID: 1, Variant: "page=1"}

	gen := c.generation(key)
	c.Invalidate(TopicCommentsToUser, 1)
	assert.False(t, c.storeIfCurrent(key, gen, "stale"))

	c.InvalidateTopic(TopicCommentsToUser)
	assert.False(t, c.storeIfCurrent(key, c.generation(key)-1, "stale"))
	assert.Equal(t, 0, c.Len())

	assert.True(t, c.storeIfCurrent(key, c.generation(key), "fresh"))
	assert.Equal(t, 1, c.Len())
}

// 加载与失效交错时，最后一次失效之后读到的一定是最新版本
func TestConcurrentInvalidateNeverLeavesStaleEntry(t *testing.T) {
	c := newCache(t, time.Minute)
	key := Key{Topic: TopicPortfolio, ID: 7}
	var version atomic.Int64
	load := func(context.Context) (int64, error) {
		return version.Load(), nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, _ = Query(context.Background(), c, key, load)
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				version.Add(1)
				c.Invalidate(TopicPortfolio, 7)
			}
		}()
	}
	wg.Wait()

	got, err := Query(context.Background(), c, key, load)
	require.NoError(t, err)
	assert.Equal(t, version.Load(), got)
}

func TestQueryExpires(t *testing.T) {
	c := newCache(t, 10*time.Millisecond)
	var calls int32
	load := func(context.Context) (int, error) {
		return int(atomic.AddInt32(&calls, 1)), nil
	}
	key := Key{Topic: TopicUserProfile, ID: 1}

	v, err := Query(context.Background(), c, key, load)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	time.Sleep(20 * time.Millisecond)
	v, err = Query(context.Background(), c, key, load)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestQueryErrorNotCached(t *testing.T) {
	c := newCache(t, time.Minute)
	boom := errors.New("upstream down")
	key := Key{Topic: TopicPortfolio, ID: 5}

	_, err := Query(context.Background(), c, key, func(context.Context) (int, error) { return 0, boom })
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 0, c.Len())
}

func TestQueryCallerCancelled(t *testing.T) {
	c := newCache(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	release := make(chan struct{})
	defer close(release)

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := Query(ctx, c, Key{Topic: TopicPortfolio, ID: 6}, func(lctx context.Context) (int, error) {
		<-release
		return 1, lctx.Err()
	})
	assert.ErrorIs(t, err, context.Canceled)
}
