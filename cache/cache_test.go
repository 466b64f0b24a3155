package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-site-backend/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	Name string `json:"name"`
}

func TestLoadCachesUntilInvalidated(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), 0)
	calls := 0
	fetch := func(context.Context) ([]row, error) {
		calls++
		return []row{{Name: "Go"}}, nil
	}

	for i := 0; i < 3; i++ {
		rows, err := Load(ctx, c, events.Skill, "sort", fetch)
		require.NoError(t, err)
		assert.Equal(t, []row{{Name: "Go"}}, rows)
	}
	assert.Equal(t, 1, calls)

	c.Invalidate(ctx, events.Skill)
	_, err := Load(ctx, c, events.Skill, "sort", fetch)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestInvalidateOnlyTouchesOneEntity(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), 0)
	var skills, projects int
	_, _ = Load(ctx, c, events.Skill, "sort", func(context.Context) ([]row, error) { skills++; return nil, nil })
	_, _ = Load(ctx, c, events.Project, "created", func(context.Context) ([]row, error) { projects++; return nil, nil })

	c.Invalidate(ctx, events.Skill)

	_, _ = Load(ctx, c, events.Skill, "sort", func(context.Context) ([]row, error) { skills++; return nil, nil })
	_, _ = Load(ctx, c, events.Project, "created", func(context.Context) ([]row, error) { projects++; return nil, nil })
	assert.Equal(t, 2, skills)
	assert.Equal(t, 1, projects)
}

func TestLoadDoesNotCacheErrors(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), 0)
	boom := errors.New("connection refused")

	_, err := Load(ctx, c, events.Certificate, "created", func(context.Context) ([]row, error) { return nil, boom })
	assert.ErrorIs(t, err, boom)

	rows, err := Load(ctx, c, events.Certificate, "created", func(context.Context) ([]row, error) {
		return []row{{Name: "AWS SA"}}, nil
	})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}

func TestLoadSharesConcurrentMisses(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), 0)
	var calls atomic.Int32
	release := make(chan struct{})

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := Load(ctx, c, events.Project, "created", func(context.Context) ([]row, error) {
				calls.Add(1)
				<-release
				return []row{{Name: "site"}}, nil
			})
			assert.NoError(t, err)
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.LessOrEqual(t, calls.Load(), int32(5))
	assert.GreaterOrEqual(t, calls.Load(), int32(1))
}

func TestStaleFetchIsNotStored(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), 0)

	_, err := Load(ctx, c, events.Skill, "sort", func(ctx context.Context) ([]row, error) {
		c.Invalidate(ctx, events.Skill) // a write commits mid-fetch
		return []row{{Name: "old"}}, nil
	})
	require.NoError(t, err)

	rows, err := Load(ctx, c, events.Skill, "sort", func(context.Context) ([]row, error) {
		return []row{{Name: "new"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", rows[0].Name)
}

func TestSubscribeInvalidatesOnEvent(t *testing.T) {
	ctx := context.Background()
	c := New(NewMemoryStore(), 0)
	bus := events.NewBus()
	defer c.Subscribe(bus)()

	calls := 0
	fetch := func(context.Context) ([]row, error) { calls++; return nil, nil }
	_, _ = Load(ctx, c, events.ContactMethod, "sort", fetch)
	_, _ = Load(ctx, c, events.ContactMethod, "sort", fetch)
	bus.Publish(events.EntityChanged{Entity: events.ContactMethod, Op: events.Updated})
	_, _ = Load(ctx, c, events.ContactMethod, "sort", fetch)

	assert.Equal(t, 2, calls)
}

func TestNilCacheAlwaysFetches(t *testing.T) {
	var c *Cache
	calls := 0
	for i := 0; i < 2; i++ {
		_, err := Load(context.Background(), c, events.Message, "created", func(context.Context) (int, error) {
			calls++
			return 1, nil
		})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, calls)
	assert.NotPanics(t, func() { c.Invalidate(context.Background(), events.Message) })
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Set(ctx, "k", []byte("v"), time.Minute))
	_, ok, _ := s.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Minute)
	_, ok, _ = s.Get(ctx, "k")
	assert.False(t, ok)
}

func TestCancelledCallerDoesNotFailSharedFetch(t *testing.T) {
	c := New(NewMemoryStore(), 0)
	started := make(chan struct{})
	release := make(chan struct{})
	var fetchErr atomic.Value

	fetch := func(ctx context.Context) ([]row, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			fetchErr.Store(err)
			return nil, err
		}
		return []row{{Name: "shared"}}, nil
	}

	leaderCtx, cancel := context.WithCancel(context.Background())
	leaderDone := make(chan error, 1)
	go func() {
		_, err := Load(leaderCtx, c, events.Project, "created", fetch)
		leaderDone <- err
	}()
	<-started

	followerDone := make(chan []row, 1)
	go func() {
		rows, err := Load(context.Background(), c, events.Project, "created", func(context.Context) ([]row, error) {
			return nil, errors.New("follower should join the running fetch")
		})
		assert.NoError(t, err)
		followerDone <- rows
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	assert.ErrorIs(t, <-leaderDone, context.Canceled)

	close(release)
	assert.Equal(t, []row{{Name: "shared"}}, <-followerDone)
	assert.Nil(t, fetchErr.Load())
}

// slowSetStore holds every Set open long enough for an invalidation to race it.
type slowSetStore struct {
	*MemoryStore
	inSet chan struct{}
}

func (s *slowSetStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	select {
	case s.inSet <- struct{}{}:
	default:
	}
	time.Sleep(30 * time.Millisecond)
	return s.MemoryStore.Set(ctx, key, value, ttl)
}

func TestInvalidationDuringWriteIsNotLost(t *testing.T) {
	ctx := context.Background()
	store := &slowSetStore{MemoryStore: NewMemoryStore(), inSet: make(chan struct{}, 1)}
	c := New(store, 0)

	invalidated := make(chan struct{})
	go func() {
		<-store.inSet
		c.Invalidate(ctx, events.Skill)
		close(invalidated)
	}()

	_, err := Load(ctx, c, events.Skill, "sort", func(context.Context) ([]row, error) {
		return []row{{Name: "old"}}, nil
	})
	require.NoError(t, err)
	<-invalidated

	rows, err := Load(ctx, c, events.Skill, "sort", func(context.Context) ([]row, error) {
		return []row{{Name: "new"}}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, "new", rows[0].Name)
}

func TestInvalidateAllClearsEntriesFromEarlierProcess(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	previous := New(store, 0)
	for _, entity := range events.All {
		_, err := Load(ctx, previous, entity, "sort", func(context.Context) ([]row, error) { return []row{{Name: "old"}}, nil })
		require.NoError(t, err)
	}

	c := New(store, 0)
	c.InvalidateAll(ctx)

	for _, entity := range events.All {
		rows, err := Load(ctx, c, entity, "sort", func(context.Context) ([]row, error) { return []row{{Name: "new"}}, nil })
		require.NoError(t, err)
		assert.Equal(t, "new", rows[0].Name, entity)
	}
}
