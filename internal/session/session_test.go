package session

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"bikestats/domain/core"
	"bikestats/domain/rental"
	"bikestats/internal/testkit"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeLoader struct {
	records []rental.RawRecord
	err     error
	calls   atomic.Int32
	gate    chan struct{}
}

func (f *fakeLoader) Load(ctx context.Context) ([]rental.RawRecord, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}
	return f.records, nil
}

func (f *fakeLoader) Source() string { return "fake.csv" }

func generatedRaw(hours int) []rental.RawRecord {
	config := testkit.DefaultRentalConfig()
	config.Hours = hours
	return testkit.NewRentalDataGenerator(config).GenerateRecords()
}

func TestStore_CurrentBeforeLoad(t *testing.T) {
	_, err := NewStore(&fakeLoader{}).Current()
	assert.ErrorIs(t, err, core.ErrNotLoaded)
}

func TestStore_Reload(t *testing.T) {
	store := NewStore(&fakeLoader{records: generatedRaw(24)})

	ds, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 24, ds.Len())
	assert.Equal(t, "fake.csv", ds.Source)

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, ds.ID, current.ID)

	again, err := store.Reload(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, ds.ID, again.ID)
	assert.Equal(t, ds.Fingerprint, again.Fingerprint)
}

func TestStore_FailedReloadKeepsPrevious(t *testing.T) {
	loader := &fakeLoader{records: generatedRaw(10)}
	store := NewStore(loader)
	first, err := store.Reload(context.Background())
	require.NoError(t, err)

	loader.err = errors.New("disk on fire")
	_, err = store.Reload(context.Background())
	require.Error(t, err)

	bad := generatedRaw(3)
	bad[1].Count = -1
	loader.err = nil
	loader.records = bad
	_, err = store.Reload(context.Background())
	assert.True(t, core.IsDerivationError(err))

	current, err := store.Current()
	require.NoError(t, err)
	assert.Equal(t, first.ID, current.ID)
}

func TestStore_ConcurrentReloadsShareOneLoad(t *testing.T) {
	loader := &fakeLoader{records: generatedRaw(5), gate: make(chan struct{})}
	store := NewStore(loader)

	var wg sync.WaitGroup
	ids := make([]string, 4)
	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ds, err := store.Reload(context.Background())
			if err == nil {
				ids[i] = ds.ID.String()
			}
		}(i)
	}
	time.Sleep(50 * time.Millisecond)
	close(loader.gate)
	wg.Wait()

	assert.Equal(t, int32(1), loader.calls.Load())
	for _, id := range ids {
		assert.Equal(t, ids[0], id)
	}
}

func TestStore_ReloadHonoursCancelledContext(t *testing.T) {
	loader := &fakeLoader{records: generatedRaw(5), gate: make(chan struct{})}
	store := NewStore(loader)
	defer close(loader.gate)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Reload(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEventLog_RecordAndTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "events.jsonl")
	log, err := OpenEventLog(path)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		require.NoError(t, log.Record("test_run", map[string]interface{}{"n": i}))
	}

	events, err := log.Tail(3)
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "test_run", events[0].Event)
	assert.EqualValues(t, 2, events[0].Detail["n"])
	assert.EqualValues(t, 4, events[2].Detail["n"])
	assert.False(t, events[2].Timestamp.IsZero())

	all, err := log.Tail(100)
	require.NoError(t, err)
	assert.Len(t, all, 5)

	none, err := log.Tail(0)
	require.NoError(t, err)
	assert.Empty(t, none)
}
