// Package session holds the dataset a process is working on and the
// append-only event log shown on the dashboard's log page.
package session

import (
	"context"
	"strconv"
	"sync/atomic"
	"time"

	"bikestats/domain/core"
	"bikestats/domain/rental"
	"bikestats/internal/dataset"
	"bikestats/ports"

	"golang.org/x/sync/singleflight"
)

// Dataset is an immutable snapshot of the enriched records. Callers must
// not modify Records.
type Dataset struct {
	ID          core.DatasetID          `json:"id"`
	Source      string                  `json:"source"`
	LoadedAt    time.Time               `json:"loaded_at"`
	Fingerprint core.Hash               `json:"fingerprint"`
	Records     []rental.EnrichedRecord `json:"-"`
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// Store publishes the current Dataset. Reads are lock-free; a reload
// replaces the snapshot only after the new one derived cleanly.
type Store struct {
	loader  ports.RecordLoader
	current atomic.Pointer[Dataset]
	group   singleflight.Group
	now     func() time.Time
}

// NewStore creates an empty store backed by loader.
func NewStore(loader ports.RecordLoader) *Store {
	return &Store{loader: loader, now: time.Now}
}

// Current returns the published dataset, or core.ErrNotLoaded.
func (s *Store) Current() (*Dataset, error) {
	ds := s.current.Load()
	if ds == nil {
		return nil, core.ErrNotLoaded
	}
	return ds, nil
}

// Reload loads and derives the source again and publishes the result.
// Concurrent calls share one load. On failure the previous dataset stays
// published.
func (s *Store) Reload(ctx context.Context) (*Dataset, error) {
	ch := s.group.DoChan("reload", func() (interface{}, error) {
		return s.load(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Dataset), nil
	}
}

func (s *Store) load(ctx context.Context) (*Dataset, error) {
	raw, err := s.loader.Load(ctx)
	if err != nil {
		return nil, err
	}
	records, err := dataset.Derive(raw)
	if err != nil {
		return nil, err
	}
	ds := s.newDataset(s.loader.Source(), records)
	s.current.Store(ds)
	return ds, nil
}

// Publish replaces the current dataset with records derived elsewhere.
func (s *Store) Publish(source string, records []rental.EnrichedRecord) *Dataset {
	ds := s.newDataset(source, records)
	s.current.Store(ds)
	return ds
}

func (s *Store) newDataset(source string, records []rental.EnrichedRecord) *Dataset {
	return &Dataset{
		ID:          core.NewDatasetID(),
		Source:      source,
		LoadedAt:    s.now().UTC(),
		Fingerprint: Fingerprint(records),
		Records:     records,
	}
}

// Fingerprint hashes the raw fields of the records in order. Two loads of
// the same file have the same fingerprint.
func Fingerprint(records []rental.EnrichedRecord) core.Hash {
	h := core.NewHasher()
	for i := range records {
		r := &records[i].RawRecord
		h.WriteString(r.Timestamp.UTC().Format(time.RFC3339))
		for _, v := range []int{r.Season, r.Holiday, r.WorkingDay, r.Weather, r.Casual, r.Registered, r.Count} {
			h.WriteString(strconv.Itoa(v))
		}
		for _, v := range []float64{r.Temp, r.ATemp, r.Humidity, r.Windspeed} {
			h.WriteString(strconv.FormatFloat(v, 'g', -1, 64))
		}
	}
	return h.Sum()
}
