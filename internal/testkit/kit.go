package testkit

import (
	"context"
	"sync/atomic"

	"bikestats/domain/rental"
)

// StaticLoader serves a fixed set of raw records. It satisfies
// ports.RecordLoader.
type StaticLoader struct {
	Name    string
	Records []rental.RawRecord
	Err     error

	calls atomic.Int32
}

// NewGeneratedLoader returns a loader over hours of generated data.
func NewGeneratedLoader(hours int) *StaticLoader {
	config := DefaultRentalConfig()
	config.Hours = hours
	return &StaticLoader{
		Name:    "generated.csv",
		Records: NewRentalDataGenerator(config).GenerateRecords(),
	}
}

// Load returns a copy of the records, or Err.
func (l *StaticLoader) Load(ctx context.Context) ([]rental.RawRecord, error) {
	l.calls.Add(1)
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Err != nil {
		return nil, l.Err
	}
	return append([]rental.RawRecord(nil), l.Records...), nil
}

// Source returns the loader's name.
func (l *StaticLoader) Source() string {
	if l.Name == "" {
		return "static"
	}
	return l.Name
}

// Calls reports how many times Load ran.
func (l *StaticLoader) Calls() int {
	return int(l.calls.Load())
}
