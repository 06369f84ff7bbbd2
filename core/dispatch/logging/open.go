package logging

import "fmt"

// Options selects and tunes a LogStore backend.
type Options struct {
	Backend    string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
}

// DefaultMaxSizeMB is the rotation size of a jsonl_rotating store.
const DefaultMaxSizeMB = 10

// Open builds the store described by o. A jsonl backend with a size limit
// rotates; "none" discards records.
func Open(o Options) (LogStore, error) {
	switch o.Backend {
	case "", "jsonl":
		if o.MaxSizeMB > 0 {
			return NewRotatingJSONLStore(o.Path, o.MaxSizeMB, o.MaxBackups, o.MaxAgeDays)
		}
		return NewJSONLStore(o.Path)
	case "jsonl_rotating":
		size := o.MaxSizeMB
		if size <= 0 {
			size = DefaultMaxSizeMB
		}
		return NewRotatingJSONLStore(o.Path, size, o.MaxBackups, o.MaxAgeDays)
	case "sqlite":
		return NewSQLiteStore(o.Path)
	case "none":
		return NopStore{}, nil
	default:
		return nil, fmt.Errorf("unknown log backend %q", o.Backend)
	}
}
