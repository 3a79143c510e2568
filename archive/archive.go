// Package archive defines the narrow interface to a dataset snapshot store,
// the collaborator that keeps versioned copies of cleaned datasets. The
// pipeline core never talks to an archive; callers commit collected
// datasets after a run. An in-memory store is provided so that commit and
// checkout round-trips are testable without an external archive manager.
package archive

import (
	"fmt"
	"time"

	"github.com/gofrs/uuid"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/dataset"
	"github.com/go-scrub/scrub/errors"
)

// Snapshot is the handle of one committed dataset version.
type Snapshot struct {
	ID          uuid.UUID
	Version     int
	Description string
	CreatedAt   time.Time
}

// CommitOptions configures a single commit.
type CommitOptions struct {
	Description string
	// Renames maps existing column names to their new names, applied
	// before the table is stored.
	Renames map[string]string
	// Partial merges the committed rows into the origin snapshot by row
	// identifier instead of replacing the full table.
	Partial bool
	// OriginVersion is the base version for a partial commit. Zero or
	// negative selects the latest snapshot.
	OriginVersion int
}

// Store accepts dataset snapshots and returns version handles.
type Store interface {
	Commit(data *dataset.Dataset, opts CommitOptions) (Snapshot, error)
	Checkout(version int) (*dataset.Dataset, error)
	Snapshots() []Snapshot
}

// MemoryStore keeps snapshots in memory. Versions are numbered from one in
// commit order.
type MemoryStore struct {
	snapshots []Snapshot
	tables    []*dataset.Dataset
}

// CreateMemoryStore returns an empty in-memory snapshot store.
func CreateMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Commit stores a new snapshot of the given dataset and returns its handle.
// The dataset is copied, so later mutations do not leak into the store.
func (s *MemoryStore) Commit(data *dataset.Dataset, opts CommitOptions) (Snapshot, error) {
	table, err := applyRenames(data, opts.Renames)
	if err != nil {
		return Snapshot{}, err
	}
	if opts.Partial {
		origin, err := s.origin(opts.OriginVersion)
		if err != nil {
			return Snapshot{}, err
		}
		table, err = mergeByRowID(origin, table)
		if err != nil {
			return Snapshot{}, err
		}
	} else {
		table, err = copyDataset(table)
		if err != nil {
			return Snapshot{}, err
		}
	}
	id, err := uuid.NewV4()
	if err != nil {
		return Snapshot{}, err
	}
	snapshot := Snapshot{
		ID:          id,
		Version:     len(s.snapshots) + 1,
		Description: opts.Description,
		CreatedAt:   time.Now().UTC(),
	}
	s.snapshots = append(s.snapshots, snapshot)
	s.tables = append(s.tables, table)
	return snapshot, nil
}

// Checkout returns a copy of the table stored under the given version.
func (s *MemoryStore) Checkout(version int) (*dataset.Dataset, error) {
	if version < 1 || version > len(s.tables) {
		return nil, errors.MissingVersionError{Version: version}
	}
	return copyDataset(s.tables[version-1])
}

// Snapshots lists all snapshot handles in commit order.
func (s *MemoryStore) Snapshots() []Snapshot {
	snapshots := make([]Snapshot, len(s.snapshots))
	copy(snapshots, s.snapshots)
	return snapshots
}

func (s *MemoryStore) origin(version int) (*dataset.Dataset, error) {
	if version < 1 {
		version = len(s.tables)
	}
	if version < 1 || version > len(s.tables) {
		return nil, errors.MissingVersionError{Version: version}
	}
	return s.tables[version-1], nil
}

func applyRenames(data *dataset.Dataset, renames map[string]string) (*dataset.Dataset, error) {
	table := data
	for _, old := range data.Columns() {
		newName, ok := renames[old]
		if !ok {
			continue
		}
		renamed, err := table.Rename(scrub.Name(old), newName)
		if err != nil {
			return nil, err
		}
		table = renamed
	}
	return table, nil
}

func copyDataset(data *dataset.Dataset) (*dataset.Dataset, error) {
	clone, err := dataset.CreateDataset(data.Columns()...)
	if err != nil {
		return nil, err
	}
	for pos := 0; pos < data.NumRows(); pos++ {
		id, row := data.Row(pos)
		if err := clone.Append(id, row); err != nil {
			return nil, err
		}
	}
	return clone, nil
}

// mergeByRowID overlays the rows of a partial table onto the origin
// snapshot: rows with a known identifier replace the origin row, new
// identifiers append. Schemas must agree.
func mergeByRowID(origin *dataset.Dataset, partial *dataset.Dataset) (*dataset.Dataset, error) {
	if err := origin.Schema().Equals(partial.Schema()); err != nil {
		return nil, fmt.Errorf("partial commit schema mismatch: %w", err)
	}
	merged, err := copyDataset(origin)
	if err != nil {
		return nil, err
	}
	known := make(map[scrub.RowID]int, origin.NumRows())
	for pos := 0; pos < origin.NumRows(); pos++ {
		id, _ := origin.Row(pos)
		known[id] = pos
	}
	result, err := dataset.CreateDataset(origin.Columns()...)
	if err != nil {
		return nil, err
	}
	replaced := make(map[scrub.RowID]scrub.Row, partial.NumRows())
	var appended []int
	for pos := 0; pos < partial.NumRows(); pos++ {
		id, row := partial.Row(pos)
		if _, ok := known[id]; ok {
			replaced[id] = row
		} else {
			appended = append(appended, pos)
		}
	}
	for pos := 0; pos < merged.NumRows(); pos++ {
		id, row := merged.Row(pos)
		if override, ok := replaced[id]; ok {
			row = override
		}
		if err := result.Append(id, row); err != nil {
			return nil, err
		}
	}
	for _, pos := range appended {
		id, row := partial.Row(pos)
		if err := result.Append(id, row); err != nil {
			return nil, err
		}
	}
	return result, nil
}
