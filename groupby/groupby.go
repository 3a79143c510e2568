// Package groupby partitions a dataset into keyed groups and reduces groups
// into aggregate rows. A Grouping maps each distinct key to the rows that
// produced it; group sub-tables are materialized lazily and cached, so a
// grouping over a large dataset stays cheap until a group is actually read.
package groupby

import (
	"fmt"

	"github.com/cespare/xxhash/v2"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/dataset"
	"github.com/go-scrub/scrub/datasource/memory"
	"github.com/go-scrub/scrub/errors"
	"github.com/go-scrub/scrub/eval"
)

// Grouping is an immutable keyed partition of a dataset's rows. Keys are
// value tuples; groups appear in the order their key was first observed.
type Grouping struct {
	source     *dataset.Dataset
	keyColumns []string
	buckets    map[uint64][]*group
	order      []*group
}

type group struct {
	key       scrub.Tuple
	positions []int
	rowIDs    []scrub.RowID
	sub       *dataset.Dataset
}

// GroupBy partitions a dataset by the values of the referenced columns.
func GroupBy(data *dataset.Dataset, columns ...scrub.ColumnRef) (*Grouping, error) {
	keyColumns, _, err := data.Schema().Select(columns...)
	if err != nil {
		return nil, err
	}
	return groupBy(data, keyColumns, eval.ColRefs(columns...))
}

// GroupByFunc partitions a dataset by the result of an evaluation function,
// prepared against the dataset before grouping starts. Scalar results become
// single-value keys; tuple results become composite keys.
func GroupByFunc(data *dataset.Dataset, keyFunc scrub.EvalFunction) (*Grouping, error) {
	return groupBy(data, nil, keyFunc)
}

func groupBy(data *dataset.Dataset, keyColumns []string, keyFunc scrub.EvalFunction) (*Grouping, error) {
	fn, err := keyFunc.Prepare(memory.CreateStream(data))
	if err != nil {
		return nil, err
	}
	g := &Grouping{
		source:     data,
		keyColumns: keyColumns,
		buckets:    make(map[uint64][]*group),
	}
	for pos := 0; pos < data.NumRows(); pos++ {
		id, row := data.Row(pos)
		val, err := fn(row)
		if err != nil {
			return nil, err
		}
		g.add(toKey(val), pos, id)
	}
	if g.keyColumns == nil {
		g.keyColumns = defaultKeyColumns(g.order)
	}
	return g, nil
}

func toKey(val scrub.Value) scrub.Tuple {
	if key, ok := val.(scrub.Tuple); ok {
		return key
	}
	return scrub.Tuple{val}
}

func defaultKeyColumns(groups []*group) []string {
	width := 1
	if len(groups) > 0 {
		width = len(groups[0].key)
	}
	if width == 1 {
		return []string{"key"}
	}
	columns := make([]string, width)
	for i := range columns {
		columns[i] = fmt.Sprintf("key_%d", i)
	}
	return columns
}

// add appends a row to the group for the given key, creating the group on
// first sight of the key.
func (g *Grouping) add(key scrub.Tuple, pos int, id scrub.RowID) {
	h := hashKey(key)
	for _, grp := range g.buckets[h] {
		if scrub.ValuesEqual(grp.key, key) {
			grp.positions = append(grp.positions, pos)
			grp.rowIDs = append(grp.rowIDs, id)
			return
		}
	}
	grp := &group{key: append(scrub.Tuple(nil), key...), positions: []int{pos}, rowIDs: []scrub.RowID{id}}
	g.buckets[h] = append(g.buckets[h], grp)
	g.order = append(g.order, grp)
}

// NumGroups returns the number of distinct keys.
func (g *Grouping) NumGroups() int {
	return len(g.order)
}

// KeyColumns returns the column names the keys were built from, or synthetic
// names for a function-derived key.
func (g *Grouping) KeyColumns() []string {
	columns := make([]string, len(g.keyColumns))
	copy(columns, g.keyColumns)
	return columns
}

// Keys returns all group keys in first-observation order.
func (g *Grouping) Keys() []scrub.Tuple {
	keys := make([]scrub.Tuple, len(g.order))
	for i, grp := range g.order {
		keys[i] = grp.key
	}
	return keys
}

// Has reports whether the grouping contains the given key.
func (g *Grouping) Has(key ...scrub.Value) bool {
	return g.lookup(scrub.Tuple(key)) != nil
}

// RowIDs returns the identifiers of the rows in the group for the given
// key, in source order.
func (g *Grouping) RowIDs(key ...scrub.Value) ([]scrub.RowID, error) {
	grp := g.lookup(scrub.Tuple(key))
	if grp == nil {
		return nil, errors.MissingKeyError{Key: fmt.Sprintf("%v", key)}
	}
	ids := make([]scrub.RowID, len(grp.rowIDs))
	copy(ids, grp.rowIDs)
	return ids, nil
}

// Get returns the sub-dataset holding the rows of the group for the given
// key. Sub-datasets are built on first access and cached.
func (g *Grouping) Get(key ...scrub.Value) (*dataset.Dataset, error) {
	grp := g.lookup(scrub.Tuple(key))
	if grp == nil {
		return nil, errors.MissingKeyError{Key: fmt.Sprintf("%v", key)}
	}
	return g.materialize(grp)
}

// Each calls fn for every group in first-observation order, materializing
// each group's sub-dataset. Iteration stops at the first error.
func (g *Grouping) Each(fn func(key scrub.Tuple, group *dataset.Dataset) error) error {
	for _, grp := range g.order {
		sub, err := g.materialize(grp)
		if err != nil {
			return err
		}
		if err := fn(grp.key, sub); err != nil {
			return err
		}
	}
	return nil
}

func (g *Grouping) lookup(key scrub.Tuple) *group {
	for _, grp := range g.buckets[hashKey(key)] {
		if scrub.ValuesEqual(grp.key, key) {
			return grp
		}
	}
	return nil
}

func (g *Grouping) materialize(grp *group) (*dataset.Dataset, error) {
	if grp.sub == nil {
		sub, err := g.source.Slice(grp.positions)
		if err != nil {
			return nil, err
		}
		grp.sub = sub
	}
	return grp.sub, nil
}

// hashKey digests a key tuple into a bucket key, widening numeric values so
// that equal keys of different numeric types collide into the same bucket.
func hashKey(key scrub.Tuple) uint64 {
	digest := xxhash.New()
	for _, v := range key {
		if f, ok := scrub.AsFloat(v); ok {
			if _, isString := v.(string); !isString {
				fmt.Fprintf(digest, "n:%g\x1e", f)
				continue
			}
		}
		fmt.Fprintf(digest, "%T:%v\x1e", v, v)
	}
	return digest.Sum64()
}
