package dataset

import (
	"testing"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
	"github.com/stretchr/testify/require"
)

func TestDatasetAppendAndAccess(t *testing.T) {
	ds, err := CreateDataset("name", "age")
	require.Nil(t, err)
	require.Nil(t, ds.Append(10, scrub.Row{"alice", int64(23)}))
	require.Nil(t, ds.Append(20, scrub.Row{"bob", int64(32)}))
	require.Equal(t, 2, ds.NumRows())

	id, row := ds.Row(1)
	require.Equal(t, scrub.RowID(20), id)
	require.Equal(t, scrub.Row{"bob", int64(32)}, row)

	ages, err := ds.Column(scrub.Name("age"))
	require.Nil(t, err)
	require.Equal(t, []scrub.Value{int64(23), int64(32)}, ages)
}

func TestDatasetAppendWidthMismatch(t *testing.T) {
	ds, err := CreateDataset("name", "age")
	require.Nil(t, err)
	err = ds.Append(0, scrub.Row{"alice"})
	require.IsType(t, errors.IncompatibleRowError{}, err)
}

func TestDatasetAppendCopiesRows(t *testing.T) {
	ds, err := CreateDataset("v")
	require.Nil(t, err)
	row := scrub.Row{int64(1)}
	require.Nil(t, ds.Append(0, row))
	row[0] = int64(99)
	_, stored := ds.Row(0)
	require.Equal(t, scrub.Row{int64(1)}, stored)
}

func TestDatasetSlice(t *testing.T) {
	ds, err := FromRows([]string{"v"}, []scrub.Row{{int64(1)}, {int64(2)}, {int64(3)}})
	require.Nil(t, err)
	sub, err := ds.Slice([]int{2, 0})
	require.Nil(t, err)
	require.Equal(t, 2, sub.NumRows())
	id, row := sub.Row(0)
	require.Equal(t, scrub.RowID(2), id)
	require.Equal(t, scrub.Row{int64(3)}, row)
}

func TestDatasetRename(t *testing.T) {
	ds, err := FromRows([]string{"a", "b"}, []scrub.Row{{int64(1), int64(2)}})
	require.Nil(t, err)
	renamed, err := ds.Rename(scrub.Name("a"), "a2")
	require.Nil(t, err)
	require.Equal(t, []string{"a2", "b"}, renamed.Columns())
	require.Equal(t, []string{"a", "b"}, ds.Columns())
}

func TestDatasetEquals(t *testing.T) {
	d1, err := FromRows([]string{"v"}, []scrub.Row{{int64(1)}, {int64(2)}})
	require.Nil(t, err)
	d2, err := FromRows([]string{"v"}, []scrub.Row{{int64(1)}, {int64(2)}})
	require.Nil(t, err)
	d3, err := FromRows([]string{"v"}, []scrub.Row{{int64(1)}, {int64(3)}})
	require.Nil(t, err)
	require.True(t, d1.Equals(d2))
	require.False(t, d1.Equals(d3))
	require.False(t, d1.Equals(nil))
}
