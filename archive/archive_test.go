package archive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/dataset"
	"github.com/go-scrub/scrub/errors"
)

func namesTable(t *testing.T) *dataset.Dataset {
	data, err := dataset.FromRows([]string{"name", "age"}, []scrub.Row{
		{"alice", int64(32)},
		{"bob", int64(45)},
	})
	require.Nil(t, err)
	return data
}

func TestCommitAndCheckout(t *testing.T) {
	store := CreateMemoryStore()
	data := namesTable(t)

	snapshot, err := store.Commit(data, CommitOptions{Description: "initial load"})
	require.Nil(t, err)
	require.Equal(t, 1, snapshot.Version)
	require.Equal(t, "initial load", snapshot.Description)
	require.False(t, snapshot.CreatedAt.IsZero())

	checked, err := store.Checkout(1)
	require.Nil(t, err)
	require.True(t, data.Equals(checked))
}

func TestCheckoutCopiesTable(t *testing.T) {
	store := CreateMemoryStore()
	_, err := store.Commit(namesTable(t), CommitOptions{})
	require.Nil(t, err)

	checked, err := store.Checkout(1)
	require.Nil(t, err)
	require.Nil(t, checked.Append(scrub.RowID(99), scrub.Row{"carla", int64(28)}))

	again, err := store.Checkout(1)
	require.Nil(t, err)
	require.Equal(t, 2, again.NumRows())
}

func TestCheckoutMissingVersion(t *testing.T) {
	store := CreateMemoryStore()
	_, err := store.Checkout(1)
	require.IsType(t, errors.MissingVersionError{}, err)

	_, err = store.Commit(namesTable(t), CommitOptions{})
	require.Nil(t, err)
	_, err = store.Checkout(2)
	require.IsType(t, errors.MissingVersionError{}, err)
}

func TestCommitWithRenames(t *testing.T) {
	store := CreateMemoryStore()
	_, err := store.Commit(namesTable(t), CommitOptions{
		Renames: map[string]string{"name": "full_name"},
	})
	require.Nil(t, err)

	checked, err := store.Checkout(1)
	require.Nil(t, err)
	require.Equal(t, []string{"full_name", "age"}, checked.Columns())
}

func TestPartialCommitMergesByRowID(t *testing.T) {
	store := CreateMemoryStore()
	_, err := store.Commit(namesTable(t), CommitOptions{})
	require.Nil(t, err)

	patch, err := dataset.CreateDataset("name", "age")
	require.Nil(t, err)
	require.Nil(t, patch.Append(scrub.RowID(1), scrub.Row{"robert", int64(45)}))
	require.Nil(t, patch.Append(scrub.RowID(7), scrub.Row{"carla", int64(28)}))

	snapshot, err := store.Commit(patch, CommitOptions{Partial: true})
	require.Nil(t, err)
	require.Equal(t, 2, snapshot.Version)

	merged, err := store.Checkout(2)
	require.Nil(t, err)
	require.Equal(t, 3, merged.NumRows())
	_, row := merged.Row(1)
	require.Equal(t, "robert", row[0])
	id, row := merged.Row(2)
	require.Equal(t, scrub.RowID(7), id)
	require.Equal(t, "carla", row[0])
}

func TestPartialCommitSchemaMismatch(t *testing.T) {
	store := CreateMemoryStore()
	_, err := store.Commit(namesTable(t), CommitOptions{})
	require.Nil(t, err)

	patch, err := dataset.FromRows([]string{"name"}, []scrub.Row{{"x"}})
	require.Nil(t, err)
	_, err = store.Commit(patch, CommitOptions{Partial: true})
	require.NotNil(t, err)
}

func TestSnapshotsListedInCommitOrder(t *testing.T) {
	store := CreateMemoryStore()
	_, err := store.Commit(namesTable(t), CommitOptions{Description: "one"})
	require.Nil(t, err)
	_, err = store.Commit(namesTable(t), CommitOptions{Description: "two"})
	require.Nil(t, err)

	snapshots := store.Snapshots()
	require.Equal(t, 2, len(snapshots))
	require.Equal(t, "one", snapshots[0].Description)
	require.Equal(t, "two", snapshots[1].Description)
	require.NotEqual(t, snapshots[0].ID, snapshots[1].ID)
}
