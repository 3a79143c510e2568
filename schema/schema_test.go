package schema

import (
	"testing"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
	"github.com/stretchr/testify/require"
)

func TestSchemaCreation(t *testing.T) {
	s, err := CreateSchema("A", "B", "C")
	require.Nil(t, err)
	require.Equal(t, 3, s.NumColumns())
	require.True(t, s.HasColumn("B"))
	require.False(t, s.HasColumn("D"))
	require.Equal(t, []string{"A", "B", "C"}, s.ColumnNames())
}

func TestSchemaRejectsDuplicateColumns(t *testing.T) {
	_, err := CreateSchema("A", "B", "A")
	require.NotNil(t, err)
	require.IsType(t, errors.DuplicateColumnError{}, err)
}

func TestSchemaEquality(t *testing.T) {
	s1, err := CreateSchema("A", "B", "C")
	require.Nil(t, err)
	s2, err := CreateSchema("A", "B", "C")
	require.Nil(t, err)
	require.Nil(t, s1.Equals(s2))
	require.Nil(t, s1.Equals(s1.Clone()))
}

func TestSchemaEqualityOrder(t *testing.T) {
	s1, err := CreateSchema("A", "B", "C")
	require.Nil(t, err)
	s2, err := CreateSchema("A", "C", "B")
	require.Nil(t, err)
	require.NotNil(t, s1.Equals(s2))
}

func TestSchemaEqualityDifferentLength(t *testing.T) {
	s1, err := CreateSchema("A", "B", "C")
	require.Nil(t, err)
	s2, err := CreateSchema("A", "B")
	require.Nil(t, err)
	require.NotNil(t, s1.Equals(s2))
}

func TestSchemaSelectByNameAndIndex(t *testing.T) {
	s, err := CreateSchema("A", "B", "C")
	require.Nil(t, err)
	names, idxs, err := s.Select(scrub.Name("C"), scrub.Index(0))
	require.Nil(t, err)
	require.Equal(t, []string{"C", "A"}, names)
	require.Equal(t, []int{2, 0}, idxs)
}

func TestSchemaSelectInvalidReference(t *testing.T) {
	s, err := CreateSchema("A", "B", "C")
	require.Nil(t, err)
	_, _, err = s.Select(scrub.Name("D"))
	require.IsType(t, errors.InvalidColumnError{}, err)
	_, _, err = s.Select(scrub.Index(3))
	require.IsType(t, errors.InvalidColumnError{}, err)
	_, _, err = s.Select(scrub.Index(-1))
	require.IsType(t, errors.InvalidColumnError{}, err)
}

func TestSchemaRename(t *testing.T) {
	s, err := CreateSchema("A", "B", "C")
	require.Nil(t, err)
	renamed, err := s.Rename(scrub.Name("B"), "B2")
	require.Nil(t, err)
	require.Equal(t, []string{"A", "B2", "C"}, renamed.ColumnNames())
	// the original schema is unchanged
	require.Equal(t, []string{"A", "B", "C"}, s.ColumnNames())
}

func TestSchemaRenameToDuplicate(t *testing.T) {
	s, err := CreateSchema("A", "B", "C")
	require.Nil(t, err)
	_, err = s.Rename(scrub.Name("B"), "A")
	require.IsType(t, errors.DuplicateColumnError{}, err)
}
