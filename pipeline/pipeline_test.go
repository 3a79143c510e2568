package pipeline

import (
	"bytes"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/dataset"
	"github.com/go-scrub/scrub/datasource/dsv"
	"github.com/go-scrub/scrub/datasource/memory"
	"github.com/go-scrub/scrub/errors"
	"github.com/go-scrub/scrub/eval"
	"github.com/go-scrub/scrub/logging"
)

func testStream(t *testing.T, columns []string, rows []scrub.Row) scrub.DatasetStream {
	ds, err := dataset.FromRows(columns, rows)
	require.Nil(t, err)
	return memory.CreateStream(ds)
}

func threeColumnStream(t *testing.T) scrub.DatasetStream {
	return testStream(t, []string{"A", "B", "C"}, []scrub.Row{
		{int64(1), int64(2), int64(3)},
		{int64(3), int64(4), int64(5)},
		{int64(1), int64(2), int64(3)},
		{int64(3), int64(4), int64(5)},
		{int64(1), int64(2), int64(3)},
	})
}

func TestEmptyPipelineRunReturnsNil(t *testing.T) {
	result, err := New(threeColumnStream(t)).Run()
	require.Nil(t, err)
	require.Nil(t, result)
}

func TestToDatasetIsIdentity(t *testing.T) {
	data, err := New(threeColumnStream(t)).ToDataset()
	require.Nil(t, err)
	require.Equal(t, 5, data.NumRows())
	require.Equal(t, []string{"A", "B", "C"}, data.Columns())
	id, row := data.Row(1)
	require.Equal(t, scrub.RowID(1), id)
	require.Equal(t, scrub.Row{int64(3), int64(4), int64(5)}, row)
}

func TestCount(t *testing.T) {
	count, err := New(threeColumnStream(t)).Count()
	require.Nil(t, err)
	require.Equal(t, 5, count)
}

func TestLimitYieldsExactlyNRows(t *testing.T) {
	data, err := New(threeColumnStream(t)).Limit(3).ToDataset()
	require.Nil(t, err)
	require.Equal(t, 3, data.NumRows())

	// limit above the stream length is not an error
	count, err := New(threeColumnStream(t)).Limit(100).Count()
	require.Nil(t, err)
	require.Equal(t, 5, count)
}

func TestHead(t *testing.T) {
	data, err := New(threeColumnStream(t)).Head(2)
	require.Nil(t, err)
	require.Equal(t, 2, data.NumRows())
}

func TestSelectNarrowsAndReorders(t *testing.T) {
	p := New(threeColumnStream(t)).Select(scrub.Name("C"), scrub.Name("A"))
	require.Equal(t, []string{"C", "A"}, p.Columns())

	data, err := p.ToDataset()
	require.Nil(t, err)
	require.Equal(t, []string{"C", "A"}, data.Columns())
	id, row := data.Row(0)
	require.Equal(t, scrub.RowID(0), id)
	require.Equal(t, scrub.Row{int64(3), int64(1)}, row)
}

func TestSelectUnknownColumnFailsOnOpen(t *testing.T) {
	p := New(threeColumnStream(t)).Select(scrub.Name("Z"))
	_, err := p.ToDataset()
	require.IsType(t, errors.InvalidColumnError{}, err)
}

func TestFilter(t *testing.T) {
	data, err := New(threeColumnStream(t)).
		Filter(eval.Eq(eval.Col("A"), int64(1))).
		ToDataset()
	require.Nil(t, err)
	require.Equal(t, 3, data.NumRows())
	// row identifiers of surviving rows are preserved
	id, _ := data.Row(1)
	require.Equal(t, scrub.RowID(2), id)
}

func TestFilterCustomTruthValue(t *testing.T) {
	ds := testStream(t, []string{"flag"}, []scrub.Row{
		{"yes"}, {"no"}, {"yes"},
	})
	count, err := New(ds).Filter(eval.Col("flag"), "yes").Count()
	require.Nil(t, err)
	require.Equal(t, 2, count)
}

func TestWhere(t *testing.T) {
	data, err := New(threeColumnStream(t)).
		Where(eval.Eq(eval.Col("A"), int64(1)), 2).
		ToDataset()
	require.Nil(t, err)
	require.Equal(t, 2, data.NumRows())
}

func TestUpdateSingleColumn(t *testing.T) {
	data, err := New(threeColumnStream(t)).
		Update(scrub.Names("A"), eval.Add(eval.Col("A"), int64(10))).
		ToDataset()
	require.Nil(t, err)
	_, row := data.Row(0)
	require.Equal(t, scrub.Row{int64(11), int64(2), int64(3)}, row)
}

func TestUpdateMultipleColumns(t *testing.T) {
	swap := eval.Func(func(row scrub.Row) (scrub.Value, error) {
		return scrub.Tuple{row[1], row[0]}, nil
	})
	data, err := New(threeColumnStream(t)).
		Update(scrub.Names("A", "B"), swap).
		ToDataset()
	require.Nil(t, err)
	_, row := data.Row(0)
	require.Equal(t, scrub.Row{int64(2), int64(1), int64(3)}, row)
}

func TestUpdateCardinalityMismatch(t *testing.T) {
	_, err := New(threeColumnStream(t)).
		Update(scrub.Names("A", "B"), eval.Constant(int64(0))).
		ToDataset()
	require.IsType(t, errors.CardinalityError{}, err)
}

func TestDistinctCounts(t *testing.T) {
	counts, err := New(threeColumnStream(t)).Distinct()
	require.Nil(t, err)
	require.Equal(t, 2, counts.Len())
	require.Equal(t, 3, counts.Get(int64(1), int64(2), int64(3)))
	require.Equal(t, 2, counts.Get(int64(3), int64(4), int64(5)))
	require.Equal(t, 0, counts.Get(int64(9), int64(9), int64(9)))
}

func TestDistinctOverColumns(t *testing.T) {
	counts, err := New(threeColumnStream(t)).Distinct(scrub.Name("A"))
	require.Nil(t, err)
	require.Equal(t, 2, counts.Len())
	require.Equal(t, 3, counts.Get(int64(1)))
}

func TestChainedStagesSeeTransformedSchema(t *testing.T) {
	// the filter references column C by its position in the narrowed view
	data, err := New(threeColumnStream(t)).
		Select(scrub.Name("C"), scrub.Name("A")).
		Filter(eval.Gt(eval.Col("C"), int64(3))).
		ToDataset()
	require.Nil(t, err)
	require.Equal(t, 2, data.NumRows())
	_, row := data.Row(0)
	require.Equal(t, scrub.Row{int64(5), int64(3)}, row)
}

func TestPipelineImmutability(t *testing.T) {
	base := New(threeColumnStream(t)).Filter(eval.Eq(eval.Col("A"), int64(1)))
	limited := base.Limit(1)

	count, err := base.Count()
	require.Nil(t, err)
	require.Equal(t, 3, count)

	count, err = limited.Count()
	require.Nil(t, err)
	require.Equal(t, 1, count)
}

func TestStatisticsPrepareAgainstUpstreamView(t *testing.T) {
	// min/max scaling after a filter must use the filtered value range
	ds := testStream(t, []string{"v"}, []scrub.Row{
		{float64(0)}, {float64(5)}, {float64(10)}, {float64(100)},
	})
	data, err := New(ds).
		Filter(eval.Lt(eval.Col("v"), float64(50))).
		Update(scrub.Names("v"), eval.MinMaxScale(eval.Col("v"))).
		ToDataset()
	require.Nil(t, err)
	require.Equal(t, 3, data.NumRows())
	_, row := data.Row(2)
	require.Equal(t, float64(1), row[0])
}

func TestIterate(t *testing.T) {
	it, err := New(threeColumnStream(t)).
		Filter(eval.Eq(eval.Col("A"), int64(3))).
		Select(scrub.Name("B")).
		Iterate()
	require.Nil(t, err)

	var ids []scrub.RowID
	var values []scrub.Value
	for it.HasNext() {
		id, row, err := it.Next()
		require.Nil(t, err)
		ids = append(ids, id)
		values = append(values, row[0])
	}
	require.Nil(t, it.Close())
	require.Equal(t, []scrub.RowID{1, 3}, ids)
	require.Equal(t, []scrub.Value{int64(4), int64(4)}, values)

	_, _, err = it.Next()
	require.Equal(t, io.EOF, err)
}

func TestIterateWithLimitEndsNormally(t *testing.T) {
	it, err := New(threeColumnStream(t)).Limit(2).Iterate()
	require.Nil(t, err)
	rows := 0
	for it.HasNext() {
		_, _, err := it.Next()
		require.Nil(t, err)
		rows++
	}
	require.Equal(t, 2, rows)
	require.Nil(t, it.Close())
}

func TestWriteToFileAndReadBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := New(threeColumnStream(t)).
		Filter(eval.Eq(eval.Col("A"), int64(3))).
		Select(scrub.Name("B"), scrub.Name("C")).
		Write(dsv.CreateSink(path, nil))
	require.Nil(t, err)

	f, err := dsv.CreateFile(path, nil)
	require.Nil(t, err)
	require.Equal(t, []string{"B", "C"}, f.Columns())

	count, err := New(f).Count()
	require.Nil(t, err)
	require.Equal(t, 2, count)
}

func TestRunWithLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.CreateLogger(&buf, zerolog.DebugLevel)

	count, err := New(threeColumnStream(t)).
		WithLogger(logger).
		Limit(2).
		Count()
	require.Nil(t, err)
	require.Equal(t, 2, count)
	require.True(t, strings.Contains(buf.String(), "row limit reached"))
}

func TestFilterWarnsWhenNothingMatched(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.CreateLogger(&buf, zerolog.WarnLevel)

	count, err := New(threeColumnStream(t)).
		WithLogger(logger).
		Filter(eval.Eq(eval.Col("A"), int64(99))).
		Count()
	require.Nil(t, err)
	require.Equal(t, 0, count)
	require.True(t, strings.Contains(buf.String(), "never returned its truth value"))
}

func TestFilterNoWarningOnEmptyStream(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.CreateLogger(&buf, zerolog.WarnLevel)

	count, err := New(testStream(t, []string{"A"}, nil)).
		WithLogger(logger).
		Filter(eval.Eq(eval.Col("A"), int64(1))).
		Count()
	require.Nil(t, err)
	require.Equal(t, 0, count)
	require.Equal(t, "", buf.String())
}

func TestRunFailsFastOnBadPredicate(t *testing.T) {
	src := &countingStream{inner: threeColumnStream(t)}
	_, err := New(src).Filter(eval.Col("missing")).Count()
	require.IsType(t, errors.InvalidColumnError{}, err)
	require.Equal(t, 0, src.opens)
}

// countingStream records how often its row iterator was opened.
type countingStream struct {
	inner scrub.DatasetStream
	opens int
}

func (s *countingStream) Columns() []string { return s.inner.Columns() }

func (s *countingStream) Open() (scrub.RowIterator, error) {
	s.opens++
	return s.inner.Open()
}
