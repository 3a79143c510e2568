package groupby

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/errors"
)

func TestCountSkipsNil(t *testing.T) {
	count, err := Count()([]scrub.Value{int64(1), nil, int64(2)})
	require.Nil(t, err)
	require.Equal(t, int64(2), count)
}

func TestSum(t *testing.T) {
	total, err := Sum()([]scrub.Value{int64(1), float64(2.5), nil})
	require.Nil(t, err)
	require.Equal(t, float64(3.5), total)

	_, err = Sum()([]scrub.Value{"not a number"})
	require.IsType(t, errors.DataError{}, err)
}

func TestMean(t *testing.T) {
	mean, err := Mean()([]scrub.Value{int64(2), int64(4), nil})
	require.Nil(t, err)
	require.Equal(t, float64(3), mean)

	mean, err = Mean()([]scrub.Value{nil, nil})
	require.Nil(t, err)
	require.Nil(t, mean)
}

func TestMinMax(t *testing.T) {
	min, err := Min()([]scrub.Value{int64(3), nil, int64(1), int64(2)})
	require.Nil(t, err)
	require.Equal(t, int64(1), min)

	max, err := Max()([]scrub.Value{"a", "c", "b"})
	require.Nil(t, err)
	require.Equal(t, "c", max)
}

func TestFirst(t *testing.T) {
	first, err := First()([]scrub.Value{"x", "y"})
	require.Nil(t, err)
	require.Equal(t, "x", first)

	first, err = First()(nil)
	require.Nil(t, err)
	require.Nil(t, first)
}

func TestComposeFansOut(t *testing.T) {
	groups, err := GroupBy(salesTable(t), scrub.Name("region"))
	require.Nil(t, err)

	result, err := Aggregate(groups, Compose(
		ColumnAggregate{Column: "amount", Func: Sum()},
		ColumnAggregate{Column: "product", Func: Count()},
	), nil)
	require.Nil(t, err)
	require.Equal(t, []string{"region", "amount", "product"}, result.Columns())
	_, row := result.Row(0)
	require.Equal(t, scrub.Row{"east", float64(45), int64(3)}, row)
}
