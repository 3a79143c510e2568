package groupby

import (
	"github.com/go-scrub/scrub"
	"github.com/go-scrub/scrub/dataset"
	"github.com/go-scrub/scrub/errors"
)

// GroupFunc reduces one group sub-dataset to an aggregate value. A scalar
// result produces a single output column; a []NamedValue result fans out
// into one column per name.
type GroupFunc func(group *dataset.Dataset) (scrub.Value, error)

// SeriesFunc reduces the values of one column within a group to an
// aggregate value.
type SeriesFunc func(values []scrub.Value) (scrub.Value, error)

// NamedValue is one column of a multi-column aggregate result.
type NamedValue struct {
	Column string
	Value  scrub.Value
}

// GroupAggregate names an aggregation over whole group sub-datasets. The
// name becomes the output column for scalar results.
type GroupAggregate struct {
	Name string
	Func GroupFunc
}

// ColumnAggregate applies a series function to one column of each group.
// The input column name doubles as the output column name.
type ColumnAggregate struct {
	Column string
	Func   SeriesFunc
}

// Aggregate reduces every group with a single function, producing one
// output row per group key. Output rows start with the group key columns,
// followed by the aggregate columns. The optional output schema renames the
// aggregate columns and must match their number exactly.
func Aggregate(groups *Grouping, agg GroupAggregate, outSchema []string) (*dataset.Dataset, error) {
	var columns []string
	var result *dataset.Dataset
	id := scrub.RowID(0)
	err := groups.Each(func(key scrub.Tuple, group *dataset.Dataset) error {
		val, err := agg.Func(group)
		if err != nil {
			return err
		}
		names, values := fanOut(agg.Name, val)
		if columns == nil {
			columns, err = aggregateColumns(groups, names, outSchema)
			if err != nil {
				return err
			}
			result, err = dataset.CreateDataset(columns...)
			if err != nil {
				return err
			}
		} else if len(values) != len(columns)-len(groups.KeyColumns()) {
			return errors.CardinalityError{Expected: len(columns) - len(groups.KeyColumns()), Actual: len(values)}
		}
		row := append(append(scrub.Row{}, key...), values...)
		if err := result.Append(id, row); err != nil {
			return err
		}
		id++
		return nil
	})
	if err != nil {
		return nil, err
	}
	if result == nil {
		// no groups: the output holds the key columns plus one column per
		// schema entry, or the function name for a scalar aggregate
		names := []string{agg.Name}
		columns, err := aggregateColumns(groups, names, outSchema)
		if err != nil {
			return nil, err
		}
		return dataset.CreateDataset(columns...)
	}
	return result, nil
}

// AggregateColumns reduces every group with one series function per input
// column, producing one output row per group key. Output rows start with
// the group key columns, followed by one aggregate column per entry, in
// declaration order. The optional output schema renames the aggregate
// columns and must match their number exactly.
func AggregateColumns(groups *Grouping, aggs []ColumnAggregate, outSchema []string) (*dataset.Dataset, error) {
	names := make([]string, len(aggs))
	for i, agg := range aggs {
		names[i] = agg.Column
	}
	columns, err := aggregateColumns(groups, names, outSchema)
	if err != nil {
		return nil, err
	}
	result, err := dataset.CreateDataset(columns...)
	if err != nil {
		return nil, err
	}
	id := scrub.RowID(0)
	err = groups.Each(func(key scrub.Tuple, group *dataset.Dataset) error {
		row := append(scrub.Row{}, key...)
		for _, agg := range aggs {
			series, err := group.Column(scrub.Name(agg.Column))
			if err != nil {
				return err
			}
			val, err := agg.Func(series)
			if err != nil {
				return err
			}
			row = append(row, val)
		}
		if err := result.Append(id, row); err != nil {
			return err
		}
		id++
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// fanOut expands an aggregate result into output column names and values.
func fanOut(name string, val scrub.Value) ([]string, []scrub.Value) {
	if named, ok := val.([]NamedValue); ok {
		names := make([]string, len(named))
		values := make([]scrub.Value, len(named))
		for i, nv := range named {
			names[i] = nv.Column
			values[i] = nv.Value
		}
		return names, values
	}
	return []string{name}, []scrub.Value{val}
}

// aggregateColumns builds the output schema: key columns followed by the
// aggregate columns, with the user-supplied schema overriding the latter.
// A schema of mismatched length is a configuration error.
func aggregateColumns(groups *Grouping, names []string, outSchema []string) ([]string, error) {
	if outSchema != nil {
		if len(outSchema) != len(names) {
			return nil, errors.SchemaMismatchError{Expected: len(names), Actual: len(outSchema)}
		}
		names = outSchema
	}
	return append(groups.KeyColumns(), names...), nil
}
