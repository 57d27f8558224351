package loader

import (
	"fmt"
	"io"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/pable/go-ignobel-metrics/internal/model"
)

// WriteCSV writes rows with one column per field, header first. Every field
// is written even when rows is empty.
func WriteCSV[T any](w io.Writer, fields []model.Field[T], rows []T) error {
	var zero T
	cols := make([]series.Series, 0, len(fields))
	for _, f := range fields {
		switch f.Ref(&zero).(type) {
		case *int:
			vals := make([]int, len(rows))
			for i := range rows {
				vals[i] = *f.Ref(&rows[i]).(*int)
			}
			cols = append(cols, series.New(vals, series.Int, f.Name))
		case *int64:
			vals := make([]int, len(rows))
			for i := range rows {
				vals[i] = int(*f.Ref(&rows[i]).(*int64))
			}
			cols = append(cols, series.New(vals, series.Int, f.Name))
		case *float64:
			vals := make([]float64, len(rows))
			for i := range rows {
				vals[i] = *f.Ref(&rows[i]).(*float64)
			}
			cols = append(cols, series.New(vals, series.Float, f.Name))
		case *string:
			vals := make([]string, len(rows))
			for i := range rows {
				vals[i] = *f.Ref(&rows[i]).(*string)
			}
			cols = append(cols, series.New(vals, series.String, f.Name))
		default:
			return fmt.Errorf("column %s: unsupported type %T", f.Name, f.Ref(&zero))
		}
	}
	df := dataframe.New(cols...)
	if df.Err != nil {
		return fmt.Errorf("build table: %w", df.Err)
	}
	if err := df.WriteCSV(w); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}
