package analysis

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/moltherm/moltherm/pkg/errors"
)

// Dataset is a regression problem loaded from disk: descriptor rows and the
// target column, plus the descriptor names from the header.
type Dataset struct {
	Names []string
	X     [][]float64
	Y     []float64
}

// LoadCSV reads a regression dataset from a CSV file.  The first row is a
// header; every following row holds descriptor values with the target in the
// last column.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetInvalid, "failed to open dataset").
			WithDetail(path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeDatasetInvalid, "failed to read dataset").
			WithDetail(path)
	}
	if len(rows) < 2 {
		return nil, errors.New(errors.ErrCodeDatasetInvalid, "dataset needs a header and at least one row").
			WithDetail(path)
	}
	header := rows[0]
	if len(header) < 2 {
		return nil, errors.New(errors.ErrCodeDatasetInvalid, "dataset needs at least one descriptor and a target column").
			WithDetail(path)
	}

	ds := &Dataset{Names: header[:len(header)-1]}
	for i, row := range rows[1:] {
		if len(row) != len(header) {
			return nil, errors.Newf(errors.ErrCodeDatasetInvalid,
				"row %d has %d columns, expected %d", i+2, len(row), len(header))
		}
		vals := make([]float64, len(row))
		for j, cell := range row {
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.Newf(errors.ErrCodeDatasetInvalid,
					"row %d column %d: %q is not a number", i+2, j+1, cell)
			}
			vals[j] = v
		}
		ds.X = append(ds.X, vals[:len(vals)-1])
		ds.Y = append(ds.Y, vals[len(vals)-1])
	}
	return ds, nil
}
