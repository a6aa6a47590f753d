// SPDX-License-Identifier: MIT

package bench

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"time"
)

// Columns is the results file header, in order.
var Columns = []string{"matrix_size", "processes", "sequential_time", "distributed_time", "speedup", "efficiency"}

func recordRow(r TimingRecord) []string {
	return []string{
		strconv.Itoa(r.MatrixSize),
		strconv.Itoa(r.ProcessCount),
		strconv.FormatFloat(r.SequentialTime.Seconds(), 'f', -1, 64),
		strconv.FormatFloat(r.DistributedTime.Seconds(), 'f', -1, 64),
		strconv.FormatFloat(r.Speedup, 'f', -1, 64),
		strconv.FormatFloat(r.Efficiency, 'f', -1, 64),
	}
}

// WriteCSV writes the header and one row per record. Times are in seconds.
func WriteCSV(w io.Writer, recs []TimingRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("bench: WriteCSV: %w", err)
	}
	for _, r := range recs {
		if err := cw.Write(recordRow(r)); err != nil {
			return fmt.Errorf("bench: WriteCSV: %w", err)
		}
	}
	cw.Flush()

	return cw.Error()
}

// AppendCSV appends rec to the file at path, writing the header first when
// the file does not exist yet.
func AppendCSV(path string, rec TimingRecord) error {
	_, statErr := os.Stat(path)
	fresh := errors.Is(statErr, os.ErrNotExist)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("bench: AppendCSV: %w", err)
	}
	cw := csv.NewWriter(f)
	if fresh {
		if err = cw.Write(Columns); err != nil {
			_ = f.Close()

			return fmt.Errorf("bench: AppendCSV: %w", err)
		}
	}
	if err = cw.Write(recordRow(rec)); err != nil {
		_ = f.Close()

		return fmt.Errorf("bench: AppendCSV: %w", err)
	}
	cw.Flush()
	if err = cw.Error(); err != nil {
		_ = f.Close()

		return fmt.Errorf("bench: AppendCSV: %w", err)
	}

	return f.Close()
}

// ReadCSV parses a results file written by WriteCSV or AppendCSV. Derived
// fields are taken from the file; Superlinear is recomputed.
func ReadCSV(r io.Reader) ([]TimingRecord, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(Columns)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBadCSV, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	for i, col := range Columns {
		if rows[0][i] != col {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrBadCSV, i, rows[0][i], col)
		}
	}

	out := make([]TimingRecord, 0, len(rows)-1)
	for line, row := range rows[1:] {
		rec, err := parseRow(row)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", ErrBadCSV, line+2, err)
		}
		out = append(out, rec)
	}

	return out, nil
}

func parseRow(row []string) (TimingRecord, error) {
	var (
		rec  TimingRecord
		err  error
		f    [4]float64
		errs []error
	)
	rec.MatrixSize, err = strconv.Atoi(row[0])
	errs = append(errs, err)
	rec.ProcessCount, err = strconv.Atoi(row[1])
	errs = append(errs, err)
	for i := range f {
		f[i], err = strconv.ParseFloat(row[2+i], 64)
		errs = append(errs, err)
	}
	if err = errors.Join(errs...); err != nil {
		return TimingRecord{}, err
	}
	rec.SequentialTime = secondsToDuration(f[0])
	rec.DistributedTime = secondsToDuration(f[1])
	rec.Speedup, rec.Efficiency = f[2], f[3]
	rec.Superlinear = rec.Efficiency > 1

	return rec, nil
}

func secondsToDuration(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
