package recording

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	apperrors "github.com/agbru/sigvalid/internal/errors"
)

// ReadCSV decodes a matrix laid out one sample per row and one channel per
// column. The first row is taken as the channel names when none of its
// cells is a number. Lines starting with '#' are ignored.
func ReadCSV(r io.Reader, sampleRate float64) (Matrix, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	var (
		names    []string
		channels [][]float64
		row      int
	)
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Matrix{}, apperrors.ValidationError{Field: "csv", Message: err.Error()}
		}
		row++

		if row == 1 && isHeader(record) {
			names = trimAll(record)
			continue
		}
		values, parseErr := parseRow(record)
		if parseErr != nil {
			return Matrix{}, apperrors.ValidationError{
				Field:   "csv",
				Message: fmt.Sprintf("row %d: %v", row, parseErr),
			}
		}
		if channels == nil {
			channels = make([][]float64, len(values))
		}
		for i, v := range values {
			channels[i] = append(channels[i], v)
		}
	}

	if channels == nil {
		return Matrix{}, apperrors.ValidationError{Field: "csv", Message: "no samples found"}
	}
	return NewMatrix(channels, sampleRate, names)
}

// LoadCSV reads a matrix from a CSV file on disk.
func LoadCSV(path string, sampleRate float64) (Matrix, error) {
	f, err := os.Open(path)
	if err != nil {
		return Matrix{}, apperrors.IOError{Op: "open signal", Path: path, Cause: err}
	}
	defer f.Close()

	m, err := ReadCSV(f, sampleRate)
	if err != nil {
		return Matrix{}, apperrors.WrapError(err, "read %s", path)
	}
	return m, nil
}

// WriteCSV encodes m with a header row of channel labels.
func WriteCSV(w io.Writer, m Matrix) error {
	cw := csv.NewWriter(w)

	header := make([]string, m.NumChannels())
	for i := range header {
		header[i] = m.Label(i)
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	record := make([]string, m.NumChannels())
	for s := 0; s < m.Samples(); s++ {
		for c := range record {
			record[c] = strconv.FormatFloat(m.Channels[c][s], 'g', -1, 64)
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func parseRow(record []string) ([]float64, error) {
	values := make([]float64, len(record))
	for i, cell := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %q is not a number", i, cell)
		}
		values[i] = v
	}
	return values, nil
}

func trimAll(record []string) []string {
	out := make([]string, len(record))
	for i, s := range record {
		out[i] = strings.TrimSpace(s)
	}
	return out
}

// isHeader reports whether no cell of record parses as a number.
func isHeader(record []string) bool {
	for _, cell := range record {
		if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err == nil {
			return false
		}
	}
	return true
}
