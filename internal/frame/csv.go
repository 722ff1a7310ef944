package frame

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/KaramelBytes/encodekit/internal/utils"
)

// Options controls how CSV files are read into a Dataset.
type Options struct {
	// Delimiter for CSV. If 0, picks '\t' for .tsv files and ',' otherwise.
	Delimiter rune
	// IndexColumn drops the first column, treating it as a row label.
	IndexColumn bool
	// MaxRows limits rows read; 0 means unlimited.
	MaxRows int
	// Numeric parsing locale. If DecimalSeparator is 0, auto-detect per value.
	DecimalSeparator   rune
	ThousandsSeparator rune
}

// ReadCSV loads a delimited file. A column is numeric when every non-empty
// cell parses as a number; empty cells in numeric columns become NaN.
func ReadCSV(path string, opt Options) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()
	delim := opt.Delimiter
	if delim == 0 {
		delim = sniffDelimiter(path)
	}
	return Read(f, delim, opt)
}

// Read parses delimited records from r. The first record is the header.
func Read(r io.Reader, delim rune, opt Options) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.Comma = delim

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return MustNew(), nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)
	start := 0
	if opt.IndexColumn && len(header) > 0 {
		start = 1
	}
	ncol := len(header) - start
	raw := make([][]string, ncol)
	maxRows := opt.MaxRows
	if maxRows <= 0 {
		maxRows = math.MaxInt
	}
	rows := 0
	for rows < maxRows {
		rec, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("read row %d: %w", rows+1, err)
		}
		for j := 0; j < ncol; j++ {
			v := ""
			if start+j < len(rec) {
				v = strings.TrimSpace(rec[start+j])
			}
			raw[j] = append(raw[j], v)
		}
		rows++
	}

	cols := make([]Column, ncol)
	for j := 0; j < ncol; j++ {
		name := strings.TrimSpace(header[start+j])
		if raw[j] == nil {
			raw[j] = []string{}
		}
		if nums, ok := parseColumn(raw[j], opt); ok {
			cols[j] = NewNumeric(name, nums)
		} else {
			cols[j] = NewCategorical(name, raw[j])
		}
	}
	return New(cols...)
}

func parseColumn(vals []string, opt Options) ([]float64, bool) {
	out := make([]float64, len(vals))
	seen := 0
	for i, v := range vals {
		if v == "" {
			out[i] = math.NaN()
			continue
		}
		x, ok := parseNumeric(v, opt)
		if !ok {
			return nil, false
		}
		out[i] = x
		seen++
	}
	return out, seen > 0
}

// WriteCSV writes ds as comma-separated text. When withIndex is set the
// first column holds the row position under an empty header.
func WriteCSV(path string, ds *Dataset, withIndex bool) error {
	var buf bytes.Buffer
	if err := Write(&buf, ds, withIndex); err != nil {
		return err
	}
	return utils.SafeWriteFile(path, buf.Bytes())
}

// Write renders ds as comma-separated text to w.
func Write(w io.Writer, ds *Dataset, withIndex bool) error {
	cw := csv.NewWriter(w)
	header := ds.Names()
	if withIndex {
		header = append([]string{""}, header...)
	}
	if err := cw.Write(header); err != nil {
		return err
	}
	for i := 0; i < ds.Len(); i++ {
		rec := make([]string, 0, len(header))
		if withIndex {
			rec = append(rec, strconv.Itoa(i))
		}
		for _, c := range ds.cols {
			if c.Kind == Numeric {
				if math.IsNaN(c.Floats[i]) {
					rec = append(rec, "")
				} else {
					rec = append(rec, FormatFloat(c.Floats[i]))
				}
			} else {
				rec = append(rec, c.Labels[i])
			}
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func sniffDelimiter(path string) rune {
	if strings.HasSuffix(strings.ToLower(path), ".tsv") {
		return '\t'
	}
	return ','
}

func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.ReplaceAll(strings.TrimSpace(s), "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	dec := opt.DecimalSeparator
	thou := opt.ThousandsSeparator
	if dec == 0 {
		cpos := strings.LastIndex(raw, ",")
		dpos := strings.LastIndex(raw, ".")
		if cpos >= 0 && dpos >= 0 {
			if cpos > dpos {
				dec, thou = ',', '.'
			} else {
				dec, thou = '.', ','
			}
		} else if cpos >= 0 {
			dec = ','
		} else {
			dec = '.'
		}
	}
	if thou != 0 && thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}
