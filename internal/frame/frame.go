package frame

import (
	"fmt"
	"strconv"
)

// Kind is the storage type of a column.
type Kind int

const (
	Numeric Kind = iota
	Categorical
)

func (k Kind) String() string {
	switch k {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	default:
		return "unknown"
	}
}

// Column is a named vector of either float64 or string values.
type Column struct {
	Name   string
	Kind   Kind
	Floats []float64
	Labels []string
}

// NewNumeric builds a numeric column. The values slice is not copied.
func NewNumeric(name string, values []float64) Column {
	return Column{Name: name, Kind: Numeric, Floats: values}
}

// NewCategorical builds a categorical column. The values slice is not copied.
func NewCategorical(name string, values []string) Column {
	return Column{Name: name, Kind: Categorical, Labels: values}
}

// Len returns the number of values in the column.
func (c Column) Len() int {
	if c.Kind == Numeric {
		return len(c.Floats)
	}
	return len(c.Labels)
}

// Strings returns the column as category labels. Numeric values are
// formatted in their shortest round-trip form.
func (c Column) Strings() []string {
	if c.Kind == Categorical {
		return c.Labels
	}
	out := make([]string, len(c.Floats))
	for i, v := range c.Floats {
		out[i] = FormatFloat(v)
	}
	return out
}

func (c Column) clone() Column {
	out := Column{Name: c.Name, Kind: c.Kind}
	if c.Floats != nil {
		out.Floats = append([]float64(nil), c.Floats...)
	}
	if c.Labels != nil {
		out.Labels = append([]string(nil), c.Labels...)
	}
	return out
}

// FormatFloat renders v so that parsing it back yields the same value.
func FormatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }

// MissingColumnError reports a lookup of a column that is not in the dataset.
type MissingColumnError struct{ Name string }

func (e *MissingColumnError) Error() string { return fmt.Sprintf("column %q not found", e.Name) }

// KindError reports a column whose kind does not suit the operation.
type KindError struct {
	Name string
	Want Kind
}

func (e *KindError) Error() string {
	return fmt.Sprintf("column %q is not %s", e.Name, e.Want)
}

// Dataset is an in-memory table of equally long, uniquely named columns.
// Operations never mutate the receiver; they return new datasets.
type Dataset struct {
	cols  []Column
	index map[string]int
	rows  int
}

// New builds a dataset from columns, rejecting duplicate names and ragged lengths.
func New(cols ...Column) (*Dataset, error) {
	d := &Dataset{index: make(map[string]int, len(cols))}
	for i, c := range cols {
		if _, dup := d.index[c.Name]; dup {
			return nil, fmt.Errorf("duplicate column %q", c.Name)
		}
		if i == 0 {
			d.rows = c.Len()
		} else if c.Len() != d.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", c.Name, c.Len(), d.rows)
		}
		d.index[c.Name] = i
		d.cols = append(d.cols, c)
	}
	return d, nil
}

// MustNew is New for fixtures known to be valid.
func MustNew(cols ...Column) *Dataset {
	d, err := New(cols...)
	if err != nil {
		panic(err)
	}
	return d
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return d.rows }

// Width returns the number of columns.
func (d *Dataset) Width() int { return len(d.cols) }

// Names returns the column names in order.
func (d *Dataset) Names() []string {
	out := make([]string, len(d.cols))
	for i, c := range d.cols {
		out[i] = c.Name
	}
	return out
}

// Has reports whether the dataset has a column called name.
func (d *Dataset) Has(name string) bool {
	_, ok := d.index[name]
	return ok
}

// Column returns the named column. The returned slices alias the dataset.
func (d *Dataset) Column(name string) (Column, error) {
	i, ok := d.index[name]
	if !ok {
		return Column{}, &MissingColumnError{Name: name}
	}
	return d.cols[i], nil
}

// Columns returns the columns in order.
func (d *Dataset) Columns() []Column { return append([]Column(nil), d.cols...) }

// Floats returns the values of a numeric column.
func (d *Dataset) Floats(name string) ([]float64, error) {
	c, err := d.Column(name)
	if err != nil {
		return nil, err
	}
	if c.Kind != Numeric {
		return nil, &KindError{Name: name, Want: Numeric}
	}
	return c.Floats, nil
}

// CategoricalNames returns the names of categorical columns in order.
func (d *Dataset) CategoricalNames() []string { return d.namesOf(Categorical) }

// NumericNames returns the names of numeric columns in order.
func (d *Dataset) NumericNames() []string { return d.namesOf(Numeric) }

func (d *Dataset) namesOf(k Kind) []string {
	var out []string
	for _, c := range d.cols {
		if c.Kind == k {
			out = append(out, c.Name)
		}
	}
	return out
}

// Drop returns a copy without the named columns. Absent names are ignored.
func (d *Dataset) Drop(names ...string) *Dataset {
	skip := make(map[string]bool, len(names))
	for _, n := range names {
		skip[n] = true
	}
	out := &Dataset{index: map[string]int{}, rows: d.rows}
	for _, c := range d.cols {
		if skip[c.Name] {
			continue
		}
		out.index[c.Name] = len(out.cols)
		out.cols = append(out.cols, c.clone())
	}
	return out
}

// Select returns a copy with only the named columns, in the given order.
func (d *Dataset) Select(names ...string) (*Dataset, error) {
	cols := make([]Column, 0, len(names))
	for _, n := range names {
		c, err := d.Column(n)
		if err != nil {
			return nil, err
		}
		cols = append(cols, c.clone())
	}
	out, err := New(cols...)
	if err != nil {
		return nil, err
	}
	if len(cols) == 0 {
		out.rows = d.rows
	}
	return out, nil
}

// With returns a copy where col replaces the column of the same name,
// or is appended when no such column exists.
func (d *Dataset) With(col Column) (*Dataset, error) {
	if len(d.cols) > 0 && col.Len() != d.rows {
		return nil, fmt.Errorf("column %q has %d rows, want %d", col.Name, col.Len(), d.rows)
	}
	out := d.Clone()
	if i, ok := out.index[col.Name]; ok {
		out.cols[i] = col
		return out, nil
	}
	if len(out.cols) == 0 {
		out.rows = col.Len()
	}
	out.index[col.Name] = len(out.cols)
	out.cols = append(out.cols, col)
	return out, nil
}

// Clone returns a deep copy.
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{index: make(map[string]int, len(d.cols)), rows: d.rows}
	for i, c := range d.cols {
		out.index[c.Name] = i
		out.cols = append(out.cols, c.clone())
	}
	return out
}

// Rows returns a copy holding only the given row positions, in order.
func (d *Dataset) Rows(idx []int) *Dataset {
	out := &Dataset{index: make(map[string]int, len(d.cols)), rows: len(idx)}
	for i, c := range d.cols {
		nc := Column{Name: c.Name, Kind: c.Kind}
		if c.Kind == Numeric {
			nc.Floats = make([]float64, len(idx))
			for j, r := range idx {
				nc.Floats[j] = c.Floats[r]
			}
		} else {
			nc.Labels = make([]string, len(idx))
			for j, r := range idx {
				nc.Labels[j] = c.Labels[r]
			}
		}
		out.index[c.Name] = i
		out.cols = append(out.cols, nc)
	}
	return out
}

// Group holds the target values of every row sharing one category.
type Group struct {
	Key    string
	Values []float64
}

// GroupValues groups the numeric target column by the categories of column by.
// Groups are returned in order of first appearance.
func (d *Dataset) GroupValues(by, target string) ([]Group, error) {
	bc, err := d.Column(by)
	if err != nil {
		return nil, err
	}
	tv, err := d.Floats(target)
	if err != nil {
		return nil, err
	}
	keys := bc.Strings()
	pos := map[string]int{}
	var groups []Group
	for i, k := range keys {
		g, ok := pos[k]
		if !ok {
			g = len(groups)
			pos[k] = g
			groups = append(groups, Group{Key: k})
		}
		groups[g].Values = append(groups[g].Values, tv[i])
	}
	return groups, nil
}

// Matrix returns the named numeric columns as row-major feature vectors.
func (d *Dataset) Matrix(names ...string) ([][]float64, error) {
	if len(names) == 0 {
		names = d.Names()
	}
	cols := make([][]float64, len(names))
	for j, n := range names {
		v, err := d.Floats(n)
		if err != nil {
			return nil, err
		}
		cols[j] = v
	}
	out := make([][]float64, d.rows)
	for i := range out {
		row := make([]float64, len(cols))
		for j := range cols {
			row[j] = cols[j][i]
		}
		out[i] = row
	}
	return out, nil
}
