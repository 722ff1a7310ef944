package encoding

import (
	"errors"
	"fmt"
	"sort"

	"github.com/KaramelBytes/encodekit/internal/frame"
)

// DummyName is the indicator column name for one level of a feature.
func DummyName(feature, level string) string { return feature + "_" + level }

func (s *State) fitDummies(ds *frame.Dataset) {
	s.levels = make(map[string]DummyLevels, len(s.features))
	for _, f := range s.features {
		col, _ := ds.Column(f)
		seen := map[string]bool{}
		var distinct []string
		for _, l := range col.Strings() {
			if !seen[l] {
				seen[l] = true
				distinct = append(distinct, l)
			}
		}
		sort.Strings(distinct)
		var dl DummyLevels
		if len(distinct) > 0 {
			dl.Reference = distinct[0]
			dl.Levels = append([]string{}, distinct[1:]...)
		}
		s.levels[f] = dl
	}
}

func (s *State) transformDummies(ds *frame.Dataset) (*frame.Dataset, error) {
	out := ds
	for _, f := range s.features {
		col, err := out.Column(f)
		if err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
		labels := col.Strings()
		for _, level := range s.levels[f].Levels {
			name := DummyName(f, level)
			if out.Has(name) {
				return nil, fmt.Errorf("transform: indicator %q for %s collides with an existing column", name, f)
			}
			ind := make([]float64, len(labels))
			for i, l := range labels {
				if l == level {
					ind[i] = 1
				}
			}
			if out, err = out.With(frame.NewNumeric(name, ind)); err != nil {
				return nil, err
			}
		}
		out = out.Drop(f)
	}
	return out, nil
}

// InverseDummies rebuilds the original categorical columns from the
// indicator columns of a dummy encoding. A row with no indicator set maps
// back to the reference level.
func (s *State) InverseDummies(ds *frame.Dataset) (*frame.Dataset, error) {
	if s == nil || !s.fitted {
		return nil, &NotFittedError{}
	}
	if s.cfg.Kind != Dummy {
		return nil, errors.New("inverse is only defined for dummy encodings")
	}
	out := ds
	for _, f := range s.features {
		dl := s.levels[f]
		inds := make([][]float64, len(dl.Levels))
		names := make([]string, len(dl.Levels))
		for i, level := range dl.Levels {
			names[i] = DummyName(f, level)
			v, err := out.Floats(names[i])
			if err != nil {
				return nil, fmt.Errorf("inverse: %w", err)
			}
			inds[i] = v
		}
		labels := make([]string, out.Len())
		for r := range labels {
			labels[r] = dl.Reference
			hits := 0
			for i := range inds {
				if inds[i][r] == 1 {
					labels[r] = dl.Levels[i]
					hits++
				}
			}
			if hits > 1 {
				return nil, fmt.Errorf("inverse: row %d has %d indicators set for %s", r, hits, f)
			}
		}
		var err error
		if out, err = out.Drop(names...).With(frame.NewCategorical(f, labels)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
