package encoding

import (
	"fmt"
	"math"
	"sort"

	"github.com/KaramelBytes/encodekit/internal/frame"
)

type score struct {
	key   string
	value float64
}

// lessScore orders ascending with NaN first so equal NaNs end up adjacent.
func lessScore(a, b float64) bool {
	if math.IsNaN(a) {
		return !math.IsNaN(b)
	}
	return a < b
}

func sameScore(a, b float64) bool {
	return a == b || (math.IsNaN(a) && math.IsNaN(b))
}

func (s *State) fitGroups(ds *frame.Dataset) error {
	s.mapping = make(map[string]map[string]float64, len(s.features))
	for _, f := range s.features {
		groups, err := ds.GroupValues(f, s.cfg.Target)
		if err != nil {
			return fmt.Errorf("group %s by %s: %w", s.cfg.Target, f, err)
		}
		scores := make([]score, len(groups))
		for i, g := range groups {
			scores[i] = score{key: g.Key, value: s.cfg.Metric.Apply(g.Values)}
		}
		sort.SliceStable(scores, func(i, j int) bool { return lessScore(scores[i].value, scores[j].value) })
		for i := 1; i < len(scores); i++ {
			if sameScore(scores[i-1].value, scores[i].value) {
				return &NotUniqueError{Feature: f, Target: s.cfg.Target, Metric: s.cfg.Metric.Name()}
			}
		}
		m := make(map[string]float64, len(scores))
		for rank, sc := range scores {
			if s.cfg.Kind == Ordinal {
				m[sc.key] = float64(rank)
			} else {
				m[sc.key] = sc.value
			}
		}
		s.mapping[f] = m
	}
	return nil
}

func (s *State) transformGroups(ds *frame.Dataset) (*frame.Dataset, error) {
	out := ds
	for _, f := range s.features {
		col, err := out.Column(f)
		if err != nil {
			return nil, fmt.Errorf("transform: %w", err)
		}
		m := s.mapping[f]
		labels := col.Strings()
		vals := make([]float64, len(labels))
		for i, l := range labels {
			v, ok := m[l]
			if !ok {
				if s.cfg.Unseen == UnseenNaN {
					v = math.NaN()
				} else {
					return nil, &UnseenCategoryError{Feature: f, Value: l}
				}
			}
			vals[i] = v
		}
		if out, err = out.With(frame.NewNumeric(f, vals)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
