package encoding

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KaramelBytes/encodekit/internal/frame"
)

// Kind selects the encoding strategy.
type Kind int

const (
	// Ordinal replaces categories by their rank in ascending metric order.
	Ordinal Kind = iota
	// Target replaces categories by their metric score.
	Target
	// Dummy replaces a feature by 0/1 indicator columns, one per non-reference level.
	Dummy
)

func (k Kind) String() string {
	switch k {
	case Ordinal:
		return "ordinal"
	case Target:
		return "target"
	case Dummy:
		return "dummy"
	default:
		return "unknown"
	}
}

// ParseKind resolves an encoder kind by name.
func ParseKind(name string) (Kind, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "ordinal":
		return Ordinal, nil
	case "target":
		return Target, nil
	case "dummy", "onehot", "one-hot":
		return Dummy, nil
	}
	return 0, fmt.Errorf("unknown encoder %q (use ordinal|target|dummy)", name)
}

// UnseenPolicy decides what group encoders do with categories absent at fit time.
type UnseenPolicy int

const (
	// UnseenError fails the transform with an UnseenCategoryError.
	UnseenError UnseenPolicy = iota
	// UnseenNaN encodes unseen categories as NaN.
	UnseenNaN
)

// Config describes an encoder. It is copied on use and never modified.
type Config struct {
	Kind Kind
	// Features to encode; empty means every categorical column.
	Features []string
	// Exclude lists columns removed before fitting and transforming.
	Exclude []string
	// Metric and Target apply to Ordinal and Target kinds only.
	Metric Metric
	Target string
	Unseen UnseenPolicy
}

// Option customizes a Config built by one of the constructors.
type Option func(*Config)

// WithFeatures restricts encoding to the named columns.
func WithFeatures(names ...string) Option {
	return func(c *Config) { c.Features = append([]string(nil), names...) }
}

// WithExclude removes the named columns before encoding.
func WithExclude(names ...string) Option {
	return func(c *Config) { c.Exclude = append([]string(nil), names...) }
}

// WithUnseen sets the unseen-category policy of group encoders.
func WithUnseen(p UnseenPolicy) Option {
	return func(c *Config) { c.Unseen = p }
}

// NewOrdinal configures rank encoding by metric of target.
func NewOrdinal(metric Metric, target string, opts ...Option) Config {
	return build(Config{Kind: Ordinal, Metric: metric, Target: target}, opts)
}

// NewTarget configures target encoding by metric of target.
func NewTarget(metric Metric, target string, opts ...Option) Config {
	return build(Config{Kind: Target, Metric: metric, Target: target}, opts)
}

// NewDummy configures dummy coding.
func NewDummy(opts ...Option) Config {
	return build(Config{Kind: Dummy}, opts)
}

func build(c Config, opts []Option) Config {
	for _, o := range opts {
		o(&c)
	}
	return c
}

func (c Config) grouped() bool { return c.Kind == Ordinal || c.Kind == Target }

func (c Config) validate() error {
	switch c.Kind {
	case Ordinal, Target:
		if !c.Metric.Valid() {
			return errors.New("group encoder requires a metric")
		}
		if c.Target == "" {
			return errors.New("group encoder requires a target column")
		}
	case Dummy:
	default:
		return fmt.Errorf("unknown encoder kind %d", c.Kind)
	}
	return nil
}

// String renders a descriptor identifying the encoder and its parameters.
func (c Config) String() string {
	features := "ALL"
	if len(c.Features) > 0 {
		features = "[" + strings.Join(c.Features, ", ") + "]"
	}
	exclude := ""
	if len(c.Exclude) > 0 {
		exclude = "[" + strings.Join(c.Exclude, ", ") + "]"
	}
	switch c.Kind {
	case Ordinal, Target:
		name := "OrdinalEncoder"
		if c.Kind == Target {
			name = "TargetEncoder"
		}
		if exclude != "" {
			return fmt.Sprintf("%s(metric=%s, target=%s, features=%s, exclude=%s)", name, c.Metric.Name(), c.Target, features, exclude)
		}
		return fmt.Sprintf("%s(metric=%s, target=%s, features=%s)", name, c.Metric.Name(), c.Target, features)
	default:
		if exclude == "" {
			exclude = "NONE"
		}
		return fmt.Sprintf("DummyEncoder(features=%s, exclude=%s)", features, exclude)
	}
}

// resolveFeatures picks the encoded columns of a dataset that already has
// excluded columns removed.
func (c Config) resolveFeatures(ds *frame.Dataset) []string {
	skip := make(map[string]bool, len(c.Exclude))
	for _, e := range c.Exclude {
		skip[e] = true
	}
	src := c.Features
	if len(src) == 0 {
		src = ds.CategoricalNames()
	}
	out := make([]string, 0, len(src))
	for _, f := range src {
		if !skip[f] {
			out = append(out, f)
		}
	}
	return out
}

// DummyLevels records the levels of one dummy-coded feature.
type DummyLevels struct {
	// Reference is the dropped (lexicographically smallest) level.
	Reference string
	// Levels are the retained levels, sorted, each becoming one indicator column.
	Levels []string
}

// State is a fitted encoding. It can only be produced by Fit; the zero value
// is unfitted and every operation on it fails with NotFittedError.
type State struct {
	cfg      Config
	fitted   bool
	features []string
	mapping  map[string]map[string]float64
	levels   map[string]DummyLevels
}

// Fit computes the mapping of cfg from ds. The dataset is not modified and
// the mapping is computed from scratch on every call.
func Fit(cfg Config, ds *frame.Dataset) (*State, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.Features = append([]string(nil), cfg.Features...)
	cfg.Exclude = append([]string(nil), cfg.Exclude...)
	view := ds.Drop(cfg.Exclude...)
	st := &State{cfg: cfg, features: cfg.resolveFeatures(view)}
	for _, f := range st.features {
		if !view.Has(f) {
			return nil, fmt.Errorf("fit %s: %w", cfg.Kind, &frame.MissingColumnError{Name: f})
		}
	}
	var err error
	if cfg.grouped() {
		err = st.fitGroups(view)
	} else {
		st.fitDummies(view)
	}
	if err != nil {
		return nil, err
	}
	st.fitted = true
	return st, nil
}

// Config returns the configuration the state was fitted with.
func (s *State) Config() Config { return s.cfg }

// Features returns the resolved list of encoded columns.
func (s *State) Features() []string { return append([]string(nil), s.features...) }

// Mapping returns a copy of the category replacements of a group-encoded feature.
func (s *State) Mapping(feature string) (map[string]float64, bool) {
	m, ok := s.mapping[feature]
	if !ok {
		return nil, false
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out, true
}

// Levels returns the dummy levels of a feature.
func (s *State) Levels(feature string) (DummyLevels, bool) {
	l, ok := s.levels[feature]
	if !ok {
		return DummyLevels{}, false
	}
	return DummyLevels{Reference: l.Reference, Levels: append([]string(nil), l.Levels...)}, true
}

// Transform applies the fitted encoding to ds and returns a new dataset.
// Excluded columns are dropped and columns that are not encoded pass through.
func (s *State) Transform(ds *frame.Dataset) (*frame.Dataset, error) {
	if s == nil || !s.fitted {
		return nil, &NotFittedError{}
	}
	out := ds.Drop(s.cfg.Exclude...)
	if s.cfg.grouped() {
		return s.transformGroups(out)
	}
	return s.transformDummies(out)
}

// Encoder pairs a configuration with its most recent fit, for callers that
// want the fit-then-transform object style.
type Encoder struct {
	cfg   Config
	state *State
}

// New returns an unfitted encoder.
func New(cfg Config) *Encoder { return &Encoder{cfg: cfg} }

// Fit replaces the encoder's state with a fit on ds. On error the previous
// state is kept.
func (e *Encoder) Fit(ds *frame.Dataset) error {
	st, err := Fit(e.cfg, ds)
	if err != nil {
		return err
	}
	e.state = st
	return nil
}

// Fitted reports whether Fit has succeeded at least once.
func (e *Encoder) Fitted() bool { return e.state != nil }

// State returns the current fit, or nil before Fit.
func (e *Encoder) State() *State { return e.state }

// Transform encodes ds with the current fit.
func (e *Encoder) Transform(ds *frame.Dataset) (*frame.Dataset, error) {
	if e.state == nil {
		return nil, &NotFittedError{Encoder: e.String()}
	}
	return e.state.Transform(ds)
}

// FitTransform fits on ds and returns its encoding.
func (e *Encoder) FitTransform(ds *frame.Dataset) (*frame.Dataset, error) {
	if err := e.Fit(ds); err != nil {
		return nil, err
	}
	return e.Transform(ds)
}

func (e *Encoder) String() string { return e.cfg.String() }
