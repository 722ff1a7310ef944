package encoding

import "github.com/KaramelBytes/encodekit/internal/frame"

// Dummify dummy-codes features of ds in one call, after dropping exclude.
// Empty features means every categorical column.
func Dummify(features []string, ds *frame.Dataset, exclude []string) (*frame.Dataset, error) {
	return fitTransform(NewDummy(WithFeatures(features...), WithExclude(exclude...)), ds)
}

// OrdinalEncode rank-encodes features of ds by metric of target in one call.
func OrdinalEncode(features []string, ds *frame.Dataset, metric Metric, target string) (*frame.Dataset, error) {
	return fitTransform(NewOrdinal(metric, target, WithFeatures(features...)), ds)
}

func fitTransform(cfg Config, ds *frame.Dataset) (*frame.Dataset, error) {
	st, err := Fit(cfg, ds)
	if err != nil {
		return nil, err
	}
	return st.Transform(ds)
}
