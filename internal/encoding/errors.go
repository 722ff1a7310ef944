package encoding

import "fmt"

// NotUniqueError indicates two or more categories of a feature share the
// same metric score, so a group encoding would be ambiguous.
type NotUniqueError struct {
	Feature string
	Target  string
	Metric  string
}

func (e *NotUniqueError) Error() string {
	return fmt.Sprintf("encoding cannot be fitted with these parameters as two or more groups of %s have the same %s %s",
		e.Feature, e.Target, e.Metric)
}

// NotFittedError indicates Transform was called before Fit.
type NotFittedError struct{ Encoder string }

func (e *NotFittedError) Error() string {
	if e.Encoder == "" {
		return "encoder is not fitted"
	}
	return fmt.Sprintf("%s is not fitted", e.Encoder)
}

// UnseenCategoryError indicates a group encoder met a category at transform
// time that was absent from the fitting data.
type UnseenCategoryError struct {
	Feature string
	Value   string
}

func (e *UnseenCategoryError) Error() string {
	return fmt.Sprintf("category %q of %s was not seen during fit", e.Value, e.Feature)
}
