package model

// Validator is implemented by every input record.
type Validator interface {
	Validate() error
}

// SplitValid returns the records passing Validate, in input order, and the
// errors of the rejected ones.
func SplitValid[T Validator](items []T) ([]T, []error) {
	valid := make([]T, 0, len(items))
	var errs []error
	for _, it := range items {
		if err := it.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		valid = append(valid, it)
	}
	return valid, errs
}
