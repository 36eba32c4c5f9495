package api

type Convertible[T any] interface {
	// ToAPIType can be used to convert a wrapped domain type to an API-safe type.
	// It should be responsible for any normalization required to ensure consistency
	// across the API boundary.
	ToAPIType() (T, error)
}

// convertAll converts every wrapped domain value, stopping at the first failure.
func convertAll[T any, C Convertible[T]](in []C) ([]T, error) {
	out := make([]T, 0, len(in))
	for _, c := range in {
		v, err := c.ToAPIType()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
