package provider

// Convertible is implemented by upstream response models that can be shaped into a domain type.
type Convertible[T any] interface {
	ToDomainType() (T, error)
}

// ConvertAll converts each upstream model, stopping at the first failure.
func ConvertAll[T any, C Convertible[T]](in []C) ([]T, error) {
	out := make([]T, 0, len(in))
	for _, c := range in {
		v, err := c.ToDomainType()
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}
