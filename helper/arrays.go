package helper

// Remove returns slice without the elements for which drop reports true.
func Remove[T any](slice []T, drop func(T) bool) []T {
	result := make([]T, 0, len(slice))
	for _, v := range slice {
		if !drop(v) {
			result = append(result, v)
		}
	}
	return result
}

// IndexFunc returns the first index whose element matches, or -1.
func IndexFunc[T any](slice []T, match func(T) bool) int {
	for i, v := range slice {
		if match(v) {
			return i
		}
	}
	return -1
}
