package internal

import "strconv"

// ContextValue returns the request-scoped value stored under key, or the
// zero value of T.
func ContextValue[T any](c Context, key any) T {
	if v, ok := c.Get(key).(T); ok {
		return v
	}
	var zero T
	return zero
}

// Param returns a FastCGI parameter converted to T. The second result is
// false when the parameter is missing or cannot be converted.
func Param[T ~string | ~int | ~int64 | ~bool](c Context, name string) (T, bool) {
	raw, ok := c.LookupParam(name)
	if !ok {
		var zero T
		return zero, false
	}
	return convertParam[T](raw)
}

// convertParam converts a raw string to the target type T.
// Returns the converted value and true on success, or the zero value and false on failure.
func convertParam[T ~string | ~int | ~int64 | ~bool](raw string) (T, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return any(raw).(T), true
	case int:
		v, err := strconv.Atoi(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case int64:
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	case bool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return zero, false
		}
		return any(v).(T), true
	}
	return zero, false
}
