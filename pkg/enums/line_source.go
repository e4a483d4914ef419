package enums

import "fmt"

// LineSource tags each order line with the kind of sellable it references.
// Only product-sourced lines are stock-tracked.
type LineSource string

const (
	LineSourceProduct LineSource = "product"
	LineSourceMenu    LineSource = "menu"
)

var validLineSources = []LineSource{
	LineSourceProduct,
	LineSourceMenu,
}

// IsValid reports whether the value matches the canonical line source enum.
func (s LineSource) IsValid() bool {
	for _, candidate := range validLineSources {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseLineSource converts the raw string to LineSource.
func ParseLineSource(value string) (LineSource, error) {
	for _, candidate := range validLineSources {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid line source %q", value)
}
