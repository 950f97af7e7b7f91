package ml

import "fmt"

// LabelEncoder maps class indices to risk labels in training order.
type LabelEncoder struct {
	Classes []string `json:"classes"`
}

// Index returns the position of label, or -1.
func (e *LabelEncoder) Index(label string) int {
	for i, c := range e.Classes {
		if c == label {
			return i
		}
	}
	return -1
}

// Label returns the class at index i.
func (e *LabelEncoder) Label(i int) (string, error) {
	if i < 0 || i >= len(e.Classes) {
		return "", fmt.Errorf("class index %d out of range", i)
	}
	return e.Classes[i], nil
}

// Equal reports whether both encoders share the same class ordering.
func (e *LabelEncoder) Equal(other *LabelEncoder) bool {
	if len(e.Classes) != len(other.Classes) {
		return false
	}
	for i := range e.Classes {
		if e.Classes[i] != other.Classes[i] {
			return false
		}
	}
	return true
}
