package types

import "fmt"

// Complexity represents the estimated effort of an action
type Complexity string

const (
	ComplexityLow    Complexity = "Baixa"
	ComplexityMedium Complexity = "Média"
	ComplexityHigh   Complexity = "Alta"
)

// AllComplexities returns all valid complexities
func AllComplexities() []Complexity {
	return []Complexity{
		ComplexityLow,
		ComplexityMedium,
		ComplexityHigh,
	}
}

// IsValid checks if the complexity is valid
func (c Complexity) IsValid() bool {
	switch c {
	case ComplexityLow, ComplexityMedium, ComplexityHigh:
		return true
	default:
		return false
	}
}

// String returns the string representation of the complexity
func (c Complexity) String() string {
	return string(c)
}

// ParseComplexity parses a string into a Complexity
func ParseComplexity(s string) (Complexity, error) {
	complexity := Complexity(s)
	if !complexity.IsValid() {
		return "", fmt.Errorf("invalid complexity: %s", s)
	}
	return complexity, nil
}
