package utils

import "fmt"

// ShapeError reports sequences whose lengths disagree with the grid, or with
// each other.
type ShapeError struct {
	Op        string
	Want, Got int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("shape mismatch in %s: want length %d, got %d", e.Op, e.Want, e.Got)
}

func CheckLen(op string, want int, got ...int) error {
	for _, n := range got {
		if n != want {
			return &ShapeError{Op: op, Want: want, Got: n}
		}
	}
	return nil
}
