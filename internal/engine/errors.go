package engine

import "errors"

var (
	// ErrShapeMismatch indicates an injected or seeded field whose length
	// does not match the grid.
	ErrShapeMismatch = errors.New("engine: field shape does not match grid")
)
