package pipeline

import "errors"

var (
	// ErrMissingEndpoint fails a strict run when a declared edge names a
	// node that does not exist.
	ErrMissingEndpoint = errors.New("pipeline: edge endpoint missing")

	// ErrPlanOrder rejects plans that link a category before its nodes exist.
	ErrPlanOrder = errors.New("pipeline: pass order violates node-before-edge rule")

	ErrInvalidPlan = errors.New("pipeline: invalid plan")
)
