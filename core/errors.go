package core

import "github.com/pkg/errors"

var (
	ErrNotFound         = errors.New("greet: not found")
	ErrForbidden        = errors.New("greet: forbidden")
	ErrTemplateNotFound = errors.New("greet: template not found")
	ErrRouteConflict    = errors.New("greet: route conflict")
	ErrInvalidPattern   = errors.New("greet: invalid route pattern")
)

// RenderError is returned by the renderer for a missing template or a failed
// execution. It is always answered with a 500.
type RenderError struct {
	Template string
	Err      error
}

func (e *RenderError) Error() string {
	return "render " + e.Template + ": " + e.Err.Error()
}

func (e *RenderError) Unwrap() error {
	return e.Err
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

func IsRenderError(err error) bool {
	var re *RenderError
	return errors.As(err, &re)
}
