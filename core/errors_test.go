package core

import (
	"fmt"
	"testing"

	"github.com/pkg/errors"
)

func TestIsNotFoundError_WithExactError(t *testing.T) {
	if !IsNotFoundError(ErrNotFound) {
		t.Error("expected true for ErrNotFound")
	}
}

func TestIsNotFoundError_WithWrappedError(t *testing.T) {
	if !IsNotFoundError(errors.Wrap(ErrNotFound, "static")) {
		t.Error("expected true for a pkg/errors wrap of ErrNotFound")
	}
	if !IsNotFoundError(fmt.Errorf("static: %w", ErrNotFound)) {
		t.Error("expected true for a fmt wrap of ErrNotFound")
	}
}

func TestIsNotFoundError_WithDifferentError(t *testing.T) {
	if IsNotFoundError(errors.New("greet: not found")) {
		t.Error("expected false for an unrelated error with the same text")
	}
	if IsNotFoundError(ErrForbidden) {
		t.Error("expected false for ErrForbidden")
	}
}

func TestIsNotFoundError_WithNil(t *testing.T) {
	if IsNotFoundError(nil) {
		t.Error("expected false for nil error")
	}
}

func TestRenderErrorUnwraps(t *testing.T) {
	err := error(&RenderError{Template: "missing", Err: errors.WithStack(ErrTemplateNotFound)})

	if !errors.Is(err, ErrTemplateNotFound) {
		t.Error("expected RenderError to unwrap to ErrTemplateNotFound")
	}
	if !IsRenderError(errors.Wrap(err, "outer")) {
		t.Error("expected IsRenderError through a wrap")
	}
	if err.Error() != "render missing: greet: template not found" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
