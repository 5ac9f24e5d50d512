package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestUnreachableCaseError_Message(t *testing.T) {
	t.Parallel()

	err := Unreachable("foo")
	if err.Error() != `Unreachable case: "foo"` {
		t.Fatalf("message=%q", err.Error())
	}
	if !IsUnreachable(fmt.Errorf("render: %w", err)) {
		t.Fatalf("wrapped unreachable must be detected")
	}
	if IsUnreachable(errors.New("other")) {
		t.Fatalf("plain error is not unreachable")
	}
}

func TestStatusError_IsUnauthorized(t *testing.T) {
	t.Parallel()

	if !errors.Is(&StatusError{Code: 401}, ErrUnauthorized) {
		t.Fatalf("401 must match ErrUnauthorized")
	}
	if errors.Is(&StatusError{Code: 500}, ErrUnauthorized) {
		t.Fatalf("500 must not match ErrUnauthorized")
	}
	if (&StatusError{Code: 503}).Error() != "STATUS: 503" {
		t.Fatalf("unexpected message")
	}
}
