package db

import (
	"context"
	"errors"
	"testing"
)

func TestError_WrapsAndNames(t *testing.T) {
	err := error(&Error{Op: OpMGet, Err: context.DeadlineExceeded})

	if got := err.Error(); got != "MGET: context deadline exceeded" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("Error should unwrap to the cause")
	}
	var dbErr *Error
	if !errors.As(err, &dbErr) || dbErr.Op != OpMGet {
		t.Errorf("errors.As = %+v", dbErr)
	}
}
