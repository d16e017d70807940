package rpc

import (
	"time"

	"github.com/hugh/buddy-tracker/internal/api/validation"
	"github.com/hugh/buddy-tracker/internal/repository"
)

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func enumPtr[T ~string](s *string) *T {
	if s == nil {
		return nil
	}
	v := T(*s)
	return &v
}

func nullable(n validation.NullableDate) repository.Nullable[time.Time] {
	return repository.Nullable[time.Time]{Set: n.Set, Value: n.Value}
}
