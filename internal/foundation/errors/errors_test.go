package errors

import (
	"errors"
	"testing"
)

func TestClassifiedError(t *testing.T) {
	t.Run("Basic error creation", func(t *testing.T) {
		err := NewError(CategoryConfig, "invalid configuration").
			WithSeverity(SeverityFatal).
			WithContext("file", "site.yaml").
			Build()

		if err.Category() != CategoryConfig {
			t.Errorf("expected category %s, got %s", CategoryConfig, err.Category())
		}
		if err.Severity() != SeverityFatal {
			t.Errorf("expected severity %s, got %s", SeverityFatal, err.Severity())
		}
		file, exists := err.Context().GetString("file")
		if !exists || file != "site.yaml" {
			t.Errorf("expected context file=site.yaml, got %v", file)
		}
	})

	t.Run("Detection through wrapping", func(t *testing.T) {
		inner := ConfigError("site configuration rejected").Build()
		wrapped := fmtWrap(inner)

		if !IsClassified(wrapped) {
			t.Fatal("expected wrapped error to be classified")
		}
		if !HasCategory(wrapped, CategoryConfig) {
			t.Error("expected config category")
		}
		if inner.CanRetry() {
			t.Error("config errors require user action, not retry")
		}
		if !inner.IsFatal() {
			t.Error("expected config error to be fatal")
		}
	})

	t.Run("Unclassified falls back to internal", func(t *testing.T) {
		if got := GetCategory(errors.New("boom")); got != CategoryInternal {
			t.Errorf("expected internal, got %s", got)
		}
	})
}

func TestErrorBuilder(t *testing.T) {
	originalErr := errors.New("dial tcp: timeout")
	err := WrapError(originalErr, CategoryNetwork, "link check failed").
		Warning().
		Retryable().
		WithContext("url", "https://example.com").
		Build()

	if err.RetryStrategy() != RetryBackoff {
		t.Errorf("expected retry strategy %s, got %s", RetryBackoff, err.RetryStrategy())
	}
	if !errors.Is(err, originalErr) {
		t.Error("expected error to wrap original error")
	}
	if got := err.Error(); got != "[network:warning] link check failed: dial tcp: timeout" {
		t.Errorf("unexpected message %q", got)
	}

	copied := err.WithContext("attempt", 2)
	if _, ok := err.Context().Get("attempt"); ok {
		t.Error("WithContext must not mutate the receiver")
	}
	if v, _ := copied.Context().Get("attempt"); v != 2 {
		t.Errorf("expected attempt=2, got %v", v)
	}
}

func TestConvenienceConstructors(t *testing.T) {
	tests := []struct {
		name     string
		builder  *ErrorBuilder
		category ErrorCategory
		severity ErrorSeverity
		retry    RetryStrategy
	}{
		{"ConfigError", ConfigError("x"), CategoryConfig, SeverityFatal, RetryUserAction},
		{"ValidationError", ValidationError("x"), CategoryValidation, SeverityFatal, RetryNever},
		{"NotFoundError", NotFoundError("x"), CategoryNotFound, SeverityError, RetryUserAction},
		{"FileSystemError", FileSystemError("x"), CategoryFileSystem, SeverityError, RetryBackoff},
		{"NetworkError", NetworkError("x"), CategoryNetwork, SeverityError, RetryBackoff},
		{"LinkError", LinkError("x"), CategoryLink, SeverityFatal, RetryUserAction},
		{"StorageError", StorageError("x"), CategoryStorage, SeverityError, RetryNever},
		{"RuntimeError", RuntimeError("x"), CategoryRuntime, SeverityFatal, RetryNever},
		{"InternalError", InternalError("x"), CategoryInternal, SeverityFatal, RetryNever},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.builder.Build()
			if err.Category() != tt.category || err.Severity() != tt.severity || err.RetryStrategy() != tt.retry {
				t.Errorf("got (%s,%s,%s), want (%s,%s,%s)",
					err.Category(), err.Severity(), err.RetryStrategy(), tt.category, tt.severity, tt.retry)
			}
		})
	}
}

func TestErrorContextMerge(t *testing.T) {
	ctx1 := ErrorContext{}.Set("key1", "value1").Set("shared", "original")
	ctx2 := ErrorContext{}.Set("key2", "value2").Set("shared", "overridden")

	merged := ctx1.Merge(ctx2)
	shared, _ := merged.GetString("shared")
	if shared != "overridden" {
		t.Errorf("expected shared=overridden, got %s", shared)
	}
	if _, ok := merged.Get("key1"); !ok {
		t.Error("expected key1 to survive merge")
	}
}

func TestBuilderWithCauseAndContextMap(t *testing.T) {
	cause := errors.New("disk full")
	err := StorageError("failed to record resolution").
		WithCause(cause).
		WithContext("path", "history.db").
		WithContextMap(ErrorContext{"id": "abc", "path": "other.db"}).
		Build()

	if !errors.Is(err, cause) {
		t.Error("expected cause in chain")
	}
	if got := err.Error(); got != "[storage:error] failed to record resolution: disk full" {
		t.Errorf("unexpected message %q", got)
	}
	if p, _ := err.Context().GetString("path"); p != "other.db" {
		t.Errorf("expected map to override path, got %q", p)
	}
	if _, ok := err.Context().Get("id"); !ok {
		t.Error("expected id in context")
	}
}

type wrapper struct{ err error }

func (w wrapper) Error() string { return "outer: " + w.err.Error() }
func (w wrapper) Unwrap() error { return w.err }

func fmtWrap(err error) error { return wrapper{err: err} }
