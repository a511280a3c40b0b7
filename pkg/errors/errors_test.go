package errors_test

import (
	stderrors "errors"
	"testing"

	"github.com/andparsons/composer-project-files-installer/pkg/errors"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		message string
		wantStr string
	}{
		{
			name:    "source_not_found_error",
			code:    errors.ErrSourceNotFound,
			message: "source not found",
			wantStr: "[SOURCE_NOT_FOUND] source not found",
		},
		{
			name:    "invalid_mapping_error",
			code:    errors.ErrInvalidMapping,
			message: "mapping must have two elements",
			wantStr: "[INVALID_MAPPING] mapping must have two elements",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.New(tt.code, tt.message)

			if err.Code != tt.code {
				t.Errorf("New() code = %v, want %v", err.Code, tt.code)
			}

			if err.Message != tt.message {
				t.Errorf("New() message = %q, want %q", err.Message, tt.message)
			}

			if err.Details == nil {
				t.Error("New() details should be initialized")
			}

			if got := err.Error(); got != tt.wantStr {
				t.Errorf("Error() = %q, want %q", got, tt.wantStr)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	tests := []struct {
		name    string
		code    errors.ErrorCode
		format  string
		args    []interface{}
		wantMsg string
	}{
		{
			name:    "format_with_string",
			code:    errors.ErrUnknownStrategy,
			format:  "unknown strategy %q",
			args:    []interface{}{"hardlink"},
			wantMsg: `unknown strategy "hardlink"`,
		},
		{
			name:    "format_with_multiple_args",
			code:    errors.ErrInvalidMapping,
			format:  "mapping %d has %d elements",
			args:    []interface{}{2, 3},
			wantMsg: "mapping 2 has 3 elements",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := errors.Newf(tt.code, tt.format, tt.args...)

			if err.Message != tt.wantMsg {
				t.Errorf("Newf() message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestWrap(t *testing.T) {
	baseErr := stderrors.New("base error")

	t.Run("wrap_non_nil_error", func(t *testing.T) {
		err := errors.Wrap(baseErr, errors.ErrInternal, "internal error")

		if err.Code != errors.ErrInternal {
			t.Errorf("Wrap() code = %v, want %v", err.Code, errors.ErrInternal)
		}

		if err.Wrapped != baseErr {
			t.Error("Wrap() should preserve wrapped error")
		}

		wantStr := "[INTERNAL] internal error: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})

	t.Run("wrap_nil_error_returns_nil", func(t *testing.T) {
		err := errors.Wrap(nil, errors.ErrInternal, "internal error")
		if err != nil {
			t.Error("Wrap(nil) should return nil")
		}
	})

	t.Run("wrapf_formats_message", func(t *testing.T) {
		err := errors.Wrapf(baseErr, errors.ErrDirectoryCreateFailed, "cannot create %s", "/project/web")
		wantStr := "[DIRECTORY_CREATE_FAILED] cannot create /project/web: base error"
		if got := err.Error(); got != wantStr {
			t.Errorf("Error() = %q, want %q", got, wantStr)
		}
	})
}

func TestWithDetail(t *testing.T) {
	err := errors.New(errors.ErrSourceNotFound, "not found").
		WithDetail("source", "assets/*.css").
		WithDetail("package", "vendor/theme")

	if err.Details["source"] != "assets/*.css" {
		t.Errorf("WithDetail() source = %v, want %v", err.Details["source"], "assets/*.css")
	}

	if err.Details["package"] != "vendor/theme" {
		t.Errorf("WithDetail() package = %v, want %v", err.Details["package"], "vendor/theme")
	}
}

func TestWithDetails(t *testing.T) {
	details := map[string]interface{}{
		"source": "app/js",
		"dest":   "public/js",
		"index":  3,
	}

	err := errors.New(errors.ErrCopyVerificationFailed, "copy not readable").
		WithDetails(details)

	for k, v := range details {
		if err.Details[k] != v {
			t.Errorf("WithDetails() %s = %v, want %v", k, err.Details[k], v)
		}
	}
}

func TestAlreadyExists(t *testing.T) {
	err := errors.AlreadyExists("/project/web/css", "")

	if err.Code != errors.ErrAlreadyExists {
		t.Errorf("AlreadyExists() code = %v, want %v", err.Code, errors.ErrAlreadyExists)
	}

	wantStr := "[ALREADY_EXISTS] target /project/web/css already exists (set extra.files-force to override)"
	if got := err.Error(); got != wantStr {
		t.Errorf("Error() = %q, want %q", got, wantStr)
	}

	if err.Details["dest"] != "/project/web/css" {
		t.Errorf("AlreadyExists() dest detail = %v", err.Details["dest"])
	}
}

func TestIs(t *testing.T) {
	err1 := errors.New(errors.ErrSourceNotFound, "error 1")
	err2 := errors.New(errors.ErrSourceNotFound, "error 2")
	err3 := errors.New(errors.ErrInternal, "error 3")

	t.Run("same_code_is_equal", func(t *testing.T) {
		if !err1.Is(err2) {
			t.Error("Is() should return true for same code")
		}
	})

	t.Run("different_code_not_equal", func(t *testing.T) {
		if err1.Is(err3) {
			t.Error("Is() should return false for different codes")
		}
	})

	t.Run("works_with_errors_Is", func(t *testing.T) {
		if !stderrors.Is(err1, err2) {
			t.Error("errors.Is() should work with DeployError")
		}
	})
}

func TestIsErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		code     errors.ErrorCode
		expected bool
	}{
		{
			name:     "matching_code",
			err:      errors.New(errors.ErrSourceNotFound, "not found"),
			code:     errors.ErrSourceNotFound,
			expected: true,
		},
		{
			name:     "different_code",
			err:      errors.New(errors.ErrSourceNotFound, "not found"),
			code:     errors.ErrInternal,
			expected: false,
		},
		{
			name:     "wrapped_error",
			err:      errors.Wrap(stderrors.New("base"), errors.ErrFileAccess, "denied"),
			code:     errors.ErrFileAccess,
			expected: true,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			code:     errors.ErrSourceNotFound,
			expected: false,
		},
		{
			name:     "nil_error",
			err:      nil,
			code:     errors.ErrSourceNotFound,
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.IsErrorCode(tt.err, tt.code); got != tt.expected {
				t.Errorf("IsErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorCode(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{
			name:     "deploy_error",
			err:      errors.New(errors.ErrLinkVerificationFailed, "link unreadable"),
			expected: errors.ErrLinkVerificationFailed,
		},
		{
			name:     "standard_error",
			err:      stderrors.New("standard error"),
			expected: errors.ErrUnknown,
		},
		{
			name:     "nil_error",
			err:      nil,
			expected: errors.ErrUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errors.GetErrorCode(tt.err); got != tt.expected {
				t.Errorf("GetErrorCode() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestGetErrorDetails(t *testing.T) {
	err := errors.New(errors.ErrInvalidMapping, "bad").WithDetail("index", 1)
	if got := errors.GetErrorDetails(err); got["index"] != 1 {
		t.Errorf("GetErrorDetails() = %v", got)
	}
	if got := errors.GetErrorDetails(stderrors.New("plain")); got != nil {
		t.Errorf("GetErrorDetails() on plain error = %v, want nil", got)
	}
}

func TestErrorChaining(t *testing.T) {
	rootCause := stderrors.New("root cause")
	fileErr := errors.Wrap(rootCause, errors.ErrFileAccess, "cannot read composer.json")
	configErr := errors.Wrap(fileErr, errors.ErrConfigLoad, "failed to load config")

	t.Run("top_level_has_correct_code", func(t *testing.T) {
		if !errors.IsErrorCode(configErr, errors.ErrConfigLoad) {
			t.Error("Top level should have ErrConfigLoad code")
		}
	})

	t.Run("can_find_middle_error", func(t *testing.T) {
		var deployErr *errors.DeployError
		if stderrors.As(configErr.Unwrap(), &deployErr) {
			if !errors.IsErrorCode(deployErr, errors.ErrFileAccess) {
				t.Error("Middle error should have ErrFileAccess code")
			}
		}
	})

	t.Run("can_find_root_cause", func(t *testing.T) {
		if !stderrors.Is(configErr, rootCause) {
			t.Error("Should find root cause with errors.Is")
		}
	})
}
