package errors

import (
	"errors"
	"fmt"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want string
	}{
		{
			name: "error without cause",
			err:  &AppError{Code: ErrCodeNotFound, Message: "resource not found"},
			want: "resource not found",
		},
		{
			name: "error with cause",
			err: &AppError{
				Code:    ErrCodeInternal,
				Message: "failed to process",
				Cause:   errors.New("underlying error"),
			},
			want: "failed to process: underlying error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("AppError.Error() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	cause := errors.New("underlying error")
	err := UpdateFailed(cause)

	if !errors.Is(err, cause) {
		t.Errorf("UpdateFailed() does not unwrap to its cause")
	}
}

func TestCodeHelpers(t *testing.T) {
	tests := []struct {
		name  string
		err   error
		check func(error) bool
	}{
		{"invalid credentials", InvalidCredentials(MsgWrongPassword, nil), IsInvalidCredentials},
		{"rate limited", RateLimited(nil), IsRateLimited},
		{"access denied", AccessDenied(""), IsAccessDenied},
		{"update failed", UpdateFailed(errors.New("500")), IsUpdateFailed},
		{"validation field", ValidationField("email", "Email is required"), IsValidation},
		{"not found", NotFoundf("booking %s not found", "b1"), IsNotFound},
		{"wrapped", fmt.Errorf("outer: %w", Conflict("dup")), IsConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if !tt.check(tt.err) {
				t.Errorf("helper did not match %v", tt.err)
			}
		})
	}
}

func TestGetField(t *testing.T) {
	err := ValidationField("password", "Password is required")
	if got := GetField(err); got != "password" {
		t.Errorf("GetField() = %q, want password", got)
	}
	if got := GetField(errors.New("plain")); got != "" {
		t.Errorf("GetField(plain) = %q, want empty", got)
	}
}

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"plain error hidden", errors.New("EMAIL_NOT_FOUND"), MsgInternalFailure},
		{"invalid credentials keeps message", InvalidCredentials(MsgNoAccount, errors.New("EMAIL_NOT_FOUND")), MsgNoAccount},
		{"rate limited", RateLimited(errors.New("TOO_MANY_ATTEMPTS_TRY_LATER")), MsgRateLimited},
		{"access denied default", AccessDenied(""), MsgAccessDenied},
		{"unknown is generic", Unknown("", errors.New("OPERATION_NOT_ALLOWED")), MsgLoginFailed},
		{"update failed is generic", UpdateFailed(errors.New("status 409")), MsgUpdateFailed},
		{"internal is generic", Internal("pool exhausted"), MsgInternalFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginMessagesDistinct(t *testing.T) {
	seen := map[string]bool{}
	for _, m := range []string{MsgNoAccount, MsgWrongPassword, MsgRateLimited, MsgAccessDenied, MsgLoginFailed} {
		if seen[m] {
			t.Fatalf("duplicate message %q", m)
		}
		seen[m] = true
	}
}

func TestPlainConstructorsKeepPercentSigns(t *testing.T) {
	msg := "discount must be below 100%"
	for _, err := range []*AppError{NotFound(msg), Conflict(msg), Validation(msg), Internal(msg)} {
		if err.Message != msg {
			t.Errorf("%s: Message = %q, want %q", err.Code, err.Message, msg)
		}
	}
}

func TestAccessDeniedCause(t *testing.T) {
	cause := errors.New("dial tcp: connection refused")
	err := AccessDeniedCause("", cause)

	if !IsAccessDenied(err) {
		t.Fatalf("AccessDeniedCause() code = %s, want %s", err.Code, ErrCodeAccessDenied)
	}
	if !errors.Is(err, cause) {
		t.Errorf("AccessDeniedCause() does not unwrap to its cause")
	}
	if got := UserMessage(err); got != MsgAccessDenied {
		t.Errorf("UserMessage() = %q, want %q", got, MsgAccessDenied)
	}
}
