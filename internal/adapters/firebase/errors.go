package firebase

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/api/googleapi"

	apperrors "github.com/wiqayah/admin-console/internal/errors"
)

// Identity toolkit error codes. The REST API reports them as the error
// message, optionally followed by " : <detail>".
const (
	codeEmailNotFound      = "EMAIL_NOT_FOUND"
	codeInvalidPassword    = "INVALID_PASSWORD"
	codeInvalidCredentials = "INVALID_LOGIN_CREDENTIALS"
	codeTooManyAttempts    = "TOO_MANY_ATTEMPTS_TRY_LATER"
)

// classifySignInError maps a sign-in failure to the console's error taxonomy.
// Provider codes are kept only as the wrapped cause.
func classifySignInError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return apperrors.Unknown("", err)
	}

	switch providerCode(err) {
	case codeEmailNotFound:
		return apperrors.InvalidCredentials(apperrors.MsgNoAccount, err)
	case codeInvalidPassword:
		return apperrors.InvalidCredentials(apperrors.MsgWrongPassword, err)
	case codeInvalidCredentials:
		return apperrors.InvalidCredentials(apperrors.MsgLoginFailed, err)
	case codeTooManyAttempts:
		return apperrors.RateLimited(err)
	default:
		return apperrors.Unknown("", err)
	}
}

func providerCode(err error) string {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return ""
	}
	if code := leadingCode(gerr.Message); code != "" {
		return code
	}
	for _, item := range gerr.Errors {
		if code := leadingCode(item.Message); code != "" {
			return code
		}
	}
	return ""
}

func leadingCode(msg string) string {
	msg = strings.TrimSpace(msg)
	if i := strings.IndexAny(msg, " :"); i >= 0 {
		msg = msg[:i]
	}
	return strings.ToUpper(msg)
}
