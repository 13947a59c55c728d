package firebase

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"google.golang.org/api/googleapi"

	apperrors "github.com/wiqayah/admin-console/internal/errors"
)

func TestClassifySignInError(t *testing.T) {
	assert.NoError(t, classifySignInError(nil))

	wrapped := fmt.Errorf("do: %w", &googleapi.Error{Code: 400, Message: "EMAIL_NOT_FOUND"})
	assert.True(t, apperrors.IsInvalidCredentials(classifySignInError(wrapped)))

	fromItems := &googleapi.Error{Code: 400, Errors: []googleapi.ErrorItem{{Message: "TOO_MANY_ATTEMPTS_TRY_LATER"}}}
	assert.True(t, apperrors.IsRateLimited(classifySignInError(fromItems)))

	assert.Equal(t, apperrors.ErrCodeUnknown, apperrors.GetCode(classifySignInError(context.DeadlineExceeded)))
	assert.Equal(t, apperrors.ErrCodeUnknown, apperrors.GetCode(classifySignInError(errors.New("dial tcp: refused"))))
}

func TestLeadingCode(t *testing.T) {
	assert.Equal(t, "INVALID_PASSWORD", leadingCode("INVALID_PASSWORD"))
	assert.Equal(t, "TOO_MANY_ATTEMPTS_TRY_LATER", leadingCode("TOO_MANY_ATTEMPTS_TRY_LATER : try later"))
	assert.Empty(t, leadingCode(""))
}
