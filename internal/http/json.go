package httpx

import (
	"bytes"
	"encoding/json"
	"net/http"

	apperrors "github.com/wiqayah/admin-console/internal/errors"
)

// WriteJSON writes a JSON response with the given status code and data.
func WriteJSON(w http.ResponseWriter, code int, v any) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(v); err != nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_, _ = buf.WriteTo(w)
}

// ErrorParams groups parameters for WriteError.
type ErrorParams struct {
	Code    int
	ErrCode string
	Err     error
}

// WriteError writes {"error": code, "message": ...}. The message is the
// operator-safe text from apperrors.UserMessage, never the raw cause.
func WriteError(w http.ResponseWriter, p ErrorParams) {
	errCode := p.ErrCode
	if errCode == "" {
		errCode = string(apperrors.GetCode(p.Err))
	}
	WriteJSON(w, p.Code, map[string]string{"error": errCode, "message": apperrors.UserMessage(p.Err)})
}
