package httputil

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/matzehuels/flowbox/pkg/errors"
)

// ErrorBody is the JSON envelope of a failed request.
type ErrorBody struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail carries the code and user message of an error.
type ErrorDetail struct {
	Code    errors.Code `json:"code"`
	Message string      `json:"message"`
}

// WriteJSON writes v as the JSON body of a response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteError writes err in the error envelope and returns the status used.
// Errors without a code are reported as INTERNAL_ERROR with a generic
// message so internals do not leak to clients.
func WriteError(w http.ResponseWriter, err error) int {
	status := errors.HTTPStatus(err)
	code := errors.GetCode(err)
	msg := errors.UserMessage(err)
	if code == "" {
		code, msg = errors.ErrCodeInternal, http.StatusText(status)
	}
	_ = WriteJSON(w, status, ErrorBody{Error: ErrorDetail{Code: code, Message: msg}})
	return status
}

// DecodeError converts a non-2xx response into a coded error. 5xx responses
// are wrapped in a RetryableError.
func DecodeError(resp *http.Response) error {
	data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))

	var body ErrorBody
	var err error
	if json.Unmarshal(data, &body) == nil && body.Error.Code != "" {
		err = errors.New(body.Error.Code, "%s", body.Error.Message)
	} else {
		err = errors.New(codeForStatus(resp.StatusCode), "unexpected status %d", resp.StatusCode)
	}
	if resp.StatusCode >= 500 {
		return Retryable(err)
	}
	return err
}

func codeForStatus(status int) errors.Code {
	switch {
	case status == http.StatusNotFound:
		return errors.ErrCodeNotFound
	case status == http.StatusGatewayTimeout:
		return errors.ErrCodeTimeout
	case status >= 500:
		return errors.ErrCodeNetwork
	case status >= 400:
		return errors.ErrCodeInvalidInput
	default:
		return errors.ErrCodeInternal
	}
}
