package api

import "errors"

// ErrInvalidRequest marks payloads rejected by validation. Handlers answer it with 400.
var ErrInvalidRequest = errors.New("invalid request")

const (
	CodeBadRequest     = "bad_request"
	CodeInvalidRequest = "invalid_request"
	CodeNotFound       = "not_found"
	CodeInternal       = "internal_error"
)

type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}
