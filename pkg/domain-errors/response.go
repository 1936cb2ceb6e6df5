package domainerrors

import (
	"errors"
	"net/http"
)

// ErrorResponse is the uniform shape the HTTP boundary renders for any
// failure, known or not.
type ErrorResponse struct {
	Code       Code           `json:"code"`
	Message    string         `json:"message"`
	StatusCode int            `json:"statusCode"`
	Context    map[string]any `json:"context,omitempty"`
}

const maskedMessage = "An unexpected error occurred"

// Response maps any caught error to an ErrorResponse. Taxonomy errors pass
// through with their code and status. Unknown errors are masked to a generic
// message unless development is set, so internals never leak in production.
func Response(err error, development bool) ErrorResponse {
	var de *DomainError
	if errors.As(err, &de) {
		return ErrorResponse{
			Code:       de.Code,
			Message:    de.Message,
			StatusCode: de.Status,
			Context:    de.Context,
		}
	}
	var ie *InfrastructureError
	if errors.As(err, &ie) {
		msg := ie.Message
		if !development {
			msg = maskedMessage
		}
		return ErrorResponse{
			Code:       ie.Code,
			Message:    msg,
			StatusCode: ie.Status,
		}
	}
	resp := ErrorResponse{
		Code:       "INTERNAL_ERROR",
		Message:    maskedMessage,
		StatusCode: http.StatusInternalServerError,
	}
	if development && err != nil {
		resp.Message = err.Error()
	}
	return resp
}
