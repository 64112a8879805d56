package web

import (
	"errors"
	"log"

	"github.com/watt-toolkit/arc/pkg/arc/body"
	"github.com/watt-toolkit/arc/pkg/arc/http11"
)

// Rejection is the error an extractor returns when it cannot build its
// value. It carries its own response conversion.
type Rejection struct {
	Status  http11.Status
	Message string
}

// Reject creates a rejection with the given status and message.
func Reject(status http11.Status, message string) *Rejection {
	return &Rejection{Status: status, Message: message}
}

// Error implements error.
func (r *Rejection) Error() string {
	return r.Message
}

// Response implements Responder: a plain-text response with the rejection's
// status and message.
func (r *Rejection) Response() *http11.Response {
	resp := http11.NewResponse(r.Status, body.FromString(r.Message))
	resp.Headers.Set(http11.HeaderContentType, "text/plain; charset=utf-8")
	return resp
}

// rejectionResponse converts an extractor or handler error into a response.
// Errors carrying their own conversion are surfaced directly; anything else
// becomes an opaque 500.
func rejectionResponse(err error) *http11.Response {
	var responder Responder
	if errors.As(err, &responder) {
		return responder.Response()
	}
	log.Printf("web: unhandled error: %v", err)
	return http11.NewResponse(http11.StatusInternalServerError, body.FromString("Internal Server Error"))
}
