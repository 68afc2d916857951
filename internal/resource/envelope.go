package resource

import (
	"net/http"
	"strconv"
)

var statusReasons = map[int]string{
	http.StatusOK:                  "OK",
	http.StatusCreated:             "Created",
	http.StatusAccepted:            "Accepted",
	http.StatusMovedPermanently:    "Moved Permanently",
	http.StatusFound:               "Found",
	http.StatusTemporaryRedirect:   "Temporary Redirect",
	http.StatusPermanentRedirect:   "Permanent Redirect",
	http.StatusBadRequest:          "Bad Request",
	http.StatusUnauthorized:        "Unauthorized",
	http.StatusForbidden:           "Forbidden",
	http.StatusNotFound:            "Not Found",
	http.StatusInternalServerError: "Internal Server Error",
	http.StatusNotImplemented:      "Not Implemented",
	http.StatusBadGateway:          "Bad Gateway",
}

// StatusDescription returns "<code> (<reason>)" for known codes and the bare
// code for anything else, e.g. "999".
func StatusDescription(code int) string {
	reason, ok := statusReasons[code]
	if !ok {
		return strconv.Itoa(code)
	}
	return strconv.Itoa(code) + " (" + reason + ")"
}

// ErrorObject is one entry of an error envelope.
type ErrorObject struct {
	Title string `json:"title"`
	Code  int    `json:"code"`
}

// Envelope is the top-level body of every response. Exactly one of Data and
// Errors is set.
type Envelope struct {
	Data     any           `json:"data,omitempty"`
	Included []Resource    `json:"included,omitempty"`
	Errors   []ErrorObject `json:"errors,omitempty"`
}

// Response pairs an envelope with its HTTP status.
type Response struct {
	Status int
	Body   Envelope
}

// Success wraps a transformed document. Non-2xx statuses are replaced by 200.
func Success(status int, doc Document) Response {
	if status < 200 || status > 299 {
		status = http.StatusOK
	}
	data := doc.Data
	if data == nil {
		data = []Resource{}
	}
	return Response{
		Status: status,
		Body:   Envelope{Data: data, Included: doc.Included},
	}
}

// Error builds a single-entry error envelope. An empty message becomes the
// status description.
func Error(status int, message string) Response {
	if message == "" {
		message = StatusDescription(status)
	}
	return Errors(status, []string{message})
}

// Errors builds one error entry per message, in order, all sharing status.
// Statuses below 400 are replaced by 500.
func Errors(status int, messages []string) Response {
	if status < 400 {
		status = http.StatusInternalServerError
	}
	if len(messages) == 0 {
		messages = []string{StatusDescription(status)}
	}
	errs := make([]ErrorObject, 0, len(messages))
	for _, m := range messages {
		errs = append(errs, ErrorObject{Title: m, Code: status})
	}
	return Response{Status: status, Body: Envelope{Errors: errs}}
}
