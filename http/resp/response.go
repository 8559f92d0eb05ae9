package resp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
)

const (
	ContentTypeHeader = "Content-Type"

	ContentTypeBinary = "application/octet-stream"
	ContentTypeJSON   = "application/json"
	ContentTypeText   = "text/plain; charset=utf-8"
)

// A Response describes what to write back for a single HTTP request.
type Response struct {
	Status int
	Header http.Header
	Body   []byte
}

// New constructs a *Response with the status and no body.
func New(status int) *Response {
	return &Response{Status: status, Header: make(http.Header)}
}

// Bytes constructs a *Response writing b with the provided content type.
func Bytes(status int, contentType string, b []byte) *Response {
	r := New(status)
	r.Header.Set(ContentTypeHeader, contentType)
	r.Body = b
	return r
}

// JSON constructs a *Response encoding v as JSON.
//
// If v cannot be encoded, JSON returns a 500 *Response with no body.
func JSON(status int, v any) *Response {
	b, err := json.Marshal(v)
	if err != nil {
		return New(http.StatusInternalServerError)
	}

	return Bytes(status, ContentTypeJSON, b)
}

// Text constructs a *Response writing the formatted string as plain text.
func Text(status int, format string, args ...any) *Response {
	return Bytes(status, ContentTypeText, []byte(fmt.Sprintf(format, args...)))
}

// NotFound constructs a 404 *Response with no body.
func NotFound() *Response { return New(http.StatusNotFound) }

// With sets the header key to val, returning the *Response for chaining.
func (r *Response) With(key, val string) *Response {
	if r.Header == nil {
		r.Header = make(http.Header)
	}

	r.Header.Set(key, val)
	return r
}

// Write copies the headers, status code and body onto w.
// A zero Status is written as 200.
func (r *Response) Write(w http.ResponseWriter) error {
	for k, vals := range r.Header {
		for _, v := range vals {
			w.Header().Add(k, v)
		}
	}

	if len(r.Body) > 0 {
		w.Header().Set("Content-Length", strconv.Itoa(len(r.Body)))
	}

	status := r.Status
	if status == 0 {
		status = http.StatusOK
	}
	w.WriteHeader(status)

	if len(r.Body) == 0 {
		return nil
	}

	_, err := w.Write(r.Body)
	return err
}
