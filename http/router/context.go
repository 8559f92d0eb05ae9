package router

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	wrapper "github.com/lindsaykwardell/http-wrapper"
	"github.com/lindsaykwardell/http-wrapper/http/req"
	"github.com/lindsaykwardell/http-wrapper/http/resp"
)

// A Context is what a Handler receives for one request.
type Context struct {
	Writer  http.ResponseWriter
	Request *http.Request

	// Query holds the query string, last value wins.
	Query map[string]string

	// Param holds the values captured by the parameter tokens of the matched pattern.
	// It is empty when the pattern has none.
	Param map[string]string

	// Body is the request body after content negotiation.
	// A Handler made with Raw gets an empty Body; the request body is left unread.
	Body req.Body

	Route Route

	// Parser binds request data in Bind and BindQuery.
	// A nil Parser uses one shared by every Context.
	Parser *req.Parser
}

var defaultParser = req.NewParser()

// Bind decodes the request data into structPtr and validates it.
//
// A form body binds its pairs and a document body binds as JSON.
// Any other body binds the query string instead.
func (c *Context) Bind(structPtr any) error {
	p := c.parser()
	switch c.Body.Kind() {
	case req.KindForm:
		return p.ParseForm(c.Body.Form(), structPtr)
	case req.KindDocument:
		b, err := json.Marshal(c.Body.Document())
		if err != nil {
			return fmt.Errorf("http-wrapper/http/router: %w: re-encoding document body: %s", wrapper.ErrBadFormat, err)
		}
		return p.ParseBody(bytes.NewReader(b), structPtr)
	default:
		return p.ParseForm(c.Query, structPtr)
	}
}

// BindQuery decodes the query string into structPtr and validates it.
func (c *Context) BindQuery(structPtr any) error {
	return c.parser().ParseForm(c.Query, structPtr)
}

func (c *Context) parser() *req.Parser {
	if c.Parser == nil {
		return defaultParser
	}

	return c.Parser
}

// A Handler responds to a request matched to its Route.
//
// Returning nil means the Handler wrote to, or took over, c.Writer itself.
type Handler interface {
	Handle(c *Context) *resp.Response
}

// HandlerFunc adapts a function into a Handler.
type HandlerFunc func(c *Context) *resp.Response

func (fn HandlerFunc) Handle(c *Context) *resp.Response { return fn(c) }

type rawHandler http.HandlerFunc

func (fn rawHandler) Handle(c *Context) *resp.Response {
	fn(c.Writer, c.Request)
	return nil
}

// Raw adapts fn into a Handler that only needs the transport.
// The dispatcher neither reads nor parses the request body for it.
func Raw(fn http.HandlerFunc) Handler { return rawHandler(fn) }

// IsRaw reports whether h was made with Raw.
func IsRaw(h Handler) bool {
	_, ok := h.(rawHandler)
	return ok
}
