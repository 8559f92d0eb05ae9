package req

import (
	"encoding/json"
	"sync"

	"github.com/clbanning/mxj/v2"
	"github.com/lindsaykwardell/http-wrapper/logger"
)

const (
	ContentTypeForm = "application/x-www-form-urlencoded"
	ContentTypeJSON = "application/json"
	ContentTypeXML  = "application/xml"
)

// A ParseFunc decodes a request body.
type ParseFunc func([]byte) (Body, error)

// A Negotiator maps Content-Type header values to the ParseFunc for them.
//
// Keys are compared as exact strings:
// "application/json; charset=utf-8" does not match "application/json".
type Negotiator struct {
	mu      sync.RWMutex
	parsers map[string]ParseFunc
	l       logger.Logger
}

// NewNegotiator constructs a *Negotiator with the JSON, form and XML parsers registered.
// A nil l logs with [logger.New].
func NewNegotiator(l logger.Logger) *Negotiator {
	if l == nil {
		l = logger.New()
	}

	return &Negotiator{
		l: l,
		parsers: map[string]ParseFunc{
			ContentTypeJSON: parseJSON,
			ContentTypeForm: parseForm,
			ContentTypeXML:  parseXML,
		},
	}
}

// UseParser registers fn for contentType, replacing any parser already registered for it.
func (n *Negotiator) UseParser(contentType string, fn ParseFunc) {
	n.mu.Lock()
	defer n.mu.Unlock()

	n.parsers[contentType] = fn
}

// Parse decodes body with the parser registered for contentType.
//
// An empty contentType, meaning the header was absent, or one with no parser registered
// returns the bytes untouched as a KindRaw Body.
// A parser returning an error is logged and Parse returns a KindEmpty Body.
func (n *Negotiator) Parse(contentType string, body []byte) Body {
	if contentType == "" {
		return RawBody(body)
	}

	n.mu.RLock()
	fn, ok := n.parsers[contentType]
	n.mu.RUnlock()

	if !ok {
		return RawBody(body)
	}

	b, err := fn(body)
	if err != nil {
		n.l.Warn("failed parsing request body", &logger.LogContext{
			Data:  map[string]any{"contentType": contentType},
			Error: err,
		})
		return EmptyBody()
	}

	return b
}

func parseJSON(b []byte) (Body, error) {
	var doc any
	if err := json.Unmarshal(b, &doc); err != nil {
		return EmptyBody(), err
	}

	return DocumentBody(doc), nil
}

func parseXML(b []byte) (Body, error) {
	m, err := mxj.NewMapXml(b)
	if err != nil {
		return EmptyBody(), err
	}

	return DocumentBody(map[string]any(m)), nil
}
