package req

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"

	wrapper "github.com/lindsaykwardell/http-wrapper"
)

// A Parser decodes request data into structs and validates them.
type Parser struct {
	queryParamDecoder queryParamDecoder
	validator
}

func NewParser() *Parser {
	return &Parser{
		queryParamDecoder: newQueryParamDecoder(),
		validator:         newValidator(),
	}
}

// ParseBody decodes into a pointer to a struct the JSON data in body.
// If successful, ParseBody runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseBody(body io.Reader, structPtr any) error {
	var ourFault *json.InvalidUnmarshalError
	err := json.NewDecoder(body).Decode(structPtr)
	if errors.As(err, &ourFault) {
		return fmt.Errorf("http-wrapper/http/req: %w: ParseBody called with non-pointer: %s", wrapper.ErrBadAny, err)
	}

	if err != nil {
		return fmt.Errorf("http-wrapper/http/req: %w: failed decoding request body: %s", wrapper.ErrBadFormat, err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("http-wrapper/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}

// ParseForm decodes into a pointer to a struct the pairs of a form or query string,
// as returned by [Body.Form] or [ParseQuery].
func (p *Parser) ParseForm(pairs map[string]string, structPtr any) error {
	params := make(url.Values, len(pairs))
	for k, v := range pairs {
		params.Set(k, v)
	}

	return p.ParseQueryParams(params, structPtr)
}

// ParseQueryParams decodes into a pointer to a struct the query param data in params.
// If successful, ParseQueryParams runs validation against the contents,
// returning an ErrNotValid if the data fails validation rules.
func (p *Parser) ParseQueryParams(params url.Values, structPtr any) error {
	if err := p.queryParamDecoder.decode(structPtr, params); err != nil {
		return fmt.Errorf("http-wrapper/http/req: failed decoding request query params: %w", err)
	}

	if err := p.validate(structPtr); err != nil {
		return fmt.Errorf("http-wrapper/http/req: %T failed validation: %w", structPtr, err)
	}

	return nil
}
