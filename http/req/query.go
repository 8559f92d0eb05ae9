package req

import (
	"net/url"
	"strings"
)

// ParseQuery splits a raw query string, without its leading "?", into a map.
//
// Pairs are "&"-delimited and split on the first "=".
// A pair without "=" yields its key with an empty value.
// The last value for a repeated key wins.
// Values that cannot be percent-decoded are kept as written.
func ParseQuery(raw string) map[string]string {
	m, _ := parsePairs(raw, false)
	return m
}

// parseForm decodes an application/x-www-form-urlencoded body.
// Unlike ParseQuery, a bad percent-encoding fails the whole body.
func parseForm(b []byte) (Body, error) {
	m, err := parsePairs(string(b), true)
	if err != nil {
		return EmptyBody(), err
	}

	return FormBody(m), nil
}

func parsePairs(raw string, strict bool) (map[string]string, error) {
	m := make(map[string]string)
	for _, pair := range strings.Split(raw, "&") {
		if pair == "" {
			continue
		}

		key, val, _ := strings.Cut(pair, "=")

		k, err := url.QueryUnescape(key)
		if err != nil {
			if strict {
				return nil, err
			}
			k = key
		}

		v, err := url.QueryUnescape(val)
		if err != nil {
			if strict {
				return nil, err
			}
			v = val
		}

		m[k] = v
	}

	return m, nil
}
