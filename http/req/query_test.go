package req_test

import (
	"testing"

	"github.com/lindsaykwardell/http-wrapper/http/req"
	"github.com/stretchr/testify/require"
)

func TestParseQuery(t *testing.T) {
	for _, tc := range []struct {
		name     string
		raw      string
		expected map[string]string
	}{
		{"Zero-Value", "", map[string]string{}},
		{"Single", "a=1", map[string]string{"a": "1"}},
		{"Many", "a=1&b=two", map[string]string{"a": "1", "b": "two"}},
		{"Last-Wins", "a=1&a=2&a=3", map[string]string{"a": "3"}},
		{"No-Equals", "flag&a=1", map[string]string{"flag": "", "a": "1"}},
		{"Empty-Pairs", "&&a=1&", map[string]string{"a": "1"}},
		{"Split-On-First-Equals", "eq=a=b", map[string]string{"eq": "a=b"}},
		{"Percent-Decoded", "q=hello%20world&plus=a+b", map[string]string{"q": "hello world", "plus": "a b"}},
		{"Bad-Escape-Kept", "q=100%&ok=1", map[string]string{"q": "100%", "ok": "1"}},
	} {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, req.ParseQuery(tc.raw))
		})
	}
}
