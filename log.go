package wrapper

import "net/url"

const LogMaskVal = "xxxxxx"

// Mask replaces the values set for key in vals with a single [LogMaskVal].
// Mask returns vals for convenience.
func Mask(vals url.Values, key string) url.Values {
	if _, ok := vals[key]; ok {
		vals[key] = []string{LogMaskVal}
	}

	return vals
}
