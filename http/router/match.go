package router

import (
	"regexp"
	"strings"
)

var slashRun = regexp.MustCompile(`/{2,}`)

// Normalize collapses every run of slashes in path into one.
func Normalize(path string) string {
	return slashRun.ReplaceAllString(path, "/")
}

// Segments strips the leading slash from path and splits the rest on "/".
//
//	/users/42  => [users 42]
//	/users/42/ => [users 42 ""]
//	/          => [""]
func Segments(path string) []string {
	return strings.Split(strings.TrimPrefix(path, "/"), "/")
}

// IsParam reports whether segment is a parameter token, {name}, and returns the name.
// Unbalanced or empty delimiters, as in "{id" or "{}", are literals.
func IsParam(segment string) (string, bool) {
	if len(segment) < 3 || segment[0] != '{' || segment[len(segment)-1] != '}' {
		return "", false
	}

	name := segment[1 : len(segment)-1]
	if strings.ContainsAny(name, "{}") {
		return "", false
	}

	return name, true
}

// Match compares the segments of a request path against those of a pattern.
//
// The two must have the same length.
// Each position matches on string equality or when the pattern segment is a parameter token
// and the request segment is not empty.
// Match returns the captured parameters, which is nil when pattern holds no parameter token.
func Match(request, pattern []string) (map[string]string, bool) {
	if len(request) != len(pattern) {
		return nil, false
	}

	var params map[string]string
	for i, seg := range pattern {
		if seg == request[i] {
			continue
		}

		name, ok := IsParam(seg)
		if !ok || request[i] == "" {
			return nil, false
		}

		if params == nil {
			params = make(map[string]string)
		}
		params[name] = request[i]
	}

	return params, true
}

func hasParam(segments []string) bool {
	for _, seg := range segments {
		if _, ok := IsParam(seg); ok {
			return true
		}
	}

	return false
}
