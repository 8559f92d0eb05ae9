package static

import (
	"errors"
	"io/fs"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/lindsaykwardell/http-wrapper/http/resp"
)

const indexFile = "index.html"

// A Resolver maps URL paths starting with its prefix to files under its root directory.
type Resolver struct {
	root   string
	prefix string
}

// New constructs a *Resolver serving the files under root at prefix.
//
// An empty prefix becomes the last element of root, e.g., "./web/public" serves at "/public".
// The prefix always starts with "/".
func New(root, prefix string) *Resolver {
	root = filepath.Clean(root)
	if prefix == "" {
		prefix = filepath.Base(root)
	}
	if !strings.HasPrefix(prefix, "/") {
		prefix = "/" + prefix
	}

	return &Resolver{root: root, prefix: prefix}
}

// Prefix returns the URL prefix the Resolver serves at.
func (s *Resolver) Prefix() string { return s.prefix }

// Root returns the directory the Resolver reads from.
func (s *Resolver) Root() string { return s.root }

// Matches reports whether urlPath starts with the Resolver's prefix.
func (s *Resolver) Matches(urlPath string) bool { return strings.HasPrefix(urlPath, s.prefix) }

// Resolve reads the file urlPath points to.
//
// The prefix is stripped from urlPath and the rest is joined onto the root directory;
// when that is the root directory itself, index.html is read instead.
// The Content-Type comes from the file extension, falling back to application/octet-stream.
//
// A missing file, or a path that leaves the root directory, is a 404.
// Any other failure reading the file is a 401.
func (s *Resolver) Resolve(urlPath string) *resp.Response {
	name := filepath.Join(s.root, filepath.FromSlash(strings.TrimPrefix(urlPath, s.prefix)))
	if name == s.root {
		name = filepath.Join(name, indexFile)
	}

	if !s.contains(name) {
		return resp.NotFound()
	}

	b, err := os.ReadFile(name)
	if errors.Is(err, fs.ErrNotExist) {
		return resp.NotFound()
	}
	if err != nil {
		return resp.New(http.StatusUnauthorized)
	}

	return resp.Bytes(http.StatusOK, contentType(name), b)
}

func (s *Resolver) contains(name string) bool {
	rel, err := filepath.Rel(s.root, name)
	if err != nil {
		return false
	}

	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

func contentType(name string) string {
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}

	return resp.ContentTypeBinary
}
