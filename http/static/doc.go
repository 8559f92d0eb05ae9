// Package static resolves URL paths under a prefix to files in a local directory.
package static
