package wrapper_test

import (
	"testing"

	wrapper "github.com/lindsaykwardell/http-wrapper"
	"github.com/stretchr/testify/require"
)

func TestKeyString(t *testing.T) {
	require.Equal(t, "http-wrapper context key: RequestIDKey", wrapper.RequestIDKey.String())
}
