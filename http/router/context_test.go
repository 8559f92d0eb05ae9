package router_test

import (
	"testing"

	wrapper "github.com/lindsaykwardell/http-wrapper"
	"github.com/lindsaykwardell/http-wrapper/http/req"
	"github.com/lindsaykwardell/http-wrapper/http/router"
	"github.com/stretchr/testify/require"
)

type search struct {
	Term  string `json:"term" schema:"term" validate:"required"`
	Limit int    `json:"limit" schema:"limit" validate:"lte=100"`
}

func TestContextBind(t *testing.T) {
	tcs := []struct {
		name     string
		ctx      router.Context
		expected search
		err      error
	}{
		{
			"Document",
			router.Context{Body: req.DocumentBody(map[string]any{"term": "go", "limit": float64(10)})},
			search{Term: "go", Limit: 10},
			nil,
		},
		{
			"Form",
			router.Context{Body: req.FormBody(map[string]string{"term": "go", "limit": "10"})},
			search{Term: "go", Limit: 10},
			nil,
		},
		{
			"Query-When-Raw",
			router.Context{Body: req.RawBody(nil), Query: map[string]string{"term": "go"}},
			search{Term: "go"},
			nil,
		},
		{
			"Query-When-Empty",
			router.Context{Query: map[string]string{"term": "go", "limit": "5"}, Parser: req.NewParser()},
			search{Term: "go", Limit: 5},
			nil,
		},
		{
			"Invalid",
			router.Context{Body: req.FormBody(map[string]string{"limit": "500"})},
			search{},
			wrapper.ErrNotValid,
		},
		{
			"Bad-Document",
			router.Context{Body: req.DocumentBody([]any{"go"})},
			search{},
			wrapper.ErrBadFormat,
		},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			var actual search

			// Act
			err := tc.ctx.Bind(&actual)

			// Assert
			if tc.err != nil {
				require.ErrorIs(t, err, tc.err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.expected, actual)
		})
	}
}

func TestContextBindQuery(t *testing.T) {
	// Arrange
	c := router.Context{
		Body:  req.FormBody(map[string]string{"term": "from-body"}),
		Query: map[string]string{"term": "from-query"},
	}
	var actual search

	// Act
	err := c.BindQuery(&actual)

	// Assert
	require.NoError(t, err)
	require.Equal(t, "from-query", actual.Term)
}
