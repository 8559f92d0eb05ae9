/*
Package router holds the route table of one mount and the matcher the dispatcher runs against it.

A [Router] is anchored at a root path, its mount point,
and maps each HTTP method to the patterns registered under it, in registration order.
A pattern is a slash-delimited path whose segments are literals or named parameters written {name}:

	users := router.New("/users")
	users.Get("/{id}", router.HandlerFunc(func(c *router.Context) *resp.Response {
		return resp.Text(http.StatusOK, "user %s", c.Param["id"])
	}))

Every pattern is stored twice, with and without a trailing slash,
so "/users/42" and "/users/42/" reach the same handler.
Runs of slashes collapse to one, both when registering and when matching.

Matching compares segments position by position and never crosses a length mismatch:
there are no wildcards or catch-all segments.
When more than one pattern fits a path, the one registered first wins.
Register literal patterns such as "/me" before parameterized ones such as "/{id}"
when the literal one must take priority.

A Router is built once at startup.
The dispatcher freezes it when it starts serving and it is read without locks from then on.
*/
package router
