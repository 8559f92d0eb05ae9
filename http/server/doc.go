/*
Package server dispatches HTTP requests to the routes of the mounts it holds.

For each request a [*Server]:

 1. normalizes the path and parses the query string;
 2. walks its mounts in the order they were added and each mount's routes for the request method
    in registration order, stopping at the first whose full path equals the request path
    or whose segments match it;
 3. on a match, reads and negotiates the body, unless the handler was made with [router.Raw],
    and invokes the handler;
 4. otherwise hands the path to its static resolver when it starts with the resolver's prefix;
 5. otherwise responds 404 with no body.

Handlers own their failures: the Server does not recover panics.
Wrap it with the panic reporting adapter in package middleware for that.
*/
package server
