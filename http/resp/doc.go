/*
Package resp defines the response descriptor a route handler hands back to the dispatcher.

A [Response] is a status code, a set of headers and a body.
Handlers build one with the helpers in this package,
e.g., [JSON], [Text], [Bytes] or [NotFound],
and the dispatcher writes it with [*Response.Write].
A nil *Response tells the dispatcher the handler already took over the transport,
as when a connection is upgraded to a WebSocket.
*/
package resp
