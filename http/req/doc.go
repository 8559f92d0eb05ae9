/*
Package req turns the parts of an HTTP request into values a route handler can use.

# Bodies

A [Negotiator] picks a [ParseFunc] by the exact value of a request's Content-Type header
and hands back a [Body], a tagged value holding either the raw bytes,
a form's key/value pairs or a structured document.
Three content types are registered by default:

	application/json
	application/x-www-form-urlencoded
	application/xml

[*Negotiator.UseParser] adds or replaces entries.
A missing or unregistered Content-Type passes the raw bytes through untouched.
A parser failing is logged and yields an empty Body; it never fails the request.

# Query strings

[ParseQuery] splits a raw query string into a map where the last value for a key wins.

# Typed binding

A [Parser] decodes JSON bodies or query parameters into a pointer to a struct
and then validates the struct against its "validate" tags.
Errors are translated into the sentinel errors of the root package
so handlers see a consistent interface regardless of the encoding.
*/
package req
