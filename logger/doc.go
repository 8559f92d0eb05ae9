/*
Package logger provides logging for an http-wrapper app by defining the required behavior in [Logger]
and providing an implementation of it with [StdLogger].

# Overview

The Logger interface outputs messages at certain levels of importance.
LogLevel is the type to use to represent those levels.
[StdLogger] accepts a [LogLevel] and only emits messages at or above it.
For example, if initialized with [LogLevelWarn],
only [*StdLogger.Warn], [*StdLogger.Error], and [*StdLogger.Fatal] produce messages.

Log messages emitted by [StdLogger] are composed of a few parts:
  - timestamp
  - log level
  - call site
  - message
  - log context

Here's an example:

	2024/04/28 15:55:21 [WARN] http/req/negotiate.go:81 'failed parsing body' log_context: {"data":{"contentType":"application/json"},"error":"unexpected EOF"}

The log context is a JSON-encoded [LogContext].
It carries data inessential to the message proper,
such as the socket connection or the HTTP request in flight.

# SentryLogger

When SENTRY_DSN is set, [New] wraps the [StdLogger] in a [SentryLogger],
which additionally reports errors in a [LogContext] to Sentry.
*/
package logger
