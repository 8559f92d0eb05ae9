/*
Package wrapper holds the pieces shared by every package in http-wrapper:
sentinel errors, the [Environment] an app runs in, helpers for reading configuration
from environment variables, and the [Key] type used to stash values in a [context.Context].

The routing and dispatch engine lives in http/router, http/req, http/static and http/server.
The real-time broadcast hub lives in http/socket.
Package app assembles all of them into a runnable web server.
*/
package wrapper
