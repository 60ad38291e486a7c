// Package server provides HTTP routing, middleware, and the newsletter API handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method-qualified patterns.
//
// # Handlers
//
// [NewsletterHandler] serves period content, period listings, the
// all-posts feed, and entry comments. [AuthHandler] validates the admin
// passcode with a constant-time comparison.
//
// Both implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Response Envelope
//
// Successful reads answer {"data": ...}; successful writes answer
// {"success": true, ...}; failures answer {"error": ..., "details": ...}.
package server
