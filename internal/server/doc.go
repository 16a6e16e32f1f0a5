// Package server provides HTTP routing, middleware and the JSON handlers of the catalog API.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses gorilla/mux internally for path variables and method matching.
// Global middleware wraps the whole router so CORS preflights and unmatched paths are logged too.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface and list their endpoints as [Route] values,
// encapsulating route definitions within the implementation:
//   - [RootHandler] : welcome banner and /health
//   - [AccountHandler] : /login, /api/users/signup, /api/users/login, /api/users/me
//   - [ArtistHandler], [AlbumHandler], [TrackHandler] : catalog CRUD and the favorite toggle
//
// # Auth Gate
//
// Routes flagged Protected pass through [RequireAuth], which expects "Authorization: Bearer <token>".
// Every write route under /api/artists, /api/albums and /api/tracks is protected; reads are public.
// All gate failures answer 401 with a {"message"} body.
//
// # Errors
//
// Handlers map service errors to status codes by sentinel (see statusFor). Failures without a client
// message are logged with the request id and answered 500 {"message": "Server error"}.
package server
