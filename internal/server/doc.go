// Package server provides a local, in-memory implementation of the myFlix REST API.
//
// It serves the same endpoints as the hosted API so the CLI and TUI can be developed and tested offline:
//
//	GET    /health                              liveness and catalog size
//	POST   /users                               register
//	POST   /login                               log in, returns {user, token}
//	GET    /movies                              catalog
//	GET    /movies/{title}                      one movie
//	GET    /movies/genre/{name}                 genre
//	GET    /movies/directors/{name}             director
//	GET    /users/{username}                    account
//	PUT    /users/{username}                    update account
//	DELETE /users/{username}                    delete account (plain text reply)
//	POST   /users/{username}/movies/{movieID}   add favorite
//	DELETE /users/{username}/movies/{movieID}   remove favorite
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("GET /movies/{title}").
//
// # Authentication
//
// [TokenIssuer] signs HS256 tokens whose subject is the user ID. [RequireAuth] verifies the bearer token
// and stores the subject in the request context; handlers then check that the {username} in the path
// belongs to that subject. Passwords are stored as bcrypt hashes.
//
// # Errors
//
// Failures mirror the hosted API: 422 with an {"errors":[{"msg","param","location"}]} body for invalid
// input, a plain text body for most other 4xx responses, and a plain "Unauthorized" 401.
package server
