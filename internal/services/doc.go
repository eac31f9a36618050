// Package services implements the myFlix REST API client.
//
// # Client
//
// [Client] exposes one method per endpoint and implements [Service]. Each method takes a context,
// encodes an explicit request record and decodes an explicit response record from the models package.
//
// # Authentication
//
// The client is constructed with a [session.Session]. Authenticated requests go through an
// [oauth2.Transport] whose token source reads the session at call time, so the
// "Authorization: Bearer <token>" header always reflects the latest login. With no active session,
// authenticated methods fail with [shared.ErrNotAuthenticated] before any network I/O.
//
// [Client.Login] starts the session, [Client.Logout] and [Client.DeleteUser] end it.
//
// # Error Handling
//
// Failures are returned as [*APIError] carrying a [Kind]:
//   - [KindNetwork] : transport failure, no response
//   - [KindHTTP4xx] : client error without structured details
//   - [KindHTTP5xx] : server error
//   - [KindValidation] : 4xx with an {"errors":[{"msg":...}]} body, exposed through [APIError.Details]
//
// Every APIError matches [shared.ErrAPIRequest] with errors.Is; 401 responses also match [shared.ErrNotAuthenticated].
// The user-facing text is the generic [GenericMessage]; status and body are logged.
//
// # Raw Requests
//
// [Client.Get] and [Client.Post] return an [APIResponse] for arbitrary paths, used by the "api" CLI commands.
package services
