// Package repositories implements SQLite persistence for the client's local state.
//
// The only local state is the session:
//   - [SessionRepository] : the "user" and "token" entries, plus an audit trail of logins, logouts and deletions
//
// Schema lives in the embedded migrations of the shared package; repositories assume [shared.RunMigrations] has run.
package repositories
