// Package models defines the records exchanged with the myFlix API.
//
// Catalog records are read-only from the client's point of view:
//   - [Movie] : a catalog entry with its embedded [Genre] and [Director]
//
// Account records:
//   - [User] : the authenticated user's profile and favorite movie IDs
//
// Request and response records give every endpoint an explicit shape:
//   - [RegisterRequest], [LoginRequest], [UpdateUserRequest], [FavoriteRequest]
//   - [LoginResponse], [MessageResponse]
//
// [FavoritesExport] is the portable favorites file written and read by the export and import commands.
//
// JSON field names follow the API (capitalized keys, Mongo-style "_id").
package models
