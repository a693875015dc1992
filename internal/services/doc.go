// Package services defines the [Service] interface for movie metadata providers and implements it for TMDB.
//
// # TMDB Implementation
//
// [TMDBService] authenticates with an API read access token. The token is attached as
// "Authorization: Bearer <token>" by an [oauth2.Transport] over a static token source, so
// every request made through the service's client carries it.
//
// Searches use fixed parameters: adult titles excluded, en-US locale, first page only.
// Details are mapped onto a [models.Movie] by [MapMovie]:
//   - title and overview are copied as-is
//   - the year is the segment of release_date before the first "-"; empty or malformed dates give a nil year
//   - the poster path is joined to the configured image base URL; no poster gives a nil image
//
// # Error Handling
//
// Transport failures, non-2xx statuses and undecodable bodies are wrapped in [shared.ErrAPIRequest].
// A detail response without a title is rejected the same way since a movie cannot be stored without one.
package services
