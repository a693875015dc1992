// Package models defines domain entities and persistence interfaces for the reel movie ranking app.
//
// The package contains two categories of types:
//
// 1. Data Transfer Objects (DTOs): Lightweight structs representing external service data
//   - [Candidate] : A search hit from the metadata API, shown to the user for selection
//
// 2. Persistent Entities: Database-backed models
//   - [Movie] : One ranked movie with the user's rating and review
//
// Every field of [Movie] other than ID and Title is optional and modelled as a pointer, nil meaning NULL.
// The [MovieRepository] interface defines the storage operations used by the web handlers, CLI and TUI.
package models
