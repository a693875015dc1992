// Package web implements the server-rendered movie list application.
//
// # Routes
//
//	GET      /                       → ranked movie list
//	GET|POST /add                    → title search form, then TMDB candidates
//	GET      /search?movie_id=<id>   → import a candidate, redirect to edit
//	GET|POST /edit?id=<id>           → rating & review form
//	GET      /delete?id=<id>         → hard delete, redirect to list
//	GET      /healthz                → JSON status with the movie count
//	GET      /static/*filepath       → embedded stylesheet
//
// # Templates
//
// Pages are html/template files embedded into the binary. Each page is parsed together with
// base.html, which supplies the layout; pages define a "content" block.
//
// # Error Handling
//
// Handler errors are mapped by [Handler.handleError]: [shared.ErrNotFound] renders a 404 page,
// [shared.ErrInvalidInput] a 400, anything else is logged and rendered as a generic 500.
// Form validation failures are not errors: the form is redisplayed with messages and nothing is persisted.
//
// # Dependencies
//
// [Handler] receives its repository, metadata service and logger through [HandlerOpts] so tests
// can run it against an in-memory database and a fake service.
package web
