// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI browses the stored movie list:
//  1. [ListView] : Ranked movies, filterable by title
//  2. [DetailView] : Year, rating, review, description and poster URL of one movie
//  3. [ConfirmView] : Confirm deleting the selected movie
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Store reads and deletes run as [tea.Cmd] functions so the UI never blocks on SQLite.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, d, y/n, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
