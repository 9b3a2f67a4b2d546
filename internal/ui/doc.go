// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI presents the shared feed as a browsable list with live filtering:
//  1. [FeedView] : Browse posts, apply mood/genre/search filters, control playback
//  2. [CommentView] : Read a post's comment threads and jump to timestamps
//  3. [FolderView] : Pick a playlist folder to scope the feed to
//  4. [RecentView] : Replay from the recently-played cache
//
// The [Model] implements bubbletea's standard Init/Update/View pattern. All
// remote work runs inside commands so the event loop never blocks; each
// command resolves to a typed message carrying data or an error.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
