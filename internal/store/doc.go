// Package store implements the client-side application state for the
// music-sharing client: the feed, filtering, playback, comments, playlists,
// and the signed-in session.
//
// Every controller is a leaf over the same [services.Backend]; there is no
// scheduling between them beyond ordinary call-and-refresh. Mutating
// operations re-fetch from the backend instead of patching local state, so
// derived values (like counts in particular) can never drift from the
// source of truth.
//
// The one deliberate exception is the playback "shield": once a post's
// player is mounted it stays mounted across any filter change, and is only
// replaced when the user selects a different post. See [PlaybackController].
package store
