// Package repositories implements the client's local SQLite persistence.
//
// Unlike the feed, comments, and playlists, which live in the remote
// backend, two things persist on the user's machine:
//
//   - [KVStore] : a get/set/remove string key-value surface
//   - [RecentStore] : the recently-played cache layered on the KV store,
//     bounded to the 8 most recent distinct posts, most-recent-first
//
// The saved session token also lives in the KV store so a new process can
// initialize from an existing session.
package repositories
