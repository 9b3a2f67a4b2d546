// Package models defines domain entities for the MICHIDA music-sharing client.
//
// The package contains two categories of types:
//
// 1. Remote rows: structs mirroring the backend's collections
//   - [Post] : a shared track reference with mood/genre tags and derived counts
//   - [Comment] : a per-post comment, at most one reply level deep
//   - [Folder] : a user-owned named grouping of post references
//   - [PlaylistItem] : membership of a post in a folder
//   - [Profile] : public author information for the comment author popup
//   - [User] : the signed-in identity reported by the auth provider
//
// 2. Local types: client-side state never stored remotely
//   - [RecentTrack] : denormalized snapshot kept in the recently-played cache
//   - [Mood] / [Genre] : fixed classification vocabularies with an "all" sentinel
//
// Post.Likes and Comment.Likes are always derived by counting like-edge rows
// at read time. The client never increments a stored counter, so concurrent
// likers in different sessions cannot desynchronize it.
package models
