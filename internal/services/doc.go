// Package services defines the [Backend] interface for the remote data and
// identity provider, and implements it for a Supabase-style stack
// (PostgREST query API + GoTrue auth + a stored procedure endpoint).
//
// # Backend Interface
//
// All persistence, authentication, and counting are delegated to the remote
// backend. The interface covers exactly what the client needs: select / insert /
// update / delete / count over named collections with equality and ordering
// predicates, one "increment a counter column by row id" procedure call,
// session retrieval, an OAuth-redirect sign-in URL, and sign-out.
//
// # Player Bridge
//
// [PlayerBridge] carries commands to the embedded video player over a
// postMessage-style channel: playVideo, pauseVideo, and seekTo. The bridge
// only sends; playback state bookkeeping lives in the store package.
package services
