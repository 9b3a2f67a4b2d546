package ui

import (
	"github.com/michida/michida/internal/models"
)

// feedLoadedMsg carries the visible posts after a feed refresh or a filter
// change.
type feedLoadedMsg struct {
	posts []models.Post
	err   error
}

// threadsLoadedMsg carries a post's comment threads.
type threadsLoadedMsg struct {
	post    models.Post
	threads []models.Thread
	err     error
}

// foldersLoadedMsg carries the viewer's playlist folders.
type foldersLoadedMsg struct {
	folders []models.Folder
	items   []models.PlaylistItem
	err     error
}

// recentLoadedMsg carries the recently-played cache entries.
type recentLoadedMsg struct {
	tracks []models.RecentTrack
	err    error
}

// statusMsg surfaces the outcome of a fire-and-forget action in the footer.
type statusMsg struct {
	text string
}
