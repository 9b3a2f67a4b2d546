package store

import (
	"strings"

	"github.com/michida/michida/internal/models"
)

// Filter is the current view selection: a free-text search over title and
// artist, a mood, a genre, and an optional folder. The zero value matches
// everything.
type Filter struct {
	Search   string
	Mood     models.Mood
	Genre    models.Genre
	FolderID int64 // 0 means no folder selected
}

// Apply returns the ordered subsequence of posts satisfying every predicate.
// folderMembers is the post-id set of the selected folder and is consulted
// only when a folder is selected; when FolderID is zero the folder predicate
// is vacuously true.
//
// Apply never mutates its inputs and preserves the input ordering, which is
// server-provided descending-by-creation-time.
func (f Filter) Apply(posts []models.Post, folderMembers map[int64]bool) []models.Post {
	visible := make([]models.Post, 0, len(posts))
	for _, p := range posts {
		if f.Matches(p, folderMembers) {
			visible = append(visible, p)
		}
	}
	return visible
}

// Matches reports whether a single post satisfies the conjunction of the
// four predicates.
func (f Filter) Matches(p models.Post, folderMembers map[int64]bool) bool {
	if !f.matchesSearch(p) {
		return false
	}
	if f.Mood != "" && f.Mood != models.MoodAll && p.Mood != f.Mood {
		return false
	}
	if f.Genre != "" && f.Genre != models.GenreAll && p.Genre != f.Genre {
		return false
	}
	if f.FolderID != 0 && !folderMembers[p.ID] {
		return false
	}
	return true
}

func (f Filter) matchesSearch(p models.Post) bool {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	if term == "" {
		return true
	}
	return strings.Contains(strings.ToLower(p.Title), term) ||
		strings.Contains(strings.ToLower(p.Artist), term)
}
