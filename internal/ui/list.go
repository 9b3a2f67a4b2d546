package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/michida/michida/internal/formatter"
	"github.com/michida/michida/internal/models"
)

var (
	_ list.Item = postItem{}
	_ list.Item = commentItem{}
	_ list.Item = folderItem{}
	_ list.Item = recentItem{}
)

// postItem wraps [models.Post] to implement [list.Item]. search carries the
// active search term so matched text can be styled in place.
type postItem struct {
	post   models.Post
	search string
}

func (i postItem) FilterValue() string {
	return fmt.Sprintf("%s %s", i.post.Title, i.post.Artist)
}

func (i postItem) Title() string {
	title := fmt.Sprintf("%s - %s",
		highlightMatches(i.post.Title, i.search),
		highlightMatches(i.post.Artist, i.search))
	if i.post.IsLiked {
		title = "♥ " + title
	}
	return title
}

// highlightMatches styles every case-insensitive occurrence of query in s.
func highlightMatches(s, query string) string {
	ranges := formatter.HighlightRanges(s, query)
	if len(ranges) == 0 {
		return s
	}

	var b strings.Builder
	last := 0
	for _, r := range ranges {
		b.WriteString(s[last:r.Start])
		b.WriteString(styles.match.Render(s[r.Start:r.End]))
		last = r.End
	}
	b.WriteString(s[last:])
	return b.String()
}

func (i postItem) Description() string {
	return fmt.Sprintf("%s • %s • %d views • %d likes",
		i.post.Mood, i.post.Genre, i.post.Views, i.post.Likes)
}

// commentItem wraps [models.Comment] to implement [list.Item]. Replies are
// indented under their top-level comment.
type commentItem struct {
	comment models.Comment
	reply   bool
}

func (i commentItem) FilterValue() string { return i.comment.Content }

func (i commentItem) Title() string {
	content := strings.ReplaceAll(i.comment.Content, "\n", " ")
	if i.reply {
		return "  ↳ " + content
	}
	return content
}

func (i commentItem) Description() string {
	author := "anonymous"
	if i.comment.Author != nil && i.comment.Author.Name != "" {
		author = i.comment.Author.Name
	}
	desc := fmt.Sprintf("%s • %s • %d likes",
		author, formatter.RelativeTime(i.comment.CreatedAt, time.Now()), i.comment.Likes)
	if i.comment.Edited() {
		desc += " • edited"
	}
	if i.reply {
		desc = "    " + desc
	}
	return desc
}

// folderItem wraps [models.Folder] to implement [list.Item].
type folderItem struct {
	folder   models.Folder
	count    int
	selected bool
}

func (i folderItem) FilterValue() string { return i.folder.Name }

func (i folderItem) Title() string {
	if i.selected {
		return "▸ " + i.folder.Name
	}
	return i.folder.Name
}

func (i folderItem) Description() string {
	return fmt.Sprintf("%d tracks", i.count)
}

// recentItem wraps [models.RecentTrack] to implement [list.Item].
type recentItem struct {
	track models.RecentTrack
}

func (i recentItem) FilterValue() string { return i.track.Title }
func (i recentItem) Title() string       { return fmt.Sprintf("%s - %s", i.track.Title, i.track.Artist) }
func (i recentItem) Description() string { return i.track.YoutubeID }
