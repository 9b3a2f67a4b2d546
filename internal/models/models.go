package models

import (
	"fmt"
	"strings"
	"time"
)

// Mood is one of the fixed mood tags attached to a post.
type Mood string

// Genre is one of the fixed genre tags attached to a post. Mood and genre
// are independent axes.
type Genre string

const (
	MoodAll       Mood = "all"
	MoodUpbeat    Mood = "upbeat"
	MoodLateNight Mood = "late-night"
	MoodCalm      Mood = "calm"
	MoodPowerful  Mood = "powerful"
	MoodRocking   Mood = "rocking"
	MoodJazzy     Mood = "jazzy"
	MoodClassical Mood = "classical"
	MoodTrendy    Mood = "trendy"
	MoodHipHop    Mood = "hip-hop"
	MoodDreamy    Mood = "dreamy"
)

const (
	GenreAll        Genre = "all"
	GenreBallad     Genre = "ballad"
	GenreDance      Genre = "dance"
	GenreHipHop     Genre = "hip-hop"
	GenreRnB        Genre = "rnb"
	GenrePop        Genre = "pop"
	GenreJPop       Genre = "j-pop"
	GenreIndie      Genre = "indie"
	GenreRock       Genre = "rock"
	GenreRockBallad Genre = "rock-ballad"
	GenreMusical    Genre = "musical"
	GenreKPop       Genre = "k-pop"
	GenreClassical  Genre = "classical"
)

// Moods lists every selectable mood, excluding the [MoodAll] sentinel.
func Moods() []Mood {
	return []Mood{
		MoodUpbeat, MoodLateNight, MoodCalm, MoodPowerful, MoodRocking,
		MoodJazzy, MoodClassical, MoodTrendy, MoodHipHop, MoodDreamy,
	}
}

// Genres lists every selectable genre, excluding the [GenreAll] sentinel.
func Genres() []Genre {
	return []Genre{
		GenreBallad, GenreDance, GenreHipHop, GenreRnB, GenrePop, GenreJPop,
		GenreIndie, GenreRock, GenreRockBallad, GenreMusical, GenreKPop,
		GenreClassical,
	}
}

// ParseMood matches a user-supplied string against the mood vocabulary.
func ParseMood(s string) (Mood, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(MoodAll) {
		return MoodAll, nil
	}
	for _, m := range Moods() {
		if s == string(m) {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown mood %q", s)
}

// ParseGenre matches a user-supplied string against the genre vocabulary.
func ParseGenre(s string) (Genre, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" || s == string(GenreAll) {
		return GenreAll, nil
	}
	for _, g := range Genres() {
		if s == string(g) {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown genre %q", s)
}

// Post represents a shared music track reference.
//
// Likes is derived from the post_likes collection, never read from a stored
// counter. IsLiked reflects the current viewer and is false when signed out.
type Post struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Artist      string    `json:"artist"`
	Description string    `json:"description"`
	YoutubeID   string    `json:"youtube_id,omitempty"`
	Mood        Mood      `json:"mood"`
	Genre       Genre     `json:"genre"`
	Views       int       `json:"views"`
	Likes       int       `json:"likes"`
	IsLiked     bool      `json:"isLiked,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// Validate checks the fields required before an upload.
func (p *Post) Validate() error {
	if strings.TrimSpace(p.Title) == "" {
		return fmt.Errorf("post title is required")
	}
	if strings.TrimSpace(p.Artist) == "" {
		return fmt.Errorf("post artist is required")
	}
	if p.Mood == "" || p.Mood == MoodAll {
		return fmt.Errorf("post mood is required")
	}
	if p.Genre == "" || p.Genre == GenreAll {
		return fmt.Errorf("post genre is required")
	}
	return nil
}

// Comment represents one comment on a post. ParentID is empty for top-level
// comments and holds the top-level comment's id for replies; replies to
// replies are not representable.
type Comment struct {
	ID        string     `json:"id"`
	PostID    int64      `json:"post_id"`
	UserID    string     `json:"user_id"`
	Content   string     `json:"content"`
	ParentID  string     `json:"parent_id,omitempty"`
	Likes     int        `json:"likes_count"`
	IsLiked   bool       `json:"isLiked,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Author    *Profile   `json:"author,omitempty"`
}

// Edited reports whether the comment carries an edit timestamp.
func (c *Comment) Edited() bool { return c.UpdatedAt != nil }

// Thread is the client-side arrangement of a post's comments: top-level
// comments in creation order, each with its replies in creation order.
type Thread struct {
	Comment Comment
	Replies []Comment
}

// Folder is a user-owned playlist folder. Deleting a folder deletes its
// membership rows but preserves the referenced posts.
type Folder struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// PlaylistItem records that a post belongs to a folder. (UserID, PostID,
// FolderID) is unique server-side; the client sees violations as a generic
// insert failure.
type PlaylistItem struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	PostID    int64     `json:"post_id"`
	FolderID  int64     `json:"folder_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Profile is the public slice of a user shown in the comment author popup.
type Profile struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	AvatarURL    string `json:"avatar_url,omitempty"`
	CommentCount int    `json:"comment_count"`
}

// User is the signed-in identity reported by the auth provider.
type User struct {
	ID        string `json:"id"`
	Email     string `json:"email,omitempty"`
	Name      string `json:"name,omitempty"`
	AvatarURL string `json:"avatar_url,omitempty"`
}

// RecentTrack is the denormalized snapshot of a post kept in the local
// recently-played cache.
type RecentTrack struct {
	PostID    int64  `json:"id"`
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	YoutubeID string `json:"youtube_id,omitempty"`
}

// SnapshotPost builds the cache entry for a post.
func SnapshotPost(p Post) RecentTrack {
	return RecentTrack{PostID: p.ID, Title: p.Title, Artist: p.Artist, YoutubeID: p.YoutubeID}
}
