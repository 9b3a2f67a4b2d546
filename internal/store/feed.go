package store

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/services"
	"github.com/michida/michida/internal/shared"
	"golang.org/x/time/rate"
)

// postLike is one like-edge row for a post.
type postLike struct {
	ID     int64  `json:"id"`
	PostID int64  `json:"post_id"`
	UserID string `json:"user_id"`
}

// FeedStore holds the full post set and is the source of truth for
// rendering. It is re-fetched after every mutating action; responses are
// published unconditionally, so the last fetch to resolve wins.
type FeedStore struct {
	backend  services.Backend
	session  *SessionManager
	prompter Prompter
	logger   *log.Logger
	limiter  *rate.Limiter

	mu    sync.RWMutex
	posts []models.Post
}

// NewFeedStore creates a feed store. countRate bounds the per-row like-count
// hydration fan-out in requests per second; zero or negative disables pacing.
func NewFeedStore(backend services.Backend, session *SessionManager, prompter Prompter, logger *log.Logger, countRate float64) *FeedStore {
	var limiter *rate.Limiter
	if countRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(countRate), 1)
	}

	return &FeedStore{
		backend:  backend,
		session:  session,
		prompter: prompter,
		logger:   logger,
		limiter:  limiter,
	}
}

// Refresh fetches every post (always the full set; filtering happens
// client-side so the playback shield stays intact), hydrates per-post like
// counts with independent concurrent count queries, marks the viewer's
// liked posts, and publishes the result.
func (s *FeedStore) Refresh(ctx context.Context) error {
	var posts []models.Post
	err := s.backend.Select(ctx, services.Query{
		Table:   tablePosts,
		Columns: "id,title,artist,description,youtube_id,views,mood,genre,created_at",
		OrderBy: "created_at",
		Desc:    true,
	}, &posts)
	if err != nil {
		return fmt.Errorf("failed to fetch posts: %w", err)
	}

	liked := s.viewerLikedPosts(ctx)

	var wg sync.WaitGroup
	for i := range posts {
		wg.Add(1)
		go func(p *models.Post) {
			defer wg.Done()
			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					return
				}
			}

			count, err := s.backend.Count(ctx, services.Query{
				Table: tablePostLikes,
				Eq:    map[string]string{"post_id": strconv.FormatInt(p.ID, 10)},
			})
			if err != nil {
				// Partial failure: this post renders with a zero count
				// until the next refresh.
				s.logger.Warn("like count lookup failed", "post", p.ID, "err", err)
				return
			}
			p.Likes = count
		}(&posts[i])
	}
	wg.Wait()

	for i := range posts {
		posts[i].IsLiked = liked[posts[i].ID]
	}

	s.mu.Lock()
	s.posts = posts
	s.mu.Unlock()
	return nil
}

// viewerLikedPosts returns the set of post ids the current viewer has liked;
// empty when signed out or on lookup failure.
func (s *FeedStore) viewerLikedPosts(ctx context.Context) map[int64]bool {
	user := s.session.Current()
	if user == nil {
		return nil
	}

	var edges []postLike
	err := s.backend.Select(ctx, services.Query{
		Table:   tablePostLikes,
		Columns: "id,post_id,user_id",
		Eq:      map[string]string{"user_id": user.ID},
	}, &edges)
	if err != nil {
		s.logger.Warn("liked-post lookup failed", "err", err)
		return nil
	}

	liked := make(map[int64]bool, len(edges))
	for _, e := range edges {
		liked[e.PostID] = true
	}
	return liked
}

// Posts returns a copy of the full feed in server order.
func (s *FeedStore) Posts() []models.Post {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Post, len(s.posts))
	copy(out, s.posts)
	return out
}

// Post returns the post with the given id, if present.
func (s *FeedStore) Post(id int64) (models.Post, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, p := range s.posts {
		if p.ID == id {
			return p, true
		}
	}
	return models.Post{}, false
}

// TopPosts returns the n most-liked posts, most likes first.
func (s *FeedStore) TopPosts(n int) []models.Post {
	posts := s.Posts()
	sort.SliceStable(posts, func(i, j int) bool { return posts[i].Likes > posts[j].Likes })
	if len(posts) > n {
		posts = posts[:n]
	}
	return posts
}

// PostDraft is the upload form.
type PostDraft struct {
	Title       string
	Artist      string
	Description string
	YoutubeURL  string
	Mood        models.Mood
	Genre       models.Genre
}

// youtubeIDPattern extracts the 11-character video id from the URL shapes
// users paste (watch, share, embed).
var youtubeIDPattern = regexp.MustCompile(`(youtu\.be/|v/|u/\w/|embed/|watch\?v=|&v=)([^#&?]*)`)

// ParseYoutubeID returns the video id embedded in url, or "" when none is
// recognizable.
func ParseYoutubeID(url string) string {
	m := youtubeIDPattern.FindStringSubmatch(url)
	if m == nil || len(m[2]) != 11 {
		return ""
	}
	return m[2]
}

// Upload shares a new track and refreshes the feed.
func (s *FeedStore) Upload(ctx context.Context, draft PostDraft) error {
	if s.session.Current() == nil {
		return shared.ErrSignInRequired
	}

	post := models.Post{
		Title:       strings.TrimSpace(draft.Title),
		Artist:      strings.TrimSpace(draft.Artist),
		Description: strings.TrimSpace(draft.Description),
		YoutubeID:   ParseYoutubeID(draft.YoutubeURL),
		Mood:        draft.Mood,
		Genre:       draft.Genre,
	}
	if err := post.Validate(); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	row := map[string]any{
		"title":       post.Title,
		"artist":      post.Artist,
		"description": post.Description,
		"mood":        post.Mood,
		"genre":       post.Genre,
		"likes":       0,
		"views":       0,
	}
	if post.YoutubeID != "" {
		row["youtube_id"] = post.YoutubeID
	}

	if err := s.backend.Insert(ctx, tablePosts, row); err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// ToggleLike flips the viewer's like edge for a post: the edge's existence
// is the toggle state. The count is never touched locally; the refresh
// recomputes it from the like-edge rows.
func (s *FeedStore) ToggleLike(ctx context.Context, postID int64) error {
	user := s.session.Current()
	if user == nil {
		return shared.ErrSignInRequired
	}

	eq := map[string]string{
		"post_id": strconv.FormatInt(postID, 10),
		"user_id": user.ID,
	}

	var existing postLike
	found, err := s.backend.SelectMaybeSingle(ctx, services.Query{Table: tablePostLikes, Eq: eq}, &existing)
	if err != nil {
		return err
	}

	if found {
		err = s.backend.Delete(ctx, tablePostLikes, map[string]string{
			"id": strconv.FormatInt(existing.ID, 10),
		})
	} else {
		err = s.backend.Insert(ctx, tablePostLikes, map[string]any{
			"post_id": postID,
			"user_id": user.ID,
		})
	}
	if err != nil {
		return err
	}

	return s.Refresh(ctx)
}

// Delete removes a post after two sequential confirmations.
func (s *FeedStore) Delete(ctx context.Context, postID int64) error {
	if !s.prompter.Confirm("Delete this post?") {
		return shared.ErrConfirmationDeclined
	}
	if !s.prompter.Confirm("Deleted posts cannot be recovered. Really delete?") {
		return shared.ErrConfirmationDeclined
	}

	err := s.backend.Delete(ctx, tablePosts, map[string]string{
		"id": strconv.FormatInt(postID, 10),
	})
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// UpdateDescription replaces a post's description. An empty description
// clears it.
func (s *FeedStore) UpdateDescription(ctx context.Context, postID int64, description string) error {
	err := s.backend.Update(ctx, tablePosts,
		map[string]any{"description": description},
		map[string]string{"id": strconv.FormatInt(postID, 10)},
	)
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// BumpViews optimistically increments the local view counter for a post.
// The remote increment is issued separately by the playback controller.
func (s *FeedStore) BumpViews(postID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.posts {
		if s.posts[i].ID == postID {
			s.posts[i].Views++
			return
		}
	}
}
