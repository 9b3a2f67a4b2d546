package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/services"
	"github.com/michida/michida/internal/shared"
	"golang.org/x/time/rate"
)

// commentLike is one like-edge row for a comment.
type commentLike struct {
	ID        int64  `json:"id"`
	CommentID string `json:"comment_id"`
	UserID    string `json:"user_id"`
}

// Comments orchestrates the per-post comment subsystem. All mutations
// re-fetch the full list rather than patching local state, so like counts
// and author joins never drift.
type Comments struct {
	backend  services.Backend
	session  *SessionManager
	prompter Prompter
	logger   *log.Logger
	limiter  *rate.Limiter
}

// NewComments creates the comment controller. countRate paces per-comment
// like-count lookups, matching the feed's hydration pacing.
func NewComments(backend services.Backend, session *SessionManager, prompter Prompter, logger *log.Logger, countRate float64) *Comments {
	var limiter *rate.Limiter
	if countRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(countRate), 1)
	}
	return &Comments{
		backend:  backend,
		session:  session,
		prompter: prompter,
		logger:   logger,
		limiter:  limiter,
	}
}

// Load fetches a post's comments ordered ascending by creation time, joins
// author profiles, hydrates per-comment like counts concurrently, marks the
// viewer's liked comments, and splits the flat list into top-level threads
// with one level of replies.
func (s *Comments) Load(ctx context.Context, postID int64) ([]models.Thread, error) {
	var comments []models.Comment
	err := s.backend.Select(ctx, services.Query{
		Table:   tableComments,
		Columns: "id,content,created_at,updated_at,post_id,user_id,parent_id,author:profiles!user_id(name,avatar_url)",
		Eq:      map[string]string{"post_id": strconv.FormatInt(postID, 10)},
		OrderBy: "created_at",
	}, &comments)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch comments: %w", err)
	}

	liked := s.viewerLikedComments(ctx)

	var wg sync.WaitGroup
	for i := range comments {
		wg.Add(1)
		go func(c *models.Comment) {
			defer wg.Done()
			if s.limiter != nil {
				if err := s.limiter.Wait(ctx); err != nil {
					return
				}
			}

			count, err := s.backend.Count(ctx, services.Query{
				Table: tableCommentLikes,
				Eq:    map[string]string{"comment_id": c.ID},
			})
			if err != nil {
				s.logger.Warn("comment like count failed", "comment", c.ID, "err", err)
				return
			}
			c.Likes = count
		}(&comments[i])
	}
	wg.Wait()

	for i := range comments {
		comments[i].IsLiked = liked[comments[i].ID]
	}

	return splitThreads(comments), nil
}

// splitThreads arranges a flat creation-ordered list into top-level threads.
// Replies whose parent is missing from the list are dropped, matching the
// page's render.
func splitThreads(comments []models.Comment) []models.Thread {
	replies := map[string][]models.Comment{}
	for _, c := range comments {
		if c.ParentID != "" {
			replies[c.ParentID] = append(replies[c.ParentID], c)
		}
	}

	var threads []models.Thread
	for _, c := range comments {
		if c.ParentID == "" {
			threads = append(threads, models.Thread{Comment: c, Replies: replies[c.ID]})
		}
	}
	return threads
}

func (s *Comments) viewerLikedComments(ctx context.Context) map[string]bool {
	user := s.session.Current()
	if user == nil {
		return nil
	}

	var edges []commentLike
	err := s.backend.Select(ctx, services.Query{
		Table:   tableCommentLikes,
		Columns: "id,comment_id,user_id",
		Eq:      map[string]string{"user_id": user.ID},
	}, &edges)
	if err != nil {
		s.logger.Warn("liked-comment lookup failed", "err", err)
		return nil
	}

	liked := make(map[string]bool, len(edges))
	for _, e := range edges {
		liked[e.CommentID] = true
	}
	return liked
}

// ResolveReplyParent returns the parent id a new reply should record.
// Replying to a reply targets the thread's top-level comment, keeping
// threads exactly one level deep.
func ResolveReplyParent(target models.Comment) string {
	if target.ParentID != "" {
		return target.ParentID
	}
	return target.ID
}

// Create posts a new comment (or reply, when parentID is non-empty) and
// returns the re-fetched thread list. There is no optimistic insert.
func (s *Comments) Create(ctx context.Context, postID int64, content, parentID string) ([]models.Thread, error) {
	user := s.session.Current()
	if user == nil {
		return nil, shared.ErrSignInRequired
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty comment", shared.ErrInvalidInput)
	}

	row := map[string]any{
		"post_id": postID,
		"content": content,
		"user_id": user.ID,
	}
	if parentID != "" {
		row["parent_id"] = parentID
	}

	if err := s.backend.Insert(ctx, tableComments, row); err != nil {
		return nil, err
	}
	return s.Load(ctx, postID)
}

// Update edits a comment's content, author-only, stamping the edit time.
func (s *Comments) Update(ctx context.Context, comment models.Comment, content string) ([]models.Thread, error) {
	user := s.session.Current()
	if user == nil {
		return nil, shared.ErrSignInRequired
	}
	if comment.UserID != user.ID {
		return nil, shared.ErrOwnerOnly
	}

	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: empty comment", shared.ErrInvalidInput)
	}

	err := s.backend.Update(ctx, tableComments,
		map[string]any{
			"content":    content,
			"updated_at": time.Now().UTC().Format(time.RFC3339),
		},
		map[string]string{"id": comment.ID, "user_id": user.ID},
	)
	if err != nil {
		return nil, err
	}
	return s.Load(ctx, comment.PostID)
}

// Delete removes a comment, author-only, behind a single confirmation.
func (s *Comments) Delete(ctx context.Context, comment models.Comment) ([]models.Thread, error) {
	user := s.session.Current()
	if user == nil {
		return nil, shared.ErrSignInRequired
	}
	if comment.UserID != user.ID {
		return nil, shared.ErrOwnerOnly
	}

	if !s.prompter.Confirm("Delete this comment?") {
		return nil, shared.ErrConfirmationDeclined
	}

	if err := s.backend.Delete(ctx, tableComments, map[string]string{"id": comment.ID}); err != nil {
		return nil, err
	}
	return s.Load(ctx, comment.PostID)
}

// ToggleLike flips the viewer's like edge for a comment and re-fetches; the
// count is never mutated locally.
func (s *Comments) ToggleLike(ctx context.Context, postID int64, commentID string) ([]models.Thread, error) {
	user := s.session.Current()
	if user == nil {
		return nil, shared.ErrSignInRequired
	}

	eq := map[string]string{"comment_id": commentID, "user_id": user.ID}

	var existing commentLike
	found, err := s.backend.SelectMaybeSingle(ctx, services.Query{Table: tableCommentLikes, Eq: eq}, &existing)
	if err != nil {
		return nil, err
	}

	if found {
		err = s.backend.Delete(ctx, tableCommentLikes, map[string]string{
			"id": strconv.FormatInt(existing.ID, 10),
		})
	} else {
		err = s.backend.Insert(ctx, tableCommentLikes, map[string]any{
			"comment_id": commentID,
			"user_id":    user.ID,
		})
	}
	if err != nil {
		return nil, err
	}

	return s.Load(ctx, postID)
}

// Profile looks up a comment author's public profile with their comment
// count, for the author popup.
func (s *Comments) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	var profile models.Profile
	found, err := s.backend.SelectMaybeSingle(ctx, services.Query{
		Table:   tableProfiles,
		Columns: "id,name,avatar_url",
		Eq:      map[string]string{"id": userID},
	}, &profile)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, shared.ErrNotFound
	}

	count, err := s.backend.Count(ctx, services.Query{
		Table: tableComments,
		Eq:    map[string]string{"user_id": userID},
	})
	if err != nil {
		s.logger.Warn("comment count lookup failed", "user", userID, "err", err)
	} else {
		profile.CommentCount = count
	}

	return &profile, nil
}
