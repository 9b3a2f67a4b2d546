package store

import (
	"context"
	"errors"
	"testing"

	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/shared"
)

func seedComment(f *appFixture, id string, postID int64, userID, content, parentID string) {
	row := map[string]any{
		"id":      id,
		"post_id": postID,
		"user_id": userID,
		"content": content,
	}
	if parentID != "" {
		row["parent_id"] = parentID
	}
	f.backend.Seed("music_comments", row)
}

func findThread(t *testing.T, threads []models.Thread, id string) models.Thread {
	t.Helper()

	for _, th := range threads {
		if th.Comment.ID == id {
			return th
		}
	}
	t.Fatalf("no thread for comment %s", id)
	return models.Thread{}
}

func TestCommentsLoad(t *testing.T) {
	ctx := context.Background()

	t.Run("ThreadsTopLevelWithReplies", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "user-a", "first", "")
		seedComment(f, "c2", 101, "user-b", "reply to first", "c1")
		seedComment(f, "c3", 101, "user-a", "second", "")

		threads, err := f.Comments.Load(ctx, 101)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(threads) != 2 {
			t.Fatalf("threads = %d, want 2", len(threads))
		}
		if threads[0].Comment.ID != "c1" || threads[1].Comment.ID != "c3" {
			t.Errorf("thread order = [%s %s], want [c1 c3]", threads[0].Comment.ID, threads[1].Comment.ID)
		}
		first := findThread(t, threads, "c1")
		if len(first.Replies) != 1 || first.Replies[0].ID != "c2" {
			t.Errorf("c1 replies = %+v, want [c2]", first.Replies)
		}
	})

	t.Run("ScopedToThePost", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "user-a", "on 101", "")
		seedComment(f, "c2", 102, "user-a", "on 102", "")

		threads, err := f.Comments.Load(ctx, 101)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(threads) != 1 || threads[0].Comment.ID != "c1" {
			t.Errorf("threads = %+v, want just c1", threads)
		}
	})

	t.Run("DropsOrphanReplies", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "user-a", "top", "")
		seedComment(f, "c2", 101, "user-b", "orphan", "deleted-parent")

		threads, err := f.Comments.Load(ctx, 101)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if len(threads) != 1 {
			t.Fatalf("threads = %d, want 1", len(threads))
		}
		if len(threads[0].Replies) != 0 {
			t.Errorf("orphan reply surfaced under c1: %+v", threads[0].Replies)
		}
	})

	t.Run("DerivesLikeCountsFromEdges", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "user-a", "top", "")
		f.backend.Seed("comment_likes", map[string]any{"comment_id": "c1", "user_id": "x"})
		f.backend.Seed("comment_likes", map[string]any{"comment_id": "c1", "user_id": "y"})

		threads, err := f.Comments.Load(ctx, 101)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if got := threads[0].Comment.Likes; got != 2 {
			t.Errorf("likes = %d, want 2", got)
		}
	})

	t.Run("MarksViewerLikedComments", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "user-a", "top", "")
		seedComment(f, "c3", 101, "user-a", "another", "")
		f.backend.Seed("comment_likes", map[string]any{"comment_id": "c1", "user_id": "viewer"})
		f.signIn(t, "viewer")

		threads, err := f.Comments.Load(ctx, 101)
		if err != nil {
			t.Fatalf("load failed: %v", err)
		}
		if !findThread(t, threads, "c1").Comment.IsLiked {
			t.Error("c1 should be marked liked")
		}
		if findThread(t, threads, "c3").Comment.IsLiked {
			t.Error("c3 should not be marked liked")
		}
	})
}

func TestResolveReplyParent(t *testing.T) {
	top := models.Comment{ID: "c1"}
	reply := models.Comment{ID: "c2", ParentID: "c1"}

	if got := ResolveReplyParent(top); got != "c1" {
		t.Errorf("replying to a top-level comment: parent = %s, want c1", got)
	}
	// Replying to a reply attaches to its thread's top-level comment.
	if got := ResolveReplyParent(reply); got != "c1" {
		t.Errorf("replying to a reply: parent = %s, want c1", got)
	}
}

func TestCommentsCreate(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresSignIn", func(t *testing.T) {
		f := newAppFixture(t)
		if _, err := f.Comments.Create(ctx, 101, "hello", ""); !errors.Is(err, shared.ErrSignInRequired) {
			t.Errorf("Create signed out = %v, want ErrSignInRequired", err)
		}
	})

	t.Run("RejectsBlankContent", func(t *testing.T) {
		f := newAppFixture(t)
		f.signIn(t, "viewer")

		if _, err := f.Comments.Create(ctx, 101, "   ", ""); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("Create blank = %v, want ErrInvalidInput", err)
		}
	})

	t.Run("PostsAndReturnsFreshThreads", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		f.signIn(t, "viewer")

		threads, err := f.Comments.Create(ctx, 101, "  great track  ", "")
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if len(threads) != 1 {
			t.Fatalf("threads = %d, want 1", len(threads))
		}
		c := threads[0].Comment
		if c.Content != "great track" {
			t.Errorf("content = %q, want trimmed %q", c.Content, "great track")
		}
		if c.UserID != "viewer" || c.PostID != 101 {
			t.Errorf("comment = %+v, want viewer on post 101", c)
		}
		if c.ID == "" {
			t.Error("stored comment has no id")
		}
	})

	t.Run("AttachesRepliesToTheThread", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "user-a", "top", "")
		f.signIn(t, "viewer")

		threads, err := f.Comments.Create(ctx, 101, "reply", "c1")
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		first := findThread(t, threads, "c1")
		if len(first.Replies) != 1 || first.Replies[0].Content != "reply" {
			t.Errorf("c1 replies = %+v, want one reply", first.Replies)
		}
	})
}

func TestCommentsUpdate(t *testing.T) {
	ctx := context.Background()
	mine := models.Comment{ID: "c1", PostID: 101, UserID: "viewer", Content: "top"}
	theirs := models.Comment{ID: "c2", PostID: 101, UserID: "someone-else", Content: "other"}

	t.Run("OwnerOnly", func(t *testing.T) {
		f := newAppFixture(t)
		f.signIn(t, "viewer")

		if _, err := f.Comments.Update(ctx, theirs, "edited"); !errors.Is(err, shared.ErrOwnerOnly) {
			t.Errorf("Update of another user's comment = %v, want ErrOwnerOnly", err)
		}
	})

	t.Run("EditsContentAndStampsTime", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "viewer", "top", "")
		f.signIn(t, "viewer")

		threads, err := f.Comments.Update(ctx, mine, "edited")
		if err != nil {
			t.Fatalf("update failed: %v", err)
		}
		c := findThread(t, threads, "c1").Comment
		if c.Content != "edited" {
			t.Errorf("content = %q, want edited", c.Content)
		}
		if !c.Edited() {
			t.Error("edited comment should carry an update timestamp")
		}
	})

	t.Run("RejectsBlankContent", func(t *testing.T) {
		f := newAppFixture(t)
		f.signIn(t, "viewer")

		if _, err := f.Comments.Update(ctx, mine, "  "); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("Update blank = %v, want ErrInvalidInput", err)
		}
	})
}

func TestCommentsDelete(t *testing.T) {
	ctx := context.Background()
	mine := models.Comment{ID: "c1", PostID: 101, UserID: "viewer", Content: "top"}

	t.Run("OwnerOnly", func(t *testing.T) {
		f := newAppFixture(t)
		f.signIn(t, "viewer")

		theirs := models.Comment{ID: "c2", PostID: 101, UserID: "someone-else"}
		if _, err := f.Comments.Delete(ctx, theirs); !errors.Is(err, shared.ErrOwnerOnly) {
			t.Errorf("Delete of another user's comment = %v, want ErrOwnerOnly", err)
		}
	})

	t.Run("DeclineAborts", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "viewer", "top", "")
		f.signIn(t, "viewer")
		f.prompter.Confirms = []bool{false}

		if _, err := f.Comments.Delete(ctx, mine); !errors.Is(err, shared.ErrConfirmationDeclined) {
			t.Errorf("Delete = %v, want ErrConfirmationDeclined", err)
		}
		if rows := f.backend.Rows("music_comments"); len(rows) != 1 {
			t.Errorf("comment rows = %d, want 1", len(rows))
		}
	})

	t.Run("ConfirmRemoves", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "viewer", "top", "")
		f.signIn(t, "viewer")
		f.prompter.Confirms = []bool{true}

		threads, err := f.Comments.Delete(ctx, mine)
		if err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if len(threads) != 0 {
			t.Errorf("threads = %+v, want none", threads)
		}
	})
}

func TestCommentsToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresSignIn", func(t *testing.T) {
		f := newAppFixture(t)
		if _, err := f.Comments.ToggleLike(ctx, 101, "c1"); !errors.Is(err, shared.ErrSignInRequired) {
			t.Errorf("ToggleLike signed out = %v, want ErrSignInRequired", err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedComment(f, "c1", 101, "user-a", "top", "")
		f.signIn(t, "viewer")

		threads, err := f.Comments.ToggleLike(ctx, 101, "c1")
		if err != nil {
			t.Fatalf("like failed: %v", err)
		}
		c := findThread(t, threads, "c1").Comment
		if c.Likes != 1 || !c.IsLiked {
			t.Errorf("after like: likes=%d isLiked=%v, want 1/true", c.Likes, c.IsLiked)
		}

		threads, err = f.Comments.ToggleLike(ctx, 101, "c1")
		if err != nil {
			t.Fatalf("unlike failed: %v", err)
		}
		c = findThread(t, threads, "c1").Comment
		if c.Likes != 0 || c.IsLiked {
			t.Errorf("after unlike: likes=%d isLiked=%v, want 0/false", c.Likes, c.IsLiked)
		}
		if rows := f.backend.Rows("comment_likes"); len(rows) != 0 {
			t.Errorf("edge rows = %d, want 0", len(rows))
		}
	})
}

func TestCommentsProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("ReturnsProfileWithCommentCount", func(t *testing.T) {
		f := newAppFixture(t)
		f.backend.Seed("profiles", map[string]any{"id": "user-a", "name": "Ann"})
		seedComment(f, "c1", 101, "user-a", "one", "")
		seedComment(f, "c2", 102, "user-a", "two", "")
		seedComment(f, "c3", 102, "user-b", "other", "")

		profile, err := f.Comments.Profile(ctx, "user-a")
		if err != nil {
			t.Fatalf("profile failed: %v", err)
		}
		if profile.Name != "Ann" {
			t.Errorf("name = %q, want Ann", profile.Name)
		}
		if profile.CommentCount != 2 {
			t.Errorf("comment count = %d, want 2", profile.CommentCount)
		}
	})

	t.Run("UnknownUser", func(t *testing.T) {
		f := newAppFixture(t)
		if _, err := f.Comments.Profile(ctx, "ghost"); !errors.Is(err, shared.ErrNotFound) {
			t.Errorf("Profile = %v, want ErrNotFound", err)
		}
	})
}
