package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/shared"
)

var feedBase = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func seedThreePosts(f *appFixture) {
	seedPost(f.backend, 101, "First Light", "Aurora", models.MoodCalm, models.GenreBallad, feedBase)
	seedPost(f.backend, 102, "Night Drive", "Neon City", models.MoodLateNight, models.GenrePop, feedBase.Add(time.Hour))
	seedPost(f.backend, 103, "Uptempo", "The Breaks", models.MoodUpbeat, models.GenreDance, feedBase.Add(2*time.Hour))
}

func TestFeedRefresh(t *testing.T) {
	t.Run("OrdersNewestFirst", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		f.refresh(t)

		if got := visibleIDs(f.Feed.Posts()); !equalIDs(got, []int64{103, 102, 101}) {
			t.Errorf("feed order = %v, want [103 102 101]", got)
		}
	})

	t.Run("DerivesLikeCountsFromEdges", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedPostLike(f.backend, 101, "user-a")
		seedPostLike(f.backend, 101, "user-b")
		seedPostLike(f.backend, 102, "user-a")
		f.refresh(t)

		if got := f.post(t, 101).Likes; got != 2 {
			t.Errorf("post 101 likes = %d, want 2", got)
		}
		if got := f.post(t, 102).Likes; got != 1 {
			t.Errorf("post 102 likes = %d, want 1", got)
		}
		if got := f.post(t, 103).Likes; got != 0 {
			t.Errorf("post 103 likes = %d, want 0", got)
		}
	})

	t.Run("MarksViewerLikedPosts", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedPostLike(f.backend, 101, "viewer")
		seedPostLike(f.backend, 102, "someone-else")
		f.signIn(t, "viewer")
		f.refresh(t)

		if !f.post(t, 101).IsLiked {
			t.Error("post 101 should be marked liked for the viewer")
		}
		if f.post(t, 102).IsLiked {
			t.Error("post 102 is liked by another user, not the viewer")
		}
	})

	t.Run("SignedOutViewerSeesCountsButNoLikedMarks", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedPostLike(f.backend, 101, "user-a")
		f.refresh(t)

		p := f.post(t, 101)
		if p.Likes != 1 {
			t.Errorf("likes = %d, want 1", p.Likes)
		}
		if p.IsLiked {
			t.Error("IsLiked should be false when signed out")
		}
	})
}

func TestFeedToggleLike(t *testing.T) {
	ctx := context.Background()

	t.Run("RequiresSignIn", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		f.refresh(t)

		if err := f.Feed.ToggleLike(ctx, 101); !errors.Is(err, shared.ErrSignInRequired) {
			t.Errorf("ToggleLike signed out = %v, want ErrSignInRequired", err)
		}
	})

	t.Run("RoundTrip", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		f.signIn(t, "viewer")
		f.refresh(t)

		if err := f.Feed.ToggleLike(ctx, 101); err != nil {
			t.Fatalf("like failed: %v", err)
		}
		p := f.post(t, 101)
		if p.Likes != 1 || !p.IsLiked {
			t.Errorf("after like: likes=%d isLiked=%v, want 1/true", p.Likes, p.IsLiked)
		}
		if rows := f.backend.Rows("post_likes"); len(rows) != 1 {
			t.Fatalf("edge rows = %d, want 1", len(rows))
		}

		if err := f.Feed.ToggleLike(ctx, 101); err != nil {
			t.Fatalf("unlike failed: %v", err)
		}
		p = f.post(t, 101)
		if p.Likes != 0 || p.IsLiked {
			t.Errorf("after unlike: likes=%d isLiked=%v, want 0/false", p.Likes, p.IsLiked)
		}
		if rows := f.backend.Rows("post_likes"); len(rows) != 0 {
			t.Errorf("edge rows = %d, want 0", len(rows))
		}
	})

	t.Run("OnlyRemovesOwnEdge", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		seedPostLike(f.backend, 101, "viewer")
		seedPostLike(f.backend, 101, "user-b")
		f.signIn(t, "viewer")
		f.refresh(t)

		if err := f.Feed.ToggleLike(ctx, 101); err != nil {
			t.Fatalf("unlike failed: %v", err)
		}
		p := f.post(t, 101)
		if p.Likes != 1 || p.IsLiked {
			t.Errorf("after unlike: likes=%d isLiked=%v, want 1/false", p.Likes, p.IsLiked)
		}
	})
}

func TestFeedUpload(t *testing.T) {
	ctx := context.Background()

	draft := PostDraft{
		Title:      "New Song",
		Artist:     "Somebody",
		YoutubeURL: "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		Mood:       models.MoodDreamy,
		Genre:      models.GenreIndie,
	}

	t.Run("RequiresSignIn", func(t *testing.T) {
		f := newAppFixture(t)
		if err := f.Feed.Upload(ctx, draft); !errors.Is(err, shared.ErrSignInRequired) {
			t.Errorf("Upload signed out = %v, want ErrSignInRequired", err)
		}
	})

	t.Run("RejectsIncompleteDraft", func(t *testing.T) {
		f := newAppFixture(t)
		f.signIn(t, "viewer")

		bad := draft
		bad.Mood = ""
		if err := f.Feed.Upload(ctx, bad); !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("Upload without mood = %v, want ErrInvalidInput", err)
		}
		if rows := f.backend.Rows("music_posts"); len(rows) != 0 {
			t.Errorf("rejected draft still inserted %d rows", len(rows))
		}
	})

	t.Run("SharesTrackAndRefreshes", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		f.signIn(t, "viewer")

		if err := f.Feed.Upload(ctx, draft); err != nil {
			t.Fatalf("upload failed: %v", err)
		}

		posts := f.Feed.Posts()
		if len(posts) != 4 {
			t.Fatalf("feed size = %d, want 4", len(posts))
		}
		// Newest first puts the fresh upload on top.
		if posts[0].Title != "New Song" {
			t.Errorf("top post = %q, want the new upload", posts[0].Title)
		}
		if posts[0].YoutubeID != "dQw4w9WgXcQ" {
			t.Errorf("youtube id = %q, want dQw4w9WgXcQ", posts[0].YoutubeID)
		}
	})
}

func TestFeedDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("FirstDeclineAborts", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		f.refresh(t)
		f.prompter.Confirms = []bool{false}

		if err := f.Feed.Delete(ctx, 101); !errors.Is(err, shared.ErrConfirmationDeclined) {
			t.Errorf("Delete = %v, want ErrConfirmationDeclined", err)
		}
		if rows := f.backend.Rows("music_posts"); len(rows) != 3 {
			t.Errorf("post rows = %d, want 3", len(rows))
		}
	})

	t.Run("SecondDeclineAborts", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		f.refresh(t)
		f.prompter.Confirms = []bool{true, false}

		if err := f.Feed.Delete(ctx, 101); !errors.Is(err, shared.ErrConfirmationDeclined) {
			t.Errorf("Delete = %v, want ErrConfirmationDeclined", err)
		}
		if rows := f.backend.Rows("music_posts"); len(rows) != 3 {
			t.Errorf("post rows = %d, want 3", len(rows))
		}
	})

	t.Run("DoubleConfirmRemoves", func(t *testing.T) {
		f := newAppFixture(t)
		seedThreePosts(f)
		f.refresh(t)
		f.prompter.Confirms = []bool{true, true}

		if err := f.Feed.Delete(ctx, 101); err != nil {
			t.Fatalf("delete failed: %v", err)
		}
		if _, ok := f.Feed.Post(101); ok {
			t.Error("post 101 still in feed after delete")
		}
		if rows := f.backend.Rows("music_posts"); len(rows) != 2 {
			t.Errorf("post rows = %d, want 2", len(rows))
		}
	})
}

func TestFeedUpdateDescription(t *testing.T) {
	f := newAppFixture(t)
	seedThreePosts(f)
	f.refresh(t)

	if err := f.Feed.UpdateDescription(context.Background(), 102, "late night vibes"); err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if got := f.post(t, 102).Description; got != "late night vibes" {
		t.Errorf("description = %q, want %q", got, "late night vibes")
	}

	if err := f.Feed.UpdateDescription(context.Background(), 102, ""); err != nil {
		t.Fatalf("clear failed: %v", err)
	}
	if got := f.post(t, 102).Description; got != "" {
		t.Errorf("description = %q, want empty after clearing", got)
	}
}

func TestFeedTopPosts(t *testing.T) {
	f := newAppFixture(t)
	seedThreePosts(f)
	seedPostLike(f.backend, 101, "a")
	seedPostLike(f.backend, 101, "b")
	seedPostLike(f.backend, 101, "c")
	seedPostLike(f.backend, 102, "a")
	f.refresh(t)

	top := f.Feed.TopPosts(2)
	if got := visibleIDs(top); !equalIDs(got, []int64{101, 102}) {
		t.Errorf("top posts = %v, want [101 102]", got)
	}

	// Asking for more than exist returns the whole feed.
	if got := len(f.Feed.TopPosts(10)); got != 3 {
		t.Errorf("TopPosts(10) = %d posts, want 3", got)
	}
}

func TestFeedBumpViews(t *testing.T) {
	f := newAppFixture(t)
	seedThreePosts(f)
	f.refresh(t)

	before := f.post(t, 103).Views
	f.Feed.BumpViews(103)
	if got := f.post(t, 103).Views; got != before+1 {
		t.Errorf("views = %d, want %d", got, before+1)
	}

	// Unknown id is a no-op.
	f.Feed.BumpViews(999)
}

func TestParseYoutubeID(t *testing.T) {
	cases := []struct {
		name string
		url  string
		want string
	}{
		{"WatchURL", "https://www.youtube.com/watch?v=dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"ShortURL", "https://youtu.be/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"EmbedURL", "https://www.youtube.com/embed/dQw4w9WgXcQ", "dQw4w9WgXcQ"},
		{"WatchWithExtraParams", "https://www.youtube.com/watch?t=42&v=dQw4w9WgXcQ&list=x", "dQw4w9WgXcQ"},
		{"NotAVideoURL", "https://example.com/watch?v=nope", ""},
		{"Empty", "", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseYoutubeID(tc.url); got != tc.want {
				t.Errorf("ParseYoutubeID(%q) = %q, want %q", tc.url, got, tc.want)
			}
		})
	}
}
