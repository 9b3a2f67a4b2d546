package store

import (
	"context"
	"testing"

	"github.com/michida/michida/internal/models"
)

func newPlaybackFixture(t *testing.T) *appFixture {
	t.Helper()

	f := newAppFixture(t)
	seedThreePosts(f)
	f.refresh(t)
	return f
}

func TestPlaybackSelect(t *testing.T) {
	ctx := context.Background()

	t.Run("MountsAndPlays", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.Select(ctx, f.post(t, 103))

		id, state := f.Playback.Current()
		if id != 103 || state != StatePlaying {
			t.Errorf("current = (%d, %v), want (103, playing)", id, state)
		}
		if got := f.Playback.Mounted(); !equalIDs(got, []int64{103}) {
			t.Errorf("mounted = %v, want [103]", got)
		}
	})

	t.Run("ReplacesMountedSet", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.Select(ctx, f.post(t, 103))
		f.Playback.Select(ctx, f.post(t, 102))

		if got := f.Playback.Mounted(); !equalIDs(got, []int64{102}) {
			t.Errorf("mounted = %v, want [102]", got)
		}
		if f.Playback.IsMounted(103) {
			t.Error("previous player should be unmounted after selecting another post")
		}
	})

	t.Run("ReselectingMountedPostKeepsIt", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.Select(ctx, f.post(t, 103))
		f.Playback.Select(ctx, f.post(t, 103))

		if got := f.Playback.Mounted(); !equalIDs(got, []int64{103}) {
			t.Errorf("mounted = %v, want [103]", got)
		}
	})

	t.Run("RecordsRecentlyPlayed", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.Select(ctx, f.post(t, 103))
		f.Playback.Select(ctx, f.post(t, 102))
		f.Playback.Select(ctx, f.post(t, 103))

		entries, err := f.Recent.List()
		if err != nil {
			t.Fatalf("recent list failed: %v", err)
		}
		if len(entries) != 2 || entries[0].PostID != 103 || entries[1].PostID != 102 {
			t.Errorf("recent = %+v, want 103 then 102", entries)
		}
	})

	t.Run("BumpsLocalViews", func(t *testing.T) {
		f := newPlaybackFixture(t)
		before := f.post(t, 103).Views
		f.Playback.Select(ctx, f.post(t, 103))

		if got := f.post(t, 103).Views; got != before+1 {
			t.Errorf("views = %d, want %d", got, before+1)
		}
	})
}

// A filter that hides the current post must not unmount its player; the
// selection survives any tag or search change.
func TestPlaybackShieldSurvivesFiltering(t *testing.T) {
	ctx := context.Background()
	f := newPlaybackFixture(t)

	f.Playback.Select(ctx, f.post(t, 103))
	f.SetFilter(Filter{Mood: models.MoodCalm})

	for _, p := range f.Visible() {
		if p.ID == 103 {
			t.Fatal("post 103 should be filtered out of the visible set")
		}
	}
	if !f.Playback.IsMounted(103) {
		t.Error("mounted player must survive being filtered out")
	}
	if id, state := f.Playback.Current(); id != 103 || state != StatePlaying {
		t.Errorf("current = (%d, %v), want (103, playing)", id, state)
	}
}

func TestPlaybackTogglePause(t *testing.T) {
	ctx := context.Background()

	t.Run("IdleIsNoop", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.TogglePause()

		if _, state := f.Playback.Current(); state != StateIdle {
			t.Errorf("state = %v, want idle", state)
		}
		if got := f.sink.Last(); got != "" {
			t.Errorf("no player command expected, got %q", got)
		}
	})

	t.Run("PostsPauseAndPlayCommands", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.Select(ctx, f.post(t, 103))

		f.Playback.TogglePause()
		if _, state := f.Playback.Current(); state != StatePaused {
			t.Errorf("state = %v, want paused", state)
		}
		want := `{"event":"command","func":"pauseVideo","args":[]}`
		if got := f.sink.Last(); got != want {
			t.Errorf("payload = %s, want %s", got, want)
		}

		f.Playback.TogglePause()
		if _, state := f.Playback.Current(); state != StatePlaying {
			t.Errorf("state = %v, want playing", state)
		}
		want = `{"event":"command","func":"playVideo","args":[]}`
		if got := f.sink.Last(); got != want {
			t.Errorf("payload = %s, want %s", got, want)
		}
	})
}

func TestPlaybackSkip(t *testing.T) {
	ctx := context.Background()

	t.Run("FollowsFeedOrder", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.Select(ctx, f.post(t, 103))

		f.Playback.SkipNext(ctx)
		if id, _ := f.Playback.Current(); id != 102 {
			t.Errorf("after next: current = %d, want 102", id)
		}
		f.Playback.SkipNext(ctx)
		if id, _ := f.Playback.Current(); id != 101 {
			t.Errorf("after next: current = %d, want 101", id)
		}
		f.Playback.SkipBack(ctx)
		if id, _ := f.Playback.Current(); id != 102 {
			t.Errorf("after back: current = %d, want 102", id)
		}
	})

	t.Run("StopsAtTheEnds", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.Select(ctx, f.post(t, 101))

		f.Playback.SkipNext(ctx)
		if id, _ := f.Playback.Current(); id != 101 {
			t.Errorf("next at end moved to %d, want 101", id)
		}

		f.Playback.Select(ctx, f.post(t, 103))
		f.Playback.SkipBack(ctx)
		if id, _ := f.Playback.Current(); id != 103 {
			t.Errorf("back at start moved to %d, want 103", id)
		}
	})

	t.Run("IdleIsNoop", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.SkipNext(ctx)

		if id, state := f.Playback.Current(); id != 0 || state != StateIdle {
			t.Errorf("current = (%d, %v), want (0, idle)", id, state)
		}
	})

	t.Run("IgnoresTheActiveFilter", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.Select(ctx, f.post(t, 103))
		f.SetFilter(Filter{Mood: models.MoodCalm}) // hides 103 and 102

		f.Playback.SkipNext(ctx)
		if id, _ := f.Playback.Current(); id != 102 {
			t.Errorf("skip under filter moved to %d, want 102 (full feed order)", id)
		}
	})
}

func TestPlaybackSeekTo(t *testing.T) {
	ctx := context.Background()

	t.Run("NothingMountedIsNoop", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.SeekTo(30)

		if got := f.sink.Last(); got != "" {
			t.Errorf("no player command expected, got %q", got)
		}
	})

	t.Run("PostsSeekCommand", func(t *testing.T) {
		f := newPlaybackFixture(t)
		f.Playback.Select(ctx, f.post(t, 103))
		f.Playback.SeekTo(90)

		want := `{"event":"command","func":"seekTo","args":[90,true]}`
		if got := f.sink.Last(); got != want {
			t.Errorf("payload = %s, want %s", got, want)
		}
	})
}
