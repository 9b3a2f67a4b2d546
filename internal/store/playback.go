package store

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/repositories"
	"github.com/michida/michida/internal/services"
)

// PlaybackState is the per-session playback state; there is one controller
// for the whole view, not one per post.
type PlaybackState int

const (
	StateIdle PlaybackState = iota
	StatePlaying
	StatePaused
)

func (s PlaybackState) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	default:
		return "idle"
	}
}

// PlaybackController tracks which single post is current, which posts have a
// mounted player, and pause state.
//
// Shield invariant: a mounted player is never unmounted by filtering; the
// mounted set changes only in [PlaybackController.Select], where it is
// replaced (not accumulated) when the user picks a post that is not already
// mounted. The set-typed representation only ever holds one id in practice.
type PlaybackController struct {
	backend services.Backend
	bridge  *services.PlayerBridge
	feed    *FeedStore
	recent  *repositories.RecentStore
	logger  *log.Logger

	mu        sync.Mutex
	state     PlaybackState
	currentID int64
	mounted   []int64
}

// NewPlaybackController creates a controller. recent and bridge may be nil.
func NewPlaybackController(backend services.Backend, bridge *services.PlayerBridge, feed *FeedStore, recent *repositories.RecentStore, logger *log.Logger) *PlaybackController {
	return &PlaybackController{
		backend: backend,
		bridge:  bridge,
		feed:    feed,
		recent:  recent,
		logger:  logger,
	}
}

// Select makes post current and playing from any state. The mounted set is
// replaced with just this post unless its player is already mounted. The
// post is recorded in the recently-played cache, the local view counter is
// bumped optimistically, and the remote increment is issued fire-and-forget.
func (c *PlaybackController) Select(ctx context.Context, post models.Post) {
	c.mu.Lock()
	c.state = StatePlaying
	c.currentID = post.ID
	if !c.mountedLocked(post.ID) {
		c.mounted = []int64{post.ID}
	}
	c.mu.Unlock()

	if c.recent != nil {
		if err := c.recent.Record(models.SnapshotPost(post)); err != nil {
			c.logger.Warn("failed to record recent track", "post", post.ID, "err", err)
		}
	}

	c.feed.BumpViews(post.ID)
	go func() {
		if err := c.backend.IncrementViews(context.WithoutCancel(ctx), post.ID); err != nil {
			c.logger.Warn("view increment failed", "post", post.ID, "err", err)
		}
	}()
}

// TogglePause flips between playing and paused by posting the matching
// command to the mounted players. It has no effect in the idle state.
func (c *PlaybackController) TogglePause() {
	c.mu.Lock()
	switch c.state {
	case StatePlaying:
		c.state = StatePaused
	case StatePaused:
		c.state = StatePlaying
	default:
		c.mu.Unlock()
		return
	}
	paused := c.state == StatePaused
	c.mu.Unlock()

	if c.bridge == nil {
		return
	}

	var err error
	if paused {
		err = c.bridge.Pause()
	} else {
		err = c.bridge.Play()
	}
	if err != nil {
		c.logger.Warn("player command failed", "err", err)
	}
}

// SkipNext moves to the next post in the full feed order (not the filtered
// order). No-op when idle or already at the end.
func (c *PlaybackController) SkipNext(ctx context.Context) {
	c.skip(ctx, 1)
}

// SkipBack moves to the previous post in the full feed order. No-op when
// idle or already at the start.
func (c *PlaybackController) SkipBack(ctx context.Context) {
	c.skip(ctx, -1)
}

func (c *PlaybackController) skip(ctx context.Context, delta int) {
	c.mu.Lock()
	if c.state == StateIdle {
		c.mu.Unlock()
		return
	}
	currentID := c.currentID
	c.mu.Unlock()

	posts := c.feed.Posts()
	for i, p := range posts {
		if p.ID == currentID {
			j := i + delta
			if j >= 0 && j < len(posts) {
				c.Select(ctx, posts[j])
			}
			return
		}
	}
}

// SeekTo jumps the mounted players to an offset in seconds. Driven by the
// timestamp tokens in comments; no-op when nothing is mounted.
func (c *PlaybackController) SeekTo(seconds int) {
	c.mu.Lock()
	anyMounted := len(c.mounted) > 0
	c.mu.Unlock()

	if !anyMounted || c.bridge == nil {
		return
	}
	if err := c.bridge.SeekTo(seconds, true); err != nil {
		c.logger.Warn("seek failed", "seconds", seconds, "err", err)
	}
}

// Current returns the current post id and state; the id is zero when idle.
func (c *PlaybackController) Current() (int64, PlaybackState) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentID, c.state
}

// Mounted returns a copy of the mounted post-id set.
func (c *PlaybackController) Mounted() []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]int64, len(c.mounted))
	copy(out, c.mounted)
	return out
}

// IsMounted reports whether the post's player is mounted. A post may be
// mounted yet invisible under the current filter; the renderer keeps it
// alive off-screen rather than unmounting it.
func (c *PlaybackController) IsMounted(postID int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mountedLocked(postID)
}

func (c *PlaybackController) mountedLocked(postID int64) bool {
	for _, id := range c.mounted {
		if id == postID {
			return true
		}
	}
	return false
}
