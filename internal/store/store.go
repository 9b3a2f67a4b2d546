package store

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/repositories"
	"github.com/michida/michida/internal/services"
)

// App is the top-level state aggregate: one instance owns the session,
// feed, filter, playback, comment, and playlist state for the lifetime of
// the view. It is populated on Start and torn down with Close.
type App struct {
	Session   *SessionManager
	Feed      *FeedStore
	Playback  *PlaybackController
	Comments  *Comments
	Playlists *Playlists
	Recent    *repositories.RecentStore

	logger      *log.Logger
	unsubscribe func()

	mu     sync.RWMutex
	filter Filter
}

// AppOpts bundles the dependencies for building an [App].
type AppOpts struct {
	Backend   services.Backend
	Bridge    *services.PlayerBridge
	KV        repositories.KV
	Prompter  Prompter
	Logger    *log.Logger
	CountRate float64
}

// NewApp wires the controllers together and subscribes to auth-state
// changes: a sign-in loads the user's playlists, a sign-out resets all
// user-scoped state while leaving the global feed intact.
func NewApp(opts AppOpts) *App {
	session := NewSessionManager(opts.Backend, opts.KV, opts.Logger)
	feed := NewFeedStore(opts.Backend, session, opts.Prompter, opts.Logger, opts.CountRate)

	var recent *repositories.RecentStore
	if opts.KV != nil {
		recent = repositories.NewRecentStore(opts.KV)
	}

	app := &App{
		Session:   session,
		Feed:      feed,
		Playback:  NewPlaybackController(opts.Backend, opts.Bridge, feed, recent, opts.Logger),
		Comments:  NewComments(opts.Backend, session, opts.Prompter, opts.Logger, opts.CountRate),
		Playlists: NewPlaylists(opts.Backend, session, opts.Prompter, opts.Logger),
		Recent:    recent,
		logger:    opts.Logger,
	}

	app.unsubscribe = session.Subscribe(func(user *models.User) {
		if user == nil {
			app.Playlists.ResetLocal()
			return
		}
		if err := app.Playlists.Refresh(context.Background()); err != nil {
			opts.Logger.Warn("failed to load playlists", "err", err)
		}
	})

	return app
}

// Start restores any saved session and performs the initial feed fetch.
// deepLinkPost, when non-zero, selects and starts the matching post once the
// feed has loaded; an unknown id is ignored.
func (a *App) Start(ctx context.Context, deepLinkPost int64) error {
	a.Session.Init(ctx)

	if err := a.Feed.Refresh(ctx); err != nil {
		return err
	}

	if deepLinkPost != 0 {
		if post, ok := a.Feed.Post(deepLinkPost); ok {
			a.Playback.Select(ctx, post)
		}
	}
	return nil
}

// Close tears down the session subscription.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

// Filter returns the current filter state.
func (a *App) Filter() Filter {
	a.mu.RLock()
	defer a.mu.RUnlock()

	f := a.filter
	f.FolderID = a.Playlists.Selected()
	return f
}

// SetFilter replaces the search/mood/genre filter state. The folder
// selection lives on [Playlists] and is merged in by [App.Filter].
func (a *App) SetFilter(f Filter) {
	a.mu.Lock()
	a.filter = Filter{Search: f.Search, Mood: f.Mood, Genre: f.Genre}
	a.mu.Unlock()
}

// Visible recomputes the filtered view from the current feed and filter
// state. Mounted-but-filtered-out players stay mounted; visibility only
// governs rendering.
func (a *App) Visible() []models.Post {
	f := a.Filter()

	var members map[int64]bool
	if f.FolderID != 0 {
		members = a.Playlists.MembershipSet(f.FolderID)
	}

	return f.Apply(a.Feed.Posts(), members)
}
