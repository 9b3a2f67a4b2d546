package store

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/repositories"
	"github.com/michida/michida/internal/services"
	"github.com/michida/michida/internal/shared"
	tu "github.com/michida/michida/internal/testing"
)

// appFixture wires a full App over the in-memory backend, a scripted
// prompter, and a capturing player sink.
type appFixture struct {
	*App
	backend  *tu.FakeBackend
	kv       repositories.KV
	prompter *tu.ScriptedPrompter
	sink     *tu.CaptureSink
}

func newAppFixture(t *testing.T) *appFixture {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	kv, err := repositories.NewKVStore(db)
	if err != nil {
		t.Fatalf("failed to create kv store: %v", err)
	}

	backend := tu.NewFakeBackend()
	prompter := &tu.ScriptedPrompter{}
	sink := &tu.CaptureSink{}

	app := NewApp(AppOpts{
		Backend:  backend,
		Bridge:   services.NewPlayerBridge(sink),
		KV:       kv,
		Prompter: prompter,
		Logger:   shared.NewLogger(io.Discard),
	})
	t.Cleanup(app.Close)

	return &appFixture{App: app, backend: backend, kv: kv, prompter: prompter, sink: sink}
}

func (f *appFixture) signIn(t *testing.T, userID string) {
	t.Helper()

	f.backend.User = &models.User{ID: userID, Name: "Tester"}
	if _, err := f.Session.InstallToken(context.Background(), "test-token"); err != nil {
		t.Fatalf("failed to install token: %v", err)
	}
}

func (f *appFixture) refresh(t *testing.T) {
	t.Helper()

	if err := f.Feed.Refresh(context.Background()); err != nil {
		t.Fatalf("failed to refresh feed: %v", err)
	}
}

func (f *appFixture) post(t *testing.T, id int64) models.Post {
	t.Helper()

	post, ok := f.Feed.Post(id)
	if !ok {
		t.Fatalf("post %d not in feed", id)
	}
	return post
}

// Seeded ids start high so they never collide with backend-assigned ones.
func seedPost(b *tu.FakeBackend, id int64, title, artist string, mood models.Mood, genre models.Genre, created time.Time) {
	b.Seed("music_posts", models.Post{
		ID:        id,
		Title:     title,
		Artist:    artist,
		Mood:      mood,
		Genre:     genre,
		CreatedAt: created,
	})
}

func seedPostLike(b *tu.FakeBackend, postID int64, userID string) {
	b.Seed("post_likes", map[string]any{"post_id": postID, "user_id": userID})
}
