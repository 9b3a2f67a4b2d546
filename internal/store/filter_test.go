package store

import (
	"testing"

	"github.com/michida/michida/internal/models"
)

func filterPosts() []models.Post {
	return []models.Post{
		{ID: 4, Title: "Night Drive", Artist: "Neon City", Mood: models.MoodLateNight, Genre: models.GenrePop},
		{ID: 3, Title: "Morning Run", Artist: "Tempo", Mood: models.MoodUpbeat, Genre: models.GenreDance},
		{ID: 2, Title: "Quiet Rain", Artist: "Night Owl", Mood: models.MoodCalm, Genre: models.GenreBallad},
		{ID: 1, Title: "Encore", Artist: "Tempo", Mood: models.MoodUpbeat, Genre: models.GenreRock},
	}
}

func visibleIDs(posts []models.Post) []int64 {
	ids := make([]int64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}
	return ids
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestFilter(t *testing.T) {
	t.Run("ZeroValueMatchesEverything", func(t *testing.T) {
		posts := filterPosts()
		visible := Filter{}.Apply(posts, nil)
		if len(visible) != len(posts) {
			t.Errorf("expected %d posts, got %d", len(posts), len(visible))
		}
	})

	t.Run("AllSentinelsMatchEverything", func(t *testing.T) {
		posts := filterPosts()
		f := Filter{Mood: models.MoodAll, Genre: models.GenreAll}
		if len(f.Apply(posts, nil)) != len(posts) {
			t.Error("all/all should not exclude any post")
		}
	})

	t.Run("MoodNarrows", func(t *testing.T) {
		f := Filter{Mood: models.MoodUpbeat}
		got := visibleIDs(f.Apply(filterPosts(), nil))
		if !equalIDs(got, []int64{3, 1}) {
			t.Errorf("expected [3 1], got %v", got)
		}
	})

	t.Run("SearchMatchesTitleOrArtist", func(t *testing.T) {
		f := Filter{Search: "night"}
		got := visibleIDs(f.Apply(filterPosts(), nil))
		// "Night Drive" by title, "Night Owl" by artist
		if !equalIDs(got, []int64{4, 2}) {
			t.Errorf("expected [4 2], got %v", got)
		}
	})

	t.Run("SearchIsCaseInsensitiveAndTrimmed", func(t *testing.T) {
		f := Filter{Search: "  TEMPO  "}
		got := visibleIDs(f.Apply(filterPosts(), nil))
		if !equalIDs(got, []int64{3, 1}) {
			t.Errorf("expected [3 1], got %v", got)
		}
	})

	t.Run("PredicatesConjoin", func(t *testing.T) {
		f := Filter{Search: "tempo", Mood: models.MoodUpbeat, Genre: models.GenreRock}
		got := visibleIDs(f.Apply(filterPosts(), nil))
		if !equalIDs(got, []int64{1}) {
			t.Errorf("expected [1], got %v", got)
		}
	})

	t.Run("FolderRestrictsToMembers", func(t *testing.T) {
		f := Filter{FolderID: 7}
		members := map[int64]bool{2: true, 3: true}
		got := visibleIDs(f.Apply(filterPosts(), members))
		if !equalIDs(got, []int64{3, 2}) {
			t.Errorf("expected [3 2], got %v", got)
		}
	})

	t.Run("NoFolderIgnoresMembership", func(t *testing.T) {
		f := Filter{}
		got := f.Apply(filterPosts(), map[int64]bool{2: true})
		if len(got) != 4 {
			t.Errorf("membership must not apply without a selected folder, got %d posts", len(got))
		}
	})

	t.Run("PreservesInputOrder", func(t *testing.T) {
		posts := filterPosts()
		got := visibleIDs(Filter{Mood: models.MoodUpbeat}.Apply(posts, nil))
		for i := 1; i < len(got); i++ {
			if got[i-1] < got[i] {
				t.Errorf("order not preserved: %v", got)
			}
		}
	})

	t.Run("ApplyDoesNotMutateInput", func(t *testing.T) {
		posts := filterPosts()
		Filter{Mood: models.MoodCalm}.Apply(posts, nil)
		if posts[0].ID != 4 || len(posts) != 4 {
			t.Error("input slice was mutated")
		}
	})
}
