package store

import (
	"context"
	"fmt"
	"strconv"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/services"
	"github.com/michida/michida/internal/shared"
)

// Playlists orchestrates the user's folders and their post memberships.
// Every operation is owner-scoped and requires a signed-in identity.
type Playlists struct {
	backend  services.Backend
	session  *SessionManager
	prompter Prompter
	logger   *log.Logger

	mu       sync.RWMutex
	folders  []models.Folder
	items    []models.PlaylistItem
	selected int64 // active folder filter, 0 when none
}

// NewPlaylists creates the playlist controller.
func NewPlaylists(backend services.Backend, session *SessionManager, prompter Prompter, logger *log.Logger) *Playlists {
	return &Playlists{
		backend:  backend,
		session:  session,
		prompter: prompter,
		logger:   logger,
	}
}

// Refresh fetches the viewer's folders (ascending by creation time) and
// playlist items (newest first).
func (s *Playlists) Refresh(ctx context.Context) error {
	user := s.session.Current()
	if user == nil {
		return shared.ErrSignInRequired
	}

	var folders []models.Folder
	err := s.backend.Select(ctx, services.Query{
		Table:   tableFolders,
		Eq:      map[string]string{"user_id": user.ID},
		OrderBy: "created_at",
	}, &folders)
	if err != nil {
		return fmt.Errorf("failed to fetch folders: %w", err)
	}

	var items []models.PlaylistItem
	err = s.backend.Select(ctx, services.Query{
		Table:   tablePlaylists,
		Columns: "id,user_id,post_id,folder_id,created_at",
		Eq:      map[string]string{"user_id": user.ID},
		OrderBy: "created_at",
		Desc:    true,
	}, &items)
	if err != nil {
		return fmt.Errorf("failed to fetch playlist items: %w", err)
	}

	s.mu.Lock()
	s.folders = folders
	s.items = items
	s.mu.Unlock()
	return nil
}

// Folders returns a copy of the viewer's folders.
func (s *Playlists) Folders() []models.Folder {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Folder, len(s.folders))
	copy(out, s.folders)
	return out
}

// Folder returns the folder with the given id, if present.
func (s *Playlists) Folder(id int64) (models.Folder, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, f := range s.folders {
		if f.ID == id {
			return f, true
		}
	}
	return models.Folder{}, false
}

// Items returns a copy of the viewer's playlist items.
func (s *Playlists) Items() []models.PlaylistItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.PlaylistItem, len(s.items))
	copy(out, s.items)
	return out
}

// MembershipSet returns the set of post ids contained in folderID, consumed
// by the filter engine's folder predicate.
func (s *Playlists) MembershipSet(folderID int64) map[int64]bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	members := map[int64]bool{}
	for _, item := range s.items {
		if item.FolderID == folderID {
			members[item.PostID] = true
		}
	}
	return members
}

// Selected returns the active folder filter, 0 when none.
func (s *Playlists) Selected() int64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// ToggleSelect makes folderID the active filter, or clears the filter when
// it is already active.
func (s *Playlists) ToggleSelect(folderID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selected == folderID {
		s.selected = 0
	} else {
		s.selected = folderID
	}
}

// ClearSelection drops the active folder filter.
func (s *Playlists) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selected = 0
}

// ResetLocal clears all user-scoped playlist state. Called on sign-out; the
// global feed is untouched.
func (s *Playlists) ResetLocal() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.folders = nil
	s.items = nil
	s.selected = 0
}

// CreateFolder prompts for a name and creates the folder. An empty name
// aborts silently.
func (s *Playlists) CreateFolder(ctx context.Context) error {
	user := s.session.Current()
	if user == nil {
		return shared.ErrSignInRequired
	}

	name := s.prompter.Input("New folder name", "")
	if name == "" {
		return nil
	}

	err := s.backend.Insert(ctx, tableFolders, map[string]any{
		"name":    name,
		"user_id": user.ID,
	})
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// RenameFolder prompts for a new name, defaulting to the current one. An
// empty or unchanged name aborts silently.
func (s *Playlists) RenameFolder(ctx context.Context, folderID int64) error {
	user := s.session.Current()
	if user == nil {
		return shared.ErrSignInRequired
	}

	folder, ok := s.Folder(folderID)
	if !ok {
		return shared.ErrNotFound
	}

	name := s.prompter.Input("Rename folder", folder.Name)
	if name == "" || name == folder.Name {
		return nil
	}

	err := s.backend.Update(ctx, tableFolders,
		map[string]any{"name": name},
		map[string]string{"id": strconv.FormatInt(folderID, 10)},
	)
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}

// DeleteFolder removes a folder after confirmation: first the folder row,
// then, as a second explicit step, every membership row referencing it.
// The referenced posts are preserved. If the deleted folder was the active
// filter, the filter is cleared.
func (s *Playlists) DeleteFolder(ctx context.Context, folderID int64) error {
	user := s.session.Current()
	if user == nil {
		return shared.ErrSignInRequired
	}

	if !s.prompter.Confirm("Really delete this folder? (Only the folder is removed; its tracks are preserved.)") {
		return shared.ErrConfirmationDeclined
	}

	id := strconv.FormatInt(folderID, 10)
	if err := s.backend.Delete(ctx, tableFolders, map[string]string{"id": id}); err != nil {
		return err
	}

	if s.Selected() == folderID {
		s.ClearSelection()
	}

	if err := s.backend.Delete(ctx, tablePlaylists, map[string]string{"folder_id": id}); err != nil {
		return err
	}

	return s.Refresh(ctx)
}

// AddToFolder inserts a membership row. A uniqueness violation (the post is
// already in the folder) is not distinguished from any other insert
// failure; both surface as the generic [shared.ErrConstraint].
func (s *Playlists) AddToFolder(ctx context.Context, postID, folderID int64) error {
	user := s.session.Current()
	if user == nil {
		return shared.ErrSignInRequired
	}

	err := s.backend.Insert(ctx, tablePlaylists, map[string]any{
		"user_id":   user.ID,
		"post_id":   postID,
		"folder_id": folderID,
	})
	if err != nil {
		return shared.ErrConstraint
	}
	return s.Refresh(ctx)
}

// RemoveFromFolder deletes a membership row after confirmation.
func (s *Playlists) RemoveFromFolder(ctx context.Context, folderID, postID int64) error {
	user := s.session.Current()
	if user == nil {
		return shared.ErrSignInRequired
	}

	if !s.prompter.Confirm("Remove this track from the folder?") {
		return shared.ErrConfirmationDeclined
	}

	err := s.backend.Delete(ctx, tablePlaylists, map[string]string{
		"folder_id": strconv.FormatInt(folderID, 10),
		"post_id":   strconv.FormatInt(postID, 10),
	})
	if err != nil {
		return err
	}
	return s.Refresh(ctx)
}
