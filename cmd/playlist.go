package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/michida/michida/internal/formatter"
	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistList prints the viewer's folders and their tracks.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}
	if err := app.Playlists.Refresh(ctx); err != nil {
		return err
	}

	folders := app.Playlists.Folders()

	if cmd.Bool("json") {
		type folderDump struct {
			Folder models.Folder        `json:"folder"`
			Items  []models.PlaylistItem `json:"items"`
		}
		dump := make([]folderDump, 0, len(folders))
		for _, folder := range folders {
			fd := folderDump{Folder: folder}
			for _, item := range app.Playlists.Items() {
				if item.FolderID == folder.ID {
					fd.Items = append(fd.Items, item)
				}
			}
			dump = append(dump, fd)
		}
		return r.writeJSON(dump, cmd.Bool("pretty"))
	}

	r.writePlain("Folders: %d\n", len(folders))
	for _, folder := range folders {
		members := app.Playlists.MembershipSet(folder.ID)
		r.writePlain("\n#%d %s (%d tracks)\n", folder.ID, folder.Name, len(members))
		for _, post := range app.Feed.Posts() {
			if members[post.ID] {
				r.writePlain("  #%-4d %s - %s\n", post.ID, post.Title, post.Artist)
			}
		}
	}
	return nil
}

// PlaylistCreate creates a folder, prompting for its name. An empty name
// cancels silently.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	if err := app.Playlists.CreateFolder(ctx); err != nil {
		return err
	}
	return nil
}

// PlaylistRename renames a folder, prompting with the current name.
func (r *Runner) PlaylistRename(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)
	if err := app.Playlists.Refresh(ctx); err != nil {
		return err
	}

	if err := app.Playlists.RenameFolder(ctx, cmd.Int64Arg("folder")); err != nil {
		return err
	}
	return nil
}

// PlaylistDelete deletes a folder after confirmation. The posts it
// referenced stay in the feed; only the membership rows go.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)
	if err := app.Playlists.Refresh(ctx); err != nil {
		return err
	}

	if err := app.Playlists.DeleteFolder(ctx, cmd.Int64Arg("folder")); err != nil {
		if errors.Is(err, shared.ErrConfirmationDeclined) {
			r.writePlain("Cancelled\n")
			return nil
		}
		return err
	}

	r.writePlain("✓ Folder deleted\n")
	return nil
}

// PlaylistAdd puts a post into a folder.
func (r *Runner) PlaylistAdd(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	if err := app.Playlists.AddToFolder(ctx, cmd.Int64("post"), cmd.Int64("folder")); err != nil {
		if errors.Is(err, shared.ErrConstraint) {
			r.writePlain("Already in that folder\n")
			return nil
		}
		return err
	}

	r.writePlain("✓ Added to folder\n")
	return nil
}

// PlaylistRemove takes a post out of a folder after confirmation.
func (r *Runner) PlaylistRemove(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	if err := app.Playlists.RemoveFromFolder(ctx, cmd.Int64("folder"), cmd.Int64("post")); err != nil {
		if errors.Is(err, shared.ErrConfirmationDeclined) {
			r.writePlain("Cancelled\n")
			return nil
		}
		return err
	}

	r.writePlain("✓ Removed from folder\n")
	return nil
}

// PlaylistExport writes a folder's tracks as CSV or Markdown.
func (r *Runner) PlaylistExport(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}
	if err := app.Playlists.Refresh(ctx); err != nil {
		return err
	}

	folderID := cmd.Int64Arg("folder")
	folder, ok := app.Playlists.Folder(folderID)
	if !ok {
		return fmt.Errorf("%w: folder %d", shared.ErrNotFound, folderID)
	}

	members := app.Playlists.MembershipSet(folderID)
	var posts []models.Post
	for _, post := range app.Feed.Posts() {
		if members[post.ID] {
			posts = append(posts, post)
		}
	}

	export := &formatter.FolderExport{Folder: folder, Posts: posts}

	var data []byte
	switch format := strings.ToLower(cmd.String("format")); format {
	case "csv":
		data, err = formatter.ExportToCSV(export)
	case "markdown", "md":
		data, err = formatter.ExportToMarkdown(export)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidInput, format)
	}
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	if outputFile := cmd.String("output"); outputFile != "" {
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write output file: %w", err)
		}
		r.logger.Infof("folder exported to %v with %v tracks", outputFile, len(posts))
		r.writePlain("✓ Folder exported to %s (%d tracks)\n", outputFile, len(posts))
		return nil
	}

	return r.writePlain("%s", string(data))
}
