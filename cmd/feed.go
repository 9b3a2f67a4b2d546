package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/shared"
	"github.com/michida/michida/internal/store"
	"github.com/urfave/cli/v3"
)

// FeedList prints the feed, newest first, sliced by the requested filters.
func (r *Runner) FeedList(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}

	mood, err := models.ParseMood(cmd.String("mood"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	genre, err := models.ParseGenre(cmd.String("genre"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	filter := app.Filter()
	filter.Mood = mood
	filter.Genre = genre
	filter.Search = cmd.String("search")
	app.SetFilter(filter)
	if folderID := cmd.Int64("folder"); folderID != 0 {
		app.Playlists.ToggleSelect(folderID)
	}

	posts := app.Visible()

	if cmd.Bool("json") {
		return r.writeJSON(posts, cmd.Bool("pretty"))
	}

	r.writePlain("Posts: %d\n\n", len(posts))
	for _, post := range posts {
		r.printPostLine(post)
	}
	return nil
}

// FeedShow prints one post in full.
func (r *Runner) FeedShow(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}

	post, ok := app.Feed.Post(cmd.Int64Arg("id"))
	if !ok {
		return fmt.Errorf("%w: post %d", shared.ErrNotFound, cmd.Int64Arg("id"))
	}

	if cmd.Bool("json") {
		return r.writeJSON(post, cmd.Bool("pretty"))
	}

	r.writePlain("%s - %s\n", post.Title, post.Artist)
	r.writePlain("Mood: %s  Genre: %s\n", post.Mood, post.Genre)
	r.writePlain("Views: %d  Likes: %d", post.Views, post.Likes)
	if post.IsLiked {
		r.writePlain("  (liked)")
	}
	r.writePlain("\n")
	if post.YoutubeID != "" {
		r.writePlain("Video: https://www.youtube.com/watch?v=%s\n", post.YoutubeID)
	}
	if post.Description != "" {
		r.writePlain("\n%s\n", post.Description)
	}
	return nil
}

// FeedTop prints the most-liked posts.
func (r *Runner) FeedTop(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}

	posts := app.Feed.TopPosts(int(cmd.Int64("count")))
	if cmd.Bool("json") {
		return r.writeJSON(posts, true)
	}

	for i, post := range posts {
		r.writePlain("%d. %s - %s (%d likes, %d views)\n", i+1, post.Title, post.Artist, post.Likes, post.Views)
	}
	return nil
}

// FeedUpload shares a new track.
func (r *Runner) FeedUpload(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}

	mood, err := models.ParseMood(cmd.String("mood"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}
	genre, err := models.ParseGenre(cmd.String("genre"))
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrInvalidInput, err)
	}

	draft := store.PostDraft{
		Title:       cmd.String("title"),
		Artist:      cmd.String("artist"),
		Description: cmd.String("description"),
		YoutubeURL:  cmd.String("url"),
		Mood:        mood,
		Genre:       genre,
	}

	if err := app.Feed.Upload(ctx, draft); err != nil {
		return err
	}

	r.logger.Info("post uploaded", "title", draft.Title)
	r.writePlain("✓ Shared '%s - %s'\n", draft.Title, draft.Artist)
	return nil
}

// FeedLike toggles the viewer's like on a post.
func (r *Runner) FeedLike(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}

	postID := cmd.Int64Arg("id")
	if err := app.Feed.ToggleLike(ctx, postID); err != nil {
		return err
	}

	if post, ok := app.Feed.Post(postID); ok {
		if post.IsLiked {
			r.writePlain("♥ Liked '%s' (%d likes)\n", post.Title, post.Likes)
		} else {
			r.writePlain("Unliked '%s' (%d likes)\n", post.Title, post.Likes)
		}
	}
	return nil
}

// FeedDelete removes an owned post after confirmation.
func (r *Runner) FeedDelete(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}

	if err := app.Feed.Delete(ctx, cmd.Int64Arg("id")); err != nil {
		if errors.Is(err, shared.ErrConfirmationDeclined) {
			r.writePlain("Cancelled\n")
			return nil
		}
		return err
	}

	r.writePlain("✓ Post deleted\n")
	return nil
}

// FeedDescribe updates an owned post's description.
func (r *Runner) FeedDescribe(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}

	if err := app.Feed.UpdateDescription(ctx, cmd.Int64Arg("id"), cmd.String("description")); err != nil {
		return err
	}

	r.writePlain("✓ Description updated\n")
	return nil
}

func (r *Runner) printPostLine(post models.Post) {
	liked := " "
	if post.IsLiked {
		liked = "♥"
	}
	r.writePlain("%s #%-4d %s - %s  [%s/%s]  %d views, %d likes\n",
		liked, post.ID, post.Title, post.Artist, post.Mood, post.Genre, post.Views, post.Likes)
}
