package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/michida/michida/internal/formatter"
	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/shared"
	"github.com/michida/michida/internal/store"
	"github.com/urfave/cli/v3"
)

// CommentList prints a post's comment threads: top-level comments in
// creation order, replies indented beneath their parent.
func (r *Runner) CommentList(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	threads, err := app.Comments.Load(ctx, cmd.Int64Arg("post"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(threads, cmd.Bool("pretty"))
	}

	r.writePlain("Comments: %d\n\n", countComments(threads))
	for _, thread := range threads {
		r.printComment(thread.Comment, "")
		for _, reply := range thread.Replies {
			r.printComment(reply, "    ")
		}
	}
	return nil
}

// CommentAdd comments on a post. With --reply-to the new comment lands under
// the target's top-level thread, replying to a reply included.
func (r *Runner) CommentAdd(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	postID := cmd.Int64("post")

	parentID := ""
	if replyTo := cmd.String("reply-to"); replyTo != "" {
		threads, err := app.Comments.Load(ctx, postID)
		if err != nil {
			return err
		}
		target, ok := findComment(threads, replyTo)
		if !ok {
			return fmt.Errorf("%w: comment %s", shared.ErrNotFound, replyTo)
		}
		parentID = store.ResolveReplyParent(target)
	}

	if _, err := app.Comments.Create(ctx, postID, cmd.String("content"), parentID); err != nil {
		return err
	}

	r.writePlain("✓ Comment posted\n")
	return nil
}

// CommentEdit replaces an owned comment's text.
func (r *Runner) CommentEdit(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	comment, err := r.findPostComment(ctx, app, cmd.Int64("post"), cmd.String("id"))
	if err != nil {
		return err
	}

	if _, err := app.Comments.Update(ctx, comment, cmd.String("content")); err != nil {
		return err
	}

	r.writePlain("✓ Comment updated\n")
	return nil
}

// CommentDelete deletes an owned comment after confirmation.
func (r *Runner) CommentDelete(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	comment, err := r.findPostComment(ctx, app, cmd.Int64("post"), cmd.String("id"))
	if err != nil {
		return err
	}

	if _, err := app.Comments.Delete(ctx, comment); err != nil {
		if errors.Is(err, shared.ErrConfirmationDeclined) {
			r.writePlain("Cancelled\n")
			return nil
		}
		return err
	}

	r.writePlain("✓ Comment deleted\n")
	return nil
}

// CommentLike toggles the viewer's like on a comment.
func (r *Runner) CommentLike(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	app.Session.Init(ctx)

	threads, err := app.Comments.ToggleLike(ctx, cmd.Int64("post"), cmd.String("id"))
	if err != nil {
		return err
	}

	if comment, ok := findComment(threads, cmd.String("id")); ok {
		if comment.IsLiked {
			r.writePlain("♥ Liked (%d likes)\n", comment.Likes)
		} else {
			r.writePlain("Unliked (%d likes)\n", comment.Likes)
		}
	}
	return nil
}

// CommentProfile shows a comment author's public profile.
func (r *Runner) CommentProfile(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}

	profile, err := app.Comments.Profile(ctx, cmd.StringArg("user"))
	if err != nil {
		return err
	}

	r.writePlain("%s\n", profile.Name)
	if profile.AvatarURL != "" {
		r.writePlain("Avatar: %s\n", profile.AvatarURL)
	}
	r.writePlain("Comments written: %d\n", profile.CommentCount)
	return nil
}

func (r *Runner) findPostComment(ctx context.Context, app *store.App, postID int64, commentID string) (models.Comment, error) {
	threads, err := app.Comments.Load(ctx, postID)
	if err != nil {
		return models.Comment{}, err
	}
	comment, ok := findComment(threads, commentID)
	if !ok {
		return models.Comment{}, fmt.Errorf("%w: comment %s", shared.ErrNotFound, commentID)
	}
	return comment, nil
}

func findComment(threads []models.Thread, id string) (models.Comment, bool) {
	for _, thread := range threads {
		if thread.Comment.ID == id {
			return thread.Comment, true
		}
		for _, reply := range thread.Replies {
			if reply.ID == id {
				return reply, true
			}
		}
	}
	return models.Comment{}, false
}

func countComments(threads []models.Thread) int {
	n := 0
	for _, thread := range threads {
		n += 1 + len(thread.Replies)
	}
	return n
}

func (r *Runner) printComment(c models.Comment, indent string) {
	author := "anonymous"
	if c.Author != nil && c.Author.Name != "" {
		author = c.Author.Name
	}

	meta := fmt.Sprintf("%s, %s", author, formatter.RelativeTime(c.CreatedAt, time.Now()))
	if c.Edited() {
		meta += ", edited"
	}
	if c.Likes > 0 {
		meta += fmt.Sprintf(", %d likes", c.Likes)
	}

	r.writePlain("%s[%s] %s\n", indent, meta, c.Content)
	r.writePlain("%s  id: %s\n", indent, c.ID)
}
