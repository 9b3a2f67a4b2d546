package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/michida/michida/internal/formatter"
	"github.com/michida/michida/internal/shared"
	"github.com/michida/michida/internal/store"
	"github.com/urfave/cli/v3"
)

// PlayStart selects a post and starts playback, printing the player command
// envelope for the embedded player.
func (r *Runner) PlayStart(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, cmd.Int64Arg("id")); err != nil {
		return err
	}

	currentID, state := app.Playback.Current()
	post, ok := app.Feed.Post(currentID)
	if !ok {
		return fmt.Errorf("%w: post %d", shared.ErrNotFound, cmd.Int64Arg("id"))
	}

	r.writePlain("▶ %s - %s (%s)\n", post.Title, post.Artist, state)
	return nil
}

// PlayPause toggles between playing and paused.
func (r *Runner) PlayPause(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayback(ctx, func(app *store.App) error {
		app.Playback.TogglePause()
		_, state := app.Playback.Current()
		r.writePlain("Playback %s\n", state)
		return nil
	})
}

// PlayNext skips to the next post in the full feed order.
func (r *Runner) PlayNext(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayback(ctx, func(app *store.App) error {
		app.Playback.SkipNext(ctx)
		return r.printNowPlaying(app)
	})
}

// PlayBack skips to the previous post in the full feed order.
func (r *Runner) PlayBack(ctx context.Context, cmd *cli.Command) error {
	return r.withPlayback(ctx, func(app *store.App) error {
		app.Playback.SkipBack(ctx)
		return r.printNowPlaying(app)
	})
}

// PlaySeek jumps the player to an offset given as plain seconds or a m:ss
// timestamp token.
func (r *Runner) PlaySeek(ctx context.Context, cmd *cli.Command) error {
	offset := strings.TrimSpace(cmd.StringArg("offset"))

	var seconds int
	if strings.Contains(offset, ":") {
		seconds = formatter.TokenSeconds(offset)
		if seconds == 0 && offset != "0:00" {
			return fmt.Errorf("%w: unrecognized timestamp %q", shared.ErrInvalidInput, offset)
		}
	} else {
		n, err := strconv.Atoi(offset)
		if err != nil || n < 0 {
			return fmt.Errorf("%w: unrecognized offset %q", shared.ErrInvalidInput, offset)
		}
		seconds = n
	}

	return r.withPlayback(ctx, func(app *store.App) error {
		if len(app.Playback.Mounted()) == 0 {
			return shared.ErrNothingPlaying
		}
		app.Playback.SeekTo(seconds)
		r.writePlain("Seeked to %d seconds\n", seconds)
		return nil
	})
}

func (r *Runner) withPlayback(ctx context.Context, fn func(app *store.App) error) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if err := app.Start(ctx, 0); err != nil {
		return err
	}
	return fn(app)
}

func (r *Runner) printNowPlaying(app *store.App) error {
	currentID, state := app.Playback.Current()
	if currentID == 0 {
		return shared.ErrNothingPlaying
	}
	if post, ok := app.Feed.Post(currentID); ok {
		r.writePlain("▶ %s - %s (%s)\n", post.Title, post.Artist, state)
	}
	return nil
}
