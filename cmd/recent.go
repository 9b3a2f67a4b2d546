package main

import (
	"context"
	"fmt"

	"github.com/michida/michida/internal/shared"
	"github.com/urfave/cli/v3"
)

// RecentList prints the recently-played cache, most recent first.
func (r *Runner) RecentList(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if app.Recent == nil {
		return fmt.Errorf("%w: local cache is not configured", shared.ErrMissingConfig)
	}

	tracks, err := app.Recent.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, true)
	}

	if len(tracks) == 0 {
		r.writePlain("Nothing played yet\n")
		return nil
	}

	for i, track := range tracks {
		r.writePlain("%d. %s - %s (#%d)\n", i+1, track.Title, track.Artist, track.PostID)
	}
	return nil
}

// RecentRemove drops one track from the cache.
func (r *Runner) RecentRemove(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if app.Recent == nil {
		return fmt.Errorf("%w: local cache is not configured", shared.ErrMissingConfig)
	}

	if err := app.Recent.Remove(cmd.Int64Arg("post")); err != nil {
		return err
	}

	r.writePlain("✓ Removed from recently played\n")
	return nil
}

// RecentClear empties the cache.
func (r *Runner) RecentClear(ctx context.Context, cmd *cli.Command) error {
	app, err := r.App()
	if err != nil {
		return err
	}
	if app.Recent == nil {
		return fmt.Errorf("%w: local cache is not configured", shared.ErrMissingConfig)
	}

	if err := app.Recent.Clear(); err != nil {
		return err
	}

	r.writePlain("✓ Recently played cleared\n")
	return nil
}
