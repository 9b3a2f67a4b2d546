// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// authCommand handles sign-in session management
func authCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "auth",
		Usage: "Manage the sign-in session",
		Commands: []*cli.Command{
			{
				Name:  "login",
				Usage: "Sign in through the configured OAuth provider",
				Flags: []cli.Flag{
					&cli.Int64Flag{
						Name:  "timeout",
						Usage: "Seconds to wait for the browser authorization",
						Value: 120,
					},
				},
				Action: r.AuthLogin,
			},
			{
				Name:   "logout",
				Usage:  "Sign out and discard the saved session",
				Action: r.AuthLogout,
			},
			{
				Name:   "status",
				Usage:  "Show the signed-in identity",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.AuthStatus,
			},
		},
	}
}

// feedCommand handles feed browsing and post management
func feedCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "feed",
		Usage: "Browse and manage the shared feed",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List posts, newest first, under the given filters",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "mood", Usage: "Mood filter"},
					&cli.StringFlag{Name: "genre", Usage: "Genre filter"},
					&cli.StringFlag{Name: "search", Usage: "Title or artist substring"},
					&cli.Int64Flag{Name: "folder", Usage: "Restrict to a playlist folder id"},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.FeedList,
			},
			{
				Name:      "show",
				Usage:     "Show one post in full",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output", Value: true},
				},
				Action: r.FeedShow,
			},
			{
				Name:  "top",
				Usage: "Show the most-liked posts",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "count", Usage: "How many posts to show", Value: 3},
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
				},
				Action: r.FeedTop,
			},
			{
				Name:  "upload",
				Usage: "Share a new track",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Usage: "Track title", Required: true},
					&cli.StringFlag{Name: "artist", Usage: "Artist name", Required: true},
					&cli.StringFlag{Name: "url", Usage: "YouTube watch URL or video id"},
					&cli.StringFlag{Name: "mood", Usage: "Mood tag", Required: true},
					&cli.StringFlag{Name: "genre", Usage: "Genre tag", Required: true},
					&cli.StringFlag{Name: "description", Usage: "Free-form description"},
				},
				Action: r.FeedUpload,
			},
			{
				Name:      "like",
				Usage:     "Toggle the like on a post",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "id"}},
				Action:    r.FeedLike,
			},
			{
				Name:      "delete",
				Usage:     "Delete an owned post",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "id"}},
				Action:    r.FeedDelete,
			},
			{
				Name:      "describe",
				Usage:     "Update an owned post's description",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "id"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "description", Usage: "New description", Required: true},
				},
				Action: r.FeedDescribe,
			},
		},
	}
}

// playCommand drives the playback controller
func playCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "play",
		Usage: "Control playback",
		Commands: []*cli.Command{
			{
				Name:      "start",
				Usage:     "Play a post by id",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "id"}},
				Action:    r.PlayStart,
			},
			{
				Name:   "pause",
				Usage:  "Toggle between playing and paused",
				Action: r.PlayPause,
			},
			{
				Name:   "next",
				Usage:  "Skip to the next post in the feed",
				Action: r.PlayNext,
			},
			{
				Name:   "back",
				Usage:  "Skip to the previous post in the feed",
				Action: r.PlayBack,
			},
			{
				Name:      "seek",
				Usage:     "Jump to an offset, given as seconds or m:ss",
				Arguments: []cli.Argument{&cli.StringArg{Name: "offset"}},
				Action:    r.PlaySeek,
			},
		},
	}
}

// commentCommand handles comment threads on posts
func commentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "comment",
		Usage: "Read and write comments",
		Commands: []*cli.Command{
			{
				Name:      "list",
				Usage:     "Show a post's comment threads",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "post"}},
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.CommentList,
			},
			{
				Name:  "add",
				Usage: "Comment on a post, or reply to a comment",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "post", Usage: "Post id", Required: true},
					&cli.StringFlag{Name: "content", Usage: "Comment text", Required: true},
					&cli.StringFlag{Name: "reply-to", Usage: "Comment id to reply to"},
				},
				Action: r.CommentAdd,
			},
			{
				Name:  "edit",
				Usage: "Edit an owned comment",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "post", Usage: "Post id", Required: true},
					&cli.StringFlag{Name: "id", Usage: "Comment id", Required: true},
					&cli.StringFlag{Name: "content", Usage: "Replacement text", Required: true},
				},
				Action: r.CommentEdit,
			},
			{
				Name:  "delete",
				Usage: "Delete an owned comment",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "post", Usage: "Post id", Required: true},
					&cli.StringFlag{Name: "id", Usage: "Comment id", Required: true},
				},
				Action: r.CommentDelete,
			},
			{
				Name:  "like",
				Usage: "Toggle the like on a comment",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "post", Usage: "Post id", Required: true},
					&cli.StringFlag{Name: "id", Usage: "Comment id", Required: true},
				},
				Action: r.CommentLike,
			},
			{
				Name:      "profile",
				Usage:     "Show a comment author's public profile",
				Arguments: []cli.Argument{&cli.StringArg{Name: "user"}},
				Action:    r.CommentProfile,
			},
		},
	}
}

// playlistCommand handles playlist folders and their contents
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Manage playlist folders",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List folders and their tracks",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"},
					&cli.BoolFlag{Name: "pretty", Usage: "Pretty-print output"},
				},
				Action: r.PlaylistList,
			},
			{
				Name:   "create",
				Usage:  "Create a folder (prompts for the name)",
				Action: r.PlaylistCreate,
			},
			{
				Name:      "rename",
				Usage:     "Rename a folder (prompts for the new name)",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "folder"}},
				Action:    r.PlaylistRename,
			},
			{
				Name:      "delete",
				Usage:     "Delete a folder, keeping the posts it referenced",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "folder"}},
				Action:    r.PlaylistDelete,
			},
			{
				Name:  "add",
				Usage: "Add a post to a folder",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "post", Usage: "Post id", Required: true},
					&cli.Int64Flag{Name: "folder", Usage: "Folder id", Required: true},
				},
				Action: r.PlaylistAdd,
			},
			{
				Name:  "remove",
				Usage: "Remove a post from a folder",
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "post", Usage: "Post id", Required: true},
					&cli.Int64Flag{Name: "folder", Usage: "Folder id", Required: true},
				},
				Action: r.PlaylistRemove,
			},
			{
				Name:      "export",
				Usage:     "Export a folder's tracks to CSV or Markdown",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "folder"}},
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Usage: "csv or markdown", Value: "csv"},
					&cli.StringFlag{Name: "output", Aliases: []string{"o"}, Usage: "Output file path"},
				},
				Action: r.PlaylistExport,
			},
		},
	}
}

// recentCommand handles the local recently-played cache
func recentCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "recent",
		Usage: "Inspect the recently-played cache",
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "List recently played tracks, most recent first",
				Flags:  []cli.Flag{&cli.BoolFlag{Name: "json", Usage: "Output raw JSON"}},
				Action: r.RecentList,
			},
			{
				Name:      "remove",
				Usage:     "Drop one track from the cache",
				Arguments: []cli.Argument{&cli.Int64Arg{Name: "post"}},
				Action:    r.RecentRemove,
			},
			{
				Name:   "clear",
				Usage:  "Empty the cache",
				Action: r.RecentClear,
			},
		},
	}
}

// setupCommand handles configuration and local cache setup
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a config file template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize the local cache database",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command for interactive browsing.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive feed browser",
		Flags: []cli.Flag{
			&cli.Int64Flag{Name: "post", Usage: "Jump straight to a post and start playing"},
		},
		Action: r.TUI,
	}
}
