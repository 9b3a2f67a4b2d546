package store

// Collection names in the remote store.
const (
	tablePosts        = "music_posts"
	tablePostLikes    = "post_likes"
	tableComments     = "music_comments"
	tableCommentLikes = "comment_likes"
	tableFolders      = "playlist_folders"
	tablePlaylists    = "user_playlists"
	tableProfiles     = "profiles"
)
