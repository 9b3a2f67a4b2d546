package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/michida/michida/internal/formatter"
	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	FeedView ViewState = iota
	CommentView
	FolderView
	RecentView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	app    *store.App
	view   ViewState
	width  int
	height int

	feedList    list.Model
	commentList list.Model
	folderList  list.Model
	recentList  list.Model

	commentPost models.Post
	threads     []models.Thread
	recent      []models.RecentTrack

	searchInput textinput.Model
	searching   bool

	status string
	err    error
	help   help.Model
	keys   keyMap
}

// NewModel creates a new TUI model over the application state.
func NewModel(ctx context.Context, app *store.App) *Model {
	input := textinput.New()
	input.Placeholder = "title or artist"
	input.CharLimit = 80

	h := help.New()
	h.Styles.ShortDesc = styles.help
	h.Styles.FullDesc = styles.help

	m := &Model{
		ctx:         ctx,
		app:         app,
		view:        FeedView,
		feedList:    newList(""),
		commentList: newList("Comments"),
		folderList:  newList("Playlist Folders"),
		recentList:  newList("Recently Played"),
		searchInput: input,
		help:        h,
		keys:        newKeyMap(),
	}
	m.feedList.Title = m.feedTitle()
	return m
}

// newList builds an empty list so a WindowSizeMsg arriving before any data
// load has a delegate to size against.
func newList(title string) list.Model {
	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Title = title
	l.SetFilteringEnabled(false)
	return l
}

// Init initializes the TUI by refreshing the feed.
func (m *Model) Init() tea.Cmd {
	return m.refreshFeed()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.feedList, &m.commentList, &m.folderList, &m.recentList} {
			l.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.handleSearchKeys(msg)
		}
		switch m.view {
		case FeedView:
			return m.handleFeedKeys(msg)
		case CommentView:
			return m.handleCommentKeys(msg)
		case FolderView:
			return m.handleFolderKeys(msg)
		case RecentView:
			return m.handleRecentKeys(msg)
		}

	case feedLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		search := m.app.Filter().Search
		items := make([]list.Item, len(msg.posts))
		for i, p := range msg.posts {
			items[i] = postItem{post: p, search: search}
		}
		m.feedList.SetItems(items)
		m.feedList.Title = m.feedTitle()
		return m, nil

	case threadsLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("comments unavailable: %v", msg.err)
			return m, nil
		}
		m.commentPost = msg.post
		m.threads = msg.threads
		var items []list.Item
		for _, th := range msg.threads {
			items = append(items, commentItem{comment: th.Comment})
			for _, reply := range th.Replies {
				items = append(items, commentItem{comment: reply, reply: true})
			}
		}
		m.commentList.SetItems(items)
		m.commentList.Title = fmt.Sprintf("Comments on '%s'", msg.post.Title)
		m.view = CommentView
		return m, nil

	case foldersLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("folders unavailable: %v", msg.err)
			return m, nil
		}
		counts := map[int64]int{}
		for _, item := range msg.items {
			counts[item.FolderID]++
		}
		selected := m.app.Playlists.Selected()
		items := make([]list.Item, len(msg.folders))
		for i, f := range msg.folders {
			items[i] = folderItem{folder: f, count: counts[f.ID], selected: f.ID == selected}
		}
		m.folderList.SetItems(items)
		m.view = FolderView
		return m, nil

	case recentLoadedMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("recent tracks unavailable: %v", msg.err)
			return m, nil
		}
		m.recent = msg.tracks
		items := make([]list.Item, len(msg.tracks))
		for i, tr := range msg.tracks {
			items[i] = recentItem{track: tr}
		}
		m.recentList.SetItems(items)
		m.view = RecentView
		return m, nil

	case statusMsg:
		m.status = msg.text
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	var body string
	switch m.view {
	case FeedView:
		body = m.renderFeed()
	case CommentView:
		body = m.renderComments()
	case FolderView:
		body = m.renderFolders()
	case RecentView:
		body = m.renderRecent()
	}

	return fmt.Sprintf("%s\n%s", body, m.renderFooter())
}

func (m *Model) handleSearchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		m.searching = false
		m.searchInput.Blur()
		filter := m.app.Filter()
		filter.Search = m.searchInput.Value()
		m.app.SetFilter(filter)
		return m, m.rebuildFeed()
	case "esc":
		m.searching = false
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	return m, cmd
}

func (m *Model) handleFeedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.search):
		m.searching = true
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.enter):
		if post, ok := m.selectedPost(); ok {
			m.app.Playback.Select(m.ctx, post)
			m.status = ""
		}
		return m, nil
	case key.Matches(msg, m.keys.pause):
		m.app.Playback.TogglePause()
		return m, nil
	case key.Matches(msg, m.keys.next):
		m.app.Playback.SkipNext(m.ctx)
		return m, nil
	case key.Matches(msg, m.keys.prev):
		m.app.Playback.SkipBack(m.ctx)
		return m, nil
	case key.Matches(msg, m.keys.like):
		if post, ok := m.selectedPost(); ok {
			return m, m.toggleLike(post.ID)
		}
		return m, nil
	case key.Matches(msg, m.keys.comments):
		if post, ok := m.selectedPost(); ok {
			return m, m.loadComments(post)
		}
		return m, nil
	case key.Matches(msg, m.keys.folders):
		return m, m.loadFolders()
	case key.Matches(msg, m.keys.recent):
		return m, m.loadRecent()
	case key.Matches(msg, m.keys.mood):
		m.cycleMood()
		return m, m.rebuildFeed()
	case key.Matches(msg, m.keys.genre):
		m.cycleGenre()
		return m, m.rebuildFeed()
	case key.Matches(msg, m.keys.more):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.feedList, cmd = m.feedList.Update(msg)
	return m, cmd
}

func (m *Model) handleCommentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = FeedView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		// Jump playback to the first timestamp token in the comment.
		if item, ok := m.commentList.SelectedItem().(commentItem); ok {
			for _, seg := range formatter.ParseTimestamps(item.comment.Content) {
				if seg.IsToken {
					m.app.Playback.SeekTo(seg.Seconds)
					m.status = fmt.Sprintf("seeked to %s", seg.Text)
					break
				}
			}
		}
		return m, nil
	case key.Matches(msg, m.keys.like):
		if item, ok := m.commentList.SelectedItem().(commentItem); ok {
			return m, m.toggleCommentLike(item.comment)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.commentList, cmd = m.commentList.Update(msg)
	return m, cmd
}

func (m *Model) handleFolderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = FeedView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.folderList.SelectedItem().(folderItem); ok {
			m.app.Playlists.ToggleSelect(item.folder.ID)
			m.view = FeedView
			return m, m.rebuildFeed()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.folderList, cmd = m.folderList.Update(msg)
	return m, cmd
}

func (m *Model) handleRecentKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.back):
		m.view = FeedView
		return m, nil
	case key.Matches(msg, m.keys.enter):
		if item, ok := m.recentList.SelectedItem().(recentItem); ok {
			if post, ok := m.app.Feed.Post(item.track.PostID); ok {
				m.app.Playback.Select(m.ctx, post)
				m.view = FeedView
			} else {
				m.status = "track is no longer in the feed"
			}
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.recentList, cmd = m.recentList.Update(msg)
	return m, cmd
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case FeedView:
		m.feedList, cmd = m.feedList.Update(msg)
	case CommentView:
		m.commentList, cmd = m.commentList.Update(msg)
	case FolderView:
		m.folderList, cmd = m.folderList.Update(msg)
	case RecentView:
		m.recentList, cmd = m.recentList.Update(msg)
	}
	return m, cmd
}

func (m *Model) selectedPost() (models.Post, bool) {
	if item, ok := m.feedList.SelectedItem().(postItem); ok {
		return item.post, true
	}
	return models.Post{}, false
}

func (m *Model) cycleMood() {
	filter := m.app.Filter()
	moods := append([]models.Mood{models.MoodAll}, models.Moods()...)
	for i, mood := range moods {
		if mood == filter.Mood {
			filter.Mood = moods[(i+1)%len(moods)]
			m.app.SetFilter(filter)
			return
		}
	}
	filter.Mood = moods[0]
	m.app.SetFilter(filter)
}

func (m *Model) cycleGenre() {
	filter := m.app.Filter()
	genres := append([]models.Genre{models.GenreAll}, models.Genres()...)
	for i, genre := range genres {
		if genre == filter.Genre {
			filter.Genre = genres[(i+1)%len(genres)]
			m.app.SetFilter(filter)
			return
		}
	}
	filter.Genre = genres[0]
	m.app.SetFilter(filter)
}

func (m *Model) feedTitle() string {
	filter := m.app.Filter()
	title := fmt.Sprintf("Feed • mood:%s genre:%s", filter.Mood, filter.Genre)
	if filter.Search != "" {
		title += fmt.Sprintf(" search:%q", filter.Search)
	}
	if folder, ok := m.app.Playlists.Folder(filter.FolderID); ok {
		title += fmt.Sprintf(" folder:%s", folder.Name)
	}
	return title
}

func (m *Model) refreshFeed() tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Feed.Refresh(m.ctx); err != nil {
			return feedLoadedMsg{err: err}
		}
		return feedLoadedMsg{posts: m.app.Visible()}
	}
}

// rebuildFeed reslices the already-fetched feed under the current filter
// without touching the network.
func (m *Model) rebuildFeed() tea.Cmd {
	return func() tea.Msg {
		return feedLoadedMsg{posts: m.app.Visible()}
	}
}

func (m *Model) loadComments(post models.Post) tea.Cmd {
	return func() tea.Msg {
		threads, err := m.app.Comments.Load(m.ctx, post.ID)
		return threadsLoadedMsg{post: post, threads: threads, err: err}
	}
}

func (m *Model) loadFolders() tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Playlists.Refresh(m.ctx); err != nil {
			return foldersLoadedMsg{err: err}
		}
		return foldersLoadedMsg{folders: m.app.Playlists.Folders(), items: m.app.Playlists.Items()}
	}
}

func (m *Model) loadRecent() tea.Cmd {
	return func() tea.Msg {
		// Recent is nil when the local cache failed to open. The CLI keeps
		// running in that state, so the TUI does too.
		if m.app.Recent == nil {
			return statusMsg{text: "local cache is not configured"}
		}
		tracks, err := m.app.Recent.List()
		return recentLoadedMsg{tracks: tracks, err: err}
	}
}

func (m *Model) toggleLike(postID int64) tea.Cmd {
	return func() tea.Msg {
		if err := m.app.Feed.ToggleLike(m.ctx, postID); err != nil {
			return statusMsg{text: fmt.Sprintf("like failed: %v", err)}
		}
		return feedLoadedMsg{posts: m.app.Visible()}
	}
}

func (m *Model) toggleCommentLike(comment models.Comment) tea.Cmd {
	return func() tea.Msg {
		threads, err := m.app.Comments.ToggleLike(m.ctx, comment.PostID, comment.ID)
		if err != nil {
			return statusMsg{text: fmt.Sprintf("like failed: %v", err)}
		}
		return threadsLoadedMsg{post: m.commentPost, threads: threads}
	}
}

func (m *Model) renderFeed() string {
	if m.searching {
		prompt := styles.title.Render("Search")
		return fmt.Sprintf("%s\n%s", prompt, m.searchInput.View())
	}

	return fmt.Sprintf("%s\n\n%s", m.feedList.View(), m.help.View(m.keys))
}

func (m *Model) renderComments() string {
	seekKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "seek"))
	helpKeys := []key.Binding{seekKey, m.keys.like, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.commentList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderFolders() string {
	pickKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "filter by folder"))
	helpKeys := []key.Binding{pickKey, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.folderList.View(), m.help.ShortHelpView(helpKeys))
}

func (m *Model) renderRecent() string {
	playKey := key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play"))
	helpKeys := []key.Binding{playKey, m.keys.back, m.keys.quit}
	return fmt.Sprintf("%s\n\n%s", m.recentList.View(), m.help.ShortHelpView(helpKeys))
}

// renderFooter shows the playback bar and the last action status.
func (m *Model) renderFooter() string {
	currentID, state := m.app.Playback.Current()

	bar := "nothing playing"
	if currentID != 0 {
		if post, ok := m.app.Feed.Post(currentID); ok {
			bar = fmt.Sprintf("%s %s - %s", stateGlyph(state), post.Title, post.Artist)
		} else {
			bar = fmt.Sprintf("%s #%d", stateGlyph(state), currentID)
		}
	}

	footer := styles.ok.Render(bar)
	if m.status != "" {
		footer += "  " + styles.warn.Render(m.status)
	}
	return footer
}

func stateGlyph(state store.PlaybackState) string {
	switch state {
	case store.StatePlaying:
		return "▶"
	case store.StatePaused:
		return "⏸"
	default:
		return "■"
	}
}
