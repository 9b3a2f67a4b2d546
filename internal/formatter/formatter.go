// package formatter provides presentation helpers: comment timestamp
// tokens, relative times, search highlighting, and folder export (CSV,
// Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/michida/michida/internal/models"
)

// timestampPattern matches M:SS and MM:SS substrings anywhere in comment
// content. A comment may carry any number of tokens.
var timestampPattern = regexp.MustCompile(`\d{1,2}:\d{2}`)

// Segment is one piece of a tokenized comment: either plain text or a
// timestamp token carrying its seek offset.
type Segment struct {
	Text    string
	IsToken bool
	Seconds int
}

// ParseTimestamps splits content around its timestamp tokens. Token
// segments carry minutes*60+seconds, rendered by the UI as seek controls.
// This is a presentation affordance only; content is never rewritten.
func ParseTimestamps(content string) []Segment {
	locs := timestampPattern.FindAllStringIndex(content, -1)
	if len(locs) == 0 {
		return []Segment{{Text: content}}
	}

	var segments []Segment
	prev := 0
	for _, loc := range locs {
		if loc[0] > prev {
			segments = append(segments, Segment{Text: content[prev:loc[0]]})
		}
		token := content[loc[0]:loc[1]]
		segments = append(segments, Segment{Text: token, IsToken: true, Seconds: TokenSeconds(token)})
		prev = loc[1]
	}
	if prev < len(content) {
		segments = append(segments, Segment{Text: content[prev:]})
	}

	return segments
}

// TokenSeconds converts an M:SS or MM:SS token to a seek offset in seconds.
// Malformed input yields zero.
func TokenSeconds(token string) int {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 {
		return 0
	}

	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0
	}
	seconds, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}

	return minutes*60 + seconds
}

// RelativeTime renders t against now as a compact comment age label.
func RelativeTime(t, now time.Time) string {
	diff := now.Sub(t)

	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	default:
		return fmt.Sprintf("%d/%d", int(t.Month()), t.Day())
	}
}

// Range is a half-open [Start, End) byte range within the searched string.
type Range struct {
	Start int
	End   int
}

// HighlightRanges returns the case-insensitive occurrences of query in
// text, for search-term highlighting. An empty query highlights nothing.
func HighlightRanges(text, query string) []Range {
	if query == "" {
		return nil
	}

	lowerText := strings.ToLower(text)
	lowerQuery := strings.ToLower(query)

	var ranges []Range
	for offset := 0; ; {
		i := strings.Index(lowerText[offset:], lowerQuery)
		if i < 0 {
			break
		}
		start := offset + i
		ranges = append(ranges, Range{Start: start, End: start + len(lowerQuery)})
		offset = start + len(lowerQuery)
	}
	return ranges
}

// FolderExport is a folder with the posts it references, resolved for export.
type FolderExport struct {
	Folder models.Folder
	Posts  []models.Post
}

// ExportToCSV renders a folder's tracks with columns: ID, Title, Artist,
// Mood, Genre, YoutubeID.
func ExportToCSV(export *FolderExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Artist", "Mood", "Genre", "YoutubeID"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, p := range export.Posts {
		record := []string{
			strconv.FormatInt(p.ID, 10),
			p.Title,
			p.Artist,
			string(p.Mood),
			string(p.Genre),
			p.YoutubeID,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders a folder's tracks as a Markdown listing with
// watch links for posts that reference a video.
func ExportToMarkdown(export *FolderExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Folder.Name))
	buf.WriteString(fmt.Sprintf("%d tracks\n\n", len(export.Posts)))

	for i, p := range export.Posts {
		buf.WriteString(fmt.Sprintf("%d. **%s** — %s", i+1, p.Title, p.Artist))
		if p.YoutubeID != "" {
			buf.WriteString(fmt.Sprintf(" ([watch](https://www.youtube.com/watch?v=%s))", p.YoutubeID))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}
