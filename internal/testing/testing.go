// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/services"
	"github.com/michida/michida/internal/shared"
)

// FakeBackend is an in-memory test double for [services.Backend]. Rows are
// held as JSON-shaped maps per table, so the same structs the production
// code decodes remote responses into round-trip through it unchanged.
type FakeBackend struct {
	mu     sync.Mutex
	tables map[string][]map[string]any
	nextID int64
	token  string

	// Unique maps a table name to the column set forming its uniqueness
	// key. Inserting a duplicate returns shared.ErrConstraint.
	Unique map[string][]string

	// StringIDs names the tables whose generated ids are uuid strings
	// rather than sequential integers.
	StringIDs map[string]bool

	// User is returned by Session when set; otherwise Session reports
	// shared.ErrSignInRequired.
	User *models.User

	// SessionErr overrides the Session result when set.
	SessionErr error

	// FailInsert forces Insert on the named table to fail.
	FailInsert map[string]error
}

// NewFakeBackend creates an empty backend with no signed-in user. Comment
// rows get uuid ids, matching the remote schema; everything else gets
// sequential integers.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		tables:     map[string][]map[string]any{},
		nextID:     1,
		Unique:     map[string][]string{},
		StringIDs:  map[string]bool{"music_comments": true},
		FailInsert: map[string]error{},
	}
}

// Seed inserts a row directly, bypassing uniqueness checks. Rows without an
// "id" key get one assigned.
func (b *FakeBackend) Seed(table string, row any) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tables[table] = append(b.tables[table], b.toRow(table, row))
}

// Rows returns a copy of the named table's rows in insertion order.
func (b *FakeBackend) Rows(table string) []map[string]any {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]map[string]any{}, b.tables[table]...)
}

func (b *FakeBackend) toRow(table string, row any) map[string]any {
	data, err := json.Marshal(row)
	if err != nil {
		panic(fmt.Sprintf("unencodable row: %v", err))
	}
	m := map[string]any{}
	if err := json.Unmarshal(data, &m); err != nil {
		panic(fmt.Sprintf("row is not an object: %v", err))
	}
	if _, ok := m["id"]; !ok {
		if b.StringIDs[table] {
			m["id"] = shared.GenerateID()
		} else {
			m["id"] = float64(b.nextID)
			b.nextID++
		}
	}
	if _, ok := m["created_at"]; !ok {
		m["created_at"] = time.Now().UTC().Format(time.RFC3339Nano)
		// Later inserts must sort after earlier ones even within a clock tick.
		time.Sleep(time.Millisecond)
	}
	return m
}

// fieldString renders a row value the way an equality predicate spells it.
func fieldString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}

func (b *FakeBackend) match(table string, eq map[string]string) []map[string]any {
	var out []map[string]any
	for _, row := range b.tables[table] {
		ok := true
		for col, want := range eq {
			if fieldString(row[col]) != want {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, row)
		}
	}
	return out
}

func (b *FakeBackend) Select(ctx context.Context, q services.Query, result any) error {
	b.mu.Lock()
	rows := b.match(q.Table, q.Eq)
	if q.OrderBy != "" {
		col, desc := q.OrderBy, q.Desc
		sort.SliceStable(rows, func(i, j int) bool {
			a, bv := fieldString(rows[i][col]), fieldString(rows[j][col])
			af, aerr := strconv.ParseFloat(a, 64)
			bf, berr := strconv.ParseFloat(bv, 64)
			var less bool
			if aerr == nil && berr == nil {
				less = af < bf
			} else {
				less = a < bv
			}
			if desc {
				return !less && a != bv
			}
			return less
		})
	}
	if q.Limit > 0 && len(rows) > q.Limit {
		rows = rows[:q.Limit]
	}
	b.mu.Unlock()

	data, err := json.Marshal(rows)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, result)
}

func (b *FakeBackend) SelectMaybeSingle(ctx context.Context, q services.Query, result any) (bool, error) {
	b.mu.Lock()
	rows := b.match(q.Table, q.Eq)
	b.mu.Unlock()

	if len(rows) == 0 {
		return false, nil
	}

	data, err := json.Marshal(rows[0])
	if err != nil {
		return false, err
	}
	return true, json.Unmarshal(data, result)
}

func (b *FakeBackend) Count(ctx context.Context, q services.Query) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.match(q.Table, q.Eq)), nil
}

func (b *FakeBackend) Insert(ctx context.Context, table string, row any) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.FailInsert[table]; err != nil {
		return err
	}

	m := b.toRow(table, row)
	if key, ok := b.Unique[table]; ok {
		for _, existing := range b.tables[table] {
			dup := true
			for _, col := range key {
				if fieldString(existing[col]) != fieldString(m[col]) {
					dup = false
					break
				}
			}
			if dup {
				return fmt.Errorf("duplicate row in %s: %w", table, shared.ErrConstraint)
			}
		}
	}

	b.tables[table] = append(b.tables[table], m)
	return nil
}

func (b *FakeBackend) Update(ctx context.Context, table string, patch any, eq map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	data, err := json.Marshal(patch)
	if err != nil {
		return err
	}
	fields := map[string]any{}
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	for _, row := range b.match(table, eq) {
		for k, v := range fields {
			row[k] = v
		}
	}
	return nil
}

func (b *FakeBackend) Delete(ctx context.Context, table string, eq map[string]string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var kept []map[string]any
	for _, row := range b.tables[table] {
		matched := true
		for col, want := range eq {
			if fieldString(row[col]) != want {
				matched = false
				break
			}
		}
		if !matched {
			kept = append(kept, row)
		}
	}
	b.tables[table] = kept
	return nil
}

func (b *FakeBackend) IncrementViews(ctx context.Context, postID int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, row := range b.match("music_posts", map[string]string{"id": strconv.FormatInt(postID, 10)}) {
		views, _ := row["views"].(float64)
		row["views"] = views + 1
	}
	return nil
}

func (b *FakeBackend) Session(ctx context.Context) (*models.User, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.SessionErr != nil {
		return nil, b.SessionErr
	}
	if b.User == nil {
		return nil, shared.ErrSignInRequired
	}
	return b.User, nil
}

func (b *FakeBackend) SignInURL(redirectTo string) string {
	return "https://example.test/auth/v1/authorize?redirect_to=" + redirectTo
}

func (b *FakeBackend) SignOut(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = ""
	return nil
}

func (b *FakeBackend) SetAccessToken(token string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.token = token
}

func (b *FakeBackend) AccessToken() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.token
}

// ScriptedPrompter answers confirmation and input prompts from queued
// responses. An exhausted queue declines or returns the initial value.
type ScriptedPrompter struct {
	Confirms []bool
	Inputs   []string
}

func (p *ScriptedPrompter) Confirm(message string) bool {
	if len(p.Confirms) == 0 {
		return false
	}
	answer := p.Confirms[0]
	p.Confirms = p.Confirms[1:]
	return answer
}

func (p *ScriptedPrompter) Input(message, initial string) string {
	if len(p.Inputs) == 0 {
		return initial
	}
	answer := p.Inputs[0]
	p.Inputs = p.Inputs[1:]
	return answer
}

// CaptureSink records every payload posted to the embedded player.
type CaptureSink struct {
	mu       sync.Mutex
	Payloads []string
	Err      error
}

func (c *CaptureSink) Post(payload []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.Err != nil {
		return c.Err
	}
	c.Payloads = append(c.Payloads, string(payload))
	return nil
}

// Last returns the most recent payload, or "" when none were posted.
func (c *CaptureSink) Last() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.Payloads) == 0 {
		return ""
	}
	return c.Payloads[len(c.Payloads)-1]
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
