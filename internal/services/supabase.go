// Supabase implementation of [Backend]
//
// Speaks PostgREST conventions for queries (https://postgrest.org) and
// GoTrue conventions for identity, which is what the managed backend the
// page was written against exposes.
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"

	"github.com/michida/michida/internal/models"
	"github.com/michida/michida/internal/shared"
	"golang.org/x/oauth2"
)

const (
	restPath = "/rest/v1"
	authPath = "/auth/v1"

	// Postgres unique_violation, surfaced by PostgREST in error bodies.
	pgUniqueViolation = "23505"
)

// SupabaseService implements [Backend] over HTTP.
type SupabaseService struct {
	baseURL    string
	anonKey    string
	provider   string
	token      string
	httpClient *http.Client
}

// NewSupabaseService creates a backend client for the project at baseURL
// authenticated with the publishable anon key.
func NewSupabaseService(baseURL, anonKey string, client *http.Client) (*SupabaseService, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("%w: backend url is required", shared.ErrInvalidConfig)
	}
	if anonKey == "" {
		return nil, fmt.Errorf("%w: backend anon key is required", shared.ErrInvalidConfig)
	}
	if client == nil {
		client = http.DefaultClient
	}

	return &SupabaseService{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		provider:   "google",
		httpClient: client,
	}, nil
}

// SetProvider overrides the OAuth provider used for sign-in (default google).
func (s *SupabaseService) SetProvider(provider string) {
	if provider != "" {
		s.provider = provider
	}
}

// SetAccessToken installs the bearer token for user-scoped requests. An
// empty token falls back to the anon key.
func (s *SupabaseService) SetAccessToken(token string) { s.token = token }

// AccessToken returns the installed bearer token, empty when signed out.
func (s *SupabaseService) AccessToken() string { return s.token }

func (s *SupabaseService) bearer() string {
	if s.token != "" {
		return s.token
	}
	return s.anonKey
}

// queryString renders q's predicates in PostgREST syntax. Predicates are
// emitted in sorted key order so request URLs are stable for tests.
func queryString(q Query) string {
	values := url.Values{}

	if q.Columns != "" {
		values.Set("select", q.Columns)
	}

	keys := make([]string, 0, len(q.Eq))
	for k := range q.Eq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		values.Set(k, "eq."+q.Eq[k])
	}

	if q.OrderBy != "" {
		dir := "asc"
		if q.Desc {
			dir = "desc"
		}
		values.Set("order", q.OrderBy+"."+dir)
	}

	if q.Limit > 0 {
		values.Set("limit", strconv.Itoa(q.Limit))
	}

	return values.Encode()
}

// do performs one request against the REST surface. headers may be nil.
func (s *SupabaseService) do(ctx context.Context, method, path string, body any, headers map[string]string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, s.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Authorization", "Bearer "+s.bearer())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrTransport, err)
	}

	return resp, nil
}

// remoteError maps a non-2xx response to the client error taxonomy.
// Constraint violations collapse to ErrConstraint; everything else is an
// undistinguished remote failure.
func remoteError(resp *http.Response) error {
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode == http.StatusConflict || strings.Contains(string(body), pgUniqueViolation) {
		return shared.ErrConstraint
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return shared.ErrSignInRequired
	}
	if resp.StatusCode == http.StatusNotFound {
		return shared.ErrNotFound
	}

	return fmt.Errorf("%w: %d", shared.ErrRemoteStatus, resp.StatusCode)
}

func (s *SupabaseService) tablePath(q Query) string {
	path := restPath + "/" + q.Table
	if qs := queryString(q); qs != "" {
		path += "?" + qs
	}
	return path
}

// Select runs q and decodes the row array into result.
func (s *SupabaseService) Select(ctx context.Context, q Query, result any) error {
	resp, err := s.do(ctx, http.MethodGet, s.tablePath(q), nil, nil)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(resp)
	}

	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}

// SelectMaybeSingle runs q limited to one row, reporting whether a row matched.
func (s *SupabaseService) SelectMaybeSingle(ctx context.Context, q Query, result any) (bool, error) {
	q.Limit = 1

	var rows []json.RawMessage
	if err := s.Select(ctx, q, &rows); err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return false, nil
	}

	if err := json.Unmarshal(rows[0], result); err != nil {
		return false, fmt.Errorf("failed to decode row: %w", err)
	}
	return true, nil
}

// Count issues a HEAD request with an exact-count preference and reads the
// total off the Content-Range header ("0-24/57" or "*/0").
func (s *SupabaseService) Count(ctx context.Context, q Query) (int, error) {
	resp, err := s.do(ctx, http.MethodHead, s.tablePath(q), nil, map[string]string{
		"Prefer": "count=exact",
	})
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return 0, remoteError(resp)
	}

	contentRange := resp.Header.Get("Content-Range")
	idx := strings.LastIndex(contentRange, "/")
	if idx < 0 {
		return 0, fmt.Errorf("%w: missing Content-Range", shared.ErrRemoteStatus)
	}

	count, err := strconv.Atoi(contentRange[idx+1:])
	if err != nil {
		return 0, fmt.Errorf("%w: unparseable Content-Range %q", shared.ErrRemoteStatus, contentRange)
	}

	return count, nil
}

// Insert adds a row to table.
func (s *SupabaseService) Insert(ctx context.Context, table string, row any) error {
	resp, err := s.do(ctx, http.MethodPost, restPath+"/"+table, row, map[string]string{
		"Prefer": "return=minimal",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(resp)
	}
	return nil
}

// Update patches every row matching eq.
func (s *SupabaseService) Update(ctx context.Context, table string, patch any, eq map[string]string) error {
	resp, err := s.do(ctx, http.MethodPatch, s.tablePath(Query{Table: table, Eq: eq}), patch, map[string]string{
		"Prefer": "return=minimal",
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(resp)
	}
	return nil
}

// Delete removes every row matching eq.
func (s *SupabaseService) Delete(ctx context.Context, table string, eq map[string]string) error {
	resp, err := s.do(ctx, http.MethodDelete, s.tablePath(Query{Table: table, Eq: eq}), nil, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(resp)
	}
	return nil
}

// IncrementViews calls the increment_views stored procedure for postID.
func (s *SupabaseService) IncrementViews(ctx context.Context, postID int64) error {
	resp, err := s.do(ctx, http.MethodPost, restPath+"/rpc/increment_views", map[string]any{
		"row_id": postID,
	}, nil)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return remoteError(resp)
	}
	return nil
}

// gotrueUser is the identity payload shape returned by the auth endpoint.
type gotrueUser struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Metadata struct {
		FullName  string `json:"full_name"`
		Name      string `json:"name"`
		AvatarURL string `json:"avatar_url"`
		Picture   string `json:"picture"`
	} `json:"user_metadata"`
}

// Session retrieves the identity for the installed access token.
func (s *SupabaseService) Session(ctx context.Context) (*models.User, error) {
	if s.token == "" {
		return nil, shared.ErrSignInRequired
	}

	resp, err := s.do(ctx, http.MethodGet, authPath+"/user", nil, nil)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return nil, shared.ErrSessionExpired
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %d", shared.ErrRemoteStatus, resp.StatusCode)
	}

	var raw gotrueUser
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("failed to decode user: %w", err)
	}

	user := &models.User{ID: raw.ID, Email: raw.Email}
	if user.Name = raw.Metadata.FullName; user.Name == "" {
		user.Name = raw.Metadata.Name
	}
	if user.AvatarURL = raw.Metadata.AvatarURL; user.AvatarURL == "" {
		user.AvatarURL = raw.Metadata.Picture
	}

	return user, nil
}

// SignInURL builds the OAuth authorize URL that sends the provider's
// response back to redirectTo.
func (s *SupabaseService) SignInURL(redirectTo string) string {
	values := url.Values{}
	values.Set("provider", s.provider)
	values.Set("redirect_to", redirectTo)
	return s.baseURL + authPath + "/authorize?" + values.Encode()
}

// OAuthConfig builds the [oauth2.Config] for the authorization-code flow
// against the identity endpoints, redirecting back to redirectURL. The anon
// key doubles as the client id; GoTrue ignores it but the oauth2 package
// requires one.
func (s *SupabaseService) OAuthConfig(redirectURL string) *oauth2.Config {
	return &oauth2.Config{
		ClientID:    s.anonKey,
		RedirectURL: redirectURL,
		Endpoint: oauth2.Endpoint{
			AuthURL:   s.baseURL + authPath + "/authorize",
			TokenURL:  s.baseURL + authPath + "/token?grant_type=pkce",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

// AuthCodeURL renders the consent-screen URL for the configured provider,
// binding the PKCE verifier and the state token.
func (s *SupabaseService) AuthCodeURL(cfg *oauth2.Config, state, verifier string) string {
	return cfg.AuthCodeURL(state,
		oauth2.S256ChallengeOption(verifier),
		oauth2.SetAuthURLParam("provider", s.provider),
		oauth2.SetAuthURLParam("redirect_to", cfg.RedirectURL),
	)
}

// SignOut revokes the current session. The local token is cleared regardless
// of the remote outcome.
func (s *SupabaseService) SignOut(ctx context.Context) error {
	if s.token == "" {
		return nil
	}

	resp, err := s.do(ctx, http.MethodPost, authPath+"/logout", nil, nil)
	s.token = ""
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 && resp.StatusCode != http.StatusUnauthorized {
		return fmt.Errorf("%w: %d", shared.ErrRemoteStatus, resp.StatusCode)
	}
	return nil
}
