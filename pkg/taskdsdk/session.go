package taskdsdk

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
)

// Session is an authenticated client bound to one session token.
type Session struct {
	client  *Client
	token   string
	Account Account
}

func newSession(c *Client, auth AuthResponse) *Session {
	return &Session{client: c, token: auth.Token, Account: auth.Account}
}

// Token returns the raw session token.
func (s *Session) Token() string { return s.token }

// Register creates an account on behalf of this session's account.
func (s *Session) Register(ctx context.Context, req RegisterRequest) (*Session, error) {
	return s.client.register(ctx, s.token, req)
}

// Me fetches the session's own account and refreshes s.Account.
func (s *Session) Me(ctx context.Context) (*Account, error) {
	var a Account
	if err := s.get(ctx, "/v1/accounts/me", &a); err != nil {
		return nil, err
	}
	s.Account = a
	return &a, nil
}

// ListAccounts lists every account. ADMIN only.
func (s *Session) ListAccounts(ctx context.Context) ([]Account, error) {
	var out AccountsResponse
	if err := s.get(ctx, "/v1/accounts", &out); err != nil {
		return nil, err
	}
	return out.Accounts, nil
}

// GetAccount fetches one account by id. ADMIN only.
func (s *Session) GetAccount(ctx context.Context, id string) (*Account, error) {
	var a Account
	if err := s.get(ctx, "/v1/accounts/"+url.PathEscape(id), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Session) CreateTask(ctx context.Context, req CreateTaskRequest) (*Task, error) {
	resp, err := s.client.do(ctx, http.MethodPost, "/v1/tasks", s.token, req)
	if err != nil {
		return nil, err
	}

	var t Task
	if err := decodeJSON(resp, &t, http.StatusCreated); err != nil {
		return nil, err
	}
	return &t, nil
}

// ListTasks returns one page of the session's own tasks. Zero page or limit
// leaves the server default in place.
func (s *Session) ListTasks(ctx context.Context, page, limit int) (*TaskPage, error) {
	q := url.Values{}
	if page != 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit != 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	path := "/v1/tasks"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var p TaskPage
	if err := s.get(ctx, path, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *Session) GetTask(ctx context.Context, id string) (*Task, error) {
	var t Task
	if err := s.get(ctx, "/v1/tasks/"+url.PathEscape(id), &t); err != nil {
		return nil, err
	}
	return &t, nil
}

// UpdateTask patches a task the session owns.
func (s *Session) UpdateTask(ctx context.Context, id string, req UpdateTaskRequest) (*Task, error) {
	resp, err := s.client.do(ctx, http.MethodPatch, "/v1/tasks/"+url.PathEscape(id), s.token, req)
	if err != nil {
		return nil, err
	}

	var t Task
	if err := decodeJSON(resp, &t, http.StatusOK); err != nil {
		return nil, err
	}
	return &t, nil
}

// DeleteTask deletes a task the session owns.
func (s *Session) DeleteTask(ctx context.Context, id string) error {
	resp, err := s.client.do(ctx, http.MethodDelete, "/v1/tasks/"+url.PathEscape(id), s.token, nil)
	if err != nil {
		return err
	}
	return checkStatusNoContent(resp)
}

func (s *Session) get(ctx context.Context, path string, target any) error {
	resp, err := s.client.do(ctx, http.MethodGet, path, s.token, nil)
	if err != nil {
		return err
	}
	return decodeJSON(resp, target, http.StatusOK)
}
