package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Session is an authenticated connection to one API server.
type Session struct {
	BaseURL      string       `json:"baseUrl"`
	Token        string       `json:"token"`
	User         UserInfo     `json:"user"`
	Organisation OrgInfo      `json:"organisation"`
	HTTP         *http.Client `json:"-"`
}

type UserInfo struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type OrgInfo struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// APIError is a non-2xx response.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	if len(e.Fields) == 0 {
		return fmt.Sprintf("API error %d: %s", e.Status, e.Message)
	}
	parts := make([]string, 0, len(e.Fields))
	for k, v := range e.Fields {
		parts = append(parts, k+" "+v)
	}
	return fmt.Sprintf("API error %d: %s (%s)", e.Status, e.Message, strings.Join(parts, ", "))
}

func (s Session) httpClient() *http.Client {
	if s.HTTP != nil {
		return s.HTTP
	}
	return &http.Client{Timeout: 30 * time.Second}
}

// Do sends in as JSON (when non-nil) and decodes the response into out (when non-nil).
func (s Session) Do(ctx context.Context, method, path string, query url.Values, in, out any) error {
	u := strings.TrimRight(s.BaseURL, "/") + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := s.httpClient().Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		var payload struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if json.Unmarshal(data, &payload) == nil && payload.Error != "" {
			apiErr.Message, apiErr.Fields = payload.Error, payload.Fields
		} else {
			apiErr.Message = strings.TrimSpace(string(data))
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}

// Authenticate posts credentials to path (login or register) and returns a
// session carrying the issued token.
func Authenticate(ctx context.Context, baseURL, path string, payload any) (Session, error) {
	anon := Session{BaseURL: baseURL}
	var out struct {
		Token        string   `json:"token"`
		User         UserInfo `json:"user"`
		Organisation OrgInfo  `json:"organisation"`
	}
	if err := anon.Do(ctx, http.MethodPost, path, nil, payload, &out); err != nil {
		return Session{}, err
	}
	if out.Token == "" {
		return Session{}, fmt.Errorf("no token returned by %s", path)
	}
	return Session{BaseURL: baseURL, Token: out.Token, User: out.User, Organisation: out.Organisation}, nil
}
