package roadmap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	core "github.com/yungbote/learnpath-backend/internal/roadmap"
)

// Result is the body returned by both roadmap endpoints.
type Result struct {
	Roadmap core.Roadmap `json:"roadmap"`
	Percent int          `json:"progress_percentage"`
	Version int          `json:"version"`
}

type Path struct {
	ID                 uuid.UUID     `json:"id"`
	Title              string        `json:"title"`
	Description        string        `json:"description,omitempty"`
	TargetSkills       []string      `json:"target_skills"`
	Difficulty         string        `json:"difficulty,omitempty"`
	Status             string        `json:"status"`
	GeneratedByAI      bool          `json:"generated_by_ai"`
	Version            int           `json:"version"`
	ProgressPercentage int           `json:"progress_percentage"`
	Roadmap            *core.Roadmap `json:"roadmap,omitempty"`
}

type CreatePathRequest struct {
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	TargetSkills []string `json:"target_skills,omitempty"`
	Difficulty   string   `json:"difficulty,omitempty"`
}

type ProgressRequest struct {
	WeekIndex     int   `json:"weekIndex"`
	ResourceIndex *int  `json:"resourceIndex,omitempty"`
	Completed     *bool `json:"completed,omitempty"`
	CompleteWeek  bool  `json:"completeWeek,omitempty"`
}

// APIError is a non-2xx response decoded from the error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api error %d (%s)", e.Status, e.Code)
	}
	return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Code, e.Message)
}

// API talks to the learning path endpoints with a bearer token.
type API struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

func NewAPI(baseURL, token string, httpClient *http.Client) *API {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 90 * time.Second}
	}
	return &API{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		token:      strings.TrimSpace(token),
		httpClient: httpClient,
	}
}

func (a *API) CreatePath(ctx context.Context, req CreatePathRequest) (*Path, error) {
	var out struct {
		Path *Path `json:"path"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/paths", req, &out); err != nil {
		return nil, err
	}
	return out.Path, nil
}

func (a *API) GetPath(ctx context.Context, pathID uuid.UUID) (*Path, error) {
	var out struct {
		Path *Path `json:"path"`
	}
	if err := a.do(ctx, http.MethodGet, "/api/paths/"+pathID.String(), nil, &out); err != nil {
		return nil, err
	}
	return out.Path, nil
}

func (a *API) Generate(ctx context.Context, pathID uuid.UUID, topic string) (*Result, error) {
	var body any
	if topic = strings.TrimSpace(topic); topic != "" {
		body = map[string]string{"topic": topic}
	}
	var out Result
	if err := a.do(ctx, http.MethodPost, "/api/paths/"+pathID.String()+"/generate-roadmap", body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) UpdateProgress(ctx context.Context, pathID uuid.UUID, req ProgressRequest) (*Result, error) {
	var out Result
	if err := a.do(ctx, http.MethodPost, "/api/paths/"+pathID.String()+"/progress", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (a *API) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}
	resp, err := a.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		var env struct {
			Error struct {
				Message string `json:"message"`
				Code    string `json:"code"`
			} `json:"error"`
		}
		if json.Unmarshal(raw, &env) == nil {
			apiErr.Code = env.Error.Code
			apiErr.Message = env.Error.Message
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
