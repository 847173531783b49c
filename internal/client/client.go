// Package client talks to the moderation admin API. Client implements
// reports.Backend, so the operator CLI runs the same inbox pipeline as the
// server does.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/google/go-querystring/query"
)

var ErrNoCredentials = errors.New("client has no token")

// APIError is a non-2xx answer from the API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.StatusCode, e.Message)
}

type Client struct {
	BaseURL string
	// Token is sent as a bearer token. AdminToken, when set, is sent as
	// X-Admin-Token instead.
	Token      string
	AdminToken string
	HTTP       *http.Client
}

func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type statusParams struct {
	Status string `url:"status,omitempty"`
}

func (c *Client) GetLiveReports(ctx context.Context, status reports.StatusFilter) ([]reports.LivestreamReport, error) {
	var out dto.LivestreamReportsResponse
	if err := c.get(ctx, "/api/admin/moderation/livestream-reports", statusParams{Status: string(status)}, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

func (c *Client) GetVideoReports(ctx context.Context, status reports.StatusFilter) ([]reports.VideoReport, error) {
	var out dto.VideoReportsResponse
	if err := c.get(ctx, "/api/admin/moderation/video-reports", statusParams{Status: string(status)}, &out); err != nil {
		return nil, err
	}
	return out.Reports, nil
}

func (c *Client) GetLiveReport(ctx context.Context, id string) (*reports.LivestreamReport, error) {
	var out reports.LivestreamReport
	if err := c.get(ctx, "/api/admin/moderation/livestream-reports/"+url.PathEscape(id), statusParams{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetVideoReport(ctx context.Context, id string) (*reports.VideoReport, error) {
	var out reports.VideoReport
	if err := c.get(ctx, "/api/admin/moderation/video-reports/"+url.PathEscape(id), statusParams{}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetReport reads one report by id and returns it in the inbox shape.
func (c *Client) GetReport(ctx context.Context, t reports.Type, id string) (reports.ModerationReport, error) {
	switch t {
	case reports.TypeLivestream:
		raw, err := c.GetLiveReport(ctx, id)
		if err != nil {
			return reports.ModerationReport{}, err
		}
		return reports.FromLivestream(*raw), nil
	case reports.TypeVideo:
		raw, err := c.GetVideoReport(ctx, id)
		if err != nil {
			return reports.ModerationReport{}, err
		}
		return reports.FromVideo(*raw), nil
	}
	return reports.ModerationReport{}, fmt.Errorf("%w: %q", reports.ErrInvalidType, t)
}

func (c *Client) ResolveLiveReport(ctx context.Context, id string, decision reports.Decision, notes string) error {
	return c.send(ctx, http.MethodPut, "/api/admin/moderation/livestream-reports/"+url.PathEscape(id),
		dto.ResolveReportRequest{Status: string(decision), ResolutionNotes: notes}, nil)
}

func (c *Client) ResolveVideoReport(ctx context.Context, id string, decision reports.Decision, notes string) error {
	return c.send(ctx, http.MethodPut, "/api/admin/moderation/video-reports/"+url.PathEscape(id),
		dto.ResolveReportRequest{Status: string(decision), ResolutionNotes: notes}, nil)
}

func (c *Client) ModerateCreator(ctx context.Context, creatorID string, action reports.CreatorAction, note string) error {
	return c.send(ctx, http.MethodPut, "/api/admin/moderation/creators/"+url.PathEscape(creatorID),
		dto.ModerateCreatorRequest{Status: string(action), ModerationNote: note}, nil)
}

func (c *Client) get(ctx context.Context, path string, params interface{}, out interface{}) error {
	vals, err := query.Values(params)
	if err != nil {
		return err
	}
	u := c.BaseURL + path
	if enc := vals.Encode(); enc != "" {
		u += "?" + enc
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) send(ctx context.Context, method, path string, body, out interface{}) error {
	if c.Token == "" && c.AdminToken == "" {
		return ErrNoCredentials
	}
	b, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Accept", "application/json")
	if c.AdminToken != "" {
		req.Header.Set("X-Admin-Token", c.AdminToken)
	} else if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
		var errResp dto.ErrorResponse
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 64*1024))
		if json.Unmarshal(body, &errResp) == nil && errResp.Message != "" {
			apiErr.Message = errResp.Message
		}
		return apiErr
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
