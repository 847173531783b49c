package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moderation-inbox/internal/reports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestGetReportsSendsStatusAndToken(t *testing.T) {
	var gotQuery, gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		gotAuth = r.Header.Get("Authorization")
		require.Equal(t, "/api/admin/moderation/video-reports", r.URL.Path)
		_ = json.NewEncoder(w).Encode(dto.VideoReportsResponse{Reports: []reports.VideoReport{
			{ID: "v1", VideoTitle: strPtr("Knife skills"), Reason: "Spam", CreatedAt: 10},
		}})
	}))
	defer srv.Close()

	c := New(srv.URL+"/", "tok")
	list, err := c.GetVideoReports(context.Background(), reports.DefaultStatusFilter)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "v1", list[0].ID)
	assert.Equal(t, "status=pending", gotQuery)
	assert.Equal(t, "Bearer tok", gotAuth)

	_, err = c.GetVideoReports(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, gotQuery)
}

func TestMutationsRouteByType(t *testing.T) {
	type call struct {
		method, path string
		body         map[string]string
	}
	var calls []call
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		calls = append(calls, call{r.Method, r.URL.Path, body})
		assert.Equal(t, "ops", r.Header.Get("X-Admin-Token"))
		_ = json.NewEncoder(w).Encode(dto.MessageResponse{Message: "ok"})
	}))
	defer srv.Close()

	c := New(srv.URL, "")
	c.AdminToken = "ops"
	ctx := context.Background()
	require.NoError(t, c.ResolveLiveReport(ctx, "l1", reports.DecisionResolved, "done"))
	require.NoError(t, c.ResolveVideoReport(ctx, "v1", reports.DecisionDismissed, ""))
	require.NoError(t, c.ModerateCreator(ctx, "chef-1", reports.CreatorSuspended, "repeat"))

	require.Len(t, calls, 3)
	assert.Equal(t, call{http.MethodPut, "/api/admin/moderation/livestream-reports/l1", map[string]string{"status": "resolved", "resolution_notes": "done"}}, calls[0])
	assert.Equal(t, "/api/admin/moderation/video-reports/v1", calls[1].path)
	assert.Equal(t, "dismissed", calls[1].body["status"])
	assert.Equal(t, call{http.MethodPut, "/api/admin/moderation/creators/chef-1", map[string]string{"status": "suspended", "moderation_note": "repeat"}}, calls[2])
}

func TestErrorsCarryServerMessage(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: true, Message: "report already resolved"})
	}))
	defer srv.Close()

	err := New(srv.URL, "tok").ResolveVideoReport(context.Background(), "v1", reports.DecisionResolved, "")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
	assert.Equal(t, "report already resolved", apiErr.Message)
}

func TestMutationWithoutCredentials(t *testing.T) {
	err := New("http://127.0.0.1:1", "").ModerateCreator(context.Background(), "chef-1", reports.CreatorFlagged, "")
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestClientFeedsInboxPipeline(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/admin/moderation/livestream-reports":
			_ = json.NewEncoder(w).Encode(dto.LivestreamReportsResponse{Reports: []reports.LivestreamReport{
				{ID: "l1", SessionID: "s1", ChannelName: strPtr("Pizza Night Live"), ReportedAt: 200, Reason: "Other"},
			}})
		default:
			http.Error(w, `{"error":true,"message":"boom"}`, http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	ctx := context.Background()
	var results []reports.Result
	for _, src := range reports.Sources(c) {
		results = append(results, src.Fetch(ctx, reports.DefaultStatusFilter))
	}
	list := reports.Aggregate(results...)
	require.Len(t, list, 1)
	assert.Equal(t, "s1", list[0].TargetID)
	assert.False(t, reports.Loading(results...))
	errs := reports.Errors(results...)
	require.Contains(t, errs, reports.TypeVideo)
	assert.Contains(t, errs[reports.TypeVideo].Error(), "boom")
}

func TestGetReportReadsByID(t *testing.T) {
	var paths []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		switch r.URL.Path {
		case "/api/admin/moderation/livestream-reports/l1":
			_ = json.NewEncoder(w).Encode(reports.LivestreamReport{ID: "l1", SessionID: "s1", ChefID: strPtr("chef-1"), ReportedAt: 5})
		default:
			w.WriteHeader(http.StatusNotFound)
			_ = json.NewEncoder(w).Encode(dto.ErrorResponse{Error: true, Message: "report not found"})
		}
	}))
	defer srv.Close()

	c := New(srv.URL, "tok")
	r, err := c.GetReport(context.Background(), reports.TypeLivestream, "l1")
	require.NoError(t, err)
	assert.Equal(t, reports.TypeLivestream, r.Type)
	assert.Equal(t, "s1", r.TargetID)
	assert.Equal(t, int64(5), r.CreatedAt)
	require.NotNil(t, r.CreatorID)
	assert.Equal(t, "chef-1", *r.CreatorID)

	_, err = c.GetReport(context.Background(), reports.TypeVideo, "missing")
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusNotFound, apiErr.StatusCode)

	_, err = c.GetReport(context.Background(), reports.Type("podcast"), "x")
	assert.ErrorIs(t, err, reports.ErrInvalidType)
	assert.Equal(t, []string{"/api/admin/moderation/livestream-reports/l1", "/api/admin/moderation/video-reports/missing"}, paths)
}
