// Cinerank - Personalized Movie Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinerank

package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/cinerank/internal/recommend"
)

type fakeEngine struct {
	mu sync.Mutex

	result    *recommend.Result
	err       error
	gotLimit  int
	gotUser   int64
	feedback  []recommend.FeedbackInput
	refreshed []int64

	explanation *recommend.Explanation
	disliked    []recommend.DislikedMovie
}

func (f *fakeEngine) GetRecommendations(_ context.Context, userID int64, limit int) (*recommend.Result, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotUser, f.gotLimit = userID, limit
	return f.result, f.err
}

func (f *fakeEngine) SubmitFeedback(_ context.Context, userID int64, in recommend.FeedbackInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gotUser = userID
	f.feedback = append(f.feedback, in)
	return f.err
}

func (f *fakeEngine) ForceRefresh(_ context.Context, userID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshed = append(f.refreshed, userID)
	return f.err
}

func (f *fakeEngine) GetExplanation(_ context.Context, _, movieID int64) (*recommend.Explanation, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.explanation == nil || f.explanation.MovieID != movieID {
		return nil, recommend.ErrNotFound
	}
	return f.explanation, nil
}

func (f *fakeEngine) GetExplanations(context.Context, int64) ([]recommend.Explanation, error) {
	if f.explanation == nil {
		return nil, f.err
	}
	return []recommend.Explanation{*f.explanation}, f.err
}

func (f *fakeEngine) GetDisliked(context.Context, int64) ([]recommend.DislikedMovie, error) {
	return f.disliked, f.err
}

type fakePinger struct{ err error }

func (p fakePinger) Ping(context.Context) error { return p.err }

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *APIError       `json:"error"`
	Meta    *APIMeta        `json:"meta"`
}

func serve(t *testing.T, h http.Handler, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var env envelope
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode envelope: %v (%s)", err, rec.Body.String())
		}
	}
	return rec, env
}

func newTestRouter(eng Recommender, db Pinger) http.Handler {
	cfg := DefaultRouterConfig()
	cfg.RateLimitDisabled = true
	return NewRouter(NewHandler(eng, db), cfg)
}

func TestGetRecommendations(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{result: &recommend.Result{
		Items:  []recommend.Recommendation{{MovieID: 603, Title: "The Matrix", Score: 0.91}},
		Status: recommend.StatusFresh,
	}}
	router := newTestRouter(eng, nil)

	rec, env := serve(t, router, http.MethodGet, "/api/v1/users/42/recommendations?limit=5", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d, success = %v", rec.Code, env.Success)
	}
	var got recommend.Result
	if err := json.Unmarshal(env.Data, &got); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if got.Status != recommend.StatusFresh || len(got.Items) != 1 || got.Items[0].MovieID != 603 {
		t.Errorf("data = %+v", got)
	}
	if eng.gotUser != 42 || eng.gotLimit != 5 {
		t.Errorf("engine got user %d limit %d, want 42, 5", eng.gotUser, eng.gotLimit)
	}
	if env.Meta == nil || env.Meta.RequestID == "" || env.Meta.RequestID != rec.Header().Get("X-Request-ID") {
		t.Errorf("meta = %+v, want request id matching header", env.Meta)
	}
}

func TestGetRecommendations_BadInput(t *testing.T) {
	t.Parallel()

	router := newTestRouter(&fakeEngine{}, nil)
	tests := []struct {
		name string
		path string
	}{
		{"non-numeric user", "/api/v1/users/abc/recommendations"},
		{"zero user", "/api/v1/users/0/recommendations"},
		{"limit zero", "/api/v1/users/1/recommendations?limit=0"},
		{"limit too large", "/api/v1/users/1/recommendations?limit=101"},
		{"limit not a number", "/api/v1/users/1/recommendations?limit=ten"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec, env := serve(t, router, http.MethodGet, tt.path, "")
			if rec.Code != http.StatusBadRequest || env.Error == nil || env.Error.Code != ErrCodeBadRequest {
				t.Errorf("status = %d, error = %+v", rec.Code, env.Error)
			}
		})
	}
}

func TestEngineErrorMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err        error
		wantStatus int
		wantCode   string
	}{
		{recommend.ErrInvalidUser, http.StatusBadRequest, ErrCodeBadRequest},
		{recommend.ErrNoQuestionnaire, http.StatusNotFound, ErrCodeNoPreferences},
		{recommend.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
		{errors.New("disk on fire"), http.StatusInternalServerError, ErrCodeInternalError},
	}
	for _, tt := range tests {
		t.Run(tt.wantCode, func(t *testing.T) {
			t.Parallel()
			router := newTestRouter(&fakeEngine{err: tt.err}, nil)
			rec, env := serve(t, router, http.MethodGet, "/api/v1/users/1/recommendations", "")
			if rec.Code != tt.wantStatus || env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("status = %d, error = %+v; want %d %s", rec.Code, env.Error, tt.wantStatus, tt.wantCode)
			}
			if strings.Contains(rec.Body.String(), "disk on fire") {
				t.Error("internal error text leaked to the client")
			}
		})
	}
}

func TestSubmitFeedback(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
		check      func(t *testing.T, in recommend.FeedbackInput)
	}{
		{
			name:       "movie feedback",
			body:       `{"movie_id": 550, "value": "bad"}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, in recommend.FeedbackInput) {
				if in.MovieID == nil || *in.MovieID != 550 || in.Value != recommend.FeedbackBad || in.Rating != nil {
					t.Errorf("input = %+v", in)
				}
			},
		},
		{
			name:       "overall feedback",
			body:       `{"value": "good", "rating": 4}`,
			wantStatus: http.StatusOK,
			check: func(t *testing.T, in recommend.FeedbackInput) {
				if in.MovieID != nil || in.Rating == nil || *in.Rating != 4 {
					t.Errorf("input = %+v", in)
				}
			},
		},
		{name: "missing value", body: `{"movie_id": 1}`, wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidationFailed},
		{name: "unknown value", body: `{"value": "meh"}`, wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidationFailed},
		{name: "rating out of range", body: `{"value": "good", "rating": 6}`, wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidationFailed},
		{name: "negative movie", body: `{"movie_id": -3, "value": "good"}`, wantStatus: http.StatusBadRequest, wantCode: ErrCodeValidationFailed},
		{name: "malformed", body: `{"value":`, wantStatus: http.StatusBadRequest, wantCode: ErrCodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			eng := &fakeEngine{}
			rec, env := serve(t, newTestRouter(eng, nil), http.MethodPost, "/api/v1/users/9/feedback", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.wantStatus, rec.Body.String())
			}
			if tt.wantCode != "" {
				if env.Error == nil || env.Error.Code != tt.wantCode {
					t.Errorf("error = %+v, want %s", env.Error, tt.wantCode)
				}
				if len(eng.feedback) != 0 {
					t.Error("invalid feedback reached the engine")
				}
				return
			}
			if len(eng.feedback) != 1 || eng.gotUser != 9 {
				t.Fatalf("engine calls = %d for user %d", len(eng.feedback), eng.gotUser)
			}
			tt.check(t, eng.feedback[0])
		})
	}
}

func TestForceRefresh(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{}
	rec, env := serve(t, newTestRouter(eng, nil), http.MethodPost, "/api/v1/users/5/refresh", "")
	if rec.Code != http.StatusOK || !env.Success {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(eng.refreshed) != 1 || eng.refreshed[0] != 5 {
		t.Errorf("refreshed = %v, want [5]", eng.refreshed)
	}

	rec, _ = serve(t, newTestRouter(eng, nil), http.MethodGet, "/api/v1/users/5/refresh", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET refresh status = %d, want 405", rec.Code)
	}
}

func TestExplanations(t *testing.T) {
	t.Parallel()

	eng := &fakeEngine{explanation: &recommend.Explanation{
		MovieID: 603, Title: "The Matrix",
		Text:      "We recommended The Matrix because it's highly rated with a score of 8.2.",
		CreatedAt: time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC),
	}}
	router := newTestRouter(eng, nil)

	rec, env := serve(t, router, http.MethodGet, "/api/v1/users/1/recommendations/603/explanation", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var ex recommend.Explanation
	if err := json.Unmarshal(env.Data, &ex); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ex.Text != eng.explanation.Text {
		t.Errorf("text = %q", ex.Text)
	}

	rec, env = serve(t, router, http.MethodGet, "/api/v1/users/1/recommendations/604/explanation", "")
	if rec.Code != http.StatusNotFound || env.Error.Code != ErrCodeNotFound {
		t.Errorf("missing explanation status = %d", rec.Code)
	}

	rec, _ = serve(t, router, http.MethodGet, "/api/v1/users/1/recommendations/x/explanation", "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad movie id status = %d", rec.Code)
	}

	rec, env = serve(t, router, http.MethodGet, "/api/v1/users/1/explanations", "")
	var list []recommend.Explanation
	if err := json.Unmarshal(env.Data, &list); err != nil || rec.Code != http.StatusOK || len(list) != 1 {
		t.Errorf("list status = %d, len = %d, err = %v", rec.Code, len(list), err)
	}
}

func TestGetDisliked_EmptyIsArray(t *testing.T) {
	t.Parallel()

	rec, env := serve(t, newTestRouter(&fakeEngine{}, nil), http.MethodGet, "/api/v1/users/3/disliked", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if string(env.Data) != "[]" {
		t.Errorf("data = %s, want []", env.Data)
	}
}

func TestHealth(t *testing.T) {
	t.Parallel()

	rec, _ := serve(t, newTestRouter(&fakeEngine{}, fakePinger{}), http.MethodGet, "/health/live", "")
	if rec.Code != http.StatusOK {
		t.Errorf("live = %d", rec.Code)
	}
	rec, _ = serve(t, newTestRouter(&fakeEngine{}, fakePinger{}), http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusOK {
		t.Errorf("ready = %d", rec.Code)
	}
	rec, env := serve(t, newTestRouter(&fakeEngine{}, fakePinger{err: errors.New("closed")}), http.MethodGet, "/health/ready", "")
	if rec.Code != http.StatusServiceUnavailable || env.Error.Code != ErrCodeServiceUnavailable {
		t.Errorf("ready with dead db = %d", rec.Code)
	}
}
