package routes

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/infrastructure/gormstore"
	"jobboard/internal/logger"
	"jobboard/internal/notify"
	"jobboard/internal/pkg/jwt"
	"jobboard/internal/usecase/auth"
	"jobboard/internal/usecase/directory"
	"jobboard/internal/usecase/session"

	"github.com/gofiber/fiber/v3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type envelope struct {
	Status  int             `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type testServer struct {
	t        *testing.T
	app      *fiber.App
	notices  *notify.Recorder
	sessions *session.Store
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+t.Name()+"?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   gormlogger.Default.LogMode(gormlogger.Silent),
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := gormstore.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	log := logger.Discard()
	rec := &notify.Recorder{}
	tokens := jwt.NewHMACService("test-secret", time.Hour)
	registry := directory.NewRegistry(gormstore.NewJobRepository(db), rec, log, directory.DefaultMinSalary, directory.DefaultMaxSalary)
	sessions := session.NewStore(
		auth.NewService(gormstore.NewUserRepository(db)),
		gormstore.NewProfileRepository(db),
		tokens,
		session.NewMemoryRevocations(),
		registry,
		log,
	)

	app := fiber.New(fiber.Config{ErrorHandler: middleware.ErrorHandler})
	app.Use(middleware.NewErrorMiddleware(log).Middleware())
	NewRegistry(tokens, sessions, nil).Register(app)

	return &testServer{t: t, app: app, notices: rec, sessions: sessions}
}

func (s *testServer) do(method, path string, body any, token string) (*http.Response, envelope) {
	s.t.Helper()
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			s.t.Fatalf("marshal: %v", err)
		}
		r = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := s.app.Test(req, fiber.TestConfig{Timeout: 10 * time.Second})
	if err != nil {
		s.t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	raw, _ := io.ReadAll(resp.Body)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &env); err != nil {
			s.t.Fatalf("%s %s: decode %q: %v", method, path, raw, err)
		}
	}
	return resp, env
}

func (s *testServer) signUp(email, name string) string {
	s.t.Helper()
	resp, env := s.do(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email":    email,
		"password": "password123",
		"name":     name,
	}, "")
	if resp.StatusCode != http.StatusCreated {
		s.t.Fatalf("signup: status %d message %q", resp.StatusCode, env.Message)
	}
	var out struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(env.Data, &out); err != nil || out.Token == "" {
		s.t.Fatalf("signup: missing token: %v", err)
	}
	return out.Token
}

type jobsData struct {
	Jobs []struct {
		ID         string `json:"id"`
		Title      string `json:"title"`
		IsLiked    bool   `json:"is_liked"`
		IsApplied  bool   `json:"is_applied"`
		Applicants int    `json:"applicants"`
	} `json:"jobs"`
	Total int `json:"total"`
}

func TestHealth(t *testing.T) {
	s := newTestServer(t)
	resp, env := s.do(http.MethodGet, "/health", nil, "")
	if resp.StatusCode != http.StatusOK || env.Message != "ok" {
		t.Fatalf("unexpected health %d %q", resp.StatusCode, env.Message)
	}
}

func TestVisitor_ListAndRefusedWrites(t *testing.T) {
	s := newTestServer(t)

	resp, env := s.do(http.MethodGet, "/api/v1/jobs", nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list: %d", resp.StatusCode)
	}
	var jobs jobsData
	if err := json.Unmarshal(env.Data, &jobs); err != nil || len(jobs.Jobs) != 0 {
		t.Fatalf("expected empty list, got %s (%v)", env.Data, err)
	}

	resp, env = s.do(http.MethodPost, "/api/v1/jobs/7b1b0b9e-2a0e-4b8e-9d0c-1f3a2b4c5d6e/like", nil, "")
	if resp.StatusCode != http.StatusUnauthorized || env.Message != directory.NoticeLikeSignIn {
		t.Fatalf("visitor like: %d %q", resp.StatusCode, env.Message)
	}

	resp, env = s.do(http.MethodPost, "/api/v1/jobs", map[string]any{"title": "x", "description": "y"}, "")
	if resp.StatusCode != http.StatusUnauthorized || env.Message != directory.NoticeCreateSignIn {
		t.Fatalf("visitor create: %d %q", resp.StatusCode, env.Message)
	}

	resp, _ = s.do(http.MethodGet, "/api/v1/me/jobs", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("visitor my jobs: %d", resp.StatusCode)
	}

	resp, env = s.do(http.MethodGet, "/api/v1/auth/me", nil, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), `"signed_in":false`) {
		t.Fatalf("visitor header: %d %s", resp.StatusCode, env.Data)
	}
}

func TestInvalidToken(t *testing.T) {
	s := newTestServer(t)
	resp, env := s.do(http.MethodGet, "/api/v1/jobs", nil, "not-a-token")
	if resp.StatusCode != http.StatusUnauthorized || env.Message != "Invalid token" {
		t.Fatalf("expected 401, got %d %q", resp.StatusCode, env.Message)
	}
}

func TestAuthErrors(t *testing.T) {
	s := newTestServer(t)
	s.signUp("ada@example.com", "Ada")

	resp, _ := s.do(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email": "ADA@example.com", "password": "password123",
	}, "")
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("duplicate signup: %d", resp.StatusCode)
	}

	resp, _ = s.do(http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email": "ada@example.com", "password": "wrong-password",
	}, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("bad signin: %d", resp.StatusCode)
	}

	resp, _ = s.do(http.MethodPost, "/api/v1/auth/signup", map[string]string{
		"email": "short@example.com", "password": "short",
	}, "")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("short password: %d", resp.StatusCode)
	}

	resp, env := s.do(http.MethodPost, "/api/v1/auth/signin", map[string]string{
		"email": "ada@example.com", "password": "password123",
	}, "")
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), `"signed_in":true`) {
		t.Fatalf("signin: %d %s", resp.StatusCode, env.Data)
	}
}

func TestJobLifecycle(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("owner@example.com", "Owner")

	resp, env := s.do(http.MethodPost, "/api/v1/jobs", map[string]any{
		"title":       "Go Engineer",
		"description": "Build services",
		"location":    "London",
		"salary":      60000,
		"job_type":    []string{"Full Time"},
		"tags":        []string{"Backend"},
		"skills":      []string{"Go"},
	}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %q", resp.StatusCode, env.Message)
	}
	loc := resp.Header.Get("Location")
	if !strings.HasPrefix(loc, "/jobs/") {
		t.Fatalf("unexpected location %q", loc)
	}
	id := strings.TrimPrefix(loc, "/jobs/")

	resp, env = s.do(http.MethodGet, "/api/v1/jobs/"+id, nil, token)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), `"is_owner":true`) {
		t.Fatalf("detail: %d %s", resp.StatusCode, env.Data)
	}

	resp, env = s.do(http.MethodPost, "/api/v1/jobs/"+id+"/like", nil, token)
	if resp.StatusCode != http.StatusOK || env.Message != directory.NoticeLiked {
		t.Fatalf("like: %d %q", resp.StatusCode, env.Message)
	}
	resp, env = s.do(http.MethodPost, "/api/v1/jobs/"+id+"/like", nil, token)
	if resp.StatusCode != http.StatusOK || env.Message != directory.NoticeUnliked {
		t.Fatalf("unlike: %d %q", resp.StatusCode, env.Message)
	}

	resp, env = s.do(http.MethodPost, "/api/v1/jobs/"+id+"/apply", nil, token)
	if resp.StatusCode != http.StatusOK || env.Message != directory.NoticeApplied {
		t.Fatalf("apply: %d %q", resp.StatusCode, env.Message)
	}
	resp, env = s.do(http.MethodPost, "/api/v1/jobs/"+id+"/apply", nil, token)
	if resp.StatusCode != http.StatusConflict || env.Message != directory.NoticeAlreadyApplied {
		t.Fatalf("apply twice: %d %q", resp.StatusCode, env.Message)
	}

	resp, env = s.do(http.MethodGet, "/api/v1/me/jobs", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("my jobs: %d", resp.StatusCode)
	}
	var mine struct {
		Posts []struct {
			ID string `json:"id"`
		} `json:"posts"`
	}
	if err := json.Unmarshal(env.Data, &mine); err != nil || len(mine.Posts) != 1 || mine.Posts[0].ID != id {
		t.Fatalf("unexpected posts %s (%v)", env.Data, err)
	}

	resp, env = s.do(http.MethodGet, "/api/v1/jobs/search?title=go&location=lon", nil, token)
	var found jobsData
	if err := json.Unmarshal(env.Data, &found); err != nil || resp.StatusCode != http.StatusOK || len(found.Jobs) != 1 {
		t.Fatalf("search: %d %s", resp.StatusCode, env.Data)
	}
	if !found.Jobs[0].IsApplied || found.Jobs[0].Applicants != 1 {
		t.Fatalf("expected applied card, got %+v", found.Jobs[0])
	}

	resp, env = s.do(http.MethodDelete, "/api/v1/jobs/"+id, nil, token)
	if resp.StatusCode != http.StatusOK || env.Message != directory.NoticeDeleted {
		t.Fatalf("delete: %d %q", resp.StatusCode, env.Message)
	}
	resp, _ = s.do(http.MethodGet, "/api/v1/jobs/"+id, nil, token)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("deleted detail: %d", resp.StatusCode)
	}

	if _, ok := s.notices.Last(); !ok {
		t.Fatalf("expected notices to be recorded")
	}
}

func TestHourlyListingVisibleByDefault(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("hourly@example.com", "Hourly")

	resp, env := s.do(http.MethodPost, "/api/v1/jobs", map[string]any{
		"title":       "Barista",
		"description": "Coffee",
		"location":    "Leeds",
		"salary":      18,
		"salary_type": "Hourly",
		"job_type":    []string{"Part Time"},
	}, token)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create: %d %q", resp.StatusCode, env.Message)
	}

	for _, path := range []string{"/api/v1/jobs?refresh=true", "/api/v1/jobs/search"} {
		resp, env = s.do(http.MethodGet, path, nil, token)
		var got jobsData
		if err := json.Unmarshal(env.Data, &got); err != nil || resp.StatusCode != http.StatusOK {
			t.Fatalf("%s: %d %s", path, resp.StatusCode, env.Data)
		}
		if got.Total != 1 || len(got.Jobs) != 1 {
			t.Fatalf("%s: total=%d returned=%d", path, got.Total, len(got.Jobs))
		}
	}

	resp, _ = s.do(http.MethodPut, "/api/v1/directory/salary", map[string]float64{"min": 30000, "max": 120000}, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("salary: %d", resp.StatusCode)
	}
	resp, env = s.do(http.MethodGet, "/api/v1/jobs", nil, token)
	var got jobsData
	if err := json.Unmarshal(env.Data, &got); err != nil || got.Total != 1 || len(got.Jobs) != 0 {
		t.Fatalf("range set: %s", env.Data)
	}
}

func TestSignOutRevokesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("bye@example.com", "Bye")

	resp, _ := s.do(http.MethodPost, "/api/v1/auth/signout", nil, token)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("signout: %d", resp.StatusCode)
	}
	resp, env := s.do(http.MethodGet, "/api/v1/auth/me", nil, token)
	if resp.StatusCode != http.StatusUnauthorized || env.Message != "Session revoked" {
		t.Fatalf("expected revoked, got %d %q", resp.StatusCode, env.Message)
	}

	resp, _ = s.do(http.MethodPost, "/api/v1/auth/signout", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("visitor signout: %d", resp.StatusCode)
	}
}

func TestDirectorySettings(t *testing.T) {
	s := newTestServer(t)
	token := s.signUp("dir@example.com", "Dir")

	resp, env := s.do(http.MethodPost, "/api/v1/directory/filters/fullTime", nil, token)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), `"fullTime":true`) {
		t.Fatalf("toggle: %d %s", resp.StatusCode, env.Data)
	}
	resp, env = s.do(http.MethodGet, "/api/v1/directory", nil, token)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), `"fullTime":true`) {
		t.Fatalf("persisted toggle: %d %s", resp.StatusCode, env.Data)
	}

	resp, _ = s.do(http.MethodPost, "/api/v1/directory/filters/remote", nil, token)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("unknown filter: %d", resp.StatusCode)
	}

	resp, env = s.do(http.MethodPut, "/api/v1/directory/query", map[string]string{"field": "title", "value": "go"}, token)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), `"title":"go"`) {
		t.Fatalf("query: %d %s", resp.StatusCode, env.Data)
	}

	resp, _ = s.do(http.MethodPut, "/api/v1/directory/salary", map[string]float64{"min": 90000, "max": 10000}, token)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("inverted salary: %d", resp.StatusCode)
	}
	resp, env = s.do(http.MethodPut, "/api/v1/directory/salary", map[string]float64{"min": 10000, "max": 90000}, token)
	if resp.StatusCode != http.StatusOK || !strings.Contains(string(env.Data), `"max_salary":90000`) {
		t.Fatalf("salary: %d %s", resp.StatusCode, env.Data)
	}
}

func TestInvalidJobID(t *testing.T) {
	s := newTestServer(t)
	resp, env := s.do(http.MethodGet, "/api/v1/jobs/not-a-uuid", nil, "")
	if resp.StatusCode != http.StatusBadRequest || env.Message != "Invalid job id" {
		t.Fatalf("expected 400, got %d %q", resp.StatusCode, env.Message)
	}
}
