//go:build e2e
// +build e2e

package e2e_test

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"schedule-arranger-go/internal/config"
	"schedule-arranger-go/internal/db"
	scheduledomain "schedule-arranger-go/internal/domain/schedule"
	userdomain "schedule-arranger-go/internal/domain/user"
	schedulerepo "schedule-arranger-go/internal/repository/postgres/schedule"
	userrepo "schedule-arranger-go/internal/repository/postgres/user"
	"schedule-arranger-go/internal/transport/httpserver"
	"schedule-arranger-go/internal/transport/httpserver/handler"
	"schedule-arranger-go/pkg/logger"

	"gorm.io/gorm"
)

type testEnv struct {
	server     *httptest.Server
	authServer *httptest.Server
	db         *gorm.DB
}

func setupE2E(t *testing.T) *testEnv {
	t.Helper()

	dsn := os.Getenv("E2E_DB_DSN")
	if dsn == "" {
		t.Skip("E2E_DB_DSN not set; skipping e2e tests")
	}

	authServer := newAuthServer(t)
	log := logger.NewFromEnv()

	cfg := config.Config{
		DB: config.DBConfig{DSN: dsn},
		Auth: config.AuthConfig{
			ProviderURL: authServer.URL,
			Timeout:     2 * time.Second,
		},
	}

	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		t.Fatalf("db connect: %v", err)
	}
	if err := db.Migrate(dbConn); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := cleanDB(dbConn); err != nil {
		t.Fatalf("clean db: %v", err)
	}

	scheduleService := scheduledomain.NewService(schedulerepo.NewPostgres(dbConn))
	userService := userdomain.NewService(userrepo.NewPostgres(dbConn))
	handlers := handler.New(scheduleService, log)

	router := httpserver.NewRouter(cfg, handlers, userService, log)
	server := httptest.NewServer(router)

	return &testEnv{server: server, authServer: authServer, db: dbConn}
}

func (e *testEnv) Close() {
	e.server.Close()
	e.authServer.Close()
	if sqlDB, err := e.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// newAuthServer resolves "Bearer <id>:<username>" tokens into identity
// profiles.
func newAuthServer(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		token := strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
		parts := strings.SplitN(token, ":", 2)
		if len(parts) != 2 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		id, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"id":    id,
			"login": parts[1],
		})
	}))
}

func cleanDB(dbConn *gorm.DB) error {
	for _, table := range []string{"comments", "availabilities", "candidates", "schedules", "users"} {
		if err := dbConn.Exec("DELETE FROM " + table).Error; err != nil {
			return err
		}
	}
	return nil
}

func request(t *testing.T, env *testEnv, token, method, path, body string) (int, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, env.server.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp.StatusCode, payload
}

func TestScheduleLifecycle(t *testing.T) {
	env := setupE2E(t)
	defer env.Close()

	tokenA := "1:userA"
	tokenB := "2:userB"

	// Create.
	status, body := request(t, env, tokenA, http.MethodPost, "/api/schedules", `{"schedule_name":"Lunch","memo":"team lunch","candidates":"Mon\nTue"}`)
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d: %s", status, body)
	}
	var created struct {
		Schedule struct {
			ScheduleID string `json:"schedule_id"`
		} `json:"schedule"`
		Candidates []struct {
			CandidateID   int64  `json:"candidate_id"`
			CandidateName string `json:"candidate_name"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(body, &created); err != nil {
		t.Fatalf("decode create: %v", err)
	}
	if len(created.Candidates) != 2 {
		t.Fatalf("expected 2 candidates, got %d", len(created.Candidates))
	}

	scheduleID := created.Schedule.ScheduleID
	mon := created.Candidates[0]

	// Answer one slot as userA.
	status, body = request(t, env, tokenA, http.MethodPost,
		fmt.Sprintf("/api/schedules/%s/candidates/%d/availability", scheduleID, mon.CandidateID),
		`{"availability":2}`)
	if status != http.StatusOK {
		t.Fatalf("availability: expected 200, got %d: %s", status, body)
	}

	// View as userB: both users visible, userB flagged self with all-zero
	// answers.
	status, body = request(t, env, tokenB, http.MethodGet, "/api/schedules/"+scheduleID, "")
	if status != http.StatusOK {
		t.Fatalf("view: expected 200, got %d: %s", status, body)
	}
	var view struct {
		Users []struct {
			UserID         int64 `json:"user_id"`
			IsSelf         bool  `json:"is_self"`
			Availabilities []struct {
				CandidateID  int64 `json:"candidate_id"`
				Availability int   `json:"availability"`
			} `json:"availabilities"`
		} `json:"users"`
	}
	if err := json.Unmarshal(body, &view); err != nil {
		t.Fatalf("decode view: %v", err)
	}
	if len(view.Users) != 2 {
		t.Fatalf("expected 2 users, got %d", len(view.Users))
	}
	if !view.Users[0].IsSelf || view.Users[0].UserID != 2 {
		t.Fatalf("expected viewer first, got %+v", view.Users[0])
	}

	// Update as non-owner is rejected.
	status, _ = request(t, env, tokenB, http.MethodPost, "/api/schedules/"+scheduleID+"?edit=1", `{"schedule_name":"Hijacked"}`)
	if status != http.StatusNotFound {
		t.Fatalf("non-owner update: expected 404, got %d", status)
	}

	// Update as owner appends a candidate.
	status, body = request(t, env, tokenA, http.MethodPost, "/api/schedules/"+scheduleID+"?edit=1", `{"schedule_name":"Lunch v2","memo":"team lunch","candidates":"Wed"}`)
	if status != http.StatusOK {
		t.Fatalf("update: expected 200, got %d: %s", status, body)
	}

	// Delete the aggregate.
	status, _ = request(t, env, tokenA, http.MethodPost, "/api/schedules/"+scheduleID+"?delete=1", "")
	if status != http.StatusNoContent {
		t.Fatalf("delete: expected 204, got %d", status)
	}
	status, _ = request(t, env, tokenA, http.MethodGet, "/api/schedules/"+scheduleID, "")
	if status != http.StatusNotFound {
		t.Fatalf("view after delete: expected 404, got %d", status)
	}

	var count int64
	if err := env.db.Raw("SELECT COUNT(1) FROM candidates WHERE schedule_id = ?", scheduleID).Scan(&count).Error; err != nil {
		t.Fatalf("count candidates: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 candidates after delete, got %d", count)
	}
}
