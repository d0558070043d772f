package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"refundhub/internal/adapters/http/middleware"
	"refundhub/internal/adapters/persistence/models"
	"refundhub/internal/adapters/persistence/repositories"
	"refundhub/internal/config"
	"refundhub/internal/core/domain"
	"refundhub/internal/core/services"
	"refundhub/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// fakeRefundRepo is an in-memory RefundRepository mirroring the SQL
// semantics of the real one: owner filtering, case-insensitive name
// matching against the joined user, newest-first ordering.
type fakeRefundRepo struct {
	refunds []*models.Refund
	users   map[uint]*models.User
	nextID  uint
}

func newFakeRefundRepo() *fakeRefundRepo {
	return &fakeRefundRepo{users: make(map[uint]*models.User), nextID: 1}
}

func (f *fakeRefundRepo) Create(_ context.Context, refund *models.Refund) error {
	refund.ID = f.nextID
	f.nextID++
	f.refunds = append(f.refunds, refund)
	return nil
}

func (f *fakeRefundRepo) GetByID(_ context.Context, id uint) (*models.Refund, error) {
	for _, r := range f.refunds {
		if r.ID == id {
			copied := *r
			copied.User = f.users[r.UserID]
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRefundRepo) List(_ context.Context, filter repositories.RefundFilter) ([]*models.Refund, int64, error) {
	var matched []*models.Refund
	for _, r := range f.refunds {
		if filter.OwnerID != nil && r.UserID != *filter.OwnerID {
			continue
		}
		if filter.OwnerName != "" {
			owner := f.users[r.UserID]
			if owner == nil || !strings.Contains(strings.ToLower(owner.Name), strings.ToLower(filter.OwnerName)) {
				continue
			}
		}
		copied := *r
		copied.User = f.users[r.UserID]
		matched = append(matched, &copied)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := int64(len(matched))
	if filter.Offset >= len(matched) {
		return nil, total, nil
	}
	matched = matched[filter.Offset:]
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, total, nil
}

type envelope struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    json.RawMessage   `json:"data"`
	Error   string            `json:"error"`
	Fields  map[string]string `json:"fields"`
}

func setupRefundApp(repo *fakeRefundRepo) (*fiber.App, *config.Config) {
	cfg := &config.Config{
		AppMode: "dev",
		JWT:     config.JWTConfig{Secret: "handler-test-secret", AccessTokenMins: 15},
	}

	handler := NewRefundHandler(services.NewRefundService(repo))

	app := fiber.New()
	refunds := app.Group("/refunds", middleware.AuthMiddleware(cfg))
	refunds.Post("/", middleware.SubmitterOnly(), handler.Create)
	refunds.Get("/", middleware.AnyRole(), handler.List)
	refunds.Get("/:id", middleware.AnyRole(), handler.Get)

	return app, cfg
}

func bearer(t *testing.T, cfg *config.Config, userID uint, role string) string {
	t.Helper()
	token, err := jwt.GenerateAccessToken(userID, role, cfg.JWT.Secret, 15)
	if err != nil {
		t.Fatalf("generate token: %v", err)
	}
	return "Bearer " + token
}

func doRequest(t *testing.T, app *fiber.App, method, target, auth string, body any) (int, *envelope) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}

	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("app.Test: %v", err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp.StatusCode, &env
}

func seedUser(repo *fakeRefundRepo, id uint, name, email, role string) {
	repo.users[id] = &models.User{ID: id, Name: name, Email: email, Role: role}
}

func TestRefundRoutes_RequireAuth(t *testing.T) {
	app, _ := setupRefundApp(newFakeRefundRepo())

	for _, target := range []struct {
		method string
		path   string
	}{
		{"POST", "/refunds/"},
		{"GET", "/refunds/"},
		{"GET", "/refunds/1"},
	} {
		status, env := doRequest(t, app, target.method, target.path, "", nil)
		if status != fiber.StatusUnauthorized {
			t.Errorf("%s %s without token: status = %d, want 401", target.method, target.path, status)
		}
		if env.Success {
			t.Errorf("%s %s without token: success = true", target.method, target.path)
		}
	}
}

func TestRefundCreate(t *testing.T) {
	repo := newFakeRefundRepo()
	seedUser(repo, 1, "Alice", "alice@example.com", domain.RoleEmployee)
	app, cfg := setupRefundApp(repo)

	body := fiber.Map{
		"name":     "Client dinner",
		"amount":   85.50,
		"category": "food",
		"filename": "receipt-2026-02-11-d1nner.pdf",
	}

	status, env := doRequest(t, app, "POST", "/refunds/", bearer(t, cfg, 1, domain.RoleEmployee), body)
	if status != fiber.StatusCreated {
		t.Fatalf("status = %d, want 201 (error: %s)", status, env.Error)
	}

	var data struct {
		Refund *models.RefundResponse `json:"refund"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if data.Refund.UserID != 1 {
		t.Errorf("refund owner = %d, want caller id 1", data.Refund.UserID)
	}
	if data.Refund.Owner != nil {
		t.Error("create response must not carry owner enrichment")
	}
	if len(repo.refunds) != 1 {
		t.Fatalf("persisted %d refunds, want 1", len(repo.refunds))
	}
}

func TestRefundCreate_ManagerForbidden(t *testing.T) {
	app, cfg := setupRefundApp(newFakeRefundRepo())

	body := fiber.Map{
		"name":     "Client dinner",
		"amount":   85.50,
		"category": "food",
		"filename": "receipt-2026-02-11-d1nner.pdf",
	}

	status, _ := doRequest(t, app, "POST", "/refunds/", bearer(t, cfg, 2, domain.RoleManager), body)
	if status != fiber.StatusForbidden {
		t.Errorf("manager create: status = %d, want 403", status)
	}
}

func TestRefundCreate_ValidationFields(t *testing.T) {
	repo := newFakeRefundRepo()
	app, cfg := setupRefundApp(repo)

	body := fiber.Map{
		"name":     "x",
		"amount":   -5,
		"category": "gadgets",
		"filename": "short.pdf",
	}

	status, env := doRequest(t, app, "POST", "/refunds/", bearer(t, cfg, 1, domain.RoleEmployee), body)
	if status != fiber.StatusBadRequest {
		t.Fatalf("status = %d, want 400", status)
	}
	for _, field := range []string{"name", "amount", "category", "filename"} {
		if _, ok := env.Fields[field]; !ok {
			t.Errorf("missing validation message for %q (got %v)", field, env.Fields)
		}
	}
	if len(repo.refunds) != 0 {
		t.Error("invalid input must not persist a refund")
	}
}

func TestRefundList_RoleShaping(t *testing.T) {
	repo := newFakeRefundRepo()
	seedUser(repo, 1, "Alice", "alice@example.com", domain.RoleEmployee)
	seedUser(repo, 2, "Bob", "bob@example.com", domain.RoleEmployee)
	ctx := context.Background()
	repo.Create(ctx, &models.Refund{Name: "Taxi", Amount: 20, Category: "transport", Filename: "receipt-2026-01-01-aaaaa.pdf", UserID: 1})
	repo.Create(ctx, &models.Refund{Name: "Hotel", Amount: 300, Category: "accommodation", Filename: "receipt-2026-01-02-bbbbb.pdf", UserID: 2})

	app, cfg := setupRefundApp(repo)

	listRefunds := func(auth, query string) []*models.RefundResponse {
		status, env := doRequest(t, app, "GET", "/refunds/"+query, auth, nil)
		if status != fiber.StatusOK {
			t.Fatalf("list status = %d, want 200", status)
		}
		var data struct {
			Refunds []*models.RefundResponse `json:"refunds"`
		}
		if err := json.Unmarshal(env.Data, &data); err != nil {
			t.Fatal(err)
		}
		return data.Refunds
	}

	t.Run("employee sees only own, filter ignored", func(t *testing.T) {
		// the name filter targets Bob but must be ignored for employees
		refunds := listRefunds(bearer(t, cfg, 1, domain.RoleEmployee), "?name=bob")
		if len(refunds) != 1 {
			t.Fatalf("got %d refunds, want 1", len(refunds))
		}
		if refunds[0].UserID != 1 {
			t.Errorf("employee saw refund of user %d", refunds[0].UserID)
		}
		if refunds[0].Owner != nil {
			t.Error("employee listing must not carry owner enrichment")
		}
	})

	t.Run("manager sees all with enrichment", func(t *testing.T) {
		refunds := listRefunds(bearer(t, cfg, 3, domain.RoleManager), "")
		if len(refunds) != 2 {
			t.Fatalf("got %d refunds, want 2", len(refunds))
		}
		for _, r := range refunds {
			if r.Owner == nil {
				t.Errorf("refund %d missing owner enrichment", r.ID)
			}
		}
	})

	t.Run("manager filters by owner name", func(t *testing.T) {
		refunds := listRefunds(bearer(t, cfg, 3, domain.RoleManager), "?name=ALI")
		if len(refunds) != 1 {
			t.Fatalf("got %d refunds, want 1", len(refunds))
		}
		if refunds[0].Owner == nil || refunds[0].Owner.Name != "Alice" {
			t.Errorf("filter matched wrong owner: %+v", refunds[0].Owner)
		}
	})
}

func TestRefundGet(t *testing.T) {
	repo := newFakeRefundRepo()
	seedUser(repo, 1, "Alice", "alice@example.com", domain.RoleEmployee)
	repo.Create(context.Background(), &models.Refund{Name: "Taxi", Amount: 20, Category: "transport", Filename: "receipt-2026-01-01-aaaaa.pdf", UserID: 1})

	app, cfg := setupRefundApp(repo)

	tests := []struct {
		name       string
		path       string
		auth       string
		wantStatus int
	}{
		{"bad id", "/refunds/abc", bearer(t, cfg, 1, domain.RoleEmployee), fiber.StatusBadRequest},
		{"owner reads own", "/refunds/1", bearer(t, cfg, 1, domain.RoleEmployee), fiber.StatusOK},
		{"non-owner forbidden", "/refunds/1", bearer(t, cfg, 2, domain.RoleEmployee), fiber.StatusForbidden},
		{"manager reads any", "/refunds/1", bearer(t, cfg, 3, domain.RoleManager), fiber.StatusOK},
		{"missing id is 404 for owner", "/refunds/99", bearer(t, cfg, 1, domain.RoleEmployee), fiber.StatusNotFound},
		// a nonexistent id must read as not-found, not forbidden, so
		// existence cannot be probed
		{"missing id is 404 for non-owner", "/refunds/99", bearer(t, cfg, 2, domain.RoleEmployee), fiber.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, env := doRequest(t, app, "GET", tt.path, tt.auth, nil)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d (error: %s)", status, tt.wantStatus, env.Error)
			}
		})
	}
}
