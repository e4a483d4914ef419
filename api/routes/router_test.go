package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/comanda-pos/comanda-backend/internal/inventory"
	"github.com/comanda-pos/comanda-backend/internal/invoices"
	"github.com/comanda-pos/comanda-backend/internal/menu"
	"github.com/comanda-pos/comanda-backend/internal/orders"
	"github.com/comanda-pos/comanda-backend/internal/users"
	pkgAuth "github.com/comanda-pos/comanda-backend/pkg/auth"
	"github.com/comanda-pos/comanda-backend/pkg/config"
	"github.com/comanda-pos/comanda-backend/pkg/db/models"
	"github.com/comanda-pos/comanda-backend/pkg/enums"
	"github.com/comanda-pos/comanda-backend/pkg/logger"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubUserService struct{}

func (stubUserService) Login(ctx context.Context, username, password string) (*users.LoginResult, error) {
	return &users.LoginResult{Token: "token", ExpiresAt: time.Now().Add(time.Hour)}, nil
}

func (stubUserService) List(ctx context.Context) ([]models.User, error) {
	return []models.User{}, nil
}

func (stubUserService) Create(ctx context.Context, input users.CreateUserInput) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) Update(ctx context.Context, id uuid.UUID, input users.UpdateUserInput) (*models.User, error) {
	panic("unimplemented")
}

func (stubUserService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubTablesService struct{}

func (stubTablesService) ListSections(ctx context.Context) ([]models.TableSection, error) {
	return []models.TableSection{}, nil
}

func (stubTablesService) CreateSection(ctx context.Context, name string) (*models.TableSection, error) {
	panic("unimplemented")
}

func (stubTablesService) RenameSection(ctx context.Context, id uuid.UUID, name string) (*models.TableSection, error) {
	panic("unimplemented")
}

func (stubTablesService) DeleteSection(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubTablesService) ListTables(ctx context.Context) ([]models.DiningTable, error) {
	return []models.DiningTable{}, nil
}

func (stubTablesService) GetTable(ctx context.Context, id uuid.UUID) (*models.DiningTable, error) {
	panic("unimplemented")
}

func (stubTablesService) CreateTable(ctx context.Context, number int, sectionID uuid.UUID) (*models.DiningTable, error) {
	panic("unimplemented")
}

func (stubTablesService) UpdateTable(ctx context.Context, id uuid.UUID, number int, sectionID uuid.UUID) (*models.DiningTable, error) {
	panic("unimplemented")
}

func (stubTablesService) DeleteTable(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubMenuService struct{}

func (stubMenuService) ListSections(ctx context.Context) ([]models.MenuSection, error) {
	return []models.MenuSection{}, nil
}

func (stubMenuService) CreateSection(ctx context.Context, input menu.SectionInput) (*models.MenuSection, error) {
	panic("unimplemented")
}

func (stubMenuService) UpdateSection(ctx context.Context, id uuid.UUID, input menu.SectionInput) (*models.MenuSection, error) {
	panic("unimplemented")
}

func (stubMenuService) DeleteSection(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubMenuService) GetItem(ctx context.Context, id uuid.UUID) (*models.MenuItem, error) {
	panic("unimplemented")
}

func (stubMenuService) CreateItem(ctx context.Context, input menu.ItemInput) (*models.MenuItem, error) {
	panic("unimplemented")
}

func (stubMenuService) UpdateItem(ctx context.Context, id uuid.UUID, input menu.ItemInput) (*models.MenuItem, error) {
	panic("unimplemented")
}

func (stubMenuService) DeleteItem(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubMenuService) AddVariant(ctx context.Context, itemID uuid.UUID, input menu.VariantInput) (*models.MenuItemVariant, error) {
	panic("unimplemented")
}

func (stubMenuService) DeleteVariant(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

type stubInventoryService struct{}

func (stubInventoryService) List(ctx context.Context) ([]models.Product, error) {
	return []models.Product{}, nil
}

func (stubInventoryService) Get(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (stubInventoryService) Create(ctx context.Context, input inventory.CreateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubInventoryService) Update(ctx context.Context, id uuid.UUID, input inventory.UpdateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubInventoryService) Delete(ctx context.Context, id uuid.UUID) error {
	panic("unimplemented")
}

func (stubInventoryService) AdjustStock(ctx context.Context, id uuid.UUID, delta int) (*models.Product, error) {
	panic("unimplemented")
}

type stubOrdersService struct{}

func (stubOrdersService) Confirm(ctx context.Context, input orders.ConfirmInput) (*orders.ConfirmResult, error) {
	panic("unimplemented")
}

func (stubOrdersService) Cancel(ctx context.Context, orderID uuid.UUID) error {
	panic("unimplemented")
}

func (stubOrdersService) Invoice(ctx context.Context, orderID uuid.UUID, number string) (*models.Invoice, error) {
	panic("unimplemented")
}

func (stubOrdersService) Get(ctx context.Context, orderID uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrdersService) OpenForTable(ctx context.Context, tableID uuid.UUID) (*models.Order, error) {
	return nil, nil
}

type stubInvoicesService struct{}

func (stubInvoicesService) Search(ctx context.Context, input invoices.SearchInput) ([]models.Invoice, error) {
	return []models.Invoice{}, nil
}

func (stubInvoicesService) Get(ctx context.Context, id uuid.UUID) (*invoices.Detail, error) {
	panic("unimplemented")
}

type stubRatesService struct{}

func (stubRatesService) Upsert(ctx context.Context, date time.Time, rate decimal.Decimal) (*models.ExchangeRate, error) {
	panic("unimplemented")
}

func (stubRatesService) ForDate(ctx context.Context, date time.Time) (*models.ExchangeRate, error) {
	panic("unimplemented")
}

func (stubRatesService) Latest(ctx context.Context) (*models.ExchangeRate, error) {
	panic("unimplemented")
}

func (stubRatesService) List(ctx context.Context, limit int) ([]models.ExchangeRate, error) {
	return []models.ExchangeRate{}, nil
}

func (stubRatesService) ToVES(ctx context.Context, usd decimal.Decimal) (decimal.Decimal, error) {
	panic("unimplemented")
}

func (stubRatesService) ToUSD(ctx context.Context, ves decimal.Decimal) (decimal.Decimal, error) {
	panic("unimplemented")
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:            "secret",
			Issuer:            "issuer",
			ExpirationMinutes: 60,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(cfg, logg, stubPinger{}, Services{
		Users:     stubUserService{},
		Tables:    stubTablesService{},
		Menu:      stubMenuService{},
		Inventory: stubInventoryService{},
		Orders:    stubOrdersService{},
		Invoices:  stubInvoicesService{},
		Rates:     stubRatesService{},
	}, nil)
}

func reqBody(payload string) io.Reader {
	return strings.NewReader(payload)
}

func buildToken(t *testing.T, cfg *config.Config, role enums.UserRole) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "terminal",
		Role:     role,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthLiveIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for health live got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleWaiter))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for table list got %d", resp.Code)
	}
}

func TestUserRoutesRequireAdminRole(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleWaiter))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin got %d", resp.Code)
	}

	admin := httptest.NewRequest(http.MethodGet, "/api/v1/users/", nil)
	admin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, enums.UserRoleAdmin))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, admin)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin got %d", resp.Code)
	}
}

func TestLoginIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", reqBody(`{"username":"maria","password":"s3cret-pw"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for login got %d", resp.Code)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().Add(-2*time.Hour), pkgAuth.AccessTokenPayload{
		UserID:   uuid.New(),
		Username: "terminal",
		Role:     enums.UserRoleWaiter,
		JTI:      uuid.NewString(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/v1/tables/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token got %d", resp.Code)
	}
}
