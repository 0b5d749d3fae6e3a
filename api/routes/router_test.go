package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	beansvc "github.com/mkohara/roastery/internal/beans"
	cartsvc "github.com/mkohara/roastery/internal/cart"
	checkoutsvc "github.com/mkohara/roastery/internal/checkout"
	ordersvc "github.com/mkohara/roastery/internal/orders"
	profilesvc "github.com/mkohara/roastery/internal/profile"
	pkgauth "github.com/mkohara/roastery/pkg/auth"
	"github.com/mkohara/roastery/pkg/config"
	"github.com/mkohara/roastery/pkg/logger"
	"github.com/mkohara/roastery/pkg/metrics"
)

type stubBeans struct{}

func (stubBeans) List(ctx context.Context) ([]beansvc.BeanDTO, error) {
	return []beansvc.BeanDTO{}, nil
}
func (stubBeans) ListByUser(ctx context.Context, userID string) ([]beansvc.BeanDTO, error) {
	return []beansvc.BeanDTO{}, nil
}
func (stubBeans) Get(ctx context.Context, id int) (*beansvc.BeanDTO, error) {
	return &beansvc.BeanDTO{ID: id}, nil
}
func (stubBeans) Create(ctx context.Context, userID string, input beansvc.CreateBeanInput) (*beansvc.BeanDTO, error) {
	return &beansvc.BeanDTO{ID: 1, UserID: userID}, nil
}
func (stubBeans) Update(ctx context.Context, id int, userID string, input beansvc.UpdateBeanInput) (*beansvc.BeanDTO, error) {
	return &beansvc.BeanDTO{ID: id, UserID: userID}, nil
}
func (stubBeans) Delete(ctx context.Context, id int, userID string) error {
	return nil
}

type stubCart struct{}

func (stubCart) Items(ctx context.Context, userID string) ([]cartsvc.ItemDetail, error) {
	return []cartsvc.ItemDetail{}, nil
}
func (stubCart) AddItem(ctx context.Context, userID string, beanID, quantity int) (*cartsvc.CartItemDTO, error) {
	return &cartsvc.CartItemDTO{ID: uuid.New(), BeanID: beanID, Quantity: quantity}, nil
}
func (stubCart) UpdateItemQuantity(ctx context.Context, userID string, itemID uuid.UUID, quantity int) (*cartsvc.CartItemDTO, error) {
	return &cartsvc.CartItemDTO{ID: itemID, Quantity: quantity}, nil
}
func (stubCart) RemoveItem(ctx context.Context, userID string, itemID uuid.UUID) error {
	return nil
}

type stubCheckout struct{}

func (stubCheckout) CreatePaymentIntent(ctx context.Context, userID string) (*checkoutsvc.PaymentIntentResult, error) {
	return &checkoutsvc.PaymentIntentResult{ClientSecret: "secret"}, nil
}
func (stubCheckout) RetrieveIntent(ctx context.Context, userID, paymentIntentID string) (*checkoutsvc.IntentStatusResult, error) {
	return &checkoutsvc.IntentStatusResult{PaymentIntentID: paymentIntentID}, nil
}

type stubOrders struct{}

func (stubOrders) ListByUser(ctx context.Context, userID string) ([]ordersvc.OrderDTO, error) {
	return []ordersvc.OrderDTO{}, nil
}

type stubProfile struct{}

func (stubProfile) Get(ctx context.Context, userID string) (*profilesvc.ProfileDTO, error) {
	return &profilesvc.ProfileDTO{UserID: userID}, nil
}
func (stubProfile) Upsert(ctx context.Context, userID string, input profilesvc.UpsertProfileInput) (*profilesvc.ProfileDTO, error) {
	return &profilesvc.ProfileDTO{UserID: userID, DisplayName: input.DisplayName}, nil
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:   cfg,
		Logger:   logger.New(logger.Options{ServiceName: "test", Output: io.Discard}),
		HTTP:     metrics.NewHTTPMetrics(),
		Beans:    stubBeans{},
		Cart:     stubCart{},
		Checkout: stubCheckout{},
		Orders:   stubOrders{},
		Profile:  stubProfile{},
	})
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "router-test-secret"},
	}
}

func TestRouterPublicCatalogReads(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/api/beans", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for public list, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/beans/3", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for public get, got %d", rec.Code)
	}
}

func TestRouterProtectedRoutesRequireToken(t *testing.T) {
	router := newTestRouter(t, testConfig())

	protected := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/my/beans"},
		{http.MethodGet, "/api/cart"},
		{http.MethodGet, "/api/orders"},
		{http.MethodGet, "/api/profile"},
	}
	for _, route := range protected {
		req := httptest.NewRequest(route.method, route.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		if rec.Code != http.StatusUnauthorized {
			t.Fatalf("%s %s: expected 401 without token, got %d", route.method, route.path, rec.Code)
		}
	}
}

func TestRouterAcceptsMintedToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(t, cfg)

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), "user-1", "user@example.com", time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/my/beans", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with valid token, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestRouterHealthAndMetrics(t *testing.T) {
	router := newTestRouter(t, testConfig())

	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for metrics, got %d", rec.Code)
	}
}
