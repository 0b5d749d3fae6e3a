package storefront

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mkohara/roastery/internal/storefront/session"
	"github.com/mkohara/roastery/pkg/config"
	pkgerrors "github.com/mkohara/roastery/pkg/errors"
)

type staticTokens struct {
	session session.Session
}

func (s staticTokens) Current() session.Session {
	return s.session
}

func newTestClient(t *testing.T, handler http.Handler, tokens TokenSource) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client := NewClient(config.StorefrontConfig{APIBaseURL: server.URL}, tokens)
	return client, server
}

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	})
	client, _ := newTestClient(t, handler, staticTokens{session.Session{AccessToken: "tok-123"}})

	if _, err := client.ListBeans(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotAuth != "Bearer tok-123" {
		t.Fatalf("expected bearer header, got %q", gotAuth)
	}
}

func TestClientReadsTokenFreshPerRequest(t *testing.T) {
	var headers []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		headers = append(headers, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	})
	provider := session.NewProvider(session.Session{AccessToken: "before"})
	client, _ := newTestClient(t, handler, provider)

	if _, err := client.ListBeans(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	provider.Set(session.Session{AccessToken: "after"})
	if _, err := client.ListBeans(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(headers) != 2 || headers[0] != "Bearer before" || headers[1] != "Bearer after" {
		t.Fatalf("expected rotated token to take effect, got %v", headers)
	}
}

func TestFetchCartBareArray(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[{"id":"line-1","bean_id":3,"name":"Yirgacheffe","price":1800,"quantity":2}]`))
	})
	client, _ := newTestClient(t, handler, nil)

	lines, err := client.FetchCart(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].ID != "line-1" || lines[0].Quantity != 2 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestFetchCartWrappedItems(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"items":[{"id":"line-1","bean_id":3,"price":1800,"quantity":1}]}`))
	})
	client, _ := newTestClient(t, handler, nil)

	lines, err := client.FetchCart(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 1 || lines[0].BeanID != 3 {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestFetchCartUnknownShapeReadsEmpty(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"cart":{"weird":true}}`))
	})
	client, _ := newTestClient(t, handler, nil)

	lines, err := client.FetchCart(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if lines == nil || len(lines) != 0 {
		t.Fatalf("expected empty slice, got %v", lines)
	}
}

func TestCreatePaymentIntentSnakeCaseSecret(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"client_secret":"pi_1_secret_abc"}`))
	})
	client, _ := newTestClient(t, handler, nil)

	secret, err := client.CreatePaymentIntent(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "pi_1_secret_abc" {
		t.Fatalf("unexpected secret %q", secret)
	}
}

func TestCreatePaymentIntentCamelCaseFallback(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"clientSecret":"pi_2_secret_def"}`))
	})
	client, _ := newTestClient(t, handler, nil)

	secret, err := client.CreatePaymentIntent(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if secret != "pi_2_secret_def" {
		t.Fatalf("unexpected secret %q", secret)
	}
}

func TestCreatePaymentIntentMissingSecretFails(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"amount":5800}`))
	})
	client, _ := newTestClient(t, handler, nil)

	if _, err := client.CreatePaymentIntent(context.Background()); err == nil {
		t.Fatal("expected error when response has no secret")
	}
}

func TestErrorResponseKeepsServerMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"code":"VALIDATION_ERROR","message":"cart is empty"}`))
	})
	client, _ := newTestClient(t, handler, nil)

	_, err := client.CreatePaymentIntent(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %s", typed.Code())
	}
	if typed.Message() != "cart is empty" {
		t.Fatalf("expected server message, got %q", typed.Message())
	}
}

func TestErrorResponseWithoutBodyGetsGenericMessage(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	})
	client, _ := newTestClient(t, handler, nil)

	_, err := client.ListBeans(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %v", err)
	}
	if typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency code, got %s", typed.Code())
	}
	if typed.Message() != "request failed with status 502" {
		t.Fatalf("unexpected message %q", typed.Message())
	}
}

func TestDeleteCartItemNotFound(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"code":"NOT_FOUND","message":"cart item not found"}`))
	})
	client, _ := newTestClient(t, handler, nil)

	err := client.DeleteCartItem(context.Background(), "line-9")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
