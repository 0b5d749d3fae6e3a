package session

import "testing"

func TestAuthenticated(t *testing.T) {
	if (Session{}).Authenticated() {
		t.Fatal("empty session should not be authenticated")
	}
	if !(Session{AccessToken: "token"}).Authenticated() {
		t.Fatal("session with token should be authenticated")
	}
}

func TestProviderCurrentAndSet(t *testing.T) {
	provider := NewProvider(Session{AccessToken: "first", UserID: "user-1"})

	if got := provider.Current().UserID; got != "user-1" {
		t.Fatalf("expected user-1, got %s", got)
	}

	provider.Set(Session{AccessToken: "second", UserID: "user-2"})
	if got := provider.Current().UserID; got != "user-2" {
		t.Fatalf("expected user-2 after Set, got %s", got)
	}
}

func TestProviderSubscribe(t *testing.T) {
	provider := NewProvider(Session{})

	var seen []string
	unsubscribe := provider.Subscribe(func(s Session) {
		seen = append(seen, s.UserID)
	})

	provider.Set(Session{UserID: "user-1"})
	if len(seen) != 1 || seen[0] != "user-1" {
		t.Fatalf("expected one notification for user-1, got %v", seen)
	}

	unsubscribe()
	provider.Set(Session{UserID: "user-2"})
	if len(seen) != 1 {
		t.Fatalf("expected no notification after unsubscribe, got %v", seen)
	}
}
