package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"github.com/hyeonwoo/lessondesk/internal/domain"
	"github.com/hyeonwoo/lessondesk/internal/remote"
)

var ctx = context.Background()

func tokenBody(uid uuid.UUID, token string) map[string]any {
	return map[string]any{
		"access_token":  token,
		"refresh_token": "rt-" + token,
		"token_type":    "bearer",
		"expires_in":    3600,
		"user": map[string]string{
			"id":    uid.String(),
			"email": "user@example.com",
		},
	}
}

func newTestClient(t *testing.T, handler http.Handler) *Client {
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := New(server.URL, "anon-key", server.Client(), 0)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(client.Close)
	return client
}

func TestSignInAdoptsSessionAndSwitchesBearer(t *testing.T) {
	uid := uuid.New()
	var restAuth string

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if grant := r.URL.Query().Get("grant_type"); grant != "password" {
			t.Errorf("expected grant_type password, got %q", grant)
		}
		if key := r.Header.Get("apikey"); key != "anon-key" {
			t.Errorf("missing api key header, got %q", key)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer anon-key" {
			t.Errorf("anonymous request must bear the anon key, got %q", auth)
		}

		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		if body["email"] != "user@example.com" || body["password"] != "secret1" {
			t.Errorf("wrong credentials forwarded: %v", body)
		}
		json.NewEncoder(w).Encode(tokenBody(uid, "at1"))
	})
	mux.HandleFunc("/rest/v1/todos", func(w http.ResponseWriter, r *http.Request) {
		restAuth = r.Header.Get("Authorization")
		w.Write([]byte("[]"))
	})

	client := newTestClient(t, mux)

	var events []string
	client.OnSessionChange(func(s *domain.Session) {
		if s == nil {
			events = append(events, "signed-out")
			return
		}
		events = append(events, s.AccessToken)
	})

	if err := client.SignInWithPassword(ctx, "user@example.com", "secret1"); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if diff := cmp.Diff([]string{"at1"}, events); diff != "" {
		t.Error(diff)
	}
	s, err := client.GetSession(ctx)
	if err != nil || s == nil || s.AccessToken != "at1" {
		t.Fatalf("session not adopted: %v, %v", s, err)
	}
	if s.User.ID != uid {
		t.Errorf("wrong user id: %s", s.User.ID)
	}

	if _, err := client.Select(ctx, "todos", remote.Query{}); err != nil {
		t.Fatal(err)
	}
	if restAuth != "Bearer at1" {
		t.Errorf("signed-in request must bear the access token, got %q", restAuth)
	}
}

func TestSignInRejection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"msg":"invalid login credentials"}`))
	}))

	err := client.SignInWithPassword(ctx, "user@example.com", "wrong")
	var aErr *remote.AuthError
	if !errors.As(err, &aErr) {
		t.Fatalf("expected AuthError, got %v", err)
	}
	if aErr.Status != http.StatusBadRequest || aErr.Message != "invalid login credentials" {
		t.Errorf("wrong error details: %+v", aErr)
	}
	if s, _ := client.GetSession(ctx); s != nil {
		t.Errorf("rejected sign-in must not create a session, got %v", s)
	}
}

func TestSignOutClearsSessionAndNotifies(t *testing.T) {
	uid := uuid.New()
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/v1/token", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(tokenBody(uid, "at1"))
	})
	mux.HandleFunc("/auth/v1/logout", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	client := newTestClient(t, mux)

	var events []string
	client.OnSessionChange(func(s *domain.Session) {
		if s == nil {
			events = append(events, "signed-out")
			return
		}
		events = append(events, s.AccessToken)
	})

	if err := client.SignInWithPassword(ctx, "user@example.com", "secret1"); err != nil {
		t.Fatal(err)
	}
	if err := client.SignOut(ctx); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if diff := cmp.Diff([]string{"at1", "signed-out"}, events); diff != "" {
		t.Error(diff)
	}
	if s, _ := client.GetSession(ctx); s != nil {
		t.Errorf("session not cleared: %v", s)
	}
}

func TestSignOutWhileSignedOut(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request may be sent when nobody is signed in")
	}))

	if err := client.SignOut(ctx); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}

func TestSelectBuildsQuery(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/rest/v1/profiles" {
			t.Errorf("wrong path: %s", r.URL.Path)
		}
		q := r.URL.Query()
		if got := q.Get("user_id"); got != "eq.abc" {
			t.Errorf("user_id filter = %q", got)
		}
		if got := q.Get("order"); got != "created_at.asc" {
			t.Errorf("order = %q", got)
		}
		w.Write([]byte(`[{"id":1,"nickname":"kim"}]`))
	}))

	records, err := client.Select(ctx, "profiles",
		remote.Where(remote.Eq("user_id", "abc")).OrderedBy("created_at", true))
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}
	if id, err := records[0].Int64("id"); err != nil || id != 1 {
		t.Errorf("id = %d, %v", id, err)
	}
}

func TestSelectNullFilter(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("user_id"); got != "is.null" {
			t.Errorf("user_id filter = %q", got)
		}
		w.Write([]byte(`[]`))
	}))

	if _, err := client.Select(ctx, "profiles", remote.Where(remote.IsNull("user_id"))); err != nil {
		t.Fatal(err)
	}
}

func TestInsertAsksForRepresentation(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if prefer := r.Header.Get("Prefer"); prefer != "return=representation" {
			t.Errorf("Prefer = %q", prefer)
		}
		var records []remote.Record
		if err := json.NewDecoder(r.Body).Decode(&records); err != nil {
			t.Error(err)
		}
		if len(records) != 2 {
			t.Errorf("batch arrived as %d records", len(records))
		}
		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(records)
	}))

	written, err := client.Insert(ctx, "lesson_discount", []remote.Record{
		{"no": 41, "amount": 2000},
		{"no": 41, "amount": 1000},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(written) != 2 {
		t.Errorf("expected the written rows back, got %d", len(written))
	}
}

func TestRequestErrorCarriesCollection(t *testing.T) {
	client := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"duplicate key"}`))
	}))

	_, err := client.Insert(ctx, "lessons", []remote.Record{{"title": "x"}})
	var rErr *remote.RequestError
	if !errors.As(err, &rErr) {
		t.Fatalf("expected RequestError, got %v", err)
	}
	if rErr.Collection != "lessons" || rErr.Status != http.StatusInternalServerError {
		t.Errorf("wrong error details: %+v", rErr)
	}
	if rErr.Message != "duplicate key" {
		t.Errorf("message not extracted: %q", rErr.Message)
	}
}
