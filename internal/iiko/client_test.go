package iiko

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := NewClient(Config{
		BaseURL:         baseURL,
		APILogin:        "login",
		OrganizationID:  "org-1",
		TerminalGroupID: "terminal-1",
	})
	if err != nil {
		t.Fatalf("new client failed: %v", err)
	}
	return client
}

func TestNewClientValidatesConfig(t *testing.T) {
	if _, err := NewClient(Config{APILogin: "login"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing base url: got %v", err)
	}
	if _, err := NewClient(Config{BaseURL: "http://pos"}); !errors.Is(err, ErrConfigInvalid) {
		t.Fatalf("missing api login: got %v", err)
	}
}

func TestAccessTokenIsCached(t *testing.T) {
	tokenRequests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/access_token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		var body struct {
			APILogin string `json:"apiLogin"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.APILogin != "login" {
			t.Errorf("apiLogin = %q, want login", body.APILogin)
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t1"})
	})
	mux.HandleFunc("/api/1/nomenclature", func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer t1" {
			t.Errorf("authorization = %q, want Bearer t1", got)
		}
		_ = json.NewEncoder(w).Encode(Nomenclature{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	for i := 0; i < 3; i++ {
		if _, err := client.Nomenclature(context.Background()); err != nil {
			t.Fatalf("request %d failed: %v", i, err)
		}
	}
	if tokenRequests != 1 {
		t.Fatalf("token requests = %d, token must be cached", tokenRequests)
	}
}

func TestUnauthorizedRefreshesTokenOnce(t *testing.T) {
	tokenRequests := 0
	dataRequests := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/access_token", func(w http.ResponseWriter, r *http.Request) {
		tokenRequests++
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t1"})
	})
	mux.HandleFunc("/api/1/nomenclature", func(w http.ResponseWriter, r *http.Request) {
		dataRequests++
		// First presentation of the token is rejected, the retry succeeds.
		if dataRequests == 1 {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		_ = json.NewEncoder(w).Encode(Nomenclature{})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Nomenclature(context.Background()); err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if tokenRequests != 2 {
		t.Fatalf("token requests = %d, 401 must refresh the token", tokenRequests)
	}
	if dataRequests != 2 {
		t.Fatalf("data requests = %d, want one retry", dataRequests)
	}
}

func TestUnauthorizedTwiceStops(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t1"})
	})
	mux.HandleFunc("/api/1/nomenclature", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.Nomenclature(context.Background()); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestCreateDelivery(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t1"})
	})
	mux.HandleFunc("/api/1/deliveries/create", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["organizationId"] != "org-1" {
			t.Errorf("organizationId = %v, want org-1", body["organizationId"])
		}
		if body["terminalGroupId"] != "terminal-1" {
			t.Errorf("terminalGroupId = %v, want terminal-1", body["terminalGroupId"])
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"orderInfo": map[string]string{"id": "ext-42"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	id, err := client.CreateDelivery(context.Background(), CreateDeliveryRequest{
		Phone: "+5001",
		Items: []DeliveryItem{{ProductID: "prd-1", Type: "Product", Amount: 1, Price: 500}},
	})
	if err != nil {
		t.Fatalf("create delivery failed: %v", err)
	}
	if id != "ext-42" {
		t.Fatalf("id = %s, want ext-42", id)
	}
}

func TestCreateDeliveryEmptyIDIsInvalid(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t1"})
	})
	mux.HandleFunc("/api/1/deliveries/create", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"orderInfo": map[string]string{}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.CreateDelivery(context.Background(), CreateDeliveryRequest{}); !errors.Is(err, ErrResponseInvalid) {
		t.Fatalf("expected invalid response, got %v", err)
	}
}

func TestDeliveryByIDNotFound(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/1/access_token", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "t1"})
	})
	mux.HandleFunc("/api/1/deliveries/by_id", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]interface{}{"orders": []interface{}{}})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newTestClient(t, server.URL)
	if _, err := client.DeliveryByID(context.Background(), "missing"); !errors.Is(err, ErrOrderNotFound) {
		t.Fatalf("expected order not found, got %v", err)
	}
}

func TestParseTime(t *testing.T) {
	cases := []struct {
		in   string
		want time.Time
	}{
		{"2026-08-01 12:30:00.000", time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)},
		{"2026-08-01 12:30:00", time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)},
		{"2026-08-01T12:30:00Z", time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)},
		{"2026-08-01T12:30:00", time.Date(2026, 8, 1, 12, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		got := ParseTime(tc.in)
		if got == nil {
			t.Fatalf("ParseTime(%q) = nil", tc.in)
		}
		if !got.Equal(tc.want) {
			t.Fatalf("ParseTime(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}

	if got := ParseTime(""); got != nil {
		t.Fatalf("ParseTime of empty string = %v, want nil", got)
	}
	if got := ParseTime("not a time"); got != nil {
		t.Fatalf("ParseTime of garbage = %v, want nil", got)
	}
}
