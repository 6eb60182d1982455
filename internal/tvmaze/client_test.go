package tvmaze

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestShowYear(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/shows/179":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":179,"name":"The Wire","premiered":"2002-06-02"}`))
		case "/shows/9999":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"id":9999,"name":"Unaired","premiered":null}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, 5*time.Second)

	year, err := client.ShowYear(179)
	if err != nil {
		t.Fatalf("ShowYear: %v", err)
	}
	if year != 2002 {
		t.Fatalf("year %d, want 2002", year)
	}

	if _, err := client.ShowYear(9999); err == nil {
		t.Fatal("expected error for missing premiere date")
	}

	if _, ok := client.YearLookup(404404); ok {
		t.Fatal("lookup of unknown show should report absent")
	}
}
