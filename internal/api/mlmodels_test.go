package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestTrainModelMapsFailureToSuccessFlag(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"no datapoints"}`, http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)
	if result := client.TrainModel(context.Background(), "tok", 1, 2); result.Success {
		t.Fatal("expected Success=false for non-2xx response")
	}
}

func TestTrainModelTransportFailureDoesNotPanic(t *testing.T) {
	// closed port: transport error, not an HTTP status
	client := NewClient("http://127.0.0.1:1", NewDefaultHTTPClient(200*time.Millisecond), nil)
	if result := client.TrainModel(context.Background(), "tok", 1, 2); result.Success {
		t.Fatal("expected Success=false on transport failure")
	}
}

func TestForecastQueryAndMapping(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"location_id": r.URL.Query().Get("location_id"),
			"menu_id":     r.URL.Query().Get("menu_id"),
			"today":       r.URL.Query().Get("today"),
			"num_days":    r.URL.Query().Get("num_days"),
		}
		w.Write([]byte(`[
			{"date":"2024-01-01","pred_value":"12.5"},
			{"date":"2024-01-02","pred_value":"Cannot predict"}
		]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)
	client.now = func() time.Time { return time.Date(2023, 12, 31, 15, 4, 5, 0, time.UTC) }

	result := client.Forecast(context.Background(), "tok", 4, 9, 2)
	if !result.Success {
		t.Fatal("expected Success=true")
	}

	want := map[string]string{"location_id": "4", "menu_id": "9", "today": "2023-12-31", "num_days": "2"}
	for key, value := range want {
		if gotQuery[key] != value {
			t.Fatalf("query %s = %q, want %q", key, gotQuery[key], value)
		}
	}

	if len(result.Points) != 2 {
		t.Fatalf("expected 2 points, got %d", len(result.Points))
	}
	if result.Points[0].PredValue == nil || *result.Points[0].PredValue != 12.5 {
		t.Fatalf("first point = %+v, want 12.5", result.Points[0])
	}
	if result.Points[1].PredValue != nil {
		t.Fatalf("second point should be a gap, got %+v", result.Points[1])
	}
	if result.Points[0].Date != "2024-01-01" || result.Points[1].Date != "2024-01-02" {
		t.Fatalf("date labels lost: %+v", result.Points)
	}
}

func TestForecastFailureReturnsStructuredResult(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "model missing", http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)
	result := client.Forecast(context.Background(), "tok", 1, 2, 7)
	if result.Success || result.Points != nil {
		t.Fatalf("expected empty failure result, got %+v", result)
	}
}
