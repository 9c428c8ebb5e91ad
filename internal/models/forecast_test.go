package models

import (
	"encoding/json"
	"testing"
)

func TestForecastPointUnmarshal(t *testing.T) {
	raw := `[
		{"date":"2024-01-01","pred_value":"12.5"},
		{"date":"2024-01-02","pred_value":"Cannot predict"},
		{"date":"2024-01-03","pred_value":7}
	]`

	var points []ForecastPoint
	if err := json.Unmarshal([]byte(raw), &points); err != nil {
		t.Fatalf("unmarshal forecast points: %v", err)
	}
	if len(points) != 3 {
		t.Fatalf("expected 3 points, got %d", len(points))
	}

	if points[0].Date != "2024-01-01" || points[0].PredValue == nil || *points[0].PredValue != 12.5 {
		t.Fatalf("unexpected first point: %+v", points[0])
	}
	if points[1].Date != "2024-01-02" || points[1].PredValue != nil {
		t.Fatalf("sentinel should map to nil value, got %+v", points[1])
	}
	if points[2].PredValue == nil || *points[2].PredValue != 7 {
		t.Fatalf("unexpected numeric point: %+v", points[2])
	}
}

func TestForecastPointUnmarshalRejectsGarbage(t *testing.T) {
	var point ForecastPoint
	if err := json.Unmarshal([]byte(`{"date":"2024-01-01","pred_value":"soon"}`), &point); err == nil {
		t.Fatal("expected error for non-numeric pred_value")
	}
}

func TestForecastPointMarshalSentinel(t *testing.T) {
	value := 3.25
	predictable, err := json.Marshal(ForecastPoint{Date: "2024-02-01", PredValue: &value})
	if err != nil {
		t.Fatalf("marshal predictable point: %v", err)
	}
	if string(predictable) != `{"date":"2024-02-01","pred_value":3.25}` {
		t.Fatalf("unexpected predictable encoding: %s", predictable)
	}

	gap, err := json.Marshal(ForecastPoint{Date: "2024-02-02"})
	if err != nil {
		t.Fatalf("marshal gap point: %v", err)
	}
	if string(gap) != `{"date":"2024-02-02","pred_value":"Cannot predict"}` {
		t.Fatalf("unexpected gap encoding: %s", gap)
	}
}
