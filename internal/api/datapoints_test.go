package api

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestBulkUploadValidatesBeforeAnyRequest(t *testing.T) {
	doer := &countingDoer{doer: http.DefaultClient}
	client := NewClient("http://127.0.0.1:1", doer, nil)

	_, err := client.BulkUpload(context.Background(), "tok", UploadInput{
		Content:    strings.NewReader("date,value\n"),
		CustomerID: 7,
		// LocationID absent
		MenuID: 3,
	})

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected *ValidationError, got %v", err)
	}
	if validationErr.Field != "location_id" {
		t.Fatalf("field = %q, want location_id", validationErr.Field)
	}
	if doer.requests() != 0 {
		t.Fatalf("expected no request to be issued, got %d", doer.requests())
	}
}

func TestBulkUploadEncodesFileAsBase64(t *testing.T) {
	csv := "date,value\n2024-01-01,10\n2024-01-02,12\n"

	var got uploadPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/datapoints/csv_upload/" {
			http.NotFound(w, r)
			return
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		json.NewEncoder(w).Encode(UploadResult{Inserted: 2})
	}))
	defer server.Close()

	client := NewClient(server.URL, server.Client(), nil)
	result, err := client.BulkUpload(context.Background(), "tok", UploadInput{
		Content:    strings.NewReader(csv),
		CustomerID: 1,
		LocationID: 2,
		MenuID:     3,
	})
	if err != nil {
		t.Fatalf("BulkUpload returned error: %v", err)
	}
	if result.Inserted != 2 {
		t.Fatalf("inserted = %d, want 2", result.Inserted)
	}

	decoded, err := base64.StdEncoding.DecodeString(got.Content)
	if err != nil {
		t.Fatalf("content is not valid base64: %v", err)
	}
	if string(decoded) != csv {
		t.Fatalf("decoded content = %q, want original file", decoded)
	}
	if got.CustomerID != 1 || got.LocationID != 2 || got.MenuID != 3 {
		t.Fatalf("selection ids not forwarded: %+v", got)
	}
}
