package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"rankcet/pkg/models"
)

var sample = []models.Prediction{{
	CollegeCode: "JNTH", CollegeName: "JNTU Hyderabad", BranchName: "CSE", ClosingRank: 812,
	AdmissionYear: 2024, AdmissionPhase: models.PhaseOne, Category: "OC", Gender: "BOYS",
}}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := writeCSV(&buf, sample); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 || lines[1] != "JNTH,JNTU Hyderabad,CSE,812,2024,Phase 1,OC,BOYS" {
		t.Errorf("csv = %q", buf.String())
	}
}

func TestWriteTable(t *testing.T) {
	var buf bytes.Buffer
	writeTable(&buf, sample)
	if !strings.Contains(buf.String(), "CLOSING RANK") || !strings.Contains(buf.String(), "JNTU Hyderabad") {
		t.Errorf("table = %q", buf.String())
	}
}

func TestDoJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req predictRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Rank != 812 {
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"bad","code":"MALFORMED_RANK"}`))
			return
		}
		_ = json.NewEncoder(w).Encode(predictResponse{Predictions: sample, Count: 1})
	}))
	defer srv.Close()

	var resp predictResponse
	err := doJSON(context.Background(), srv.Client(), http.MethodPost, srv.URL+"/predict",
		predictRequest{Rank: 812, Category: "OC", Gender: "BOYS", YearPreference: 2024, PhasePreference: "Phase 1"}, &resp)
	if err != nil {
		t.Fatalf("doJSON: %v", err)
	}
	if resp.Count != 1 || resp.Predictions[0].CollegeCode != "JNTH" {
		t.Errorf("resp = %+v", resp)
	}

	err = doJSON(context.Background(), srv.Client(), http.MethodPost, srv.URL+"/predict", predictRequest{Rank: 1}, &resp)
	if err == nil || !strings.Contains(err.Error(), "MALFORMED_RANK") {
		t.Errorf("err = %v; want server error body", err)
	}
}
