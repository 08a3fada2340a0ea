package classify

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"MarketPulse/internal/domain/models"
	xhttp "MarketPulse/pkg/http"
)

func remoteClassify(t *testing.T, confidence float64) *models.Classification {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"type":"layoffs","category":"company_specific","confidence":%g,"magnitude":"high"}`, confidence)
	}))
	defer srv.Close()

	h := NewHTTPClassifier(srv.URL, "key", xhttp.NewClient())
	res, err := h.Classify(context.Background(), &models.NewsItem{ID: "n1", Title: "headline"})
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if res == nil {
		t.Fatalf("expected a classification")
	}
	return res
}

func TestHTTPClassifierScoreBounds(t *testing.T) {
	// Remote confidences outside the incident-score band are pulled in.
	if got := remoteClassify(t, 0.1).Score; got != 0.3 {
		t.Fatalf("low confidence score = %v, want floor 0.3", got)
	}
	if got := remoteClassify(t, 1.5).Score; got != 0.9 {
		t.Fatalf("high confidence score = %v, want cap 0.9", got)
	}
	if got := remoteClassify(t, 0.72).Score; got != 0.72 {
		t.Fatalf("in-band score = %v, want passthrough", got)
	}
}

func TestHTTPClassifierUnknownTaxonomy(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"type":"mystery","category":"company_specific","confidence":0.8,"magnitude":"high"}`)
	}))
	defer srv.Close()

	h := NewHTTPClassifier(srv.URL, "key", xhttp.NewClient())
	res, err := h.Classify(context.Background(), &models.NewsItem{ID: "n1", Title: "headline"})
	if err != nil || res != nil {
		t.Fatalf("expected nil,nil for unknown type, got %+v, %v", res, err)
	}
}
