package classify

import (
	"context"
	"errors"
	"testing"

	"MarketPulse/internal/domain/models"
)

func TestClassifyEarningsBeat(t *testing.T) {
	c := New(nil)
	got := c.Classify(context.Background(), &models.NewsItem{
		ID:    "n1",
		Title: "Apple beats expectations with record quarter",
	})
	if got.Type != models.IncidentEarningsBeat {
		t.Fatalf("unexpected type %s", got.Type)
	}
	if got.Category != models.CategoryCompanySpecific {
		t.Fatalf("unexpected category %s", got.Category)
	}
	if got.Score <= 0.6 || got.Score > 0.9 {
		t.Fatalf("score out of range: %v", got.Score)
	}
}

func TestClassifyScoreCap(t *testing.T) {
	c := New(nil)
	// Very short text: match covers most of it, plus leading bonus.
	got := c.Classify(context.Background(), &models.NewsItem{ID: "n1", Title: "lawsuit"})
	if got.Score != 0.9 {
		t.Fatalf("expected capped score 0.9, got %v", got.Score)
	}
}

func TestClassifyLeadingBonus(t *testing.T) {
	c := New(nil)
	lead := c.Classify(context.Background(), &models.NewsItem{ID: "a", Title: "lawsuit against supplier x"})
	trail := c.Classify(context.Background(), &models.NewsItem{ID: "b", Title: "supplier x faces lawsuit now"})
	if lead.Score <= trail.Score {
		t.Fatalf("leading match should outscore trailing: %v <= %v", lead.Score, trail.Score)
	}
}

func TestClassifyMagnitudePriority(t *testing.T) {
	c := New(nil)
	got := c.Classify(context.Background(), &models.NewsItem{
		ID:    "n1",
		Title: "Catastrophic massive minor recall announced",
	})
	if got.Magnitude != models.MagnitudeCritical {
		t.Fatalf("expected critical, got %s", got.Magnitude)
	}

	got = c.Classify(context.Background(), &models.NewsItem{
		ID:    "n2",
		Title: "Major minor lawsuit filed",
	})
	if got.Magnitude != models.MagnitudeHigh {
		t.Fatalf("expected high, got %s", got.Magnitude)
	}

	got = c.Classify(context.Background(), &models.NewsItem{
		ID:    "n3",
		Title: "Company faces lawsuit over patents",
	})
	if got.Magnitude != models.MagnitudeMedium {
		t.Fatalf("expected medium default, got %s", got.Magnitude)
	}
}

type stubExternal struct {
	res *models.Classification
	err error
}

func (s *stubExternal) Classify(_ context.Context, _ *models.NewsItem) (*models.Classification, error) {
	return s.res, s.err
}

func TestClassifyExternalFallback(t *testing.T) {
	want := &models.Classification{
		Type:      models.IncidentConsumerTrend,
		Category:  models.CategorySocial,
		Score:     0.72,
		Magnitude: models.MagnitudeMedium,
	}
	c := New(&stubExternal{res: want})
	got := c.Classify(context.Background(), &models.NewsItem{ID: "n1", Title: "completely unrelated text"})
	if got != *want {
		t.Fatalf("expected external result, got %+v", got)
	}
}

func TestClassifyTerminalFallback(t *testing.T) {
	c := New(&stubExternal{err: errors.New("upstream down")})
	got := c.Classify(context.Background(), &models.NewsItem{ID: "n1", Title: "completely unrelated text"})
	if got.Type != models.IncidentOther || got.Score != 0.3 || got.Magnitude != models.MagnitudeLow {
		t.Fatalf("unexpected fallback %+v", got)
	}
}

func TestClassifyExternalNilResult(t *testing.T) {
	// nil,nil from the external classifier means unprocessable.
	c := New(&stubExternal{})
	got := c.Classify(context.Background(), &models.NewsItem{ID: "n1", Title: "completely unrelated text"})
	if got.Type != models.IncidentOther {
		t.Fatalf("expected static fallback, got %+v", got)
	}
}

func TestIsIncidentWorthyStrict(t *testing.T) {
	if IsIncidentWorthy(models.Classification{Score: 0.6}) {
		t.Fatalf("0.6 must not qualify")
	}
	if !IsIncidentWorthy(models.Classification{Score: 0.61}) {
		t.Fatalf("0.61 must qualify")
	}
}
