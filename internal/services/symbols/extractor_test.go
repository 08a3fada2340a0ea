package symbols

import (
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	got := Extract("Apple unveils new iPhone while Microsoft updates Azure")
	want := []string{"AAPL", "MSFT"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExtractCaseInsensitive(t *testing.T) {
	got := Extract("NVIDIA and TESLA rally")
	want := []string{"NVDA", "TSLA"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v want %v", got, want)
	}
}

func TestExtractNoMatch(t *testing.T) {
	if got := Extract("Fed holds rates steady"); len(got) != 0 {
		t.Fatalf("expected none, got %v", got)
	}
}
