package timezone_test

import (
	"tablebook/shared/timezone"
	"testing"
	"time"
)

func TestNow(t *testing.T) {
	now := timezone.Now()

	if now.IsZero() {
		t.Error("expected Now to return a non-zero time")
	}

	if now.Location().String() != timezone.GetLocation().String() {
		t.Errorf("expected location %s, got %s", timezone.GetLocation(), now.Location())
	}
}

func TestToAppTime(t *testing.T) {
	utc := time.Date(2024, 2, 15, 19, 0, 0, 0, time.UTC)

	converted := timezone.ToAppTime(utc)

	if !converted.Equal(utc) {
		t.Error("expected converted time to represent the same instant")
	}
}

func TestParseAndFormat(t *testing.T) {
	parsed, err := timezone.Parse("2006-01-02 15:04", "2024-02-15 19:00")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}

	formatted := timezone.Format(parsed, "2006-01-02 15:04")
	if formatted != "2024-02-15 19:00" {
		t.Errorf("expected '2024-02-15 19:00', got %s", formatted)
	}
}
