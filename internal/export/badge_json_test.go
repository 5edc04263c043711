package export

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"course-meta/internal/domain"
)

func TestWriteBadgeReportJSON(t *testing.T) {
	assertions := []domain.BadgeAssertion{
		{
			Username:     "calle",
			ImageURL:     "http://www.example.com/image.png",
			AssertionURL: "http://www.example.com/assertion.json",
			Awarded:      time.Date(2014, time.October, 1, 12, 30, 0, 0, time.FixedZone("UTC+5", 5*3600)),
			Class: domain.BadgeClass{
				Slug:             "test_slug",
				IssuingComponent: "test_component",
				// Raw Latin-1 bytes from a legacy import.
				Description: "\xd3 \xe9 \xf1",
				CourseID:    "edX/DemoX.1/Fall_2014",
			},
		},
	}

	var buf bytes.Buffer
	generatedAt := time.Date(2015, time.January, 1, 0, 0, 0, 0, time.UTC)
	if err := WriteBadgeReportJSON(&buf, assertions, generatedAt); err != nil {
		t.Fatalf("WriteBadgeReportJSON() error = %v", err)
	}

	out := buf.String()
	if !utf8.ValidString(out) {
		t.Error("Expected report to be valid UTF-8")
	}
	if !strings.Contains(out, `"description":"Ó é ñ"`) {
		t.Errorf("Expected Latin-1 text repaired in output, got %s", out)
	}
	if !strings.Contains(out, `"awarded":"2014-10-01T07:30:00Z"`) {
		t.Errorf("Expected awarded timestamp normalized to UTC, got %s", out)
	}
	if !strings.Contains(out, `"generated_at":"2015-01-01T00:00:00Z"`) {
		t.Errorf("Expected generated_at in UTC ISO form, got %s", out)
	}

	var parsed struct {
		Count   int               `json:"count"`
		Results []json.RawMessage `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Report does not parse as JSON: %v", err)
	}
	if parsed.Count != 1 || len(parsed.Results) != 1 {
		t.Errorf("Expected count=1 with 1 result, got count=%d results=%d", parsed.Count, len(parsed.Results))
	}
}

func TestWriteBadgeReportJSONEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteBadgeReportJSON(&buf, nil, time.Now()); err != nil {
		t.Fatalf("WriteBadgeReportJSON() error = %v", err)
	}
	var parsed struct {
		Count   int   `json:"count"`
		Results []any `json:"results"`
	}
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Report does not parse as JSON: %v", err)
	}
	if parsed.Count != 0 || len(parsed.Results) != 0 {
		t.Errorf("Expected empty report, got count=%d results=%d", parsed.Count, len(parsed.Results))
	}
}
