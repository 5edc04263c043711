package export

import (
	"fmt"
	"io"
	"time"

	"course-meta/internal/domain"
	"course-meta/internal/trackenc"
)

// WriteBadgeReportJSON writes a badge assertion report. Serialization goes
// through trackenc so timestamps come out as UTC ISO-8601 and legacy
// Latin-1 text in assertion fields is repaired instead of failing the
// render. Each entry map is repaired individually because the repair walk
// does not descend into slices.
func WriteBadgeReportJSON(w io.Writer, assertions []domain.BadgeAssertion, generatedAt time.Time) error {
	results := make([]any, 0, len(assertions))
	for _, a := range assertions {
		entry := map[string]any{
			"user":          a.Username,
			"image_url":     a.ImageURL,
			"assertion_url": a.AssertionURL,
			"badge_class": map[string]any{
				"slug":              a.Class.Slug,
				"issuing_component": a.Class.IssuingComponent,
				"display_name":      a.Class.DisplayName,
				"description":       a.Class.Description,
				"criteria":          a.Class.Criteria,
				"image":             a.Class.Image,
				"course_id":         a.Class.CourseID,
			},
		}
		if !a.Awarded.IsZero() {
			entry["awarded"] = a.Awarded
		}
		trackenc.RepairLatin1(entry)
		results = append(results, entry)
	}

	report := map[string]any{
		"generated_at": generatedAt,
		"count":        len(assertions),
		"results":      results,
	}

	b, err := trackenc.MarshalRepaired(report)
	if err != nil {
		return fmt.Errorf("export: badge report: %w", err)
	}
	if _, err := w.Write(append(b, '\n')); err != nil {
		return fmt.Errorf("export: write badge report: %w", err)
	}
	return nil
}
