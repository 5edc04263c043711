package modulestore

import (
	"fmt"
	"time"

	"course-meta/internal/domain"
)

/* -------- read API wire types -------- */

type courseListResponse struct {
	Results []courseJSON `json:"results"`
	Next    string       `json:"next"`
	Count   int          `json:"count"`
}

type courseJSON struct {
	ID          string `json:"id"`
	Org         string `json:"org"`
	Course      string `json:"course"`
	Run         string `json:"run"`
	DisplayName string `json:"display_name"`

	Start           string `json:"start"`
	End             string `json:"end"`
	AdvertisedStart string `json:"advertised_start"`

	CertificatesDisplayBehavior string `json:"certificates_display_behavior"`
	CertificatesShowBeforeEnd   bool   `json:"certificates_show_before_end"`

	Location struct {
		Category string `json:"category"`
		Name     string `json:"name"`
	} `json:"location"`
}

func (c courseJSON) toSnapshot() (domain.CourseSnapshot, error) {
	key, err := domain.ParseCourseKey(c.ID)
	if err != nil {
		// Fall back to the identity triple when no serialized id was sent.
		if c.Org == "" || c.Course == "" || c.Run == "" {
			return domain.CourseSnapshot{}, err
		}
		key = domain.CourseKey{Org: c.Org, Course: c.Course, Run: c.Run}
	}

	start, err := parseStoreTime(c.Start)
	if err != nil {
		return domain.CourseSnapshot{}, fmt.Errorf("modulestore: course %s: bad start: %w", c.ID, err)
	}
	end, err := parseStoreTime(c.End)
	if err != nil {
		return domain.CourseSnapshot{}, fmt.Errorf("modulestore: course %s: bad end: %w", c.ID, err)
	}

	return domain.CourseSnapshot{
		ID: key,
		Location: domain.Location{
			Org:      key.Org,
			Course:   key.Course,
			Run:      key.Run,
			Category: c.Location.Category,
			Name:     c.Location.Name,
		},
		DisplayName:                 c.DisplayName,
		Start:                       start,
		End:                         end,
		AdvertisedStart:             c.AdvertisedStart,
		CertificatesDisplayBehavior: c.CertificatesDisplayBehavior,
		CertificatesShowBeforeEnd:   c.CertificatesShowBeforeEnd,
	}, nil
}

// parseStoreTime reads the store's timestamp spellings. Zone-less values are
// read as UTC. Empty means unset and maps to the zero time.
func parseStoreTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}
