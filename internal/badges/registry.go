package badges

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"
	"time"

	"course-meta/internal/domain"
)

// Registry is an in-memory index of badge assertions. It supports the three
// lookups the achievements surface needs: all badges of a user, a user's
// badges within a course, and a user's badges of one badge class.
type Registry struct {
	mu         sync.RWMutex
	assertions []domain.BadgeAssertion
}

func NewRegistry(assertions ...domain.BadgeAssertion) *Registry {
	r := &Registry{}
	r.assertions = append(r.assertions, assertions...)
	return r
}

func (r *Registry) Add(a domain.BadgeAssertion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.assertions = append(r.assertions, a)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.assertions)
}

// ForUser returns every assertion earned by username.
func (r *Registry) ForUser(username string) []domain.BadgeAssertion {
	return r.filter(func(a domain.BadgeAssertion) bool {
		return a.Username == username
	})
}

// ForUserCourse returns username's assertions whose badge class is scoped to
// the given serialized course key.
func (r *Registry) ForUserCourse(username, courseID string) []domain.BadgeAssertion {
	return r.filter(func(a domain.BadgeAssertion) bool {
		return a.Username == username && a.Class.CourseID == courseID
	})
}

// ForUserClass returns username's assertions of one badge class. An empty
// issuing component is a valid class identity, not a wildcard.
func (r *Registry) ForUserClass(username, issuingComponent, slug string) []domain.BadgeAssertion {
	return r.filter(func(a domain.BadgeAssertion) bool {
		return a.Username == username &&
			a.Class.IssuingComponent == issuingComponent &&
			a.Class.Slug == slug
	})
}

func (r *Registry) filter(keep func(domain.BadgeAssertion) bool) []domain.BadgeAssertion {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.BadgeAssertion, 0, len(r.assertions))
	for _, a := range r.assertions {
		if keep(a) {
			out = append(out, a)
		}
	}
	return out
}

/* -------- wire format -------- */

type assertionJSON struct {
	User         string         `json:"user"`
	ImageURL     string         `json:"image_url"`
	AssertionURL string         `json:"assertion_url"`
	Awarded      string         `json:"awarded,omitempty"`
	BadgeClass   badgeClassJSON `json:"badge_class"`
}

type badgeClassJSON struct {
	Slug             string `json:"slug"`
	IssuingComponent string `json:"issuing_component"`
	DisplayName      string `json:"display_name"`
	Description      string `json:"description"`
	Criteria         string `json:"criteria"`
	Image            string `json:"image"`
	CourseID         string `json:"course_id"`
}

// DecodeAssertions reads a JSON array of badge assertions.
func DecodeAssertions(r io.Reader) ([]domain.BadgeAssertion, error) {
	var raw []assertionJSON
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, fmt.Errorf("badges: decode assertions: %w", err)
	}

	out := make([]domain.BadgeAssertion, 0, len(raw))
	for _, a := range raw {
		awarded, err := parseAwarded(a.Awarded)
		if err != nil {
			return nil, fmt.Errorf("badges: assertion for %q: %w", a.User, err)
		}
		out = append(out, domain.BadgeAssertion{
			Username:     a.User,
			ImageURL:     a.ImageURL,
			AssertionURL: a.AssertionURL,
			Awarded:      awarded,
			Class: domain.BadgeClass{
				Slug:             a.BadgeClass.Slug,
				IssuingComponent: a.BadgeClass.IssuingComponent,
				DisplayName:      a.BadgeClass.DisplayName,
				Description:      a.BadgeClass.Description,
				Criteria:         a.BadgeClass.Criteria,
				Image:            a.BadgeClass.Image,
				CourseID:         a.BadgeClass.CourseID,
			},
		})
	}
	return out, nil
}

func parseAwarded(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid awarded timestamp %q", s)
}
