package domain

import (
	"fmt"
	"strings"
	"time"
)

// CourseKey identifies a course run inside the content-versioning store.
// Two serialized forms exist: the legacy "Org/Course/Run" form and the
// versioned "course-v1:Org+Course+Run" form. Both are opaque to consumers;
// formatting code should only ever look at String().
type CourseKey struct {
	Org    string
	Course string
	Run    string

	// Versioned selects the "course-v1:" serialized form.
	Versioned bool
}

func (k CourseKey) String() string {
	if k.Versioned {
		return fmt.Sprintf("course-v1:%s+%s+%s", k.Org, k.Course, k.Run)
	}
	return fmt.Sprintf("%s/%s/%s", k.Org, k.Course, k.Run)
}

// ParseCourseKey accepts both serialized forms.
func ParseCourseKey(s string) (CourseKey, error) {
	s = strings.TrimSpace(s)
	if rest, ok := strings.CutPrefix(s, "course-v1:"); ok {
		parts := strings.Split(rest, "+")
		if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
			return CourseKey{}, fmt.Errorf("domain: invalid course key %q", s)
		}
		return CourseKey{Org: parts[0], Course: parts[1], Run: parts[2], Versioned: true}, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 || parts[0] == "" || parts[1] == "" || parts[2] == "" {
		return CourseKey{}, fmt.Errorf("domain: invalid course key %q", s)
	}
	return CourseKey{Org: parts[0], Course: parts[1], Run: parts[2]}, nil
}

// Location is the hierarchical path of a content unit within a course.
// Name is the human-readable leaf unit name.
type Location struct {
	Org      string
	Course   string
	Run      string
	Category string
	Name     string
}

// CourseKey returns the key of the course run this location belongs to.
func (l Location) CourseKey() CourseKey {
	return CourseKey{Org: l.Org, Course: l.Course, Run: l.Run}
}

// CourseSnapshot is the read model handed out by the content-versioning
// store. The store owns and mutates course state; a snapshot is immutable
// for the duration of a call.
//
// A zero End means the course has no end date. An empty AdvertisedStart
// means no human-authored start override exists.
type CourseSnapshot struct {
	ID          CourseKey
	Location    Location
	DisplayName string

	Start           time.Time
	End             time.Time
	AdvertisedStart string

	CertificatesDisplayBehavior string
	CertificatesShowBeforeEnd   bool
}
