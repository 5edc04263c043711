package domain

import "time"

// BadgeClass describes a kind of achievement that can be awarded.
// A class is identified by (IssuingComponent, Slug); IssuingComponent may be
// empty for badges issued by the platform itself.
type BadgeClass struct {
	Slug             string
	IssuingComponent string
	DisplayName      string
	Description      string
	Criteria         string
	Image            string

	// CourseID is the serialized course key the badge is scoped to,
	// empty for platform-wide badges.
	CourseID string
}

// BadgeAssertion records that a user earned a badge.
type BadgeAssertion struct {
	Username     string
	ImageURL     string
	AssertionURL string
	Awarded      time.Time
	Class        BadgeClass
}
