package coursemeta

import (
	"encoding/base32"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"course-meta/internal/domain"
)

// DefaultStartDate is the placeholder start assigned to a course whose real
// start date has not been set yet.
var DefaultStartDate = time.Date(2030, time.January, 1, 0, 0, 0, 0, time.UTC)

// FormatFunc renders a datetime according to a format spec such as
// "DATE_TIME" or "SHORT_DATE". It is supplied by the host environment
// (locale-aware); an error means the spec is unknown or the datetime is
// outside the range the formatter supports.
type FormatFunc func(t time.Time, formatSpec string) (string, error)

// TranslateFunc localizes a literal string. Supplied by the caller.
type TranslateFunc func(s string) string

// CleanCourseKey encodes a course key into a filesystem/URL-safe token:
// "course_" + base32 of the serialized key, with the trailing '=' padding
// replaced by pad.
func CleanCourseKey(key domain.CourseKey, pad byte) string {
	enc := base32.StdEncoding.EncodeToString([]byte(key.String()))
	if pad != '=' {
		enc = strings.ReplaceAll(enc, "=", string(pad))
	}
	return "course_" + enc
}

// URLNameForLocation returns the leaf unit name of a location path.
func URLNameForLocation(loc domain.Location) string {
	return loc.Name
}

// NumberForLocation returns the course-code segment of a location path.
func NumberForLocation(loc domain.Location) string {
	return loc.Course
}

// DisplayNameWithDefault returns the course display name, or "Empty" when
// it is unset or blank.
func DisplayNameWithDefault(c domain.CourseSnapshot) string {
	if strings.TrimSpace(c.DisplayName) == "" {
		return "Empty"
	}
	return c.DisplayName
}

// DisplayNameWithDefaultEscaped is DisplayNameWithDefault with angle
// brackets and ampersands escaped for embedding in markup.
func DisplayNameWithDefaultEscaped(c domain.CourseSnapshot) string {
	return escapeMarkup(DisplayNameWithDefault(c))
}

func escapeMarkup(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// HasCourseStarted reports whether start is strictly in the past.
func HasCourseStarted(start time.Time) bool {
	return start.Before(time.Now().UTC())
}

// HasCourseEnded reports whether end is set and strictly in the past.
// A zero end time never counts as ended.
func HasCourseEnded(end time.Time) bool {
	return !end.IsZero() && end.Before(time.Now().UTC())
}

// IsDefaultStartDate reports whether the course still carries the
// placeholder start: no advertised start is set and the actual start equals
// DefaultStartDate. An explicit advertised start or a real start time each
// override the default classification on their own.
func IsDefaultStartDate(start time.Time, advertisedStart string) bool {
	return strings.TrimSpace(advertisedStart) == "" && start.Equal(DefaultStartDate)
}

// StartDateText renders the start date a learner should see.
//
// A parsable advertised start wins: it is formatted through format and
// suffixed with " UTC". If the advertised start cannot be parsed, or format
// rejects the parsed value, the advertised text itself is returned in Title
// Case. Without an advertised start, the actual start is formatted, except
// that the placeholder start renders as the localized "TBD".
//
// This function never fails; every error path has a text fallback.
func StartDateText(start time.Time, advertisedStart, formatSpec string, translate TranslateFunc, format FormatFunc) string {
	if adv := strings.TrimSpace(advertisedStart); adv != "" {
		if parsed, err := ParseAdvertisedStart(adv); err == nil {
			if s, ferr := format(parsed, formatSpec); ferr == nil {
				return s + " UTC"
			}
		}
		return titleCase(adv)
	}
	if start.Equal(DefaultStartDate) {
		return translate("TBD")
	}
	s, err := format(start, formatSpec)
	if err != nil {
		return ""
	}
	return s
}

// EndDateText renders the end date, or "" when the course has no end date.
func EndDateText(end time.Time, formatSpec string, format FormatFunc) string {
	if end.IsZero() {
		return ""
	}
	s, err := format(end, formatSpec)
	if err != nil {
		return ""
	}
	return s + " UTC"
}

// MayCertify reports whether certificates may be issued for a course.
// Eligibility keys off the display behavior and the end state; the
// show-before-end flag is accepted for interface compatibility but not
// consulted.
func MayCertify(certificatesDisplayBehavior string, certificatesShowBeforeEnd, hasEnded bool) bool {
	switch certificatesDisplayBehavior {
	case "early_with_info", "early_no_info":
		return true
	case "end":
		return hasEnded
	}
	return false
}

// advertisedStartLayouts are the accepted spellings of a human-authored
// start override. Zone-less values are read as UTC.
var advertisedStartLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.RFC3339,
	"2006-01-02",
}

// ParseAdvertisedStart parses a free-text advertised start date.
func ParseAdvertisedStart(s string) (time.Time, error) {
	var lastErr error
	for _, layout := range advertisedStartLayouts {
		t, err := time.ParseInLocation(layout, s, time.UTC)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

func titleCase(s string) string {
	return cases.Title(language.English).String(s)
}
