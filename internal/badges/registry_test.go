package badges

import (
	"fmt"
	"strings"
	"testing"

	"course-meta/internal/domain"
)

func testClass(courseID string) domain.BadgeClass {
	return domain.BadgeClass{
		Slug:             "test_slug",
		IssuingComponent: "test_component",
		DisplayName:      "Test Badge",
		Description:      "Yay! It's a test badge.",
		Criteria:         "https://example.com/syllabus",
		Image:            "uploaded_badge.png",
		CourseID:         courseID,
	}
}

func assertionFor(user string, class domain.BadgeClass) domain.BadgeAssertion {
	return domain.BadgeAssertion{
		Username:     user,
		ImageURL:     "http://www.example.com/image.png",
		AssertionURL: "http://www.example.com/assertion.json",
		Class:        class,
	}
}

func TestForUser(t *testing.T) {
	r := NewRegistry()
	for i := 0; i < 3; i++ {
		r.Add(assertionFor("calle", testClass("")))
	}
	// Other users' badges should not be included.
	for i := 0; i < 3; i++ {
		r.Add(assertionFor(fmt.Sprintf("other-%d", i), testClass("")))
	}

	got := r.ForUser("calle")
	if len(got) != 3 {
		t.Errorf("ForUser() returned %d assertions, want 3", len(got))
	}
	for _, a := range got {
		if a.Username != "calle" {
			t.Errorf("ForUser() leaked assertion for %q", a.Username)
		}
	}
}

func TestForUserCourse(t *testing.T) {
	const courseID = "edX/DemoX.1/Fall_2014"
	scoped := testClass(courseID)

	r := NewRegistry()
	for i := 0; i < 3; i++ {
		r.Add(assertionFor("calle", scoped))
	}
	// Same user, different badges: not included.
	for i := 0; i < 5; i++ {
		r.Add(assertionFor("calle", testClass("")))
	}
	// Same class, other users: also not included.
	for i := 0; i < 6; i++ {
		r.Add(assertionFor(fmt.Sprintf("other-%d", i), scoped))
	}

	if got := r.ForUserCourse("calle", courseID); len(got) != 3 {
		t.Errorf("ForUserCourse() returned %d assertions, want 3", len(got))
	}
	if got := r.ForUserCourse("calle", "edX/Unused/Run"); len(got) != 0 {
		t.Errorf("ForUserCourse(unused course) returned %d assertions, want 0", len(got))
	}
}

func TestForUserClass(t *testing.T) {
	class := testClass("")

	r := NewRegistry()
	for i := 0; i < 3; i++ {
		r.Add(assertionFor("calle", class))
	}
	for i := 0; i < 5; i++ {
		r.Add(assertionFor(fmt.Sprintf("other-%d", i), class))
	}
	other := class
	other.Slug = "unused_slug"
	other.IssuingComponent = "unused_component"
	r.Add(assertionFor("calle", other))

	if got := r.ForUserClass("calle", class.IssuingComponent, class.Slug); len(got) != 3 {
		t.Errorf("ForUserClass() returned %d assertions, want 3", len(got))
	}
	if got := r.ForUserClass("calle", "unused_component", "unused_slug"); len(got) != 1 {
		t.Errorf("ForUserClass(unused class) returned %d assertions, want 1", len(got))
	}
}

func TestForUserClassEmptyIssuingComponent(t *testing.T) {
	platform := testClass("")
	platform.IssuingComponent = ""

	r := NewRegistry(
		assertionFor("calle", platform),
		assertionFor("calle", testClass("")),
	)

	got := r.ForUserClass("calle", "", platform.Slug)
	if len(got) != 1 {
		t.Fatalf("ForUserClass(empty component) returned %d assertions, want 1", len(got))
	}
	if got[0].Class.IssuingComponent != "" {
		t.Errorf("Expected the platform-issued badge, got component %q", got[0].Class.IssuingComponent)
	}
}

func TestDecodeAssertions(t *testing.T) {
	payload := `[
		{
			"user": "calle",
			"image_url": "http://www.example.com/image.png",
			"assertion_url": "http://www.example.com/assertion.json",
			"awarded": "2014-10-01T07:30:00Z",
			"badge_class": {
				"slug": "test_slug",
				"issuing_component": "test_component",
				"display_name": "Test Badge",
				"description": "Yay! It's a test badge.",
				"criteria": "https://example.com/syllabus",
				"image": "uploaded_badge.png",
				"course_id": "edX/DemoX.1/Fall_2014"
			}
		}
	]`

	got, err := DecodeAssertions(strings.NewReader(payload))
	if err != nil {
		t.Fatalf("DecodeAssertions() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("DecodeAssertions() returned %d assertions, want 1", len(got))
	}

	a := got[0]
	if a.Username != "calle" {
		t.Errorf("Username = %q, want %q", a.Username, "calle")
	}
	if a.Class.CourseID != "edX/DemoX.1/Fall_2014" {
		t.Errorf("CourseID = %q, want %q", a.Class.CourseID, "edX/DemoX.1/Fall_2014")
	}
	if a.Awarded.IsZero() {
		t.Error("Expected awarded timestamp to be parsed")
	}

	if _, err := DecodeAssertions(strings.NewReader("{not json")); err == nil {
		t.Error("Expected an error for malformed input")
	}
}
