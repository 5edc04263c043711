package export

import (
	"encoding/xml"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteCourseMetadataXML(t *testing.T) {
	rows := []MetadataRow{
		{
			CourseKey:   "edX/DemoX.1/Fall_2014",
			Token:       "course_MVSFQL2EMVWW6WBOGEXUMYLMNRPTEMBRGQ======",
			URLName:     "Fall_2014",
			Number:      "DemoX.1",
			DisplayName: "Empty",
			StartText:   "SHORT_DATE 2014-09-01 00:00:00",
			EndText:     "SHORT_DATE 2014-12-15 00:00:00 UTC",
			HasStarted:  true,
			HasEnded:    true,
			MayCertify:  true,
		},
	}

	outPath := filepath.Join(t.TempDir(), "metadata.xml")
	if err := WriteCourseMetadataXML(outPath, rows); err != nil {
		t.Fatalf("WriteCourseMetadataXML() error = %v", err)
	}

	content, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("Failed to read generated XML: %v", err)
	}

	s := string(content)
	if !strings.HasPrefix(s, xml.Header) {
		t.Error("Expected XML declaration header")
	}
	if !strings.Contains(s, "<Course_Report_List>") {
		t.Error("Missing report list root element")
	}
	if !strings.Contains(s, "<course_key>edX/DemoX.1/Fall_2014</course_key>") {
		t.Error("Missing course key element")
	}
	if !strings.Contains(s, "<may_certify>true</may_certify>") {
		t.Error("Missing may_certify element")
	}

	// Round trip back through the same shape.
	var parsed courseReportList
	if err := xml.Unmarshal(content, &parsed); err != nil {
		t.Fatalf("Generated XML does not parse: %v", err)
	}
	if len(parsed.Courses) != 1 {
		t.Fatalf("Expected 1 course in parsed XML, got %d", len(parsed.Courses))
	}
	if parsed.Courses[0].Number != "DemoX.1" {
		t.Errorf("Parsed number = %q, want %q", parsed.Courses[0].Number, "DemoX.1")
	}
}
