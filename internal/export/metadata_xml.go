package export

import (
	"encoding/xml"
	"fmt"
	"os"
)

/*
Course metadata XML shape:

<Course_Report_List>
  <Course>
    <course_key>edX/DemoX.1/Fall_2014</course_key>
    <course_token>course_MVSFQL2E...</course_token>
    <url_name>...</url_name>
    <number>DemoX.1</number>
    <display_name>...</display_name>
    <start_text>...</start_text>
    <end_text>...</end_text>
    <has_started>true</has_started>
    <has_ended>true</has_ended>
    <default_start>false</default_start>
    <may_certify>true</may_certify>
  </Course>
</Course_Report_List>
*/

type courseReportList struct {
	XMLName xml.Name          `xml:"Course_Report_List"`
	Courses []courseReportRow `xml:"Course"`
}

type courseReportRow struct {
	CourseKey    string `xml:"course_key"`
	Token        string `xml:"course_token"`
	URLName      string `xml:"url_name,omitempty"`
	Number       string `xml:"number,omitempty"`
	DisplayName  string `xml:"display_name,omitempty"`
	StartText    string `xml:"start_text,omitempty"`
	EndText      string `xml:"end_text,omitempty"`
	HasStarted   bool   `xml:"has_started"`
	HasEnded     bool   `xml:"has_ended"`
	DefaultStart bool   `xml:"default_start"`
	MayCertify   bool   `xml:"may_certify"`
}

// WriteCourseMetadataXML writes the metadata report as a single XML file.
func WriteCourseMetadataXML(outPath string, rows []MetadataRow) error {
	out := courseReportList{
		Courses: make([]courseReportRow, 0, len(rows)),
	}
	for _, r := range rows {
		out.Courses = append(out.Courses, courseReportRow{
			CourseKey:    r.CourseKey,
			Token:        r.Token,
			URLName:      r.URLName,
			Number:       r.Number,
			DisplayName:  r.DisplayName,
			StartText:    r.StartText,
			EndText:      r.EndText,
			HasStarted:   r.HasStarted,
			HasEnded:     r.HasEnded,
			DefaultStart: r.DefaultStart,
			MayCertify:   r.MayCertify,
		})
	}

	b, err := xml.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("export: marshal xml: %w", err)
	}
	if err := os.WriteFile(outPath, append([]byte(xml.Header), b...), 0o644); err != nil {
		return fmt.Errorf("export: write xml: %w", err)
	}
	return nil
}
