package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"course-meta/internal/coursemeta"
	"course-meta/internal/domain"
)

// Course metadata report template. Keep header order EXACT; the downstream
// loader matches columns by position.
var metadataHeader = []string{
	"COURSE_KEY",
	"COURSE_TOKEN",
	"URL_NAME",
	"NUMBER",
	"DISPLAY_NAME",
	"START_TEXT",
	"END_TEXT",
	"HAS_STARTED",
	"HAS_ENDED",
	"DEFAULT_START",
	"MAY_CERTIFY",
}

// MetadataRow is one rendered line of the course metadata report.
type MetadataRow struct {
	CourseKey    string
	Token        string
	URLName      string
	Number       string
	DisplayName  string
	StartText    string
	EndText      string
	HasStarted   bool
	HasEnded     bool
	DefaultStart bool
	MayCertify   bool
}

// BuildMetadataRow derives every report column from a course snapshot.
// Rendering never fails; unset fields fall back to their defined defaults.
func BuildMetadataRow(
	c domain.CourseSnapshot,
	formatSpec string,
	translate coursemeta.TranslateFunc,
	format coursemeta.FormatFunc,
) MetadataRow {
	ended := coursemeta.HasCourseEnded(c.End)

	return MetadataRow{
		CourseKey:    c.ID.String(),
		Token:        coursemeta.CleanCourseKey(c.ID, '='),
		URLName:      coursemeta.URLNameForLocation(c.Location),
		Number:       coursemeta.NumberForLocation(c.Location),
		DisplayName:  coursemeta.DisplayNameWithDefaultEscaped(c),
		StartText:    coursemeta.StartDateText(c.Start, c.AdvertisedStart, formatSpec, translate, format),
		EndText:      coursemeta.EndDateText(c.End, formatSpec, format),
		HasStarted:   coursemeta.HasCourseStarted(c.Start),
		HasEnded:     ended,
		DefaultStart: coursemeta.IsDefaultStartDate(c.Start, c.AdvertisedStart),
		MayCertify:   coursemeta.MayCertify(c.CertificatesDisplayBehavior, c.CertificatesShowBeforeEnd, ended),
	}
}

// WriteCourseMetadataCSV writes the metadata report in CSV form.
func WriteCourseMetadataCSV(w io.Writer, rows []MetadataRow) error {
	cw := csv.NewWriter(w)
	// match typical loader templates
	cw.UseCRLF = true

	if err := cw.Write(metadataHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.CourseKey,
			r.Token,
			r.URLName,
			r.Number,
			r.DisplayName,
			r.StartText,
			r.EndText,
			strconv.FormatBool(r.HasStarted),
			strconv.FormatBool(r.HasEnded),
			strconv.FormatBool(r.DefaultStart),
			strconv.FormatBool(r.MayCertify),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
