package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"course-meta/internal/concurrency"
	"course-meta/internal/config"
	"course-meta/internal/coursemeta"
	"course-meta/internal/domain"
	"course-meta/internal/export"
	"course-meta/internal/modulestore"
	"course-meta/internal/sftpclient"
)

func main() {
	var (
		inPath     = flag.String("in", "", "read course snapshots from a JSON file instead of the store")
		outPath    = flag.String("out", "COURSE-METADATA.csv", "output report path")
		format     = flag.String("format", "csv", "report format: csv or xml")
		formatSpec = flag.String("date-format", "SHORT_DATE", "date format spec: DATE_TIME, TIME, SHORT_DATE, LONG_DATE")
		pageSize   = flag.Int("page-size", 100, "page size when listing from the store")
		maxPages   = flag.Int("max-pages", 0, "max pages to fetch from the store (0 = all)")
		compress   = flag.Bool("brotli", false, "also write a brotli-compressed copy of the report")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated report via SFTP")
	)
	flag.Parse()

	rootCtx, rootCancel := context.WithTimeout(context.Background(), 2*time.Hour)
	defer rootCancel()

	cfg := config.Load()

	if dir := filepath.Dir(*outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	courses, err := loadCourses(rootCtx, cfg, *inPath, *pageSize, *maxPages)
	if err != nil {
		if len(courses) == 0 {
			log.Fatal(err)
		}
		log.Printf("WARN: partial snapshot load: %v (continuing with %d courses)", err, len(courses))
	}

	rows, errs := concurrency.ProcessParallel(rootCtx, courses, concurrency.DefaultOptions(),
		func(_ context.Context, _ int, c domain.CourseSnapshot) (export.MetadataRow, error) {
			return export.BuildMetadataRow(c, *formatSpec, noopTranslate, formatDatetime), nil
		})
	for _, err := range errs {
		log.Printf("WARN: %v", err)
	}

	switch strings.ToLower(*format) {
	case "csv":
		f, err := os.Create(*outPath)
		if err != nil {
			log.Fatal(err)
		}
		if err := export.WriteCourseMetadataCSV(f, rows); err != nil {
			f.Close()
			log.Fatal(err)
		}
		if err := f.Close(); err != nil {
			log.Fatal(err)
		}
	case "xml":
		if err := export.WriteCourseMetadataXML(*outPath, rows); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("unknown -format %q (want csv or xml)", *format)
	}

	log.Printf("wrote %d course rows to %s", len(rows), *outPath)

	shipPath := *outPath
	if *compress {
		brPath, err := export.CompressFile(*outPath)
		if err != nil {
			log.Fatal(err)
		}
		log.Printf("compressed report to %s", brPath)
		shipPath = brPath
	}

	if *uploadSFTP {
		upCfg := sftpclient.Config{
			Host:                  cfg.SFTPHost,
			Port:                  cfg.SFTPPort,
			User:                  cfg.SFTPUser,
			Pass:                  cfg.SFTPPass,
			RemoteDir:             cfg.SFTPDir,
			InsecureIgnoreHostKey: cfg.SFTPInsecureIgnoreHostKey,
		}

		upCtx, upCancel := context.WithTimeout(rootCtx, 5*time.Minute)
		defer upCancel()

		remoteName := filepath.Base(shipPath)
		if err := sftpclient.UploadFile(upCtx, upCfg, shipPath, remoteName); err != nil {
			log.Fatal(err)
		}
		log.Printf("uploaded to sftp://%s:%d%s/%s", upCfg.Host, upCfg.Port, upCfg.RemoteDir, remoteName)
	}
}

func loadCourses(ctx context.Context, cfg config.Config, inPath string, pageSize, maxPages int) ([]domain.CourseSnapshot, error) {
	if inPath != "" {
		f, err := os.Open(inPath)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return modulestore.DecodeSnapshots(f)
	}

	store := modulestore.New(cfg.StoreBaseURL, cfg.StoreToken)
	return store.ListCourses(ctx, pageSize, maxPages)
}

// datetimeLayouts maps the report's format specs to layouts. The specs mirror
// what the host rendering environment understands.
var datetimeLayouts = map[string]string{
	"DATE_TIME":  "Jan 02, 2006 at 15:04",
	"TIME":       "15:04",
	"SHORT_DATE": "Jan 02, 2006",
	"LONG_DATE":  "Monday, January 02, 2006",
}

// formatDatetime renders t (in UTC) per the given format spec. Years before
// 1900 are outside the supported formatting range and are rejected so the
// caller's Title-Case fallback kicks in.
func formatDatetime(t time.Time, formatSpec string) (string, error) {
	layout, ok := datetimeLayouts[formatSpec]
	if !ok {
		return "", fmt.Errorf("invalid format spec %q", formatSpec)
	}
	if t.Year() < 1900 {
		return "", fmt.Errorf("year %d out of formatting range", t.Year())
	}
	return t.UTC().Format(layout), nil
}

var _ coursemeta.FormatFunc = formatDatetime

func noopTranslate(s string) string { return s }
