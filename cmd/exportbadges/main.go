package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"course-meta/internal/badges"
	"course-meta/internal/config"
	"course-meta/internal/domain"
	"course-meta/internal/export"
	"course-meta/internal/sftpclient"
)

func main() {
	var (
		inPath     = flag.String("in", "assertions.json", "badge assertions JSON file")
		outPath    = flag.String("out", "BADGE-REPORT.json", "output report path")
		user       = flag.String("user", "", "username to report on (required)")
		courseID   = flag.String("course", "", "restrict to badges of one serialized course key")
		component  = flag.String("component", "", "restrict to one badge class: issuing component (may be empty, use with -slug)")
		slug       = flag.String("slug", "", "restrict to one badge class: slug")
		compress   = flag.Bool("brotli", false, "also write a brotli-compressed copy of the report")
		uploadSFTP = flag.Bool("sftp", false, "upload the generated report via SFTP")
	)
	flag.Parse()

	if *user == "" {
		log.Fatal("missing required -user")
	}
	if *courseID != "" && *slug != "" {
		log.Fatal("-course and -slug are mutually exclusive")
	}

	rootCtx, rootCancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer rootCancel()

	cfg := config.Load()

	f, err := os.Open(*inPath)
	if err != nil {
		log.Fatal(err)
	}
	all, err := badges.DecodeAssertions(f)
	f.Close()
	if err != nil {
		log.Fatal(err)
	}

	registry := badges.NewRegistry(all...)
	selected := selectAssertions(registry, *user, *courseID, *slug, *component)

	if dir := filepath.Dir(*outPath); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.Fatal(err)
		}
	}

	out, err := os.Create(*outPath)
	if err != nil {
		log.Fatal(err)
	}
	if err := export.WriteBadgeReportJSON(out, selected, time.Now()); err != nil {
		out.Close()
		log.Fatal(err)
	}
	if err := out.Close(); err != nil {
		log.Fatal(err)
	}

	log.Printf("wrote %d of %d assertions to %s (user=%s)", len(selected), registry.Len(), *outPath, *user)

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

// selectAssertions picks the registry view matching the flags: by class when
// a slug is given (an empty component is a valid class identity), by course
// when a course key is given, otherwise all of the user's badges.
func selectAssertions(r *badges.Registry, user, courseID, slug, component string) []domain.BadgeAssertion {
	switch {
	case slug != "":
		return r.ForUserClass(user, component, slug)
	case courseID != "":
		return r.ForUserCourse(user, courseID)
	default:
		return r.ForUser(user)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "usage: exportbadges -user <username> [-course KEY | -component C -slug S] [-in FILE] [-out FILE]\n")
	flag.PrintDefaults()
}

func init() {
	flag.Usage = usage
}
