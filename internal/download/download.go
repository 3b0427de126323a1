// Package download fetches stored attachments to disk and records their
// local paths. It is a collaborator of the sync core: the store only learns
// the resulting path, never the bytes.
package download

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/mdlmirror/mdlmirror/internal/db"
	"github.com/mdlmirror/mdlmirror/internal/fetch"
)

var (
	unsafeChars     = regexp.MustCompile(`[^\w.\- ]`)
	spacesAndScores = regexp.MustCompile(`[\s_]+`)
)

// SanitizeFilename makes a remote filename safe for the local filesystem:
// unsafe characters removed, whitespace and underscore runs folded to a
// single dash.
func SanitizeFilename(name string) string {
	cleaned := unsafeChars.ReplaceAllString(name, "")
	return spacesAndScores.ReplaceAllString(cleaned, "-")
}

// Downloader sweeps the store for attachments and fetches the missing ones.
type Downloader struct {
	db     *db.DB
	client *fetch.Client
}

// New creates a Downloader.
func New(database *db.DB, client *fetch.Client) *Downloader {
	return &Downloader{db: database, client: client}
}

// Result summarizes one download sweep.
type Result struct {
	Downloaded int
	Skipped    int
	Failed     int
}

// Progress is invoked once per attachment with the running position.
type Progress func(done, total int, name string)

// DirFor resolves the download directory for one course.
type DirFor func(courseID int64) string

// Sweep downloads every stored module content and page attachment that has
// no recorded local path yet. Each attachment lands in its owning course's
// directory: contents resolve their course through their module's section,
// page attachments through their page. Individual download failures, and
// attachments whose parent rows are missing, are counted and skipped; they
// do not abort the sweep.
func (d *Downloader) Sweep(ctx context.Context, dirFor DirFor, progress Progress) (*Result, error) {
	contents, err := d.db.AllContent()
	if err != nil {
		return nil, err
	}
	files, err := d.db.AllFiles()
	if err != nil {
		return nil, err
	}

	total := len(contents) + len(files)
	res := &Result{}
	pos := 0

	for _, c := range contents {
		pos++
		if progress != nil {
			progress(pos, total, c.Filename)
		}
		if alreadyDownloaded(c.LocalPath) {
			res.Skipped++
			continue
		}
		courseID, err := d.db.CourseOfModule(c.ModuleID)
		if err != nil {
			res.Failed++
			continue
		}
		path, err := d.fetchOne(ctx, dirFor(courseID), c.Filename, c.FileURL)
		if err != nil {
			res.Failed++
			continue
		}
		if err := d.db.SetContentLocalPath(c.Filename, c.FileURL, c.ModuleID, path); err != nil {
			return res, err
		}
		res.Downloaded++
	}

	for _, f := range files {
		pos++
		if progress != nil {
			progress(pos, total, f.Filename)
		}
		if alreadyDownloaded(f.LocalPath) {
			res.Skipped++
			continue
		}
		courseID, err := d.db.CourseOfPage(f.PageID)
		if err != nil {
			res.Failed++
			continue
		}
		path, err := d.fetchOne(ctx, dirFor(courseID), f.Filename, f.FileURL)
		if err != nil {
			res.Failed++
			continue
		}
		if err := d.db.SetFileLocalPath(f.Filename, f.PageID, path); err != nil {
			return res, err
		}
		res.Downloaded++
	}

	return res, nil
}

func alreadyDownloaded(localPath *string) bool {
	if localPath == nil || *localPath == "" {
		return false
	}
	_, err := os.Stat(*localPath)
	return err == nil
}

// fetchOne downloads a single file into targetDir and returns its path.
func (d *Downloader) fetchOne(ctx context.Context, targetDir, filename, fileURL string) (string, error) {
	if err := os.MkdirAll(targetDir, 0755); err != nil {
		return "", fmt.Errorf("create download directory: %w", err)
	}
	path := filepath.Join(targetDir, SanitizeFilename(filename))

	out, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", path, err)
	}
	if err := d.client.DownloadFile(ctx, fileURL, out); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", path, err)
	}
	return path, nil
}
