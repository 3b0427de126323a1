package download

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mdlmirror/mdlmirror/internal/db"
	"github.com/mdlmirror/mdlmirror/internal/fetch"
	"github.com/mdlmirror/mdlmirror/internal/models"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"slides.pdf", "slides.pdf"},
		{"week 1 notes.pdf", "week-1-notes.pdf"},
		{"lab_report_final.docx", "lab-report-final.docx"},
		{"über: résumé?.pdf", "ber-rsum.pdf"},
		{"a\tb\nc.txt", "a-b-c.txt"},
		{"already-safe.txt", "already-safe.txt"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeFilename(tt.in), "input %q", tt.in)
	}
}

func testDB(t *testing.T) *db.DB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(db.DefaultConfig(dbPath))
	if err != nil {
		t.Fatalf("failed to create test db: %v", err)
	}
	t.Cleanup(func() {
		if err := database.Close(); err != nil {
			t.Logf("Failed to close test database: %v", err)
		}
	})
	return database
}

// fileServer serves fixed bytes for any path and counts hits.
func fileServer(t *testing.T) (client *fetch.Client, baseURL string, hits *int) {
	t.Helper()

	count := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count++
		if r.URL.Path == "/broken.pdf" {
			http.Error(w, "gone", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte("file bytes"))
	}))
	t.Cleanup(srv.Close)

	return fetch.NewClient(srv.URL, "sekrit"), srv.URL, &count
}

// intoDir is a resolver sending every course to the same directory.
func intoDir(dir string) DirFor {
	return func(int64) string { return dir }
}

func seedAttachments(t *testing.T, database *db.DB, baseURL string) {
	t.Helper()
	now := time.Now().UTC()

	require.NoError(t, db.Upsert(database, &models.Section{SectionID: 1, Name: "Week 1", CourseID: 101, LastFetched: now}))
	require.NoError(t, db.Upsert(database, &models.Module{ModuleID: 10, Name: "Intro", SectionID: 1, LastFetched: now}))
	require.NoError(t, db.Upsert(database, &models.Content{
		Filename: "slides.pdf", FileURL: baseURL + "/slides.pdf", ModuleID: 10, LastFetched: now,
	}))

	page := models.Page{PageID: 100, CourseModule: 10, CourseID: 101, Name: "Reading", Content: "<p>c</p>"}
	_, err := database.SyncPage(&page, now)
	require.NoError(t, err)
	require.NoError(t, db.Upsert(database, &models.File{
		Filename: "a.pdf", FileURL: baseURL + "/a.pdf", PageID: 100, LastFetched: now,
	}))
}

func TestSweep_DownloadsAndRecordsPaths(t *testing.T) {
	database := testDB(t)
	client, base, _ := fileServer(t)
	seedAttachments(t, database, base)

	dir := t.TempDir()
	res, err := New(database, client).Sweep(context.Background(), intoDir(dir), nil)
	require.NoError(t, err)

	assert.Equal(t, 2, res.Downloaded)
	assert.Equal(t, 0, res.Skipped)
	assert.Equal(t, 0, res.Failed)

	data, err := os.ReadFile(filepath.Join(dir, "slides.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "file bytes", string(data))

	contents, err := database.AllContent()
	require.NoError(t, err)
	require.Len(t, contents, 1)
	require.NotNil(t, contents[0].LocalPath)
	assert.Equal(t, filepath.Join(dir, "slides.pdf"), *contents[0].LocalPath)

	files, err := database.AllFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.NotNil(t, files[0].LocalPath)
}

func TestSweep_SecondRunSkips(t *testing.T) {
	database := testDB(t)
	client, base, hits := fileServer(t)
	seedAttachments(t, database, base)

	dir := t.TempDir()
	downloader := New(database, client)
	_, err := downloader.Sweep(context.Background(), intoDir(dir), nil)
	require.NoError(t, err)
	firstHits := *hits

	res, err := downloader.Sweep(context.Background(), intoDir(dir), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Downloaded)
	assert.Equal(t, 2, res.Skipped)
	assert.Equal(t, firstHits, *hits, "second sweep must not refetch")
}

func TestSweep_RedownloadsWhenFileRemoved(t *testing.T) {
	database := testDB(t)
	client, base, _ := fileServer(t)
	seedAttachments(t, database, base)

	dir := t.TempDir()
	downloader := New(database, client)
	_, err := downloader.Sweep(context.Background(), intoDir(dir), nil)
	require.NoError(t, err)

	require.NoError(t, os.Remove(filepath.Join(dir, "slides.pdf")))

	res, err := downloader.Sweep(context.Background(), intoDir(dir), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Downloaded)
	assert.Equal(t, 1, res.Skipped)
}

func TestSweep_CountsFailuresWithoutAborting(t *testing.T) {
	database := testDB(t)
	client, base, _ := fileServer(t)
	now := time.Now().UTC()

	require.NoError(t, db.Upsert(database, &models.Section{SectionID: 1, Name: "Week 1", CourseID: 101, LastFetched: now}))
	require.NoError(t, db.Upsert(database, &models.Module{ModuleID: 10, Name: "Intro", SectionID: 1, LastFetched: now}))
	require.NoError(t, db.Upsert(database, &models.Content{
		Filename: "broken.pdf", FileURL: base + "/broken.pdf", ModuleID: 10, LastFetched: now,
	}))
	require.NoError(t, db.Upsert(database, &models.Content{
		Filename: "good.pdf", FileURL: base + "/good.pdf", ModuleID: 10, LastFetched: now,
	}))

	res, err := New(database, client).Sweep(context.Background(), intoDir(t.TempDir()), nil)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Downloaded)
	assert.Equal(t, 1, res.Failed)

	// The failed entry keeps no local path so the next sweep retries it.
	contents, err := database.AllContent()
	require.NoError(t, err)
	for _, c := range contents {
		if c.Filename == "broken.pdf" {
			assert.Nil(t, c.LocalPath)
		}
	}
}

func TestSweep_RoutesFilesByOwningCourse(t *testing.T) {
	database := testDB(t)
	client, base, _ := fileServer(t)
	now := time.Now().UTC()

	// Course 101 owns a module content, course 202 a page attachment.
	require.NoError(t, db.Upsert(database, &models.Section{SectionID: 1, Name: "Week 1", CourseID: 101, LastFetched: now}))
	require.NoError(t, db.Upsert(database, &models.Module{ModuleID: 10, Name: "Intro", SectionID: 1, LastFetched: now}))
	require.NoError(t, db.Upsert(database, &models.Content{
		Filename: "slides.pdf", FileURL: base + "/slides.pdf", ModuleID: 10, LastFetched: now,
	}))

	page := models.Page{PageID: 200, CourseModule: 20, CourseID: 202, Name: "Reading", Content: "<p>c</p>"}
	_, err := database.SyncPage(&page, now)
	require.NoError(t, err)
	require.NoError(t, db.Upsert(database, &models.File{
		Filename: "handout.pdf", FileURL: base + "/handout.pdf", PageID: 200, LastFetched: now,
	}))

	dirA := t.TempDir()
	dirB := t.TempDir()
	dirs := map[int64]string{101: dirA, 202: dirB}

	res, err := New(database, client).Sweep(context.Background(), func(courseID int64) string {
		return dirs[courseID]
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Downloaded)

	_, err = os.Stat(filepath.Join(dirA, "slides.pdf"))
	assert.NoError(t, err, "course 101 content belongs in course 101's directory")
	_, err = os.Stat(filepath.Join(dirB, "handout.pdf"))
	assert.NoError(t, err, "course 202 attachment belongs in course 202's directory")
	_, err = os.Stat(filepath.Join(dirA, "handout.pdf"))
	assert.True(t, os.IsNotExist(err), "course 202 attachment must not land in course 101's directory")

	contents, err := database.AllContent()
	require.NoError(t, err)
	require.Len(t, contents, 1)
	require.NotNil(t, contents[0].LocalPath)
	assert.Equal(t, filepath.Join(dirA, "slides.pdf"), *contents[0].LocalPath)

	files, err := database.AllFiles()
	require.NoError(t, err)
	require.Len(t, files, 1)
	require.NotNil(t, files[0].LocalPath)
	assert.Equal(t, filepath.Join(dirB, "handout.pdf"), *files[0].LocalPath)
}

func TestSweep_SkipsOrphanedRows(t *testing.T) {
	database := testDB(t)
	client, base, hits := fileServer(t)
	now := time.Now().UTC()

	// No module or section rows back this content, so its course cannot be
	// resolved.
	require.NoError(t, db.Upsert(database, &models.Content{
		Filename: "orphan.pdf", FileURL: base + "/orphan.pdf", ModuleID: 99, LastFetched: now,
	}))

	res, err := New(database, client).Sweep(context.Background(), intoDir(t.TempDir()), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Downloaded)
	assert.Equal(t, 1, res.Failed)
	assert.Equal(t, 0, *hits, "unresolvable rows must not be fetched")
}

func TestSweep_ReportsProgress(t *testing.T) {
	database := testDB(t)
	client, base, _ := fileServer(t)
	seedAttachments(t, database, base)

	var seen []string
	var lastDone, lastTotal int
	_, err := New(database, client).Sweep(context.Background(), intoDir(t.TempDir()), func(done, total int, name string) {
		seen = append(seen, name)
		lastDone, lastTotal = done, total
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"slides.pdf", "a.pdf"}, seen)
	assert.Equal(t, 2, lastDone)
	assert.Equal(t, 2, lastTotal)
}
