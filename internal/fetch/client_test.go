package fetch

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// wsServer serves the web-service endpoint, dispatching on wsfunction and
// recording the query of the last request.
func wsServer(t *testing.T, replies map[string]string) (*Client, *url.Values) {
	t.Helper()

	var lastQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/webservice/rest/server.php" {
			http.NotFound(w, r)
			return
		}
		lastQuery = r.URL.Query()
		reply, ok := replies[lastQuery.Get("wsfunction")]
		if !ok {
			reply = `{"exception":"webservice_access_exception","errorcode":"accessexception","message":"Access control exception"}`
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)

	return NewClient(srv.URL, "sekrit"), &lastQuery
}

func TestCall_SendsProtocolParams(t *testing.T) {
	client, lastQuery := wsServer(t, map[string]string{
		"core_course_get_contents": `[]`,
	})

	_, err := client.CourseContents(context.Background(), 101)
	require.NoError(t, err)

	assert.Equal(t, "sekrit", lastQuery.Get("wstoken"))
	assert.Equal(t, "core_course_get_contents", lastQuery.Get("wsfunction"))
	assert.Equal(t, "json", lastQuery.Get("moodlewsrestformat"))
	assert.Equal(t, "101", lastQuery.Get("courseid"))
}

func TestCourseContents_Decodes(t *testing.T) {
	client, _ := wsServer(t, map[string]string{
		"core_course_get_contents": `[
			{"id":1,"name":"Week 1","summary":"<p>s</p>","modules":[
				{"id":10,"name":"Intro","modname":"resource","contents":[
					{"type":"file","filename":"slides.pdf","fileurl":"http://x/slides.pdf"}
				]}
			]}
		]`,
	})

	sections, err := client.CourseContents(context.Background(), 101)
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Len(t, sections[0].Modules, 1)
	require.Len(t, sections[0].Modules[0].Contents, 1)
	assert.Equal(t, "slides.pdf", sections[0].Modules[0].Contents[0].Filename)
}

func TestCoursePages_Decodes(t *testing.T) {
	client, _ := wsServer(t, map[string]string{
		"mod_page_get_pages_by_courses": `{"pages":[
			{"id":100,"coursemodule":11,"course":101,"name":"Reading list","content":"<p>c</p>",
			 "introfiles":[{"filename":"intro.pdf","fileurl":"http://x/intro.pdf"}],
			 "contentfiles":[]}
		]}`,
	})

	pages, err := client.CoursePages(context.Background())
	require.NoError(t, err)
	require.Len(t, pages.Pages, 1)
	assert.Equal(t, int64(11), pages.Pages[0].CourseModule)
	assert.Len(t, pages.Pages[0].IntroFiles, 1)
}

func TestCall_ErrorEnvelopeAtStatusOK(t *testing.T) {
	client, _ := wsServer(t, map[string]string{
		"core_webservice_get_site_info": `{"exception":"moodle_exception","errorcode":"invalidtoken","message":"Invalid token"}`,
	})

	_, err := client.SiteInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Invalid token")
	assert.Contains(t, err.Error(), "invalidtoken")
}

func TestCall_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "down for maintenance", http.StatusServiceUnavailable)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "sekrit")
	_, err := client.SiteInfo(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

func TestCall_ContextCancelled(t *testing.T) {
	client, _ := wsServer(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.SiteInfo(ctx)
	assert.Error(t, err)
}

func TestDownloadFile_AppendsToken(t *testing.T) {
	var gotToken string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.URL.Query().Get("token")
		_, _ = w.Write([]byte("pdf bytes"))
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "sekrit")
	var buf bytes.Buffer
	err := client.DownloadFile(context.Background(), srv.URL+"/pluginfile.php/1/slides.pdf?forcedownload=1", &buf)
	require.NoError(t, err)

	assert.Equal(t, "sekrit", gotToken)
	assert.Equal(t, "pdf bytes", buf.String())
}

func TestDownloadFile_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)

	client := NewClient(srv.URL, "sekrit")
	var buf bytes.Buffer
	err := client.DownloadFile(context.Background(), srv.URL+"/missing.pdf", &buf)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}
