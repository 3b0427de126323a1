// Package fetch talks to the remote LMS web-service API. It is a collaborator
// of the sync core: it produces DTOs and streams file bytes, nothing else.
package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/mdlmirror/mdlmirror/internal/models"
)

const (
	// RequestsPerMinute caps web-service calls so a full multi-course fetch
	// stays polite toward the remote.
	RequestsPerMinute = 30

	defaultTimeout = 30 * time.Second
)

// Client is a rate-limited client for the LMS REST web service.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	limiter *rate.Limiter
}

// NewClient creates a Client for the given site. baseURL is the site root
// (e.g. https://moodle.example.edu); the web-service endpoint path is
// appended per call.
func NewClient(baseURL, token string) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		http:    &http.Client{Timeout: defaultTimeout},
		limiter: rate.NewLimiter(rate.Every(time.Minute/RequestsPerMinute), RequestsPerMinute),
	}
}

// apiError is the error envelope the web service returns instead of the
// requested payload.
type apiError struct {
	Exception string `json:"exception"`
	ErrorCode string `json:"errorcode"`
	Message   string `json:"message"`
}

// call performs one web-service function invocation and decodes the reply
// into out.
func (c *Client) call(ctx context.Context, wsfunction string, params url.Values, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	q := url.Values{}
	q.Set("wstoken", c.token)
	q.Set("wsfunction", wsfunction)
	q.Set("moodlewsrestformat", "json")
	for k, vs := range params {
		for _, v := range vs {
			q.Add(k, v)
		}
	}

	endpoint := c.baseURL + "/webservice/rest/server.php?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build request for %s: %w", wsfunction, err)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("call %s: %w", wsfunction, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("call %s: unexpected status %s", wsfunction, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read %s reply: %w", wsfunction, err)
	}

	// The service reports failures as a JSON error envelope with status 200.
	var apiErr apiError
	if err := json.Unmarshal(body, &apiErr); err == nil && apiErr.Exception != "" {
		return fmt.Errorf("call %s: %s (%s)", wsfunction, apiErr.Message, apiErr.ErrorCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode %s reply: %w", wsfunction, err)
	}
	return nil
}

// CourseContents fetches a course's section tree.
func (c *Client) CourseContents(ctx context.Context, courseID int64) ([]models.SectionDTO, error) {
	params := url.Values{}
	params.Set("courseid", strconv.FormatInt(courseID, 10))
	var sections []models.SectionDTO
	if err := c.call(ctx, "core_course_get_contents", params, &sections); err != nil {
		return nil, err
	}
	return sections, nil
}

// CoursePages fetches every page resource across the token's visible courses.
func (c *Client) CoursePages(ctx context.Context) (*models.PagesDTO, error) {
	var pages models.PagesDTO
	if err := c.call(ctx, "mod_page_get_pages_by_courses", url.Values{}, &pages); err != nil {
		return nil, err
	}
	return &pages, nil
}

// CourseGrades fetches the grade report for one user on one course.
func (c *Client) CourseGrades(ctx context.Context, courseID, userID int64) (*models.GradesDTO, error) {
	params := url.Values{}
	params.Set("courseid", strconv.FormatInt(courseID, 10))
	params.Set("userid", strconv.FormatInt(userID, 10))
	var grades models.GradesDTO
	if err := c.call(ctx, "gradereport_user_get_grade_items", params, &grades); err != nil {
		return nil, err
	}
	return &grades, nil
}

// Assignments fetches the assignments envelope across visible courses.
func (c *Client) Assignments(ctx context.Context) (*models.AssignmentsDTO, error) {
	var assignments models.AssignmentsDTO
	if err := c.call(ctx, "mod_assign_get_assignments", url.Values{}, &assignments); err != nil {
		return nil, err
	}
	return &assignments, nil
}

// SiteInfo fetches site and user metadata for the configured token.
func (c *Client) SiteInfo(ctx context.Context) (*models.SiteInfoDTO, error) {
	var info models.SiteInfoDTO
	if err := c.call(ctx, "core_webservice_get_site_info", url.Values{}, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// EnrolledCourses fetches the courses a user is enrolled in.
func (c *Client) EnrolledCourses(ctx context.Context, userID int64) ([]models.CourseDTO, error) {
	params := url.Values{}
	params.Set("userid", strconv.FormatInt(userID, 10))
	var courses []models.CourseDTO
	if err := c.call(ctx, "core_enrol_get_users_courses", params, &courses); err != nil {
		return nil, err
	}
	return courses, nil
}

// DownloadFile streams a served file into w. File URLs from the API require
// the token as a query parameter.
func (c *Client) DownloadFile(ctx context.Context, fileURL string, w io.Writer) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	u, err := url.Parse(fileURL)
	if err != nil {
		return fmt.Errorf("parse file url: %w", err)
	}
	q := u.Query()
	q.Set("token", c.token)
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("build download request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("download %s: %w", fileURL, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download %s: unexpected status %s", fileURL, resp.Status)
	}
	if _, err := io.Copy(w, resp.Body); err != nil {
		return fmt.Errorf("stream %s: %w", fileURL, err)
	}
	return nil
}
