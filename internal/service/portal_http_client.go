package service

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/coursereg-client/internal/models"
	appErrors "github.com/noah-isme/coursereg-client/pkg/errors"
)

const maxPortalBody = 8 << 20

// Portal endpoints relative to the configured base URL.
const (
	portalPathOpenedCourses   = "/courses/openedCourses"
	portalPathEnrolledCourses = "/courses/enrolledCourses"
	portalPathEnroll          = "/student/enrollCourse"
	portalPathUnenroll        = "/student/unenrollCourse"
	portalPathStudentInfo     = "/student/studentInfo"
)

type credentialSource interface {
	Header() string
}

// PortalHTTPClient talks to the registration portal's REST backend.
type PortalHTTPClient struct {
	baseURL    string
	credential credentialSource
	httpClient *http.Client
	metrics    *MetricsService
	logger     *zap.Logger
}

// NewPortalHTTPClient constructs a portal client. The credential is attached
// verbatim as the Authorization header of every call.
func NewPortalHTTPClient(baseURL string, credential credentialSource, httpClient *http.Client, metrics *MetricsService, logger *zap.Logger) *PortalHTTPClient {
	if httpClient == nil {
		httpClient = DefaultPortalHTTPClient(0)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalHTTPClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		credential: credential,
		httpClient: httpClient,
		metrics:    metrics,
		logger:     logger,
	}
}

// DefaultPortalHTTPClient returns an http.Client with the given timeout (10s when zero).
func DefaultPortalHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &http.Client{Timeout: timeout}
}

// URL resolves a portal path against the base URL.
func (c *PortalHTTPClient) URL(path string) string {
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

// FetchOpenedCourses loads the authoritative catalog.
func (c *PortalHTTPClient) FetchOpenedCourses(ctx context.Context) ([]models.CourseRecord, error) {
	body, err := c.do(ctx, "opened_courses", http.MethodGet, portalPathOpenedCourses, nil, "")
	if err != nil {
		return nil, err
	}
	var records []models.CourseRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedResponse.Code, appErrors.ErrMalformedResponse.Status, "failed to decode opened courses")
	}
	return records, nil
}

// FetchEnrolledIDs loads the internal ids the student currently holds.
func (c *PortalHTTPClient) FetchEnrolledIDs(ctx context.Context) ([]int, error) {
	body, err := c.do(ctx, "enrolled_courses", http.MethodGet, portalPathEnrolledCourses, nil, "")
	if err != nil {
		return nil, err
	}
	var ids []int
	if err := json.Unmarshal(body, &ids); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedResponse.Code, appErrors.ErrMalformedResponse.Status, "failed to decode enrolled course ids")
	}
	return ids, nil
}

// SubmitBulk posts one enroll or unenroll request for every id and returns the
// raw response body; decoding is left to the caller because enroll responses
// come in more than one shape.
func (c *PortalHTTPClient) SubmitBulk(ctx context.Context, kind models.OperationKind, ids []int) ([]byte, error) {
	path := portalPathEnroll
	if kind == models.OperationUnenroll {
		path = portalPathUnenroll
	}

	encoded, err := json.Marshal(ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to encode course ids")
	}
	buf := &bytes.Buffer{}
	form := multipart.NewWriter(buf)
	if err := form.WriteField("courseIds", string(encoded)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build form")
	}
	if err := form.Close(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build form")
	}

	return c.do(ctx, string(kind), http.MethodPost, path, buf, form.FormDataContentType())
}

// FetchStudentInfo loads the signed-in student's profile.
func (c *PortalHTTPClient) FetchStudentInfo(ctx context.Context) (*models.StudentInfo, error) {
	body, err := c.do(ctx, "student_info", http.MethodGet, portalPathStudentInfo, nil, "")
	if err != nil {
		return nil, err
	}
	var info models.StudentInfo
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrMalformedResponse.Code, appErrors.ErrMalformedResponse.Status, "failed to decode student info")
	}
	return &info, nil
}

func (c *PortalHTTPClient) do(ctx context.Context, call, method, path string, body io.Reader, contentType string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path), body)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to build portal request")
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.credential != nil && c.credential.Header() != "" {
		req.Header.Set("Authorization", c.credential.Header())
	}

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.ObservePortalCall(call, time.Since(start))
	if err != nil {
		c.logger.Warn("portal request failed", zap.String("call", call), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, appErrors.ErrTransport.Message)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxPortalBody))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrTransport.Code, appErrors.ErrTransport.Status, "failed to read portal response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		upstream := appErrors.FromUpstream(resp.StatusCode, upstreamMessage(payload))
		c.logger.Info("portal rejected request",
			zap.String("call", call),
			zap.Int("status", resp.StatusCode),
			zap.String("code", upstream.Code),
		)
		return nil, upstream
	}
	return payload, nil
}

// upstreamMessage extracts a user-facing message from an error body, which the
// portal sends as plain text but proxies may wrap as a JSON string or object.
func upstreamMessage(body []byte) string {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return ""
	}
	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err == nil {
			return s
		}
	case '{':
		var obj struct {
			Message string `json:"message"`
			Error   string `json:"error"`
		}
		if err := json.Unmarshal(trimmed, &obj); err == nil {
			if obj.Message != "" {
				return obj.Message
			}
			if obj.Error != "" {
				return obj.Error
			}
		}
	}
	return string(trimmed)
}
