// Package remote implements the HTTP client of the remote store API. It is
// the only place the synchronization layer touches the network; every method
// maps the store's status codes onto the domain error taxonomy.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"time"

	"github.com/google/uuid"

	"absenceportal/internal/model"
)

const idempotencyHeader = "Idempotency-Key"

// Client talks to the remote store. It is not safe for concurrent use, which
// matches the one-mutation-per-user-action model of the session layer.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// NewClient creates a store client for the given base URL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

// statusError maps a non-2xx store response onto the error taxonomy.
func statusError(status int) error {
	switch status {
	case http.StatusNotFound:
		return model.ErrNotFound
	case http.StatusUnauthorized:
		return model.ErrInvalidCredentials
	default:
		return fmt.Errorf("%w: unexpected status %d", model.ErrRemote, status)
	}
}

// do issues one request and decodes the response into out when non-nil.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, requestID uuid.UUID) error {
	var reader io.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.decorate(req, requestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s", model.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return statusError(resp.StatusCode)
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("%w: failed to decode response: %s", model.ErrRemote, err)
		}
	}
	return nil
}

func (c *Client) decorate(req *http.Request, requestID uuid.UUID) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	if requestID != uuid.Nil {
		req.Header.Set(idempotencyHeader, requestID.String())
	}
}

type loginRequest struct {
	Email    string     `json:"email"`
	Password string     `json:"password"`
	Role     model.Role `json:"role"`
}

type loginResponse struct {
	model.User
	Token string `json:"token"`
}

// Login authenticates against the store and retains the session token for
// subsequent calls.
func (c *Client) Login(ctx context.Context, email, password string, role model.Role) (model.User, error) {
	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/login", loginRequest{Email: email, Password: password, Role: role}, &resp, uuid.Nil)
	if err != nil {
		return model.User{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

func (c *Client) ListStudents(ctx context.Context) ([]model.Student, error) {
	var students []model.Student
	if err := c.do(ctx, http.MethodGet, "/students", nil, &students, uuid.Nil); err != nil {
		return nil, err
	}
	return students, nil
}

func (c *Client) GetStudent(ctx context.Context, studentID string) (model.Student, error) {
	var student model.Student
	if err := c.do(ctx, http.MethodGet, "/students/"+url.PathEscape(studentID), nil, &student, uuid.Nil); err != nil {
		return model.Student{}, err
	}
	return student, nil
}

func (c *Client) ListClasses(ctx context.Context) ([]model.Class, error) {
	var classes []model.Class
	if err := c.do(ctx, http.MethodGet, "/classes", nil, &classes, uuid.Nil); err != nil {
		return nil, err
	}
	return classes, nil
}

func (c *Client) ListCourses(ctx context.Context) ([]model.Course, error) {
	var courses []model.Course
	if err := c.do(ctx, http.MethodGet, "/courses", nil, &courses, uuid.Nil); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) ListStudentCourses(ctx context.Context, studentID string) ([]model.Course, error) {
	var courses []model.Course
	if err := c.do(ctx, http.MethodGet, "/students/"+url.PathEscape(studentID)+"/courses", nil, &courses, uuid.Nil); err != nil {
		return nil, err
	}
	return courses, nil
}

func (c *Client) ListAbsences(ctx context.Context) ([]model.Absence, error) {
	var absences []model.Absence
	if err := c.do(ctx, http.MethodGet, "/absences", nil, &absences, uuid.Nil); err != nil {
		return nil, err
	}
	return absences, nil
}

func (c *Client) ListStudentAbsences(ctx context.Context, studentID string) ([]model.Absence, error) {
	var absences []model.Absence
	if err := c.do(ctx, http.MethodGet, "/students/"+url.PathEscape(studentID)+"/absences", nil, &absences, uuid.Nil); err != nil {
		return nil, err
	}
	return absences, nil
}

// Document is a justification file attached to a claim.
type Document struct {
	FileName    string
	ContentType string
	Reader      io.Reader
}

// CreateAbsenceParams describes a claim creation request.
type CreateAbsenceParams struct {
	StudentID   string       `json:"student_id"`
	Subject     string       `json:"subject"`
	Date        string       `json:"date"`
	TimeSlot    string       `json:"time"`
	Status      model.Status `json:"status"`
	Reason      string       `json:"reason"`
	Description string       `json:"description"`
	Document    *Document    `json:"-"`
	RequestID   uuid.UUID    `json:"-"`
}

// CreateAbsence files a claim. With a document attached the request is sent
// as multipart form data, otherwise as JSON.
func (c *Client) CreateAbsence(ctx context.Context, params CreateAbsenceParams) (model.Absence, error) {
	if params.Document == nil {
		var absence model.Absence
		if err := c.do(ctx, http.MethodPost, "/absences", params, &absence, params.RequestID); err != nil {
			return model.Absence{}, err
		}
		return absence, nil
	}
	return c.createAbsenceMultipart(ctx, params)
}

func (c *Client) createAbsenceMultipart(ctx context.Context, params CreateAbsenceParams) (model.Absence, error) {
	var buf bytes.Buffer
	form := multipart.NewWriter(&buf)

	fields := map[string]string{
		"student_id":  params.StudentID,
		"subject":     params.Subject,
		"date":        params.Date,
		"time":        params.TimeSlot,
		"status":      string(params.Status),
		"reason":      params.Reason,
		"description": params.Description,
	}
	for name, value := range fields {
		if err := form.WriteField(name, value); err != nil {
			return model.Absence{}, fmt.Errorf("failed to write form field: %w", err)
		}
	}

	header := textproto.MIMEHeader{}
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="document"; filename=%q`, params.Document.FileName))
	header.Set("Content-Type", params.Document.ContentType)
	part, err := form.CreatePart(header)
	if err != nil {
		return model.Absence{}, fmt.Errorf("failed to create document part: %w", err)
	}
	if _, err := io.Copy(part, params.Document.Reader); err != nil {
		return model.Absence{}, fmt.Errorf("failed to copy document: %w", err)
	}
	if err := form.Close(); err != nil {
		return model.Absence{}, fmt.Errorf("failed to finish form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/absences", &buf)
	if err != nil {
		return model.Absence{}, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", form.FormDataContentType())
	c.decorate(req, params.RequestID)

	resp, err := c.http.Do(req)
	if err != nil {
		return model.Absence{}, fmt.Errorf("%w: %s", model.ErrRemote, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return model.Absence{}, statusError(resp.StatusCode)
	}

	var absence model.Absence
	if err := json.NewDecoder(resp.Body).Decode(&absence); err != nil {
		return model.Absence{}, fmt.Errorf("%w: failed to decode response: %s", model.ErrRemote, err)
	}
	return absence, nil
}

type transitionRequest struct {
	Status      model.Status `json:"status"`
	Reason      string       `json:"reason,omitempty"`
	Description string       `json:"description,omitempty"`
}

// TransitionAbsence requests a status change on an existing absence.
func (c *Client) TransitionAbsence(ctx context.Context, params model.TransitionParams) (model.Absence, error) {
	var absence model.Absence
	body := transitionRequest{Status: params.Status, Reason: params.Reason, Description: params.Description}
	if err := c.do(ctx, http.MethodPatch, "/absences/"+params.ID.String(), body, &absence, params.RequestID); err != nil {
		return model.Absence{}, err
	}
	return absence, nil
}

func (c *Client) CreateStudent(ctx context.Context, student model.Student, requestID uuid.UUID) (model.Student, error) {
	var created model.Student
	if err := c.do(ctx, http.MethodPost, "/students", student, &created, requestID); err != nil {
		return model.Student{}, err
	}
	return created, nil
}

func (c *Client) UpdateStudent(ctx context.Context, student model.Student, requestID uuid.UUID) (model.Student, error) {
	var updated model.Student
	if err := c.do(ctx, http.MethodPut, "/students/"+url.PathEscape(student.StudentID), student, &updated, requestID); err != nil {
		return model.Student{}, err
	}
	return updated, nil
}

func (c *Client) DeleteStudent(ctx context.Context, studentID string, requestID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/students/"+url.PathEscape(studentID), nil, nil, requestID)
}

func (c *Client) CreateCourse(ctx context.Context, course model.Course, requestID uuid.UUID) (model.Course, error) {
	var created model.Course
	if err := c.do(ctx, http.MethodPost, "/courses", course, &created, requestID); err != nil {
		return model.Course{}, err
	}
	return created, nil
}

func (c *Client) UpdateCourse(ctx context.Context, course model.Course, requestID uuid.UUID) (model.Course, error) {
	var updated model.Course
	if err := c.do(ctx, http.MethodPut, "/courses/"+course.ID.String(), course, &updated, requestID); err != nil {
		return model.Course{}, err
	}
	return updated, nil
}

func (c *Client) DeleteCourse(ctx context.Context, id uuid.UUID, requestID uuid.UUID) error {
	return c.do(ctx, http.MethodDelete, "/courses/"+id.String(), nil, nil, requestID)
}

func (c *Client) UpdateProfile(ctx context.Context, userID uuid.UUID, update model.ProfileUpdate) (model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/users/"+userID.String(), update, &user, uuid.Nil); err != nil {
		return model.User{}, err
	}
	return user, nil
}

type profileImageRequest struct {
	ProfileImage string `json:"profile_image"`
}

func (c *Client) UpdateProfileImage(ctx context.Context, userID uuid.UUID, image string) (model.User, error) {
	var user model.User
	if err := c.do(ctx, http.MethodPut, "/users/"+userID.String()+"/profile-picture", profileImageRequest{ProfileImage: image}, &user, uuid.Nil); err != nil {
		return model.User{}, err
	}
	return user, nil
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (c *Client) UpdatePassword(ctx context.Context, userID uuid.UUID, current, next string) error {
	return c.do(ctx, http.MethodPut, "/users/"+userID.String()+"/password", changePasswordRequest{CurrentPassword: current, NewPassword: next}, nil, uuid.Nil)
}
