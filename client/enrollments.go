package client

import (
	"context"
	"fmt"
	"net/http"

	"github.com/edulearn/academy-go/core/lms"
)

// EnrollmentService manages course enrollments and their status transitions.
type EnrollmentService struct {
	c *Client
}

func (s *EnrollmentService) List(ctx context.Context) ([]lms.Enrollment, error) {
	var enrs []lms.Enrollment
	err := s.c.getJSON(ctx, "/api/enrollments", &enrs)
	return enrs, err
}

// ByUser returns a user's enrollments, as shown on their dashboard.
func (s *EnrollmentService) ByUser(ctx context.Context, userID int) ([]lms.Enrollment, error) {
	var enrs []lms.Enrollment
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/enrollments/user/%d", userID), &enrs)
	return enrs, err
}

func (s *EnrollmentService) Get(ctx context.Context, id int) (lms.Enrollment, error) {
	var enr lms.Enrollment
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/enrollments/%d", id), &enr)
	return enr, err
}

// Create enrolls a user in a course. An unrecognized status is dropped rather
// than rejected; the backend then applies its own default.
func (s *EnrollmentService) Create(ctx context.Context, data lms.NewEnrollment) (lms.Enrollment, error) {
	var enr lms.Enrollment
	if data.Status != "" && !lms.ValidEnrollmentStatus(data.Status) {
		s.c.logger.Warn(fmt.Sprintf("dropping unknown enrollment status %q", data.Status))
		data.Status = ""
	}
	if err := data.Validate(s.c.validate); err != nil {
		return enr, err
	}
	err := s.c.sendJSON(ctx, http.MethodPost, "/api/enrollments", data, &enr)
	return enr, err
}

// UpdateStatus moves an enrollment to a new status.
func (s *EnrollmentService) UpdateStatus(ctx context.Context, id int, status string) (lms.Enrollment, error) {
	var enr lms.Enrollment
	if !lms.ValidEnrollmentStatus(status) {
		return enr, fmt.Errorf("unknown enrollment status %q", status)
	}
	err := s.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/enrollments/%d/status", id), lms.StatusUpdate{Status: status}, &enr)
	return enr, err
}

func (s *EnrollmentService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/api/enrollments/%d", id))
}
