package client

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/edulearn/academy-go/core/lms"
	"github.com/edulearn/academy-go/lmstest"
)

func Test_EnrollmentService_Create(t *testing.T) {
	c, _ := setup(t, lmstest.Options{})

	enr, err := c.Enrollments.Create(context.Background(), lms.NewEnrollment{UserID: 1, CourseID: 5})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.NotZero(t, enr.ID)
	assert.Equal(t, lms.EnrollmentInProgress, enr.Status, "the backend defaults the status")
}

// An unrecognized status is dropped with a warning instead of rejecting the
// enrollment; the backend then applies its default.
func Test_EnrollmentService_Create_unknownStatusDropped(t *testing.T) {
	logger := &recordLogger{}
	c, _ := setup(t, lmstest.Options{}, WithLogger(logger))

	enr, err := c.Enrollments.Create(context.Background(), lms.NewEnrollment{
		UserID:   1,
		CourseID: 5,
		Status:   "ENROLLED", // not a real status
	})
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	assert.Equal(t, lms.EnrollmentInProgress, enr.Status)
	assert.NotEmpty(t, logger.warnings)
}

func Test_EnrollmentService_ByUser(t *testing.T) {
	c, srv := setup(t, lmstest.Options{})
	srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: 10, Status: lms.EnrollmentInProgress})
	srv.SeedEnrollment(lms.Enrollment{UserID: 2, CourseID: 10, Status: lms.EnrollmentInProgress})

	enrs, err := c.Enrollments.ByUser(context.Background(), 1)
	if err != nil {
		t.Fatalf("ByUser() failed: %v", err)
	}
	if assert.Len(t, enrs, 1) {
		assert.Equal(t, 1, enrs[0].UserID)
	}
}

func Test_EnrollmentService_UpdateStatus(t *testing.T) {
	c, srv := setup(t, lmstest.Options{})
	seeded := srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: 10, Status: lms.EnrollmentInProgress})

	enr, err := c.Enrollments.UpdateStatus(context.Background(), seeded.ID, lms.EnrollmentCompleted)
	if err != nil {
		t.Fatalf("UpdateStatus() failed: %v", err)
	}
	assert.Equal(t, lms.EnrollmentCompleted, enr.Status)
}

func Test_EnrollmentService_UpdateStatus_unknownRejected(t *testing.T) {
	c, srv := setup(t, lmstest.Options{})

	before := srv.Hits()
	_, err := c.Enrollments.UpdateStatus(context.Background(), 1, "WISHLISTED")
	assert.Error(t, err)
	assert.Equal(t, before, srv.Hits())
}

func Test_Enrollment_ProgressPercent(t *testing.T) {
	sixty := 60
	tests := []struct {
		name string
		enr  lms.Enrollment
		want int
	}{
		{"backend value wins", lms.Enrollment{Status: lms.EnrollmentInProgress, Progress: &sixty}, 60},
		{"completed", lms.Enrollment{Status: lms.EnrollmentCompleted}, 100},
		{"dropped", lms.Enrollment{Status: lms.EnrollmentDropped}, 0},
		{"in progress placeholder", lms.Enrollment{Status: lms.EnrollmentInProgress}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.enr.ProgressPercent())
		})
	}
}
