package lms

import (
	"github.com/go-playground/validator/v10"
)

// Enrollment statuses (server-owned enum)
const (
	EnrollmentInProgress = "IN_PROGRESS"
	EnrollmentCompleted  = "COMPLETED"
	EnrollmentDropped    = "DROPPED"
)

var EnrollmentStatuses = []string{EnrollmentInProgress, EnrollmentCompleted, EnrollmentDropped}

func ValidEnrollmentStatus(status string) bool {
	for _, s := range EnrollmentStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Enrollment struct {
	ID             int    `json:"id"`
	UserID         int    `json:"userId"`
	CourseID       int    `json:"courseId"`
	Status         string `json:"status"`
	EnrollmentDate string `json:"enrollmentDate,omitempty"` // YYYY-MM-DD
	PaymentID      string `json:"paymentId,omitempty"`
	Progress       *int   `json:"progress,omitempty"` // percent, when the backend tracks it
}

// ProgressPercent derives a display percentage. The backend value wins when
// present; otherwise completion implies 100, a drop 0, and anything in
// flight shows a 50% placeholder.
func (e Enrollment) ProgressPercent() int {
	if e.Progress != nil {
		return *e.Progress
	}
	switch e.Status {
	case EnrollmentCompleted:
		return 100
	case EnrollmentDropped:
		return 0
	default:
		return 50
	}
}

type NewEnrollment struct {
	UserID         int    `json:"userId" validate:"required"`
	CourseID       int    `json:"courseId" validate:"required"`
	Status         string `json:"status,omitempty" validate:"omitempty,enrollstatus"`
	EnrollmentDate string `json:"enrollmentDate,omitempty"`
	PaymentID      string `json:"paymentId,omitempty"`
}

func (ne *NewEnrollment) Validate(validate *validator.Validate) error {
	return validate.Struct(ne)
}
