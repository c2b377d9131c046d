package lms

import (
	"github.com/go-playground/validator/v10"

	"github.com/edulearn/academy-go/core"
)

// Course statuses
const (
	CourseDraft     = "DRAFT"
	CoursePending   = "PENDING"
	CoursePublished = "PUBLISHED"
	CourseArchived  = "ARCHIVED"
)

// UserRef is a bare reference to a User, as embedded in Course records.
type UserRef struct {
	ID int `json:"id"`
}

// StatusUpdate is the body of every status-transition endpoint. The backend
// binds the new status from the JSON body, not the query string.
type StatusUpdate struct {
	Status string `json:"status"`
}

type Course struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Price       float64  `json:"price"`
	Status      string   `json:"status"`
	CategoryID  int      `json:"categoryId"`
	Instructor  *UserRef `json:"instructor,omitempty"`
	Thumbnail   string   `json:"thumbnail,omitempty"`
}

// NewCourse contains information needed to create a Course.
type NewCourse struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	Status      string  `json:"status" validate:"omitempty,coursestatus"`
	CategoryID  int     `json:"categoryId" validate:"required"`
}

func (nc *NewCourse) Validate(validate *validator.Validate) error {
	nc.Title = core.CleanString(nc.Title)
	return validate.Struct(nc)
}

// CourseUpdate is the full record a course update must resend. The backend
// drops any field missing from an update, so updates always start from the
// last known full record (see UpdateFromCourse).
type CourseUpdate struct {
	ID          int      `json:"id"`
	Title       string   `json:"title" validate:"required"`
	Description string   `json:"description"`
	Price       float64  `json:"price" validate:"gte=0"`
	Status      string   `json:"status" validate:"omitempty,coursestatus"`
	CategoryID  int      `json:"categoryId" validate:"required"`
	Instructor  *UserRef `json:"instructor"`
}

func (cu *CourseUpdate) Validate(validate *validator.Validate) error {
	cu.Title = core.CleanString(cu.Title)
	return validate.Struct(cu)
}

// UpdateFromCourse builds a complete update payload from the last fetched
// record. Sparse server records get a DRAFT status and the default category
// so the resent record always validates.
func UpdateFromCourse(c Course) CourseUpdate {
	status := c.Status
	if status == "" {
		status = CourseDraft
	}
	categoryID := c.CategoryID
	if categoryID == 0 {
		categoryID = 1
	}
	return CourseUpdate{
		ID:          c.ID,
		Title:       c.Title,
		Description: c.Description,
		Price:       c.Price,
		Status:      status,
		CategoryID:  categoryID,
		Instructor:  c.Instructor,
	}
}
