package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"

	"github.com/pkg/errors"

	"github.com/edulearn/academy-go/core/lms"
)

// CourseService manages the course catalog, including thumbnail uploads and
// instructor assignment.
type CourseService struct {
	c *Client
}

func (s *CourseService) List(ctx context.Context) ([]lms.Course, error) {
	var courses []lms.Course
	err := s.c.getJSON(ctx, "/api/courses", &courses)
	return courses, err
}

// Published returns the public catalog (no auth required server-side).
func (s *CourseService) Published(ctx context.Context) ([]lms.Course, error) {
	var courses []lms.Course
	err := s.c.getJSON(ctx, "/api/courses/status/PUBLISHED", &courses)
	return courses, err
}

func (s *CourseService) Get(ctx context.Context, id int) (lms.Course, error) {
	var course lms.Course
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/courses/%d", id), &course)
	return course, err
}

// ByInstructor returns the courses assigned to an instructor. The dedicated
// endpoint is not present on older backends, so a 404 falls back to filtering
// the full catalog client-side.
func (s *CourseService) ByInstructor(ctx context.Context, instructorID int) ([]lms.Course, error) {
	var courses []lms.Course
	err := s.c.getJSON(ctx, fmt.Sprintf("/api/courses/instructor/%d", instructorID), &courses)
	if err == nil {
		return courses, nil
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		return nil, err
	}
	all, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	courses = all[:0]
	for _, c := range all {
		if c.Instructor != nil && c.Instructor.ID == instructorID {
			courses = append(courses, c)
		}
	}
	return courses, nil
}

// Create submits a new course as multipart form data: a "course" part holding
// the JSON record, plus an optional "thumbnail" binary part. The backend
// expects this exact shape even when no thumbnail is attached.
func (s *CourseService) Create(ctx context.Context, data lms.NewCourse, thumbnail io.Reader, filename string) (lms.Course, error) {
	var course lms.Course
	if err := data.Validate(s.c.validate); err != nil {
		return course, err
	}
	body, contentType, err := courseForm(data, thumbnail, filename)
	if err != nil {
		return course, err
	}
	err = s.c.do(ctx, http.MethodPost, "/api/courses", contentType, body, &course)
	return course, err
}

// Update replaces a course record. The backend discards fields absent from
// the payload, which is why CourseUpdate carries the full record.
func (s *CourseService) Update(ctx context.Context, id int, data lms.CourseUpdate, thumbnail io.Reader, filename string) (lms.Course, error) {
	var course lms.Course
	if err := data.Validate(s.c.validate); err != nil {
		return course, err
	}
	body, contentType, err := courseForm(data, thumbnail, filename)
	if err != nil {
		return course, err
	}
	err = s.c.do(ctx, http.MethodPut, fmt.Sprintf("/api/courses/%d", id), contentType, body, &course)
	return course, err
}

func (s *CourseService) Delete(ctx context.Context, id int) error {
	return s.c.delete(ctx, fmt.Sprintf("/api/courses/%d", id))
}

// UpdateStatus transitions a course through its publishing workflow.
func (s *CourseService) UpdateStatus(ctx context.Context, id int, status string) (lms.Course, error) {
	var course lms.Course
	err := s.c.sendJSON(ctx, http.MethodPut, fmt.Sprintf("/api/courses/%d/status", id), lms.StatusUpdate{Status: status}, &course)
	return course, err
}

// AssignInstructor sets (or, with a nil instructorID, clears) a course's
// instructor. The backend has no partial update, so this reads the current
// record first and resends it whole with only the instructor changed.
func (s *CourseService) AssignInstructor(ctx context.Context, courseID int, instructorID *int) (lms.Course, error) {
	current, err := s.Get(ctx, courseID)
	if err != nil {
		return lms.Course{}, errors.Wrap(err, "loading course for assignment")
	}
	update := lms.UpdateFromCourse(current)
	if instructorID != nil {
		update.Instructor = &lms.UserRef{ID: *instructorID}
	} else {
		update.Instructor = nil
	}
	return s.Update(ctx, courseID, update, nil, "")
}

// AssignmentFailure records one course that could not be reassigned during a
// batch sync.
type AssignmentFailure struct {
	CourseID int
	Unassign bool
	Err      error
}

func (f AssignmentFailure) Error() string {
	verb := "assign"
	if f.Unassign {
		verb = "unassign"
	}
	return fmt.Sprintf("%s course %d: %v", verb, f.CourseID, f.Err)
}

// SyncReport summarizes a batch assignment sync.
type SyncReport struct {
	Assigned   []int
	Unassigned []int
	Failures   []AssignmentFailure
}

// Ok reports whether every change landed.
func (r SyncReport) Ok() bool { return len(r.Failures) == 0 }

// SyncInstructorCourses reconciles an instructor's course set: courses in
// selected but not current are assigned, courses in current but not selected
// are unassigned. Each change is attempted independently and failures do not
// stop the rest; the report carries whatever went wrong. Cancellation stops
// between changes.
func (s *CourseService) SyncInstructorCourses(ctx context.Context, instructorID int, current, selected []int) (SyncReport, error) {
	var report SyncReport

	in := func(set []int, id int) bool {
		for _, v := range set {
			if v == id {
				return true
			}
		}
		return false
	}

	for _, id := range selected {
		if in(current, id) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := s.AssignInstructor(ctx, id, &instructorID); err != nil {
			report.Failures = append(report.Failures, AssignmentFailure{CourseID: id, Err: err})
			continue
		}
		report.Assigned = append(report.Assigned, id)
	}
	for _, id := range current {
		if in(selected, id) {
			continue
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		if _, err := s.AssignInstructor(ctx, id, nil); err != nil {
			report.Failures = append(report.Failures, AssignmentFailure{CourseID: id, Unassign: true, Err: err})
			continue
		}
		report.Unassigned = append(report.Unassigned, id)
	}
	return report, nil
}

// courseForm builds the multipart body the course endpoints require: a JSON
// "course" part and, when a reader is given, a "thumbnail" file part.
func courseForm(record interface{}, thumbnail io.Reader, filename string) (io.Reader, string, error) {
	data, err := json.Marshal(record)
	if err != nil {
		return nil, "", errors.Wrap(err, "encoding course record")
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	hdr := make(textproto.MIMEHeader)
	hdr.Set("Content-Disposition", `form-data; name="course"`)
	hdr.Set("Content-Type", "application/json")
	part, err := w.CreatePart(hdr)
	if err != nil {
		return nil, "", errors.Wrap(err, "creating course part")
	}
	if _, err := part.Write(data); err != nil {
		return nil, "", errors.Wrap(err, "writing course part")
	}

	if thumbnail != nil {
		if filename == "" {
			filename = "thumbnail"
		}
		file, err := w.CreateFormFile("thumbnail", filename)
		if err != nil {
			return nil, "", errors.Wrap(err, "creating thumbnail part")
		}
		if _, err := io.Copy(file, thumbnail); err != nil {
			return nil, "", errors.Wrap(err, "writing thumbnail part")
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", errors.Wrap(err, "finalizing form")
	}
	return &buf, w.FormDataContentType(), nil
}
