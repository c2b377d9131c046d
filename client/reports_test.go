package client

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/edulearn/academy-go/core/lms"
	"github.com/edulearn/academy-go/lmstest"
)

func Test_ReportService_EnrollmentStats_remote(t *testing.T) {
	c, srv := setup(t, lmstest.Options{})
	for i := 0; i < 3; i++ {
		srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: 10 + i, Status: lms.EnrollmentCompleted})
	}
	srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: 20, Status: lms.EnrollmentInProgress})

	stats, err := c.Reports.EnrollmentStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 4, stats.TotalEnrollments)
	assert.Equal(t, 3, stats.CompletedEnrollments)
	assert.Equal(t, 75, stats.CompletionRate)
}

// When the dedicated endpoint errors, the same shape must come back derived
// from the raw enrollment list, never an error. 10 enrollments with 3
// completed means a 30% completion rate.
func Test_ReportService_EnrollmentStats_fallback(t *testing.T) {
	c, srv := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1
	for i := 0; i < 10; i++ {
		status := lms.EnrollmentInProgress
		if i < 3 {
			status = lms.EnrollmentCompleted
		}
		srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: 100 + i, Status: status})
	}

	stats, err := c.Reports.EnrollmentStats(context.Background())
	assert.NoError(t, err, "fallback must degrade, not fail")
	assert.Equal(t, 10, stats.TotalEnrollments)
	assert.Equal(t, 3, stats.CompletedEnrollments)
	assert.Equal(t, 7, stats.ActiveEnrollments)
	assert.Equal(t, 30, stats.CompletionRate)
	assert.Len(t, stats.MonthlyEnrollments, 12)
	assert.Len(t, stats.MonthlyCompletions, 12)
	assert.Equal(t, map[string]int{lms.EnrollmentCompleted: 3, lms.EnrollmentInProgress: 7}, stats.EnrollmentByStatus)
}

// Two enrollments last month, three this month: 50% growth.
func Test_ReportService_EnrollmentStats_growth(t *testing.T) {
	now := time.Now()
	if now.Month() == time.January {
		t.Skip("previous month falls in last year, outside the monthly buckets")
	}
	c, srv := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1

	cur := now.Format("2006-01") + "-05"
	prev := now.AddDate(0, -1, 0).Format("2006-01") + "-05"
	for i := 0; i < 3; i++ {
		srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: 10 + i, Status: lms.EnrollmentInProgress, EnrollmentDate: cur})
	}
	for i := 0; i < 2; i++ {
		srv.SeedEnrollment(lms.Enrollment{UserID: 2, CourseID: 20 + i, Status: lms.EnrollmentInProgress, EnrollmentDate: prev})
	}

	stats, err := c.Reports.EnrollmentStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 50, stats.EnrollmentGrowth)
}

// Reports and their raw lists both down: callers still get a well-shaped
// zero result so charts render empty instead of crashing.
func Test_ReportService_EnrollmentStats_empty(t *testing.T) {
	c, _ := setup(t, lmstest.Options{})
	c.conf.BaseURL = "http://127.0.0.1:1"
	c.conf.RetryMaxAttempts = 1

	stats, err := c.Reports.EnrollmentStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, stats.TotalEnrollments)
	assert.Len(t, stats.MonthlyEnrollments, 12)
	assert.NotNil(t, stats.EnrollmentByStatus)
}

func Test_ReportService_RevenueStats_fallback(t *testing.T) {
	c, srv := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1

	cat := srv.SeedCategory(lms.Category{Name: "Programming"})
	course := srv.SeedCourse(lms.Course{Title: "Go", Price: 500, Status: lms.CoursePublished, CategoryID: cat.ID})
	orphan := srv.SeedCourse(lms.Course{Title: "Lost", Price: 100, Status: lms.CoursePublished, CategoryID: 999})
	srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: course.ID, Status: lms.EnrollmentInProgress})
	srv.SeedEnrollment(lms.Enrollment{UserID: 2, CourseID: course.ID, Status: lms.EnrollmentCompleted})
	srv.SeedEnrollment(lms.Enrollment{UserID: 3, CourseID: orphan.ID, Status: lms.EnrollmentInProgress})

	stats, err := c.Reports.RevenueStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1100.0, stats.TotalRevenue)
	assert.Equal(t, 1000.0, stats.RevenueByCategory["Programming"])
	assert.Equal(t, 100.0, stats.RevenueByCategory["Uncategorized"])
	assert.Len(t, stats.MonthlyRevenue, 12)
}

// Dropped enrollments are refunded, so they must not count toward revenue.
func Test_ReportService_RevenueStats_droppedExcluded(t *testing.T) {
	c, srv := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1

	course := srv.SeedCourse(lms.Course{Title: "Go", Price: 200, Status: lms.CoursePublished, CategoryID: 1})
	srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: course.ID, Status: lms.EnrollmentCompleted})
	srv.SeedEnrollment(lms.Enrollment{UserID: 2, CourseID: course.ID, Status: lms.EnrollmentDropped})

	stats, err := c.Reports.RevenueStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 200.0, stats.TotalRevenue)
}

func Test_ReportService_RevenueStats_growth(t *testing.T) {
	now := time.Now()
	if now.Month() == time.January {
		t.Skip("previous month falls in last year, outside the monthly buckets")
	}
	c, srv := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1

	cur := now.Format("2006-01") + "-05"
	prev := now.AddDate(0, -1, 0).Format("2006-01") + "-05"
	course := srv.SeedCourse(lms.Course{Title: "Go", Price: 100, Status: lms.CoursePublished, CategoryID: 1})
	for i := 0; i < 3; i++ {
		srv.SeedEnrollment(lms.Enrollment{UserID: 1 + i, CourseID: course.ID, Status: lms.EnrollmentInProgress, EnrollmentDate: cur})
	}
	srv.SeedEnrollment(lms.Enrollment{UserID: 9, CourseID: course.ID, Status: lms.EnrollmentInProgress, EnrollmentDate: prev})

	stats, err := c.Reports.RevenueStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 200, stats.RevenueGrowth)
}

func Test_ReportService_UserStats_fallback(t *testing.T) {
	c, srv := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1

	srv.SeedUser(lms.User{Name: "S1", Email: "s1@x.test", Role: lms.RoleStudent, JoinDate: "2026-02-10"})
	srv.SeedUser(lms.User{Name: "S2", Email: "s2@x.test", Role: lms.RoleStudent, Status: lms.UserInactive})
	srv.SeedUser(lms.User{Name: "I1", Email: "i1@x.test", Role: lms.RoleInstructor})

	stats, err := c.Reports.UserStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 4, stats.TotalUsers) // three seeded plus the login identity
	assert.Equal(t, 3, stats.ActiveUsers)
	assert.Equal(t, 2, stats.UsersByRole[lms.RoleStudent])
	assert.Equal(t, 1, stats.UsersByRole[lms.RoleInstructor])
	assert.NotEmpty(t, stats.RecentUsers)
	assert.Len(t, stats.UserGrowth, 12)
}

func Test_ReportService_CourseStats_fallback(t *testing.T) {
	c, srv := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1

	popular := srv.SeedCourse(lms.Course{Title: "Popular", Status: lms.CoursePublished, CategoryID: 1})
	srv.SeedCourse(lms.Course{Title: "Draft", Status: lms.CourseDraft, CategoryID: 1})
	srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: popular.ID, Status: lms.EnrollmentCompleted})
	srv.SeedEnrollment(lms.Enrollment{UserID: 2, CourseID: popular.ID, Status: lms.EnrollmentInProgress})

	stats, err := c.Reports.CourseStats(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, stats.TotalCourses)
	assert.Equal(t, 1, stats.PublishedCourses)
	assert.Equal(t, 1, stats.CoursesByStatus[lms.CoursePublished])
	assert.Equal(t, 1, stats.CoursesByStatus[lms.CourseDraft])
	if assert.Len(t, stats.TopCourses, 1) {
		assert.Equal(t, "Popular", stats.TopCourses[0].Title)
		assert.Equal(t, 2, stats.TopCourses[0].EnrollmentCount)
		assert.Equal(t, 50, stats.TopCourses[0].CompletionRate)
	}
	assert.Equal(t, 50, stats.AverageCompletionRate)
}

// Top courses carry the instructor's display name, looked up from the user
// list since course records only hold the instructor's id.
func Test_ReportService_CourseStats_instructorName(t *testing.T) {
	c, srv := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1

	inst := srv.SeedUser(lms.User{Name: "Grace Hopper", Email: "grace@x.test", Role: lms.RoleInstructor})
	course := srv.SeedCourse(lms.Course{Title: "Compilers", Status: lms.CoursePublished, CategoryID: 1, Instructor: &lms.UserRef{ID: inst.ID}})
	srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: course.ID, Status: lms.EnrollmentCompleted})

	stats, err := c.Reports.CourseStats(context.Background())
	assert.NoError(t, err)
	if assert.Len(t, stats.TopCourses, 1) {
		assert.Equal(t, "Grace Hopper", stats.TopCourses[0].Instructor)
	}
}

func Test_growthPercent(t *testing.T) {
	tests := []struct {
		name     string
		current  float64
		previous float64
		want     int
	}{
		{"up", 120, 100, 20},
		{"down", 80, 100, -20},
		{"gone", 0, 40, -100},
		{"no baseline", 50, 0, 0},
		{"rounds", 100, 30, 233},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, growthPercent(tt.current, tt.previous))
		})
	}
}

func Test_ReportService_Generate_remote(t *testing.T) {
	c, _ := setup(t, lmstest.Options{})

	var buf bytes.Buffer
	err := c.Reports.Generate(context.Background(), lms.ReportRequest{Type: "revenue", Range: "last_30_days", Format: "pdf"}, &buf)
	assert.NoError(t, err)
	assert.True(t, strings.HasPrefix(buf.String(), "%PDF-fake"))
}

func Test_ReportService_Generate_fallbackCSV(t *testing.T) {
	c, srv := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1
	srv.SeedEnrollment(lms.Enrollment{UserID: 1, CourseID: 1, Status: lms.EnrollmentCompleted})

	var buf bytes.Buffer
	err := c.Reports.Generate(context.Background(), lms.ReportRequest{Type: "enrollment", Format: "csv"}, &buf)
	assert.NoError(t, err)
	out := buf.String()
	assert.Contains(t, out, "metric,value")
	assert.Contains(t, out, "totalEnrollments,1")
	assert.Contains(t, out, "completionRate,100")
}

func Test_ReportService_Generate_unknownType(t *testing.T) {
	c, _ := setup(t, lmstest.Options{FailReports: true})
	c.conf.RetryMaxAttempts = 1

	var buf bytes.Buffer
	err := c.Reports.Generate(context.Background(), lms.ReportRequest{Type: "nonsense"}, &buf)
	assert.Error(t, err)
}
