package client

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/edulearn/academy-go/core/lms"
)

// ReportService serves the admin analytics views. Each aggregate first tries
// its dedicated /api/reports endpoint under retry; when that fails the same
// numbers are derived client-side from the raw resource lists, and when even
// the raw lists are unreachable an empty-but-well-shaped result comes back so
// charts render zeroes instead of crashing.
type ReportService struct {
	c *Client
}

// fetchStats runs the try-remote-else-derive pattern shared by every
// aggregate: remote fetch under retry, then derive, then empty. Only the
// remote attempt can surface an error to the caller, and only via the log;
// the returned error is always nil so dashboards degrade instead of failing.
func fetchStats[T any](ctx context.Context, s *ReportService, path string, derive func(context.Context) (T, error), empty func() T) (T, error) {
	var out T
	err := s.c.retry(ctx, func() error {
		return s.c.getJSON(ctx, path, &out)
	})
	if err == nil {
		return out, nil
	}
	s.c.logger.Warn(fmt.Sprintf("report endpoint %s unavailable, deriving locally", path), err)

	derived, derr := derive(ctx)
	if derr != nil {
		s.c.logger.Warn(fmt.Sprintf("local derivation for %s failed", path), derr)
		return empty(), nil
	}
	return derived, nil
}

func (s *ReportService) EnrollmentStats(ctx context.Context) (lms.EnrollmentStats, error) {
	return fetchStats(ctx, s, "/api/reports/enrollments", s.deriveEnrollmentStats, lms.EmptyEnrollmentStats)
}

func (s *ReportService) RevenueStats(ctx context.Context) (lms.RevenueStats, error) {
	return fetchStats(ctx, s, "/api/reports/revenue", s.deriveRevenueStats, lms.EmptyRevenueStats)
}

func (s *ReportService) UserStats(ctx context.Context) (lms.UserStats, error) {
	return fetchStats(ctx, s, "/api/reports/users", s.deriveUserStats, lms.EmptyUserStats)
}

func (s *ReportService) CourseStats(ctx context.Context) (lms.CourseStats, error) {
	return fetchStats(ctx, s, "/api/reports/courses", s.deriveCourseStats, lms.EmptyCourseStats)
}

// Generate asks the backend to render a downloadable report document and
// streams it into w. When the endpoint is unavailable the corresponding
// aggregate is derived locally and written out as CSV, so the download
// button keeps working against older backends.
func (s *ReportService) Generate(ctx context.Context, req lms.ReportRequest, w io.Writer) error {
	err := s.c.retry(ctx, func() error {
		return s.c.download(ctx, http.MethodPost, "/api/reports/generate", req, w)
	})
	if err == nil {
		return nil
	}
	s.c.logger.Warn("report generation endpoint unavailable, writing local CSV", err)
	return s.writeLocalCSV(ctx, req.Type, w)
}

func (s *ReportService) writeLocalCSV(ctx context.Context, reportType string, w io.Writer) error {
	cw := csv.NewWriter(w)
	switch reportType {
	case "enrollment", "enrollments":
		stats, _ := s.EnrollmentStats(ctx)
		_ = cw.Write([]string{"metric", "value"})
		_ = cw.Write([]string{"totalEnrollments", strconv.Itoa(stats.TotalEnrollments)})
		_ = cw.Write([]string{"activeEnrollments", strconv.Itoa(stats.ActiveEnrollments)})
		_ = cw.Write([]string{"completedEnrollments", strconv.Itoa(stats.CompletedEnrollments)})
		_ = cw.Write([]string{"completionRate", strconv.Itoa(stats.CompletionRate)})
	case "revenue":
		stats, _ := s.RevenueStats(ctx)
		_ = cw.Write([]string{"metric", "value"})
		_ = cw.Write([]string{"totalRevenue", strconv.FormatFloat(stats.TotalRevenue, 'f', 2, 64)})
	case "users":
		stats, _ := s.UserStats(ctx)
		_ = cw.Write([]string{"metric", "value"})
		_ = cw.Write([]string{"totalUsers", strconv.Itoa(stats.TotalUsers)})
		_ = cw.Write([]string{"activeUsers", strconv.Itoa(stats.ActiveUsers)})
	case "courses":
		stats, _ := s.CourseStats(ctx)
		_ = cw.Write([]string{"metric", "value"})
		_ = cw.Write([]string{"totalCourses", strconv.Itoa(stats.TotalCourses)})
		_ = cw.Write([]string{"publishedCourses", strconv.Itoa(stats.PublishedCourses)})
	default:
		return fmt.Errorf("unknown report type %q", reportType)
	}
	cw.Flush()
	return cw.Error()
}

// Derivations. Each recomputes the dedicated endpoint's shape from raw list
// endpoints. Monthly buckets are January-first within the current year;
// records with unparseable dates count toward totals but no month.

func (s *ReportService) deriveEnrollmentStats(ctx context.Context) (lms.EnrollmentStats, error) {
	enrollments, err := s.c.Enrollments.List(ctx)
	if err != nil {
		return lms.EnrollmentStats{}, err
	}
	stats := lms.EmptyEnrollmentStats()
	stats.TotalEnrollments = len(enrollments)
	for _, e := range enrollments {
		stats.EnrollmentByStatus[e.Status]++
		switch e.Status {
		case lms.EnrollmentInProgress:
			stats.ActiveEnrollments++
		case lms.EnrollmentCompleted:
			stats.CompletedEnrollments++
		}
		if m, ok := monthIndex(e.EnrollmentDate); ok {
			stats.MonthlyEnrollments[m]++
			if e.Status == lms.EnrollmentCompleted {
				stats.MonthlyCompletions[m]++
			}
		}
	}
	if stats.TotalEnrollments > 0 {
		stats.CompletionRate = stats.CompletedEnrollments * 100 / stats.TotalEnrollments
	}
	month := currentMonthIndex()
	if month > 0 {
		stats.EnrollmentGrowth = growthPercent(
			float64(stats.MonthlyEnrollments[month]),
			float64(stats.MonthlyEnrollments[month-1]),
		)
	}
	return stats, nil
}

func (s *ReportService) deriveRevenueStats(ctx context.Context) (lms.RevenueStats, error) {
	enrollments, err := s.c.Enrollments.List(ctx)
	if err != nil {
		return lms.RevenueStats{}, err
	}
	courses, err := s.c.Courses.List(ctx)
	if err != nil {
		return lms.RevenueStats{}, err
	}
	categories, err := s.c.Categories.List(ctx)
	if err != nil {
		return lms.RevenueStats{}, err
	}

	courseByID := make(map[int]lms.Course, len(courses))
	for _, c := range courses {
		courseByID[c.ID] = c
	}
	categoryName := make(map[int]string, len(categories))
	for _, cat := range categories {
		categoryName[cat.ID] = cat.Name
	}

	stats := lms.EmptyRevenueStats()
	for _, e := range enrollments {
		// dropped enrollments are refunded and carry no revenue
		if e.Status == lms.EnrollmentDropped {
			continue
		}
		course, ok := courseByID[e.CourseID]
		if !ok {
			continue
		}
		stats.TotalRevenue += course.Price
		if m, mok := monthIndex(e.EnrollmentDate); mok {
			stats.MonthlyRevenue[m] += course.Price
		}
		name := categoryName[course.CategoryID]
		if name == "" {
			name = "Uncategorized"
		}
		stats.RevenueByCategory[name] += course.Price
	}
	month := currentMonthIndex()
	if month > 0 {
		stats.RevenueGrowth = growthPercent(stats.MonthlyRevenue[month], stats.MonthlyRevenue[month-1])
	}
	return stats, nil
}

func (s *ReportService) deriveUserStats(ctx context.Context) (lms.UserStats, error) {
	users, err := s.c.Users.List(ctx)
	if err != nil {
		return lms.UserStats{}, err
	}
	stats := lms.EmptyUserStats()
	stats.TotalUsers = len(users)
	for _, u := range users {
		stats.UsersByRole[u.Role]++
		if u.Status != lms.UserInactive {
			stats.ActiveUsers++
		}
		if m, ok := monthIndex(u.JoinDate); ok {
			stats.UserGrowth[m]++
		}
	}

	// most recent registrations first, capped at five
	recent := make([]lms.User, len(users))
	copy(recent, users)
	sort.Slice(recent, func(i, j int) bool { return recent[i].JoinDate > recent[j].JoinDate })
	for i, u := range recent {
		if i == 5 {
			break
		}
		stats.RecentUsers = append(stats.RecentUsers, lms.RecentUser{
			ID:               u.ID,
			Name:             u.Name,
			Email:            u.Email,
			Role:             u.Role,
			RegistrationDate: u.JoinDate,
		})
	}
	return stats, nil
}

func (s *ReportService) deriveCourseStats(ctx context.Context) (lms.CourseStats, error) {
	courses, err := s.c.Courses.List(ctx)
	if err != nil {
		return lms.CourseStats{}, err
	}
	enrollments, err := s.c.Enrollments.List(ctx)
	if err != nil {
		return lms.CourseStats{}, err
	}
	// instructor names are best effort, a course still ranks without one
	userName := make(map[int]string)
	if users, err := s.c.Users.List(ctx); err == nil {
		for _, u := range users {
			userName[u.ID] = u.Name
		}
	}

	type tally struct{ total, completed int }
	byCourse := make(map[int]*tally)
	for _, e := range enrollments {
		t := byCourse[e.CourseID]
		if t == nil {
			t = &tally{}
			byCourse[e.CourseID] = t
		}
		t.total++
		if e.Status == lms.EnrollmentCompleted {
			t.completed++
		}
	}

	stats := lms.EmptyCourseStats()
	stats.TotalCourses = len(courses)
	var rateSum, rated int
	for _, c := range courses {
		stats.CoursesByStatus[c.Status]++
		if c.Status == lms.CoursePublished {
			stats.PublishedCourses++
		}
		t := byCourse[c.ID]
		if t == nil || t.total == 0 {
			continue
		}
		rate := t.completed * 100 / t.total
		rateSum += rate
		rated++
		var instructor string
		if c.Instructor != nil {
			instructor = userName[c.Instructor.ID]
		}
		stats.TopCourses = append(stats.TopCourses, lms.TopCourse{
			ID:              c.ID,
			Title:           c.Title,
			Instructor:      instructor,
			EnrollmentCount: t.total,
			CompletionRate:  rate,
		})
	}
	if rated > 0 {
		stats.AverageCompletionRate = rateSum / rated
	}
	sort.Slice(stats.TopCourses, func(i, j int) bool {
		return stats.TopCourses[i].EnrollmentCount > stats.TopCourses[j].EnrollmentCount
	})
	if len(stats.TopCourses) > 5 {
		stats.TopCourses = stats.TopCourses[:5]
	}
	return stats, nil
}

// monthIndex buckets a YYYY-MM-DD date into 0..11, current year only.
func monthIndex(date string) (int, bool) {
	if date == "" {
		return 0, false
	}
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return 0, false
	}
	if t.Year() != time.Now().Year() {
		return 0, false
	}
	return int(t.Month()) - 1, true
}

func currentMonthIndex() int {
	return int(time.Now().Month()) - 1
}

// growthPercent is the month-over-month delta as a whole percentage.
// A zero previous month yields zero rather than a division blowup.
func growthPercent(current, previous float64) int {
	if previous <= 0 {
		return 0
	}
	return int(math.Round((current - previous) / previous * 100))
}
