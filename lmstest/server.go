// Package lmstest provides an in-process fake of the EduLearn REST backend
// for client tests: seeded resources, bearer-token auth, and failure knobs
// for exercising retry and fallback paths.
package lmstest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/labstack/echo/v4"

	"github.com/edulearn/academy-go/core/lms"
)

// Options configure the fake backend.
type Options struct {
	// Token is the bearer token Login issues and protected routes accept.
	Token string
	// Email and Password are the accepted credentials.
	Email    string
	Password string
	// User is the identity Login reports.
	User lms.User
	// FailReports makes every /api/reports route answer 500.
	FailReports bool
	// Unauthorized makes every protected route answer 401 regardless of token.
	Unauthorized bool
	// LegacyPayments unmounts the /api payment routes so only the root-level
	// legacy ones exist.
	LegacyPayments bool
}

// Server is the running fake.
type Server struct {
	*httptest.Server

	opts Options
	hits int64

	mu          sync.Mutex
	nextID      int
	users       map[int]lms.User
	courses     map[int]lms.Course
	categories  map[int]lms.Category
	videos      map[int]lms.Video
	enrollments map[int]lms.Enrollment
}

// NewServer starts a fake backend. Close it when done.
func NewServer(opts Options) *Server {
	if opts.Token == "" {
		opts.Token = "test-token"
	}
	if opts.Email == "" {
		opts.Email = "admin@example.test"
	}
	if opts.Password == "" {
		opts.Password = "Secur3!"
	}
	if opts.User.ID == 0 {
		opts.User = lms.User{ID: 1, Name: "Admin", Email: opts.Email, Role: lms.RoleAdmin}
	}

	s := &Server{
		opts:        opts,
		nextID:      100,
		users:       map[int]lms.User{opts.User.ID: opts.User},
		courses:     map[int]lms.Course{},
		categories:  map[int]lms.Category{},
		videos:      map[int]lms.Video{},
		enrollments: map[int]lms.Enrollment{},
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(s.count)

	e.POST("/api/users/login", s.login)
	e.POST("/api/users/register", s.register)

	api := e.Group("", s.requireAuth)
	api.GET("/api/users", s.listUsers)
	api.GET("/api/users/:id", s.getUser)
	api.PUT("/api/users/:id", s.updateUser)
	api.PUT("/api/users/:id/status", s.updateUserStatus)
	api.DELETE("/api/users/:id", s.deleteUser)

	api.GET("/api/courses", s.listCourses)
	api.GET("/api/courses/status/:status", s.listCoursesByStatus)
	api.GET("/api/courses/instructor/:id", s.listCoursesByInstructor)
	api.GET("/api/courses/:id", s.getCourse)
	api.POST("/api/courses", s.createCourse)
	api.PUT("/api/courses/:id", s.updateCourse)
	api.PUT("/api/courses/:id/status", s.updateCourseStatus)
	api.DELETE("/api/courses/:id", s.deleteCourse)

	api.GET("/api/categories", s.listCategories)
	api.POST("/api/categories", s.createCategory)

	api.GET("/api/videos", s.listVideos)
	api.GET("/api/videos/course/:id", s.listVideosByCourse)
	api.GET("/api/videos/instructor/:id", s.listVideosByInstructor)
	api.POST("/api/videos", s.createVideo)

	api.GET("/api/enrollments", s.listEnrollments)
	api.GET("/api/enrollments/user/:id", s.listEnrollmentsByUser)
	api.POST("/api/enrollments", s.createEnrollment)
	api.PUT("/api/enrollments/:id/status", s.updateEnrollmentStatus)

	api.GET("/api/reports/enrollments", s.reportEnrollments)
	api.GET("/api/reports/revenue", s.reportRevenue)
	api.GET("/api/reports/users", s.reportUsers)
	api.GET("/api/reports/courses", s.reportCourses)
	api.POST("/api/reports/generate", s.reportGenerate)

	if !opts.LegacyPayments {
		api.POST("/api/create-order", s.createOrder)
		api.POST("/api/verify-payment", s.verifyPayment)
	}
	e.POST("/create-order", s.createOrder, s.requireAuth)
	e.POST("/verify-payment", s.verifyPayment, s.requireAuth)

	s.Server = httptest.NewServer(e)
	return s
}

// Hits reports how many requests reached the server, including rejected ones.
func (s *Server) Hits() int64 { return atomic.LoadInt64(&s.hits) }

// Token returns the bearer token the server accepts.
func (s *Server) Token() string { return s.opts.Token }

// Seed helpers. Zero IDs are assigned.

func (s *Server) SeedUser(u lms.User) lms.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.id()
	}
	s.users[u.ID] = u
	return u
}

func (s *Server) SeedCourse(c lms.Course) lms.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.courses[c.ID] = c
	return c
}

func (s *Server) SeedCategory(c lms.Category) lms.Category {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == 0 {
		c.ID = s.id()
	}
	s.categories[c.ID] = c
	return c
}

func (s *Server) SeedEnrollment(e lms.Enrollment) lms.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == 0 {
		e.ID = s.id()
	}
	s.enrollments[e.ID] = e
	return e
}

// Course returns the current record, for asserting on mutations.
func (s *Server) Course(id int) (lms.Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.courses[id]
	return c, ok
}

func (s *Server) id() int {
	s.nextID++
	return s.nextID
}

// middleware

func (s *Server) count(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		atomic.AddInt64(&s.hits, 1)
		return next(c)
	}
}

func (s *Server) requireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.opts.Unauthorized {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		auth := c.Request().Header.Get(echo.HeaderAuthorization)
		if auth != "Bearer "+s.opts.Token {
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Unauthorized"})
		}
		return next(c)
	}
}

// handlers

func (s *Server) login(c echo.Context) error {
	var creds lms.Credentials
	if err := c.Bind(&creds); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed payload"})
	}
	if creds.Email != s.opts.Email || creds.Password != s.opts.Password {
		return c.JSON(http.StatusOK, echo.Map{"login": "failed"})
	}
	return c.JSON(http.StatusOK, lms.AuthResponse{
		Login:  "success",
		Token:  s.opts.Token,
		UserID: s.opts.User.ID,
		Name:   s.opts.User.Name,
		Role:   s.opts.User.Role,
	})
}

func (s *Server) register(c echo.Context) error {
	var nu lms.NewUser
	if err := c.Bind(&nu); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed payload"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == nu.Email {
			return c.JSON(http.StatusConflict, echo.Map{"message": "Email already registered"})
		}
	}
	role := nu.Role
	if role == "" {
		role = lms.RoleStudent
	}
	usr := lms.User{ID: s.id(), Name: nu.Name, Email: nu.Email, Role: role, Status: lms.UserActive}
	s.users[usr.ID] = usr
	return c.JSON(http.StatusCreated, usr)
}

func (s *Server) listUsers(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getUser(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	}
	return c.JSON(http.StatusOK, u)
}

func (s *Server) updateUser(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var upd lms.UpdateUser
	if err := c.Bind(&upd); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed payload"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	}
	if upd.Name != "" {
		u.Name = upd.Name
	}
	if upd.Email != "" {
		u.Email = upd.Email
	}
	if upd.Role != "" {
		u.Role = upd.Role
	}
	if upd.Status != "" {
		u.Status = upd.Status
	}
	s.users[id] = u
	return c.JSON(http.StatusOK, u)
}

func (s *Server) updateUserStatus(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	status, err := bindStatus(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "User not found"})
	}
	u.Status = status
	s.users[id] = u
	return c.JSON(http.StatusOK, u)
}

func (s *Server) deleteUser(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.users, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listCourses(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.Course, 0, len(s.courses))
	for _, course := range s.courses {
		out = append(out, course)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listCoursesByStatus(c echo.Context) error {
	status := c.Param("status")
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.Course, 0)
	for _, course := range s.courses {
		if course.Status == status {
			out = append(out, course)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listCoursesByInstructor(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.Course, 0)
	for _, course := range s.courses {
		if course.Instructor != nil && course.Instructor.ID == id {
			out = append(out, course)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getCourse(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Course not found"})
	}
	return c.JSON(http.StatusOK, course)
}

// bindStatus decodes the status-transition body the real backend expects:
// a JSON document with a required "status" field. A query parameter is not
// accepted.
func bindStatus(c echo.Context) (string, error) {
	var upd lms.StatusUpdate
	if err := c.Bind(&upd); err != nil || upd.Status == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "Status is required")
	}
	return upd.Status, nil
}

// parseCourseForm decodes the multipart shape the real backend expects:
// a JSON "course" part plus optional "thumbnail" file.
func parseCourseForm(c echo.Context, out interface{}) (thumbnail string, err error) {
	if !strings.HasPrefix(c.Request().Header.Get(echo.HeaderContentType), echo.MIMEMultipartForm) {
		return "", echo.NewHTTPError(http.StatusUnsupportedMediaType, "multipart form required")
	}
	record := c.FormValue("course")
	if record == "" {
		return "", echo.NewHTTPError(http.StatusBadRequest, "missing course part")
	}
	if err := json.Unmarshal([]byte(record), out); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, "malformed course part")
	}
	if fh, ferr := c.FormFile("thumbnail"); ferr == nil {
		thumbnail = fh.Filename
	}
	return thumbnail, nil
}

func (s *Server) createCourse(c echo.Context) error {
	var nc lms.NewCourse
	thumb, err := parseCourseForm(c, &nc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	status := nc.Status
	if status == "" {
		status = lms.CourseDraft
	}
	course := lms.Course{
		ID:          s.id(),
		Title:       nc.Title,
		Description: nc.Description,
		Price:       nc.Price,
		Status:      status,
		CategoryID:  nc.CategoryID,
		Thumbnail:   thumb,
	}
	s.courses[course.ID] = course
	return c.JSON(http.StatusCreated, course)
}

func (s *Server) updateCourse(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	var cu lms.CourseUpdate
	thumb, err := parseCourseForm(c, &cu)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.courses[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Course not found"})
	}
	// field-for-field replacement, like the real backend: absent means gone
	course := lms.Course{
		ID:          id,
		Title:       cu.Title,
		Description: cu.Description,
		Price:       cu.Price,
		Status:      cu.Status,
		CategoryID:  cu.CategoryID,
		Instructor:  cu.Instructor,
		Thumbnail:   existing.Thumbnail,
	}
	if thumb != "" {
		course.Thumbnail = thumb
	}
	s.courses[id] = course
	return c.JSON(http.StatusOK, course)
}

func (s *Server) updateCourseStatus(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	status, err := bindStatus(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	course, ok := s.courses[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Course not found"})
	}
	course.Status = status
	s.courses[id] = course
	return c.JSON(http.StatusOK, course)
}

func (s *Server) deleteCourse(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.courses, id)
	return c.NoContent(http.StatusNoContent)
}

func (s *Server) listCategories(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.Category, 0, len(s.categories))
	for _, cat := range s.categories {
		out = append(out, cat)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createCategory(c echo.Context) error {
	var nc lms.NewCategory
	if err := c.Bind(&nc); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed payload"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cat := lms.Category{ID: s.id(), Name: nc.Name, Description: nc.Description}
	s.categories[cat.ID] = cat
	return c.JSON(http.StatusCreated, cat)
}

func (s *Server) listVideos(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.Video, 0, len(s.videos))
	for _, v := range s.videos {
		out = append(out, v)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listVideosByCourse(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.Video, 0)
	for _, v := range s.videos {
		if v.CourseID == id {
			out = append(out, v)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listVideosByInstructor(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.Video, 0)
	for _, v := range s.videos {
		course, ok := s.courses[v.CourseID]
		if ok && course.Instructor != nil && course.Instructor.ID == id {
			out = append(out, v)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createVideo(c echo.Context) error {
	var nv lms.NewVideo
	if err := c.Bind(&nv); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed payload"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	vid := lms.Video{ID: s.id(), Title: nv.Title, URL: nv.URL, CourseID: nv.CourseID, Duration: nv.Duration, Position: nv.Position}
	s.videos[vid.ID] = vid
	return c.JSON(http.StatusCreated, vid)
}

func (s *Server) listEnrollments(c echo.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.Enrollment, 0, len(s.enrollments))
	for _, e := range s.enrollments {
		out = append(out, e)
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) listEnrollmentsByUser(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]lms.Enrollment, 0)
	for _, e := range s.enrollments {
		if e.UserID == id {
			out = append(out, e)
		}
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) createEnrollment(c echo.Context) error {
	var ne lms.NewEnrollment
	if err := c.Bind(&ne); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed payload"})
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	status := ne.Status
	if status == "" {
		status = lms.EnrollmentInProgress
	}
	enr := lms.Enrollment{
		ID:             s.id(),
		UserID:         ne.UserID,
		CourseID:       ne.CourseID,
		Status:         status,
		EnrollmentDate: ne.EnrollmentDate,
		PaymentID:      ne.PaymentID,
	}
	s.enrollments[enr.ID] = enr
	return c.JSON(http.StatusCreated, enr)
}

func (s *Server) updateEnrollmentStatus(c echo.Context) error {
	id, _ := strconv.Atoi(c.Param("id"))
	status, err := bindStatus(c)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	enr, ok := s.enrollments[id]
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Enrollment not found"})
	}
	enr.Status = status
	s.enrollments[id] = enr
	return c.JSON(http.StatusOK, enr)
}

// reports

func (s *Server) failReports(c echo.Context) (bool, error) {
	if s.opts.FailReports {
		return true, c.JSON(http.StatusInternalServerError, echo.Map{"message": ""})
	}
	return false, nil
}

func (s *Server) reportEnrollments(c echo.Context) error {
	if failed, err := s.failReports(c); failed {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := lms.EmptyEnrollmentStats()
	stats.TotalEnrollments = len(s.enrollments)
	for _, e := range s.enrollments {
		stats.EnrollmentByStatus[e.Status]++
		if e.Status == lms.EnrollmentCompleted {
			stats.CompletedEnrollments++
		}
	}
	if stats.TotalEnrollments > 0 {
		stats.CompletionRate = stats.CompletedEnrollments * 100 / stats.TotalEnrollments
	}
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) reportRevenue(c echo.Context) error {
	if failed, err := s.failReports(c); failed {
		return err
	}
	return c.JSON(http.StatusOK, lms.EmptyRevenueStats())
}

func (s *Server) reportUsers(c echo.Context) error {
	if failed, err := s.failReports(c); failed {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := lms.EmptyUserStats()
	stats.TotalUsers = len(s.users)
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) reportCourses(c echo.Context) error {
	if failed, err := s.failReports(c); failed {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := lms.EmptyCourseStats()
	stats.TotalCourses = len(s.courses)
	return c.JSON(http.StatusOK, stats)
}

func (s *Server) reportGenerate(c echo.Context) error {
	if failed, err := s.failReports(c); failed {
		return err
	}
	var req lms.ReportRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed payload"})
	}
	return c.Blob(http.StatusOK, "application/octet-stream", []byte("%PDF-fake "+req.Type))
}

// payments

func (s *Server) createOrder(c echo.Context) error {
	var req lms.OrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed payload"})
	}
	return c.JSON(http.StatusOK, lms.Order{
		ID:       "order_test_1",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	})
}

func (s *Server) verifyPayment(c echo.Context) error {
	var result lms.PaymentResult
	if err := c.Bind(&result); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "malformed payload"})
	}
	if result.Signature == "bad" {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "Invalid payment signature"})
	}
	return c.JSON(http.StatusOK, echo.Map{"status": "verified"})
}
