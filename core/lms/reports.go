package lms

// Aggregate report shapes. The dedicated /api/reports endpoints return these;
// the client's fallback derivation must produce the same shapes so chart and
// summary rendering never has to care where the numbers came from. Monthly
// series are always 12 entries, January first.

type EnrollmentStats struct {
	TotalEnrollments     int            `json:"totalEnrollments"`
	ActiveEnrollments    int            `json:"activeEnrollments"`
	CompletedEnrollments int            `json:"completedEnrollments"`
	EnrollmentByStatus   map[string]int `json:"enrollmentByStatus"`
	MonthlyEnrollments   []int          `json:"monthlyEnrollments"`
	MonthlyCompletions   []int          `json:"monthlyCompletions"`
	CompletionRate       int            `json:"completionRate"` // percent
	EnrollmentGrowth     int            `json:"enrollmentGrowth"`
}

func EmptyEnrollmentStats() EnrollmentStats {
	return EnrollmentStats{
		EnrollmentByStatus: map[string]int{},
		MonthlyEnrollments: make([]int, 12),
		MonthlyCompletions: make([]int, 12),
	}
}

type RevenueStats struct {
	TotalRevenue      float64            `json:"totalRevenue"`
	MonthlyRevenue    []float64          `json:"monthlyRevenue"`
	RevenueByCategory map[string]float64 `json:"revenueByCategory"`
	RevenueGrowth     int                `json:"revenueGrowth"`
}

func EmptyRevenueStats() RevenueStats {
	return RevenueStats{
		MonthlyRevenue:    make([]float64, 12),
		RevenueByCategory: map[string]float64{},
	}
}

type RecentUser struct {
	ID               int    `json:"id"`
	Name             string `json:"name"`
	Email            string `json:"email"`
	Role             string `json:"role"`
	RegistrationDate string `json:"registrationDate"`
}

type UserStats struct {
	TotalUsers  int            `json:"totalUsers"`
	ActiveUsers int            `json:"activeUsers"`
	UsersByRole map[string]int `json:"usersByRole"`
	UserGrowth  []int          `json:"userGrowth"`
	RecentUsers []RecentUser   `json:"recentUsers"`
}

func EmptyUserStats() UserStats {
	return UserStats{
		UsersByRole: map[string]int{RoleStudent: 0, RoleInstructor: 0, RoleAdmin: 0},
		UserGrowth:  make([]int, 12),
		RecentUsers: []RecentUser{},
	}
}

type TopCourse struct {
	ID              int    `json:"id"`
	Title           string `json:"title"`
	Instructor      string `json:"instructor"`
	EnrollmentCount int    `json:"enrollmentCount"`
	CompletionRate  int    `json:"completionRate"`
}

type CourseStats struct {
	TotalCourses          int            `json:"totalCourses"`
	PublishedCourses      int            `json:"publishedCourses"`
	CoursesByStatus       map[string]int `json:"coursesByStatus"`
	AverageCompletionRate int            `json:"averageCompletionRate"`
	TopCourses            []TopCourse    `json:"topCourses"`
}

func EmptyCourseStats() CourseStats {
	return CourseStats{
		CoursesByStatus: map[string]int{
			CourseDraft:     0,
			CoursePending:   0,
			CoursePublished: 0,
			CourseArchived:  0,
		},
		TopCourses: []TopCourse{},
	}
}

// ReportRequest asks the backend to render a downloadable report document.
type ReportRequest struct {
	Type   string `json:"type"`   // enrollment | revenue | users | courses
	Range  string `json:"range"`  // e.g. last_30_days
	Format string `json:"format"` // pdf | csv
}
