package handler

// Route pattern constants for chi router registration.
const (
	// RouteRoot is the root path.
	RouteRoot = "/"
	// RouteLogin is the login route.
	RouteLogin = "/login"
	// RouteLogout is the logout route.
	RouteLogout = "/logout"
	// RouteRegister is the account registration route.
	RouteRegister = "/register"

	// RouteDashboard is the student dashboard route.
	RouteDashboard = "/dashboard"
	// RouteProfile is the profile update route.
	RouteProfile = "/profile"
	// RouteExperiences is the experience collection route.
	RouteExperiences = "/experiences"
	// RouteExperienceDelete is the experience delete route pattern.
	RouteExperienceDelete = RouteExperiences + "/{id}/delete"
	// RouteResume is the résumé upload route.
	RouteResume = "/resume"
	// RouteResumeDownload is the student's own résumé download route.
	RouteResumeDownload = RouteResume + "/download"

	// RouteAdmin is the admin dashboard route.
	RouteAdmin = "/admin"
	// RouteStudents is the admin student list route, relative to /admin.
	RouteStudents = "/students"
	// RouteStudentID is the admin student detail route pattern.
	RouteStudentID = RouteStudents + "/{id}"
	// RouteStudentResume is the admin résumé download route pattern.
	RouteStudentResume = RouteStudentID + "/resume"
)

const (
	redirectLogin         = RouteLogin
	redirectRegister      = RouteRegister
	redirectDashboard     = RouteDashboard
	redirectAdmin         = RouteAdmin
	redirectAdminStudents = redirectAdmin + RouteStudents
)
