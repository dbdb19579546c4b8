package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// Session API
	RouteAPISession       = "/api/session"
	RouteAPISessionLogin  = "/api/session/login"
	RouteAPISessionLogout = "/api/session/logout"

	// Entry points (redirect targets of the guards)
	RouteLogin            = "/login"
	RouteBeneficiaryLogin = "/beneficiary/login"
	RouteUnauthorized     = "/unauthorized"

	// Authenticated views
	RouteDashboard         = "/dashboard"
	RouteOnboarding        = "/onboarding"
	RouteBeneficiaryHome   = "/beneficiary/home"
	RouteScreeningProgress = "/screening/progress"
	RoutePartnerActivities = "/partner/activities"

	// Admin views
	RouteAdminDashboard = "/admin/dashboard"
)
