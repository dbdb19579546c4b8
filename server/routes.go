package server

func (s *Server) initRoutes() {
	// SESSION API
	s.RegisterRouteHandler("GET "+RouteAPISession, ChainMiddleware(s.SessionHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPISessionLogin, ChainMiddleware(s.LoginHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteAPISessionLogout, ChainMiddleware(s.LogoutHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("OPTIONS /api/", ChainMiddleware(s.PreflightHandler(), s.APIMiddleware()...))

	// ENTRY POINTS
	s.RegisterRouteHandler("GET "+RouteLogin, ChainMiddleware(s.EntryViewHandler("login"), s.ViewMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteBeneficiaryLogin, ChainMiddleware(s.EntryViewHandler("beneficiary_login"), s.ViewMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteUnauthorized, ChainMiddleware(s.EntryViewHandler("unauthorized"), s.ViewMiddleware()...))

	// Authenticated views
	s.RegisterRouteHandler("GET "+RouteDashboard, ChainMiddleware(s.DashboardHandler(), s.ViewMiddleware(s.RequireSession(s.policies.member))...))
	s.RegisterRouteHandler("GET "+RouteOnboarding, ChainMiddleware(s.OnboardingHandler(), s.ViewMiddleware(s.RequireSession(s.policies.member))...))
	s.RegisterRouteHandler("GET "+RoutePartnerActivities, ChainMiddleware(s.PartnerActivitiesHandler(), s.ViewMiddleware(s.RequireSession(s.policies.member))...))
	s.RegisterRouteHandler("GET "+RouteScreeningProgress, ChainMiddleware(s.ScreeningProgressHandler(), s.ViewMiddleware(s.RequireSession(s.policies.member))...))
	s.RegisterRouteHandler("GET "+RouteBeneficiaryHome, ChainMiddleware(s.BeneficiaryHomeHandler(), s.ViewMiddleware(s.RequireSession(s.policies.beneficiary))...))

	// Admin views
	s.RegisterRouteHandler("GET "+RouteAdminDashboard, ChainMiddleware(s.AdminDashboardHandler(), s.ViewMiddleware(s.RequireSession(s.policies.admin))...))
}
