package config

// RouteConfig holds the redirect targets used by the route guards.
type RouteConfig interface {
	GetLoginPath() string
	GetBeneficiaryLoginPath() string
	GetUnauthorizedPath() string
}

type Routes struct{}

var _ RouteConfig = Routes{}

func (Routes) GetLoginPath() string {
	return GetEnv("LOGIN_PATH", "/login")
}

func (Routes) GetBeneficiaryLoginPath() string {
	return GetEnv("BENEFICIARY_LOGIN_PATH", "/beneficiary/login")
}

func (Routes) GetUnauthorizedPath() string {
	return GetEnv("UNAUTHORIZED_PATH", "/unauthorized")
}
