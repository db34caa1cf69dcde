package handler

const (
	// UserRootPath is the base path for user-facing provisioning routes.
	UserRootPath = "/api/user/provision"

	// AdminRootPath is the base path for admin-facing provisioning routes.
	AdminRootPath = "/api/admin/provision"

	// ErrNilACDFatalLogMsg is used if app or cfg or db var pointer is nil.
	ErrNilACDFatalLogMsg = "app, cfg or db is nil"
)
