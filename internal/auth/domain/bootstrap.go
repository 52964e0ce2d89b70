package domain

// BootstrapAdmin describes the administrator account created on first start
// when ADMIN_EMAIL is configured.
type BootstrapAdmin struct {
	Email    string
	Name     string
	Password string // generated and logged once when empty
}
