package httpx

// Route paths.
const (
	LandingPath       = "/"
	LoginPath         = "/admin/login"
	LogoutPath        = "/admin/logout"
	AuthStatusPath    = "/admin/auth/status"
	DashboardPath     = "/admin"
	UsersPath         = "/admin/users"
	GuardsPath        = "/admin/guards"
	AdminsPath        = "/admin/admins"
	BookingsPath      = "/admin/bookings"
	PaymentsPath      = "/admin/payments"
	ConversationsPath = "/admin/conversations"
	SkillsPath        = "/admin/skills"
	HealthPath        = "/healthz"
)

// SessionCookieName names the browser session; its value is the gate's
// storage namespace.
const SessionCookieName = "wiqayah_session"

// CurrentPage identifiers used by templates and navigation.
const (
	PageLanding           = "landing"
	PageLogin             = "login"
	PageLoading           = "loading"
	PageDashboard         = "dashboard"
	PageUsers             = "users"
	PageUserConversations = "user-conversations"
	PageGuards            = "guards"
	PageAdmins            = "admins"
	PageStaffForm         = "staff-form"
	PageBookings          = "bookings"
	PagePayments          = "payments"
	PagePaymentForm       = "payment-form"
	PageConversations     = "conversations"
	PageSkills            = "skills"
	PageNotFound          = "not-found"
)

// Template directory paths.
const (
	TemplatePathFromRoot = "frontend/templates"
	TemplatePathFromTest = "../../frontend/templates"
)

// FormMode represents the mode of a form (create or edit).
type FormMode string

const (
	FormModeEdit   FormMode = "edit"
	FormModeCreate FormMode = "create"
)

//nolint:gochecknoglobals // static read-only lookup
var contentTemplates = map[string]string{
	PageDashboard:         "dashboard-content",
	PageUsers:             "users-content",
	PageUserConversations: "user-conversations-content",
	PageGuards:            "guards-content",
	PageAdmins:            "admins-content",
	PageStaffForm:         "staff-form-content",
	PageBookings:          "bookings-content",
	PagePayments:          "payments-content",
	PagePaymentForm:       "payment-form-content",
	PageConversations:     "conversations-content",
	PageSkills:            "skills-content",
	PageNotFound:          "not-found-content",
}

// ContentTemplateMap returns the mapping from CurrentPage to template name.
func ContentTemplateMap() map[string]string { return contentTemplates }

// ContentTemplateFor returns the content template for the given CurrentPage,
// falling back to the dashboard.
func ContentTemplateFor(currentPage string) string {
	if name, ok := contentTemplates[currentPage]; ok {
		return name
	}
	return "dashboard-content"
}
