package domain

// Roles recognised across the directory.
const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
	RoleHR       = "hr"
)

// Date is a calendar date broken into parts, matching the stored payload.
type Date struct {
	Day   int `json:"day"`
	Month int `json:"month"`
	Year  int `json:"year"`
}

// Manager is a point-in-time snapshot of another user's identity, taken when
// the assignment is made. It is not a live reference; if the manager is later
// renamed the snapshot goes stale, and that is accepted.
type Manager struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// Visa holds immigration data. Dates are integer stamps. A user carries at
// most one visa; the slice on User exists for payload compatibility and is
// always replaced whole, never appended to.
type Visa struct {
	IssuingCountry string `json:"issuing_country"`
	Type           string `json:"type"`
	StartDate      int64  `json:"start_date"`
	EndDate        int64  `json:"end_date"`
}

// User is the persisted directory record.
type User struct {
	ID               string   `json:"_id"`
	Role             string   `json:"role"`
	IsRemoteWork     bool     `json:"isRemoteWork,omitempty"`
	UserAvatar       string   `json:"user_avatar,omitempty"`
	FirstName        string   `json:"first_name"`
	LastName         string   `json:"last_name"`
	FirstNativeName  string   `json:"first_native_name,omitempty"`
	LastNativeName   string   `json:"last_native_name,omitempty"`
	MiddleNativeName string   `json:"middle_native_name,omitempty"`
	Department       string   `json:"department,omitempty"`
	Building         string   `json:"building,omitempty"`
	Room             string   `json:"room,omitempty"`
	DateBirth        Date     `json:"date_birth"`
	DeskNumber       string   `json:"desk_number,omitempty"`
	Manager          *Manager `json:"manager,omitempty"`
	Phone            string   `json:"phone"`
	Email            string   `json:"email"`
	Password         string   `json:"password"` // bcrypt hash once persisted
	Skype            string   `json:"skype,omitempty"`
	CNumber          string   `json:"cnumber,omitempty"`
	Citizenship      string   `json:"citizenship,omitempty"`
	Visa             []Visa   `json:"visa,omitempty"`
}

// Caller is the identity asserted by a request body. It is trusted as-is,
// not derived from a session.
type Caller struct {
	ID   string `json:"id"`
	Role string `json:"role"`
}

// IsAdmin reports whether the caller asserts the admin role.
func (c Caller) IsAdmin() bool { return c.Role == RoleAdmin }
