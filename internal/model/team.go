package model

import "time"

// TeamStatus marks whether a team is currently staffed.
type TeamStatus string

const (
	TeamStatusActive   TeamStatus = "active"
	TeamStatusInactive TeamStatus = "inactive"
)

// Team is a staffing unit with one leader and zero or more members.
// The leader is implicitly a member and never appears in the member roster.
type Team struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	LeaderID    string     `json:"leader_id"`
	WorkTypeIDs []string   `json:"work_type_ids"`
	Status      TeamStatus `json:"status"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TeamMember joins a team and an employee. One row per (team, employee).
type TeamMember struct {
	ID         string `json:"id"`
	TeamID     string `json:"team_id"`
	EmployeeID string `json:"employee_id"`
	IsActive   bool   `json:"is_active"`
}

// TeamWorkShift records that a team works a shift, on that shift's
// applicable days. A team may hold several links (e.g. morning and
// evening shifts).
type TeamWorkShift struct {
	ID          string `json:"id"`
	TeamID      string `json:"team_id"`
	WorkShiftID string `json:"work_shift_id"`
}

// Employee is the directory view of a staff member, read-only here.
type Employee struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}
