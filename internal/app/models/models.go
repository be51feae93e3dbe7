package models

// RoleType defines the user role type
type RoleType string

const (
	RoleStudent RoleType = "STUDENT"
	RoleTeacher RoleType = "TEACHER"
)

// NormalizeRole maps a signup role value to a RoleType. Anything other
// than an explicit "teacher" becomes a student.
func NormalizeRole(role string) RoleType {
	if role == "teacher" || role == string(RoleTeacher) {
		return RoleTeacher
	}
	return RoleStudent
}
