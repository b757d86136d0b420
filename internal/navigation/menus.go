package navigation

import "strings"

// Role is a tenant role of the platform.
type Role string

const (
	RoleStudent  Role = "student"
	RoleCollege  Role = "college"
	RoleEmployer Role = "employer"
)

// StudentMenu is the student sidebar.
var StudentMenu = Menu{
	HomeKey:     "dashboard",
	FallbackKey: "dashboard",
	Items: []Item{
		{Key: "dashboard", Label: "Dashboard", Route: "/students/dashboard"},
		{Key: "feed", Label: "Feed", Route: "/students/feed"},
		{Key: "jobs", Label: "Jobs", Route: "/students/jobs"},
		{Key: "applications", Label: "Applications", Route: "/students/applications"},
		{Key: "projects", Label: "Projects", Route: "/students/projects"},
		{Key: "clubs", Label: "Clubs", Route: "/students/clubs"},
		{Key: "profile", Label: "Profile", Route: "/students/profile"},
		{Key: "support", Label: "Support", Route: "#"},
	},
}

// CollegeMenu is the college sidebar.
var CollegeMenu = Menu{
	HomeKey:     "dashboard",
	FallbackKey: "dashboard",
	Items: []Item{
		{Key: "dashboard", Label: "Dashboard", Route: "/colleges/dashboard"},
		{Key: "students", Label: "Students", Route: "/colleges/students"},
		{Key: "jobs", Label: "Jobs", Route: "/colleges/jobs"},
		{Key: "projects", Label: "Projects", Route: "/colleges/projects"},
		{Key: "clubs", Label: "Clubs", Route: "/colleges/clubs"},
		{Key: "feed", Label: "Feed", Route: "/colleges/feed"},
		{Key: "profile", Label: "Profile", Route: "/colleges/profile"},
		{Key: "support", Label: "Support", Route: "#"},
	},
}

// EmployerMenu is the employer sidebar.
var EmployerMenu = Menu{
	HomeKey:     "dashboard",
	FallbackKey: "dashboard",
	Items: []Item{
		{Key: "dashboard", Label: "Dashboard", Route: "/employers/dashboard"},
		{Key: "jobs", Label: "Job Postings", Route: "/employers/jobs"},
		{Key: "new-job", Label: "Post a Job", Route: "/employers/jobs/new"},
		{Key: "applications", Label: "Applications", Route: "/employers/applications"},
		{Key: "colleges", Label: "Colleges", Route: "/employers/colleges"},
		{Key: "profile", Label: "Profile", Route: "/employers/profile"},
		{Key: "support", Label: "Support", Route: "#"},
	},
}

// MenuFor returns the sidebar of role. Role names are case-insensitive and accept
// the plural form used in route prefixes ("colleges").
func MenuFor(role string) (Menu, bool) {
	switch Role(strings.TrimSuffix(strings.ToLower(role), "s")) {
	case RoleStudent:
		return StudentMenu, true
	case RoleCollege:
		return CollegeMenu, true
	case RoleEmployer:
		return EmployerMenu, true
	default:
		return Menu{}, false
	}
}
