package navigation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var collegeItems = []Item{
	{Key: "dashboard", Label: "Dashboard", Route: "/colleges/dashboard"},
	{Key: "jobs", Label: "Jobs", Route: "/colleges/jobs"},
	{Key: "support", Label: "Support", Route: "#"},
}

func TestResolveActiveKey(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		path  string
		items []Item
		want  string
	}{
		{"Exact Match", "/colleges/jobs", collegeItems, "jobs"},
		{"Nested Path", "/colleges/jobs/42", collegeItems, "jobs"},
		{"Other Item", "/colleges/dashboard/stats", collegeItems, "dashboard"},
		{"Sibling Prefix Is Not A Match", "/colleges/jobsxyz", collegeItems, "home"},
		{"Unknown Path Falls Back", "/unknown/place", collegeItems, "home"},
		{"Empty Path", "", collegeItems, "home"},
		{"Root Path", "/", collegeItems, "home"},
		{"Trailing Slash", "/colleges/jobs/", collegeItems, "jobs"},
		{"Query And Fragment", "/colleges/jobs?tab=open#top", collegeItems, "jobs"},
		{"No Items", "/colleges/jobs", nil, "home"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveActiveKey(tt.path, tt.items, "home"))
		})
	}
}

func TestResolveActiveKey_PrefersLongerRoute(t *testing.T) {
	t.Parallel()
	items := []Item{
		{Key: "colleges", Route: "/colleges"},
		{Key: "jobs", Route: "/colleges/jobs"},
	}
	assert.Equal(t, "jobs", ResolveActiveKey("/colleges/jobs/7", items, "home"))
	assert.Equal(t, "colleges", ResolveActiveKey("/colleges/students", items, "home"))
}

func TestResolveActiveKey_TiesKeepListOrder(t *testing.T) {
	t.Parallel()
	items := []Item{
		{Key: "first", Route: "/a/b"},
		{Key: "second", Route: "/a/b"},
	}
	assert.Equal(t, "first", ResolveActiveKey("/a/b/c", items, "home"))
}

func TestResolveActiveKey_PlaceholdersNeverMatch(t *testing.T) {
	t.Parallel()
	items := []Item{
		{Key: "support", Route: "#"},
		{Key: "blank", Route: ""},
		{Key: "jobs", Route: "/colleges/jobs"},
	}
	for _, path := range []string{"#", "/#", "/colleges/jobs", "/anything", ""} {
		got := ResolveActiveKey(path, items, "home")
		assert.NotEqual(t, "support", got, path)
		assert.NotEqual(t, "blank", got, path)
	}
}

func TestResolveActiveKey_Deterministic(t *testing.T) {
	t.Parallel()
	first := ResolveActiveKey("/colleges/jobs/123", collegeItems, "home")
	for i := 0; i < 50; i++ {
		require.Equal(t, first, ResolveActiveKey("/colleges/jobs/123", collegeItems, "home"))
	}
}

func TestResolveActiveKey_DoesNotReorderInput(t *testing.T) {
	t.Parallel()
	items := []Item{
		{Key: "a", Route: "/a"},
		{Key: "ab", Route: "/a/b"},
	}
	_ = ResolveActiveKey("/a/b", items, "home")
	assert.Equal(t, "a", items[0].Key)
}

func TestMenu_Active(t *testing.T) {
	t.Parallel()
	menu := Menu{Items: collegeItems, HomeKey: "dashboard", FallbackKey: "none"}

	assert.Equal(t, "dashboard", menu.Active("/"))
	assert.Equal(t, "none", menu.Active("/settings"))
	assert.Equal(t, "jobs", menu.Active("/colleges/jobs/42"))
}

func TestMenu_Validate(t *testing.T) {
	t.Parallel()
	require.NoError(t, Menu{Items: collegeItems}.Validate())

	dup := Menu{Items: []Item{{Key: "a", Route: "/a"}, {Key: "a", Route: "/b"}}}
	assert.ErrorContains(t, dup.Validate(), "duplicate")

	empty := Menu{Items: []Item{{Label: "Nameless", Route: "/a"}}}
	assert.ErrorContains(t, empty.Validate(), "empty key")
}

func TestBuiltInMenus(t *testing.T) {
	t.Parallel()
	for _, role := range []string{"student", "Colleges", "employer"} {
		menu, ok := MenuFor(role)
		require.True(t, ok, role)
		require.NoError(t, menu.Validate(), role)
	}

	_, ok := MenuFor("admin")
	assert.False(t, ok)

	assert.Equal(t, "new-job", EmployerMenu.Active("/employers/jobs/new"))
	assert.Equal(t, "jobs", EmployerMenu.Active("/employers/jobs/17/edit"))
	assert.Equal(t, "applications", StudentMenu.Active("/students/applications/9"))
	assert.Equal(t, "jobs", CollegeMenu.Active("/colleges/jobs/42"))
}
