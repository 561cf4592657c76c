package normalize

import "testing"

func TestTitle(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"already normalized", "senior software engineer", "senior software engineer"},
		{"uppercase", "SENIOR SOFTWARE ENGINEER", "senior software engineer"},
		{"sr with dot", "Sr. Software Engineer", "senior software engineer"},
		{"sr without dot", "Sr Software Engineer", "senior software engineer"},
		{"jr", "Jr. Developer", "junior developer"},
		{"swe", "Staff SWE", "staff software engineer"},
		{"sde", "SDE", "software development engineer"},
		{"sw eng", "SW Eng", "software engineer"},
		{"engr", "Principal Engr", "principal engineer"},
		{"dev", "Backend Dev", "backend developer"},
		{"devops untouched", "DevOps Engineer", "devops engineer"},
		{"mgr", "Engineering Mgr", "engineering manager"},
		{"dir", "Dir, Engineering", "director engineering"},
		{"vp", "VP of Engineering", "vice president engineering"},
		{"frontend", "FE Engineer", "frontend engineer"},
		{"backend", "BE Engineer", "backend engineer"},
		{"fullstack", "FS Developer", "fullstack developer"},
		{"qa", "QA Engineer", "quality assurance engineer"},
		{"ml", "ML Engineer", "machine learning engineer"},
		{"ai", "AI Researcher", "artificial intelligence researcher"},
		{"db admin", "DB Admin", "database administrator"},
		{"ops", "Ops Lead", "operations lead"},
		{"filler words", "Head of Engineering and Operations", "head engineering operations"},
		{"comma to space", "Engineer, Platform", "engineer platform"},
		{"paren level", "Software Engineer (L5)", "software engineer"},
		{"bracket level", "Software Engineer [IC4]", "software engineer"},
		{"dash level", "Software Engineer - Level 3", "software engineer"},
		{"bare code", "Software Engineer L4", "software engineer"},
		{"dashed code", "Software Engineer I-5", "software engineer"},
		{"roman numeral", "Software Engineer III", "software engineer"},
		{"stacked levels", "Software Engineer III (L5)", "software engineer"},
		{"repeated whitespace", "Software   Engineer", "software engineer"},
		{"trailing punctuation", "Software Engineer.", "software engineer"},
		{"empty", "", ""},
		{"only level", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Title(tt.in); got != tt.want {
				t.Errorf("Title(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTitle_EquivalentPhrasings(t *testing.T) {
	a := Title("Sr. Software Engineer (L5)")
	b := Title("Senior SW Eng - Level 5")
	if a != b {
		t.Errorf("expected equal titles, got %q vs %q", a, b)
	}
	if a != "senior software engineer" {
		t.Errorf("expected %q, got %q", "senior software engineer", a)
	}
}

func TestTitle_Idempotent(t *testing.T) {
	inputs := []string{
		"Sr. Software Engineer (L5)",
		"VP of Engineering",
		"QA Engineer II",
		"Engineer, Data Platform - Level 3",
		"Staff SWE III",
		"already lowercase plain title",
		"Weird   spacing , and. punctuation!!",
	}
	for _, in := range inputs {
		once := Title(in)
		twice := Title(once)
		if once != twice {
			t.Errorf("Title not idempotent for %q: first %q, second %q", in, once, twice)
		}
	}
}

func TestTitle_CaseInsensitive(t *testing.T) {
	if Title("SENIOR SWE") != Title("senior swe") {
		t.Error("expected case-insensitive normalization")
	}
}
