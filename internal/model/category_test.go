package model

import "testing"

func TestNormalizeCategory(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Locks/Security", "lockssecurity"},
		{"locks-security", "lockssecurity"},
		{"LOCKS SECURITY", "lockssecurity"},
		{"Plumbing", "plumbing"},
		{" plumbing ", "plumbing"},
		{"H-V/A C", "hvac"},
		{"", ""},
	}
	for _, c := range cases {
		if got := NormalizeCategory(c.in); got != c.want {
			t.Errorf("NormalizeCategory(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestCategoriesMatch(t *testing.T) {
	if !CategoriesMatch("Locks/Security", "locks-security") {
		t.Error("expected Locks/Security to match locks-security")
	}
	if !CategoriesMatch("Plumbing", "plumbing") {
		t.Error("expected Plumbing to match plumbing")
	}
	if CategoriesMatch("Plumbing", "Electrical") {
		t.Error("Plumbing should not match Electrical")
	}
}
