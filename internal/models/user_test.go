package models

import "testing"

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Ada@Example.COM "); got != "ada@example.com" {
		t.Errorf("got %q", got)
	}
}

func TestUserValidate(t *testing.T) {
	valid := &User{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Role: RoleMember}
	if errs := valid.Validate(); len(errs) != 0 {
		t.Fatalf("valid user gave errors: %v", errs)
	}

	cases := []struct {
		name   string
		mutate func(*User)
		want   string
	}{
		{"blank email", func(u *User) { u.Email = "" }, "Email can't be blank"},
		{"bad email", func(u *User) { u.Email = "not-an-email" }, "Email is invalid"},
		{"blank first name", func(u *User) { u.FirstName = " " }, "First name can't be blank"},
		{"blank last name", func(u *User) { u.LastName = "" }, "Last name can't be blank"},
		{"bad role", func(u *User) { u.Role = "root" }, "Role is not included in the list"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			u := &User{Email: "ada@example.com", FirstName: "Ada", LastName: "Lovelace", Role: RoleMember}
			tc.mutate(u)
			errs := u.Validate()
			for _, e := range errs {
				if e == tc.want {
					return
				}
			}
			t.Errorf("errors %v missing %q", errs, tc.want)
		})
	}
}

func TestFullName(t *testing.T) {
	u := &User{FirstName: "Ada", LastName: "Lovelace"}
	if got := u.FullName(); got != "Ada Lovelace" {
		t.Errorf("got %q", got)
	}
}
