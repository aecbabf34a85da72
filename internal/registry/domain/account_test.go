package registry

import "testing"

func TestValidEmail(t *testing.T) {
	tests := []struct {
		email string
		valid bool
	}{
		{"alice@example.com", true},
		{"a.b_c+d@sub.example.org", true},
		{"user1@host-name.de", true},
		{"x@y.museum", true},
		{"", false},
		{"not an email", false},
		{"@example.com", false},
		{"alice@", false},
		{"alice@example", false},
		{"Alice@example.com", false},
	}
	for _, tt := range tests {
		if got := ValidEmail(tt.email); got != tt.valid {
			t.Errorf("ValidEmail(%q) = %t, want %t", tt.email, got, tt.valid)
		}
	}
}

func TestRoleEncoding(t *testing.T) {
	if RoleFrom(0) != RoleAdministrator {
		t.Errorf("RoleFrom(0) != administrator")
	}
	// Every non-zero value reads back as a regular user.
	for _, value := range []int{1, 5, 6, 7, -1, 42} {
		if RoleFrom(value) != RoleUser {
			t.Errorf("RoleFrom(%d) != user", value)
		}
	}
	if RoleAdministrator.Int() != 0 {
		t.Errorf("administrator encodes as %d, want 0", RoleAdministrator.Int())
	}
	if RoleUser.Int() != 6 {
		t.Errorf("user encodes as %d, want 6", RoleUser.Int())
	}
	if Role(3).Int() != 6 {
		t.Errorf("unknown role encodes as %d, want 6", Role(3).Int())
	}
}

func TestAccountValidate(t *testing.T) {
	valid := Account{ID: "id", Name: "alice", PasswordHash: "salt$hash"}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	for name, account := range map[string]Account{
		"empty id":   {Name: "alice", PasswordHash: "h"},
		"empty name": {ID: "id", PasswordHash: "h"},
		"empty hash": {ID: "id", Name: "alice"},
	} {
		if err := account.Validate(); err == nil {
			t.Errorf("%s: Validate() = nil, want error", name)
		}
	}
}
