package util

import "testing"

// Registration stores NormalizeLogin(input) and login looks up
// NormalizeLogin(input), so any casing or padding at either end must map to
// the same stored value: registering as "Alice" and logging in as "alice"
// (or " ALICE ") has to find the same user.
func TestNormalizeLogin(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Alice", "alice"},
		{"alice", "alice"},
		{" ALICE ", "alice"},
		{"Alice@Example.COM", "alice@example.com"},
		{"  bob@example.com", "bob@example.com"},
	}
	for _, tt := range tests {
		if got := NormalizeLogin(tt.in); got != tt.want {
			t.Errorf("NormalizeLogin(%q)=%q want %q", tt.in, got, tt.want)
		}
	}
	// Round trip: what registration stores equals what login looks up.
	if NormalizeLogin("Alice") != NormalizeLogin(" alice ") {
		t.Error("registration and login normalization disagree")
	}
}

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		username string
		want     bool
	}{
		{"abc", true},
		{"a_reasonable_name", true},
		{"ab", false},
		{"", false},
		{"0123456789012345678901234567890", false}, // 31 chars
	}
	for _, tt := range tests {
		if got := ValidateUsername(tt.username); got != tt.want {
			t.Errorf("ValidateUsername(%q)=%v want %v", tt.username, got, tt.want)
		}
	}
}

func TestValidatePassword(t *testing.T) {
	tests := []struct {
		password string
		want     bool
	}{
		{"Str0ng!pass", true},
		{"short1!", false},
		{"alllowercase1!", false},
		{"ALLUPPERCASE1!", false},
		{"NoDigits!!", false},
		{"NoSpecials11", false},
	}
	for _, tt := range tests {
		if got := ValidatePassword(tt.password); got != tt.want {
			t.Errorf("ValidatePassword(%q)=%v want %v", tt.password, got, tt.want)
		}
	}
}

func TestValidateEmail(t *testing.T) {
	if !ValidateEmail("user@example.com") {
		t.Error("expected valid email to pass")
	}
	if ValidateEmail("not-an-email") {
		t.Error("expected invalid email to fail")
	}
}

func TestValidateAccountKind(t *testing.T) {
	for _, kind := range []string{"checking", "savings", "investment", "wallet"} {
		if !ValidateAccountKind(kind) {
			t.Errorf("ValidateAccountKind(%q)=false want true", kind)
		}
	}
	if ValidateAccountKind("offshore") {
		t.Error("ValidateAccountKind(offshore)=true want false")
	}
}

func TestValidateTransactionKind(t *testing.T) {
	if !ValidateTransactionKind("income") || !ValidateTransactionKind("expense") {
		t.Error("income and expense should be valid kinds")
	}
	if ValidateTransactionKind("refund") {
		t.Error("ValidateTransactionKind(refund)=true want false")
	}
}

func TestValidateRole(t *testing.T) {
	for _, role := range []string{"admin", "manager", "visitor"} {
		if !ValidateRole(role) {
			t.Errorf("ValidateRole(%q)=false want true", role)
		}
	}
	if ValidateRole("superuser") {
		t.Error("ValidateRole(superuser)=true want false")
	}
}

func TestValidateAccountName(t *testing.T) {
	if !ValidateAccountName("Checking") {
		t.Error("expected valid name to pass")
	}
	if ValidateAccountName("C") {
		t.Error("one-character name should fail")
	}
}
