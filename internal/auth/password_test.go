package auth

import "testing"

func TestNormalizeUsername(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{name: "valid", raw: "Vault.Owner", want: "vault.owner"},
		{name: "trim", raw: "  an-owner  ", want: "an-owner"},
		{name: "invalid chars", raw: "bad space", wantErr: true},
		{name: "leading dot", raw: ".hidden", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
		{name: "too long", raw: "abcdefghijklmnopqrstuvwxyz0123456789", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeUsername(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("NormalizeUsername(%q)=%q want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestValidatePassword(t *testing.T) {
	if err := ValidatePassword("short"); err == nil {
		t.Fatal("expected error for short password")
	}
	if err := ValidatePassword("long-enough"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("vault-pass-1")
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	if !VerifyPassword(hash, "vault-pass-1") {
		t.Fatal("expected password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Fatal("expected wrong password to fail")
	}
	if VerifyPassword("", "vault-pass-1") {
		t.Fatal("empty hash must never verify")
	}
}
