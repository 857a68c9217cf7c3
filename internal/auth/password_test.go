package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("hash must not equal plaintext")
	}
	if !VerifyPassword(&hash, "correct horse battery staple") {
		t.Error("expected matching password to verify")
	}
	if VerifyPassword(&hash, "wrong password") {
		t.Error("expected non-matching password to fail")
	}
}

func TestHashPasswordNondeterministic(t *testing.T) {
	h1, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	h2, err := HashPassword("password1")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if h1 == h2 {
		t.Error("two hashes of the same password should differ (random salt)")
	}
	if !VerifyPassword(&h1, "password1") || !VerifyPassword(&h2, "password1") {
		t.Error("both hashes must verify the original password")
	}
}

func TestVerifyPasswordFailsClosed(t *testing.T) {
	if VerifyPassword(nil, "anything") {
		t.Error("nil hash (federated-only account) must reject credential login")
	}
	empty := ""
	if VerifyPassword(&empty, "anything") {
		t.Error("empty hash must reject credential login")
	}
	malformed := "not-a-bcrypt-hash"
	if VerifyPassword(&malformed, "anything") {
		t.Error("malformed hash must reject credential login")
	}
}

func TestHashPasswordEmpty(t *testing.T) {
	if _, err := HashPassword(""); err == nil {
		t.Error("expected error hashing empty password")
	}
}
