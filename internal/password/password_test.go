package password

import "testing"

func TestHashAndVerify(t *testing.T) {
	h := NewHasher(4) // low cost keeps the test fast

	record, err := h.Hash("twixrox")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	if record == "twixrox" {
		t.Fatal("Hash() returned the plaintext")
	}

	if !h.Verify("twixrox", record) {
		t.Error("Verify() = false for the correct password")
	}
	if h.Verify("wrongpass", record) {
		t.Error("Verify() = true for a wrong password")
	}
}

func TestHashUniqueSalts(t *testing.T) {
	h := NewHasher(4)

	first, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}
	second, err := h.Hash("secret123")
	if err != nil {
		t.Fatalf("Hash() unexpected error: %v", err)
	}

	if first == second {
		t.Error("two hashes of the same password are identical, salts are not unique")
	}
	if !h.Verify("secret123", first) || !h.Verify("secret123", second) {
		t.Error("Verify() failed against a freshly produced hash")
	}
}

func TestHashRejectsEmptyPassword(t *testing.T) {
	h := NewHasher(4)
	if _, err := h.Hash(""); err == nil {
		t.Error("Hash(\"\") expected an error")
	}
}

func TestVerifyMalformedRecords(t *testing.T) {
	h := NewHasher(4)

	tests := []struct {
		name   string
		record string
	}{
		{name: "empty record", record: ""},
		{name: "not a hash", record: "plaintext"},
		{name: "unknown algorithm", record: "$argon2id$v=19$m=65536,t=3,p=2$c2FsdA$aGFzaA"},
		{name: "truncated bcrypt", record: "$2a$10$abc"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if h.Verify("anything", tt.record) {
				t.Errorf("Verify() = true for malformed record %q", tt.record)
			}
		})
	}
}
