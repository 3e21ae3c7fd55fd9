package utils

import "testing"

func TestFingerprint(t *testing.T) {
	type movement struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	}

	a, err := Fingerprint(movement{ProductID: "p1", Quantity: 3})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	b, _ := Fingerprint(movement{ProductID: "p1", Quantity: 3})
	c, _ := Fingerprint(movement{ProductID: "p1", Quantity: 4})

	if a != b {
		t.Fatalf("expected equal payloads to share a fingerprint")
	}
	if a == c {
		t.Fatalf("expected different payloads to differ")
	}
	if len(a) != 64 {
		t.Fatalf("expected hex sha256, got %q", a)
	}

	if _, err := Fingerprint(make(chan int)); err == nil {
		t.Fatalf("expected error for unencodable value")
	}
}
