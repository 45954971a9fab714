package checksum

import "testing"

func TestSum_Stable(t *testing.T) {
	a := Sum([]byte("---\ntitle: A\n---\nbody\n"))
	b := Sum([]byte("---\ntitle: A\n---\nbody\n"))
	if a != b {
		t.Errorf("same input gave %q and %q", a, b)
	}
	if len(a) != 64 {
		t.Errorf("len = %d, want 64 hex chars", len(a))
	}
	if a == Sum([]byte("---\ntitle: B\n---\nbody\n")) {
		t.Error("different input should change the digest")
	}
}
