package password

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestHashAndVerify(t *testing.T) {
	Cost = bcrypt.MinCost
	hash, err := Hash("tent-and-stars")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !Verify("tent-and-stars", hash) {
		t.Fatal("expected password to verify")
	}
	if Verify("wrong", hash) {
		t.Fatal("wrong password verified")
	}
}
