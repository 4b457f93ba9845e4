package sharelink

import (
	"errors"
	"testing"
	"time"

	"github.com/akarpov88/petkeeper/internal/common"
)

func TestMintAndVerify_Success(t *testing.T) {
	t.Parallel()

	secret := []byte("super-secret")

	tok, err := Mint("pets-shared", "alice", "share-1", "Murka", secret, time.Hour)
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}

	claims, err := Verify(tok, secret)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Zone != "pets-shared" || claims.Owner != "alice" {
		t.Fatalf("zone claims mismatch: %+v", claims)
	}
	if claims.ShareRecordName != "share-1" || claims.Title != "Murka" {
		t.Fatalf("share claims mismatch: %+v", claims)
	}
}

func TestVerify_Expired(t *testing.T) {
	t.Parallel()

	secret := []byte("secret")

	tok, err := Mint("pets-shared", "alice", "share-1", "Murka", secret, -1*time.Second)
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}

	if _, err = Verify(tok, secret); !errors.Is(err, common.ErrInvalidShare) {
		t.Fatalf("expected common.ErrInvalidShare, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	tok, err := Mint("pets-shared", "alice", "share-1", "Murka", []byte("right-secret"), time.Hour)
	if err != nil {
		t.Fatalf("Mint error: %v", err)
	}

	if _, err = Verify(tok, []byte("wrong-secret")); !errors.Is(err, common.ErrInvalidShare) {
		t.Fatalf("expected common.ErrInvalidShare, got %v", err)
	}
}

func TestVerify_Garbage(t *testing.T) {
	t.Parallel()

	if _, err := Verify("not-a-token", []byte("secret")); !errors.Is(err, common.ErrInvalidShare) {
		t.Fatalf("expected common.ErrInvalidShare, got %v", err)
	}
}
