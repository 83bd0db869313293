// Package testutil holds helpers for building signed registration
// requests in tests.
package testutil

import (
	"encoding/base64"
	"encoding/hex"
	"testing"
	"time"

	"pushreg/pkg/utils"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signer is a secp256k1 key whose public point has even y, the only
// parity the server reconstructs.
type Signer struct {
	Key *secp256k1.PrivateKey
}

func NewSigner(t testing.TB) *Signer {
	t.Helper()
	for {
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			t.Fatalf("generate key: %v", err)
		}
		if key.PubKey().SerializeCompressed()[0] == secp256k1.PubKeyFormatCompressedEven {
			return &Signer{Key: key}
		}
	}
}

// NewOddSigner returns a key whose public point has odd y.
func NewOddSigner(t testing.TB) *Signer {
	t.Helper()
	for {
		key, err := secp256k1.GeneratePrivateKey()
		if err != nil {
			t.Fatalf("generate key: %v", err)
		}
		if key.PubKey().SerializeCompressed()[0] == secp256k1.PubKeyFormatCompressedOdd {
			return &Signer{Key: key}
		}
	}
}

// PubKeyHex is the 32-byte x-coordinate in lowercase hex.
func (s *Signer) PubKeyHex() string {
	return hex.EncodeToString(s.Key.PubKey().SerializeCompressed()[1:])
}

// SignRaw returns the 64-byte compact signature over sha256(token || ts).
func (s *Signer) SignRaw(deviceToken, timestamp string) []byte {
	digest := utils.MessageDigest(deviceToken, timestamp)
	compact := ecdsa.SignCompact(s.Key, digest[:], true)
	return compact[1:]
}

// Sign returns the base64 signature over sha256(token || ts).
func (s *Signer) Sign(deviceToken, timestamp string) string {
	return base64.StdEncoding.EncodeToString(s.SignRaw(deviceToken, timestamp))
}

// Timestamp formats t the way clients send it.
func Timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
