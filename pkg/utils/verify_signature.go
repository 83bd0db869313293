package utils

import (
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

const (
	PubKeySize    = 32 // x-coordinate only
	SignatureSize = 64 // compact r || s

	evenYPrefix = 0x02
)

// CanonicalMessage is the byte string a client signs: the device token
// immediately followed by the timestamp exactly as sent.
func CanonicalMessage(deviceToken, timestamp string) []byte {
	msg := make([]byte, 0, len(deviceToken)+len(timestamp))
	msg = append(msg, deviceToken...)
	return append(msg, timestamp...)
}

// MessageDigest returns SHA-256 of the canonical message.
func MessageDigest(deviceToken, timestamp string) [32]byte {
	return sha256.Sum256(CanonicalMessage(deviceToken, timestamp))
}

// DecodePubKey parses a 64-char hex x-coordinate into a secp256k1 point,
// assuming even y.
func DecodePubKey(pubkeyHex string) (*secp256k1.PublicKey, error) {
	raw, err := hex.DecodeString(pubkeyHex)
	if err != nil {
		return nil, fmt.Errorf("pubkey: %w", err)
	}
	if len(raw) != PubKeySize {
		return nil, fmt.Errorf("pubkey: expected %d bytes, got %d", PubKeySize, len(raw))
	}

	compressed := make([]byte, 0, PubKeySize+1)
	compressed = append(compressed, evenYPrefix)
	compressed = append(compressed, raw...)
	return secp256k1.ParsePubKey(compressed)
}

// DecodeSignature parses a base64 compact signature. Padding is optional.
// r and s must be in [1, n-1] and s must be in the lower half of the order.
func DecodeSignature(signatureB64 string) (*ecdsa.Signature, error) {
	raw, err := base64.StdEncoding.DecodeString(signatureB64)
	if err != nil {
		raw, err = base64.RawStdEncoding.DecodeString(signatureB64)
		if err != nil {
			return nil, fmt.Errorf("signature: %w", err)
		}
	}
	if len(raw) != SignatureSize {
		return nil, fmt.Errorf("signature: expected %d bytes, got %d", SignatureSize, len(raw))
	}

	var r, s secp256k1.ModNScalar
	if overflow := r.SetByteSlice(raw[:32]); overflow || r.IsZero() {
		return nil, fmt.Errorf("signature: r out of range")
	}
	if overflow := s.SetByteSlice(raw[32:]); overflow || s.IsZero() {
		return nil, fmt.Errorf("signature: s out of range")
	}
	if s.IsOverHalfOrder() {
		return nil, fmt.Errorf("signature: s is not canonical")
	}
	return ecdsa.NewSignature(&r, &s), nil
}

// VerifySignature reports whether signatureB64 is a valid secp256k1 ECDSA
// signature by pubkeyHex over sha256(deviceToken || timestamp). The error
// describes a decoding failure; callers must not surface it to clients.
func VerifySignature(deviceToken, timestamp, pubkeyHex, signatureB64 string) (bool, error) {
	digest := MessageDigest(deviceToken, timestamp)

	sig, err := DecodeSignature(signatureB64)
	if err != nil {
		return false, err
	}
	pub, err := DecodePubKey(pubkeyHex)
	if err != nil {
		return false, err
	}
	return sig.Verify(digest[:], pub), nil
}
