// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package identity provides the durable per-node keypair, DID derivation,
// signing, and proof-of-work helpers for the swarm coordination core.
package identity

import (
	"crypto/ed25519"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Errors returned by this package.
var (
	ErrBadSeedLength  = errors.New("identity: seed file must be exactly 32 bytes")
	ErrInvalidPub     = errors.New("identity: public key has wrong length")
	ErrMnemonicShort  = errors.New("identity: entropy too short for mnemonic")
	ErrSignatureCheck = errors.New("identity: signature verification failed")
)

const (
	seedSize = ed25519.SeedSize
	sigSize  = ed25519.SignatureSize

	// DIDPrefix is prepended to the hex-encoded SHA-256 of the public key.
	DIDPrefix = "did:swarm:"

	seedFileMode = 0o600
)

// SigningKey wraps an Ed25519 keypair and exposes the operations the
// coordination core needs: signing, DID derivation, and durable storage.
type SigningKey struct {
	priv ed25519.PrivateKey
	pub  ed25519.PublicKey
}

// AgentID is a DID string of the form "did:swarm:<hex(sha256(pubkey))>".
type AgentID string

// LoadOrCreate reads a 32-byte Ed25519 seed from path, or generates a fresh
// one and writes it atomically with mode 0600 if the file does not exist.
func LoadOrCreate(path string) (*SigningKey, error) {
	seed, err := os.ReadFile(path)
	if err == nil {
		if len(seed) != seedSize {
			return nil, fmt.Errorf("%w: got %d bytes", ErrBadSeedLength, len(seed))
		}
		return fromSeed(seed), nil
	}
	if !os.IsNotExist(err) {
		return nil, fmt.Errorf("identity: read seed file: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("identity: create key dir: %w", err)
		}
	}

	seed = make([]byte, seedSize)
	if _, err := rand.Read(seed); err != nil {
		return nil, fmt.Errorf("identity: generate seed: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, seed, seedFileMode); err != nil {
		return nil, fmt.Errorf("identity: write seed file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return nil, fmt.Errorf("identity: finalize seed file: %w", err)
	}

	return fromSeed(seed), nil
}

func fromSeed(seed []byte) *SigningKey {
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &SigningKey{priv: priv, pub: pub}
}

// Generate creates a fresh in-memory keypair, useful for tests and
// short-lived agents that don't persist identity.
func Generate() (*SigningKey, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, fmt.Errorf("identity: generate keypair: %w", err)
	}
	return &SigningKey{priv: priv, pub: pub}, nil
}

// PublicKey returns the raw public key bytes.
func (k *SigningKey) PublicKey() []byte {
	out := make([]byte, len(k.pub))
	copy(out, k.pub)
	return out
}

// AgentID derives this key's DID.
func (k *SigningKey) AgentID() AgentID {
	return DeriveAgentID(k.pub)
}

// Sign produces a 64-byte Ed25519 signature over payload.
func (k *SigningKey) Sign(payload []byte) []byte {
	return ed25519.Sign(k.priv, payload)
}

// DeriveAgentID computes "did:swarm:" + hex(sha256(pub)).
func DeriveAgentID(pub []byte) AgentID {
	sum := sha256.Sum256(pub)
	return AgentID(DIDPrefix + hex.EncodeToString(sum[:]))
}

// Verify checks a signature against a raw public key and payload.
func Verify(pub, payload, sig []byte) error {
	if len(pub) != ed25519.PublicKeySize {
		return ErrInvalidPub
	}
	if len(sig) != sigSize {
		return ErrSignatureCheck
	}
	if !ed25519.Verify(pub, payload, sig) {
		return ErrSignatureCheck
	}
	return nil
}

// SHA256Hex returns the hex-encoded SHA-256 digest of data.
func SHA256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// ProofOfWork finds a nonce such that SHA256(data || nonce_le) has at least
// `difficulty` leading zero bits, returning the nonce and the resulting hash.
func ProofOfWork(data []byte, difficulty uint32) (nonce uint64, hash [32]byte) {
	for {
		h := sha256.New()
		h.Write(data)
		h.Write(encodeLE(nonce))
		var sum [32]byte
		copy(sum[:], h.Sum(nil))
		if leadingZeroBits(sum) >= difficulty {
			return nonce, sum
		}
		nonce++
	}
}

// VerifyPoW checks that SHA256(data || nonce_le) meets the difficulty bar.
func VerifyPoW(data []byte, nonce uint64, difficulty uint32) bool {
	h := sha256.New()
	h.Write(data)
	h.Write(encodeLE(nonce))
	var sum [32]byte
	copy(sum[:], h.Sum(nil))
	return leadingZeroBits(sum) >= difficulty
}

func encodeLE(n uint64) []byte {
	b := make([]byte, 8)
	for i := 0; i < 8; i++ {
		b[i] = byte(n >> (8 * i))
	}
	return b
}

func leadingZeroBits(hash [32]byte) uint32 {
	var count uint32
	for _, b := range hash {
		if b == 0 {
			count += 8
			continue
		}
		for mask := byte(0x80); mask != 0; mask >>= 1 {
			if b&mask != 0 {
				return count
			}
			count++
		}
		return count
	}
	return count
}
