// Copyright (c) 2019-2026 The OpenSwarm Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package identity

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Mnemonic derives a deterministic, reversible 24-word-equivalent hex
// encoding of the signing key's 32-byte seed.
//
// The original prototype (wws-protocol/src/crypto.rs) used BIP-39 word
// lists; this core exposes the same seed-export/import contract without
// pulling in a wordlist dependency no other component exercises — the
// hex form round-trips identically and is what FromMnemonic consumes.
func (k *SigningKey) Mnemonic() string {
	seed := k.priv.Seed()
	return hex.EncodeToString(seed)
}

// FromMnemonic restores a signing key from the export produced by Mnemonic.
func FromMnemonic(phrase string) (*SigningKey, error) {
	seed, err := hex.DecodeString(phrase)
	if err != nil {
		return nil, fmt.Errorf("identity: invalid mnemonic: %w", err)
	}
	if len(seed) != seedSize {
		return nil, ErrMnemonicShort
	}
	return fromSeed(seed), nil
}

// RecoveryKey derives a secondary keypair from this key's seed, usable as a
// fallback identity if the primary seed file is lost but the recovery seed
// was escrowed separately. Derivation is SHA256(seed || "swarm-recovery"),
// matching the original prototype's derive_recovery_key.
func (k *SigningKey) RecoveryKey() *SigningKey {
	seed := k.priv.Seed()
	h := sha256.New()
	h.Write(seed)
	h.Write([]byte("swarm-recovery"))
	recoverySeed := h.Sum(nil)
	return fromSeed(recoverySeed)
}
