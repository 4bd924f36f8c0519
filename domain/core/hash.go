package core

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"strings"
)

// Hash represents a cryptographic hash
type Hash string

// NewHash creates a new hash from data
func NewHash(data []byte) Hash {
	sum := sha256.Sum256(data)
	return Hash(hex.EncodeToString(sum[:]))
}

// String returns the string representation
func (h Hash) String() string {
	return string(h)
}

// IsEmpty checks if the hash is empty
func (h Hash) IsEmpty() bool {
	return h == ""
}

// ScenarioFingerprint identifies the inputs of one simulation: substance,
// starting matrix and the ordered treatment ids.
type ScenarioFingerprint Hash

func (h ScenarioFingerprint) String() string { return Hash(h).String() }

// ComputeScenarioFingerprint hashes the scenario inputs in order.
func ComputeScenarioFingerprint(substanceID, matrixID string, treatmentIDs []string) ScenarioFingerprint {
	parts := append([]string{substanceID, matrixID}, treatmentIDs...)
	return ScenarioFingerprint(NewHash([]byte(strings.Join(parts, "|"))))
}

// DeriveSeed mixes a base seed with a stream key so that independent
// streams stay reproducible regardless of scheduling order.
func DeriveSeed(baseSeed uint64, key string) uint64 {
	sum := sha256.Sum256([]byte(key))
	return baseSeed ^ binary.LittleEndian.Uint64(sum[:8])
}
