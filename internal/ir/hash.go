package ir

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// Domain prefixes for content-addressed identity.
// The version suffix leaves room for algorithm migration.
const (
	DomainStep = "keycalc/step/v1"
	DomainTape = "keycalc/tape/v1"
)

// hashWithDomain computes SHA256(domain + 0x00 + data).
// The null separator keeps the domain/data boundary unambiguous.
func hashWithDomain(domain string, data []byte) string {
	h := sha256.New()
	h.Write([]byte(domain))
	h.Write([]byte{0x00})
	h.Write(data)
	return hex.EncodeToString(h.Sum(nil))
}

// StepID computes the content-addressed ID of a step within a session.
func StepID(sessionID string, step Step) (string, error) {
	obj := IRObject{
		"session_id": IRString(sessionID),
		"step":       step.ToIR(),
	}
	canonical, err := MarshalCanonical(obj)
	if err != nil {
		return "", fmt.Errorf("StepID: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainStep, canonical), nil
}

// TapeHash fingerprints the observable behavior of a step sequence.
// The session ID is excluded so a replay under a new session compares
// equal to the original.
func TapeHash(steps []Step) (string, error) {
	canonical, err := MarshalCanonical(StepsIR(steps))
	if err != nil {
		return "", fmt.Errorf("TapeHash: failed to marshal: %w", err)
	}
	return hashWithDomain(DomainTape, canonical), nil
}
