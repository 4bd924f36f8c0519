package core

import (
	"testing"
)

// TestNewIDUniqueness tests that NewID generates unique identifiers
func TestNewIDUniqueness(t *testing.T) {
	const numIDs = 10000

	ids := make(map[ID]bool, numIDs)
	for i := 0; i < numIDs; i++ {
		id := NewID()
		if id.IsEmpty() {
			t.Errorf("Generated empty ID at iteration %d", i)
		}
		if ids[id] {
			t.Errorf("Generated duplicate ID: %s", id)
		}
		ids[id] = true
	}

	if len(ids) != numIDs {
		t.Errorf("Expected %d unique IDs, got %d", numIDs, len(ids))
	}
}

// TestIDIsEmpty tests ID emptiness check
func TestIDIsEmpty(t *testing.T) {
	if !ID("").IsEmpty() {
		t.Error("Expected empty ID to be empty")
	}
	if ID("not-empty").IsEmpty() {
		t.Error("Expected non-empty ID to not be empty")
	}
}

func TestParseRunID(t *testing.T) {
	if _, err := ParseRunID("  "); err == nil {
		t.Error("Expected error for blank run ID")
	}
	id, err := ParseRunID("run-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id.String() != "run-1" {
		t.Errorf("Expected run-1, got %s", id)
	}
}

func TestScenarioFingerprint_Deterministic(t *testing.T) {
	fp1 := ComputeScenarioFingerprint("pfoa", "rww", []string{"wwt1", "wwmb"})
	fp2 := ComputeScenarioFingerprint("pfoa", "rww", []string{"wwt1", "wwmb"})
	if fp1 != fp2 {
		t.Errorf("Fingerprints not identical: %s vs %s", fp1, fp2)
	}

	reordered := ComputeScenarioFingerprint("pfoa", "rww", []string{"wwmb", "wwt1"})
	if reordered == fp1 {
		t.Error("Fingerprint should depend on treatment order")
	}
}

func TestDeriveSeed(t *testing.T) {
	if DeriveSeed(42, "a") != DeriveSeed(42, "a") {
		t.Error("DeriveSeed should be deterministic")
	}
	if DeriveSeed(42, "a") == DeriveSeed(42, "b") {
		t.Error("Different keys should give different seeds")
	}
}
