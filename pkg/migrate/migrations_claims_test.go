package migrate_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestClaimsMigrationEnforcesLiveUniqueness(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_claims.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no claims migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE claims",
		"REFERENCES bookings (id) ON DELETE CASCADE",
		"CREATE UNIQUE INDEX idx_claims_booking_owner_live",
		"WHERE status IN ('pending', 'reviewing')",
		"DROP TABLE claims",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}

func TestAuditMigrationRevokesMutation(t *testing.T) {
	matches, err := filepath.Glob(filepath.Join("migrations", "*_create_audit_entries.sql"))
	if err != nil {
		t.Fatalf("glob migrations: %v", err)
	}
	if len(matches) == 0 {
		t.Fatalf("no audit migration file found")
	}

	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatalf("read migration file: %v", err)
	}
	content := string(data)

	checks := []string{
		"CREATE TABLE audit_entries",
		"REVOKE UPDATE, DELETE ON audit_entries FROM PUBLIC",
	}

	for _, sub := range checks {
		if !strings.Contains(content, sub) {
			t.Errorf("missing expected statement %q", sub)
		}
	}
}
