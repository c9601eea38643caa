package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/caseyos/caseyos/internal/database/schema"
)

// defaultRules are the three seed auto-approval rules. They are inserted
// only when the rules table is empty so operator edits survive restarts.
var defaultRules = []struct {
	kind       string
	priority   int
	confidence float64
}{
	{"replied_before", 10, 0.95},
	{"known_good_recipient", 20, 0.90},
	{"high_icp_score", 30, 0.85},
}

// InitializeDatabase creates all tables if they don't exist and seeds the
// default auto-approval rules and safety settings.
func InitializeDatabase(db *sql.DB) error {
	for _, query := range schema.TableDefinitions {
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	var ruleCount int
	if err := db.QueryRow("SELECT COUNT(*) FROM auto_approval_rules").Scan(&ruleCount); err != nil {
		return fmt.Errorf("failed to count auto approval rules: %w", err)
	}
	if ruleCount == 0 {
		now := time.Now().UTC()
		for _, rule := range defaultRules {
			_, err := db.Exec(`
				INSERT INTO auto_approval_rules (id, kind, conditions, confidence, priority, enabled, created_at, updated_at)
				VALUES ($1, $2, '{}', $3, $4, TRUE, $5, $5)
			`, uuid.New().String(), rule.kind, rule.confidence, rule.priority, now)
			if err != nil {
				return fmt.Errorf("failed to seed auto approval rule %s: %w", rule.kind, err)
			}
		}
	}

	// The kill switch row always exists so admin status reads never 404.
	_, err := db.Exec(`
		INSERT INTO settings (key, value, updated_at)
		VALUES ('emergency_stop', '{"enabled": false}', $1)
		ON CONFLICT (key) DO NOTHING
	`, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to seed emergency stop setting: %w", err)
	}

	return nil
}

// CleanDatabase drops all tables in reverse order
func CleanDatabase(db *sql.DB) error {
	for i := len(schema.TableNames) - 1; i >= 0; i-- {
		query := fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", schema.TableNames[i])
		if _, err := db.Exec(query); err != nil {
			return fmt.Errorf("failed to drop table %s: %w", schema.TableNames[i], err)
		}
	}
	return nil
}
