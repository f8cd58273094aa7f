package store

import (
	"context"
	"database/sql"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Timestamps are stored as unix milliseconds so range predicates compare
// integers rather than driver-specific time encodings.
var (
	usageColumns = []*schema.Column{
		{Name: "participant_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "used_at", Type: field.TypeInt64},
	}
	usageSchema = &schema.Table{
		Name:       usageTable,
		Columns:    usageColumns,
		PrimaryKey: []*schema.Column{usageColumns[0], usageColumns[1]},
	}

	recommendationColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "participant_id", Type: field.TypeString},
		{Name: "question_id", Type: field.TypeString},
		{Name: "due_at", Type: field.TypeInt64},
	}
	recommendationSchema = &schema.Table{
		Name:       recommendationTable,
		Columns:    recommendationColumns,
		PrimaryKey: []*schema.Column{recommendationColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "pending_recommendations_due",
				Columns: []*schema.Column{recommendationColumns[1], recommendationColumns[3]},
			},
		},
	}

	subjectColumns = []*schema.Column{
		{Name: "participant_id", Type: field.TypeString},
		{Name: "subject", Type: field.TypeString},
	}
	subjectSchema = &schema.Table{
		Name:       subjectTable,
		Columns:    subjectColumns,
		PrimaryKey: []*schema.Column{subjectColumns[0], subjectColumns[1]},
	}

	sessionColumns = []*schema.Column{
		{Name: "participant_id", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString},
		{Name: "complete", Type: field.TypeInt, Default: 0},
		{Name: "data", Type: field.TypeString, Size: 2147483647},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	sessionSchema = &schema.Table{
		Name:       sessionTable,
		Columns:    sessionColumns,
		PrimaryKey: []*schema.Column{sessionColumns[0]},
	}

	lockColumns = []*schema.Column{
		{Name: "passcode", Type: field.TypeString},
		{Name: "locked_at", Type: field.TypeInt64},
	}
	lockSchema = &schema.Table{
		Name:       lockTable,
		Columns:    lockColumns,
		PrimaryKey: []*schema.Column{lockColumns[0]},
	}

	resultColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString, Unique: true},
		{Name: "participant_id", Type: field.TypeString},
		{Name: "passcode", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "total", Type: field.TypeInt},
		{Name: "data", Type: field.TypeString, Size: 2147483647},
		{Name: "created_at", Type: field.TypeInt64},
	}
	resultSchema = &schema.Table{
		Name:       resultTable,
		Columns:    resultColumns,
		PrimaryKey: []*schema.Column{resultColumns[0]},
		Indexes: []*schema.Index{
			{
				Name:    "exam_results_participant",
				Columns: []*schema.Column{resultColumns[2], resultColumns[7]},
			},
		},
	}

	// tables lists every table Open creates or upgrades.
	tables = []*schema.Table{
		usageSchema,
		recommendationSchema,
		subjectSchema,
		sessionSchema,
		lockSchema,
		resultSchema,
	}
)

// migrate creates missing tables, columns, and indexes. Nothing is dropped.
func migrate(ctx context.Context, db *sql.DB) error {
	drv := entsql.OpenDB(dialect.SQLite, db)
	m, err := schema.NewMigrate(drv, schema.WithForeignKeys(false))
	if err != nil {
		return fmt.Errorf("new migrate: %w", err)
	}
	if err := m.Create(ctx, tables...); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}
