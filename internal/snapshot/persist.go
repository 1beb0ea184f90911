// Package snapshot materializes a unified cutoff table into SQLite so it can
// be inspected with ad-hoc SQL. The api-server never reads a snapshot; it
// always rebuilds its table from the source files.
package snapshot

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"rankcet/internal/cutoff"
)

// Save writes t as a new snapshot and returns its id. Rows go into
// cutoff_rows; every non-null cutoff becomes one cutoff_values row.
func Save(ctx context.Context, db *sql.DB, sourceDir string, t *cutoff.Table) (int64, error) {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO snapshots (source_dir, created_at, row_count) VALUES (?, ?, ?)`,
		sourceDir, time.Now().UTC().Format(time.RFC3339), t.Len())
	if err != nil {
		return 0, fmt.Errorf("insert snapshot: %w", err)
	}
	snapID, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("snapshot id: %w", err)
	}

	srcStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO source_files (snapshot_id, file, generation, admission_year, admission_phase, row_count, error)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare source stmt: %w", err)
	}
	defer srcStmt.Close()

	for _, s := range t.Sources() {
		if _, err := srcStmt.ExecContext(ctx,
			snapID, s.File, s.Generation, s.Year, string(s.Phase), s.Rows, nullString(s.Error),
		); err != nil {
			return 0, fmt.Errorf("insert source %s: %w", s.File, err)
		}
	}

	rowStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cutoff_rows (
			snapshot_id, college_code, college_name, place, district_code, co_education,
			college_type, year_established, branch_code, branch_name, tuition_fee,
			affiliated_to, admission_year, admission_phase, source
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare row stmt: %w", err)
	}
	defer rowStmt.Close()

	valStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO cutoff_values (row_id, column_name, category, gender, closing_rank)
		VALUES (?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("prepare value stmt: %w", err)
	}
	defer valStmt.Close()

	for i := 0; i < t.Len(); i++ {
		r := t.Row(i)
		res, err := rowStmt.ExecContext(ctx,
			snapID, r.CollegeCode, r.CollegeName, r.Place, r.DistrictCode, r.CoEducation,
			r.CollegeType, r.YearEstablished, r.BranchCode, r.BranchName, r.TuitionFee,
			r.AffiliatedTo, r.AdmissionYear, string(r.AdmissionPhase), r.Source,
		)
		if err != nil {
			return 0, fmt.Errorf("insert row %d (%s): %w", i, r.Source, err)
		}
		rowID, err := res.LastInsertId()
		if err != nil {
			return 0, fmt.Errorf("row id: %w", err)
		}

		cols := make([]string, 0, len(r.Cutoffs))
		for col := range r.Cutoffs {
			cols = append(cols, col)
		}
		sort.Strings(cols)
		for _, col := range cols {
			cat, gender := splitColumn(col)
			if _, err := valStmt.ExecContext(ctx, rowID, col, cat, gender, r.Cutoffs[col]); err != nil {
				return 0, fmt.Errorf("insert cutoff %s for row %d: %w", col, i, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit tx: %w", err)
	}
	return snapID, nil
}

func splitColumn(col string) (string, string) {
	i := strings.LastIndexByte(col, ' ')
	if i < 0 {
		return col, ""
	}
	return col[:i], col[i+1:]
}

func nullString(raw string) sql.NullString {
	if raw == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: raw, Valid: true}
}
