// Package migrations applies the embedded schema for the SQL storage backend.
package migrations

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"
)

// PostgresFS embeds the PostgreSQL schema (transactions, scoring_requests).
//
//go:embed postgres/*.sql
var PostgresFS embed.FS

// ClickhouseFS embeds the ClickHouse schema (feature_records, iv_*).
//
//go:embed clickhouse/*.sql
var ClickhouseFS embed.FS

// execFunc runs one migration script or statement.
type execFunc func(ctx context.Context, sql string) error

// sqlFiles returns the .sql files of dir in lexical order.
func sqlFiles(fsys fs.FS, dir string) ([]string, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read embedded %s migrations: %w", dir, err)
	}

	var files []string
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".sql") {
			files = append(files, dir+"/"+entry.Name())
		}
	}
	sort.Strings(files)
	return files, nil
}

// apply runs every file of dir through exec. With split set, each file is
// cut into single statements first.
func apply(ctx context.Context, fsys fs.FS, dir string, split bool, exec execFunc) error {
	files, err := sqlFiles(fsys, dir)
	if err != nil {
		return err
	}

	for _, file := range files {
		data, err := fs.ReadFile(fsys, file)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", file, err)
		}
		script := string(data)
		if strings.TrimSpace(script) == "" {
			continue
		}

		stmts := []string{script}
		if split {
			if stmts, err = splitStatements(script); err != nil {
				return fmt.Errorf("parse migration %s: %w", file, err)
			}
		}
		for _, stmt := range stmts {
			if err := exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply migration %s: %w", file, err)
			}
		}
	}
	return nil
}

// splitStatements cuts a script at semicolons outside single-quoted literals.
// Whole-line -- comments are dropped first.
func splitStatements(script string) ([]string, error) {
	var lines []string
	for _, line := range strings.Split(script, "\n") {
		if t := strings.TrimSpace(line); t != "" && !strings.HasPrefix(t, "--") {
			lines = append(lines, line)
		}
	}
	body := strings.Join(lines, "\n")

	var (
		stmts    []string
		cur      strings.Builder
		inString bool
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(body); i++ {
		ch := body[i]
		switch {
		case ch == '\'' && inString && i+1 < len(body) && body[i+1] == '\'':
			cur.WriteString("''")
			i++
			continue
		case ch == '\'':
			inString = !inString
		case ch == ';' && !inString:
			flush()
			continue
		}
		cur.WriteByte(ch)
	}
	if inString {
		return nil, fmt.Errorf("unterminated string literal")
	}
	flush()
	return stmts, nil
}
