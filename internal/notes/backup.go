package notes

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// Backup writes a consistent copy of the sqlite database to w and returns
// the number of bytes written. Other drivers return ErrBackupUnsupported.
func (s *Store) Backup(ctx context.Context, w io.Writer) (int64, error) {
	if s.dialect.name != "sqlite" {
		return 0, fmt.Errorf("%w: %s", ErrBackupUnsupported, s.dialect.name)
	}

	dir, err := os.MkdirTemp("", "notepdf-backup-")
	if err != nil {
		return 0, fmt.Errorf("failed to create backup directory: %w", err)
	}
	defer os.RemoveAll(dir)

	// VACUUM INTO refuses to overwrite, so the target must not exist yet
	target := filepath.Join(dir, "notes.db")
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO '"+strings.ReplaceAll(target, "'", "''")+"'"); err != nil {
		return 0, fmt.Errorf("failed to snapshot database: %w", err)
	}

	f, err := os.Open(target)
	if err != nil {
		return 0, fmt.Errorf("failed to open snapshot: %w", err)
	}
	defer f.Close()

	n, err := io.Copy(w, f)
	if err != nil {
		return n, fmt.Errorf("failed to write backup: %w", err)
	}
	log.Printf("[INFO] database backup written (%d bytes)", n)
	return n, nil
}

// BackupFileName is the suggested download name for a backup
func (s *Store) BackupFileName() string {
	name := filepath.Base(s.path)
	if s.path == "" || name == "." {
		name = DefaultPath
	}
	return "backup_" + name
}
