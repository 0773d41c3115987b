package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// maxAutoBackups is how many automatic backups survive cleanup.
const maxAutoBackups = 5

// Backup errors.
var (
	ErrBackupNotFound = errors.New("backup not found")
	ErrBackupExists   = errors.New("backup already exists")
	ErrInvalidBackup  = errors.New("invalid backup name")
)

// BackupInfo describes a snapshot of the ledger database.
type BackupInfo struct {
	CreatedAt     time.Time      `json:"created_at"`
	RowCounts     map[string]int `json:"row_counts"`
	ID            string         `json:"id"`
	Description   string         `json:"description"`
	FileSize      int64          `json:"file_size"`
	SchemaVersion int            `json:"schema_version"`
	IsAuto        bool           `json:"is_auto"`
}

// BackupManager writes point-in-time copies of the database next to it.
type BackupManager struct {
	store *SQLiteStorage
	dir   string
}

// NewBackupManager creates a manager that keeps backups in a "backups"
// directory beside the database file.
func NewBackupManager(store *SQLiteStorage) (*BackupManager, error) {
	if store.dbPath == ":memory:" {
		return nil, fmt.Errorf("%w: in-memory databases cannot be backed up", ErrInvalidBackup)
	}
	dir := filepath.Join(filepath.Dir(store.dbPath), "backups")
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("failed to create backups directory: %w", err)
	}
	return &BackupManager{store: store, dir: dir}, nil
}

// Create snapshots the database with VACUUM INTO and records its metadata.
func (bm *BackupManager) Create(ctx context.Context, name, description string) (*BackupInfo, error) {
	return bm.create(ctx, name, description, false)
}

// AutoBackup takes a snapshot before a bulk operation and prunes old
// automatic backups.
func (bm *BackupManager) AutoBackup(ctx context.Context, operation string) (*BackupInfo, error) {
	name := fmt.Sprintf("auto-%s-%s", operation, time.Now().UTC().Format("20060102-150405.000000000"))
	info, err := bm.create(ctx, name, "Automatic backup before "+operation, true)
	if err != nil {
		return nil, err
	}
	if err := bm.pruneAuto(ctx); err != nil {
		slog.Warn("failed to prune automatic backups", "error", err)
	}
	return info, nil
}

func (bm *BackupManager) create(ctx context.Context, name, description string, auto bool) (*BackupInfo, error) {
	if name == "" {
		name = "backup-" + time.Now().UTC().Format("20060102-150405")
	}
	if err := validateBackupName(name); err != nil {
		return nil, err
	}

	dbPath := bm.dbFile(name)
	if _, err := os.Stat(dbPath); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrBackupExists, name)
	}

	schemaVersion, err := bm.store.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := bm.rowCounts(ctx)
	if err != nil {
		return nil, err
	}

	// The name is validated above, so quoting it into the statement is safe.
	if _, err := bm.store.db.ExecContext(ctx, "VACUUM INTO '"+dbPath+"'"); err != nil {
		return nil, fmt.Errorf("failed to write backup: %w", err)
	}

	stat, err := os.Stat(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat backup: %w", err)
	}

	info := &BackupInfo{
		ID:            name,
		CreatedAt:     time.Now().UTC(),
		Description:   description,
		FileSize:      stat.Size(),
		RowCounts:     counts,
		SchemaVersion: schemaVersion,
		IsAuto:        auto,
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode backup metadata: %w", err)
	}
	if err := os.WriteFile(bm.metaFile(name), data, 0600); err != nil {
		if rmErr := os.Remove(dbPath); rmErr != nil {
			slog.Error("failed to remove backup after metadata write failure", "error", rmErr)
		}
		return nil, fmt.Errorf("failed to write backup metadata: %w", err)
	}

	slog.Info("Created backup", "id", name, "size", info.FileSize)
	return info, nil
}

// List returns every backup, newest first. Unreadable metadata is skipped.
func (bm *BackupManager) List(_ context.Context) ([]BackupInfo, error) {
	entries, err := os.ReadDir(bm.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read backups directory: %w", err)
	}

	var backups []BackupInfo
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".meta.json") {
			continue
		}
		info, err := bm.load(strings.TrimSuffix(entry.Name(), ".meta.json"))
		if err != nil {
			slog.Debug("skipping unreadable backup metadata", "file", entry.Name(), "error", err)
			continue
		}
		backups = append(backups, *info)
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].CreatedAt.After(backups[j].CreatedAt)
	})
	return backups, nil
}

// Delete removes a backup and its metadata.
func (bm *BackupManager) Delete(_ context.Context, name string) error {
	if err := validateBackupName(name); err != nil {
		return err
	}
	if err := os.Remove(bm.dbFile(name)); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s", ErrBackupNotFound, name)
		}
		return fmt.Errorf("failed to remove backup: %w", err)
	}
	if err := os.Remove(bm.metaFile(name)); err != nil && !os.IsNotExist(err) {
		slog.Debug("failed to remove backup metadata", "id", name, "error", err)
	}
	return nil
}

func (bm *BackupManager) pruneAuto(ctx context.Context) error {
	backups, err := bm.List(ctx)
	if err != nil {
		return err
	}
	kept := 0
	for _, b := range backups {
		if !b.IsAuto {
			continue
		}
		kept++
		if kept > maxAutoBackups {
			if err := bm.Delete(ctx, b.ID); err != nil {
				slog.Debug("failed to delete old automatic backup", "id", b.ID, "error", err)
			}
		}
	}
	return nil
}

func (bm *BackupManager) rowCounts(ctx context.Context) (map[string]int, error) {
	queries := map[string]string{
		"accounts":        "SELECT COUNT(*) FROM accounts",
		"transactions":    "SELECT COUNT(*) FROM transactions",
		"journal_entries": "SELECT COUNT(*) FROM journal_entries",
		"vendor_mappings": "SELECT COUNT(*) FROM vendor_mappings",
	}
	counts := make(map[string]int, len(queries))
	for table, query := range queries {
		var n int
		if err := bm.store.db.QueryRowContext(ctx, query).Scan(&n); err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		counts[table] = n
	}
	return counts, nil
}

func (bm *BackupManager) load(name string) (*BackupInfo, error) {
	data, err := os.ReadFile(bm.metaFile(name)) // #nosec G304 - name is a directory entry
	if err != nil {
		return nil, err
	}
	var info BackupInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

func (bm *BackupManager) dbFile(name string) string {
	return filepath.Join(bm.dir, name+".db")
}

func (bm *BackupManager) metaFile(name string) string {
	return filepath.Join(bm.dir, name+".meta.json")
}

func validateBackupName(name string) error {
	if name == "" || strings.ContainsAny(name, `/\'";`) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: %q", ErrInvalidBackup, name)
	}
	return nil
}
