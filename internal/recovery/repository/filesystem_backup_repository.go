// Package repository implements backup storage access for the recovery pipeline.
package repository

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/MASITH-developpement/Azalscore-sub013/internal/errors"
	recoveryUsecase "github.com/MASITH-developpement/Azalscore-sub013/internal/recovery/usecase"
)

// backupDirLayout is the directory-name timestamp format. Colon-free so the
// same layout works on every filesystem.
const backupDirLayout = "2006-01-02T15-04-05Z"

// manifest describes one backup's contents and per-table checksums.
type manifest struct {
	TenantID  string                   `json:"tenant_id"`
	CreatedAt time.Time                `json:"created_at"`
	Tables    map[string]manifestEntry `json:"tables"`
}

type manifestEntry struct {
	File   string `json:"file"`
	SHA256 string `json:"sha256"`
	Rows   int    `json:"rows"`
}

// FilesystemBackupRepository serves tenant backups from a local or mounted
// directory tree laid out as <root>/<tenant_id>/<timestamp>/.
//
// Each backup directory holds a manifest.json plus one JSON row-array file per
// table. Column values carrying a ciphertext envelope stay encrypted on disk;
// restoration decrypts them in memory only to prove the backup is readable
// and hands the stored ciphertext back unchanged.
type FilesystemBackupRepository struct {
	root   string
	logger *slog.Logger
}

// NewFilesystemBackupRepository creates a backup repository rooted at dir.
func NewFilesystemBackupRepository(root string, logger *slog.Logger) *FilesystemBackupRepository {
	return &FilesystemBackupRepository{
		root:   root,
		logger: logger,
	}
}

// ListBackups returns every parseable backup directory for the tenant,
// skipping entries whose name is not a valid timestamp.
func (r *FilesystemBackupRepository) ListBackups(ctx context.Context, tenantID string) ([]recoveryUsecase.Backup, error) {
	tenantDir := filepath.Join(r.root, tenantID)
	entries, err := os.ReadDir(tenantDir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list backups for tenant %s: %w", tenantID, err)
	}

	var backups []recoveryUsecase.Backup
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		date, err := time.Parse(backupDirLayout, entry.Name())
		if err != nil {
			r.logger.Warn("skipping backup directory with unparseable name",
				slog.String("tenant_id", tenantID),
				slog.String("dir", entry.Name()),
			)
			continue
		}
		backups = append(backups, recoveryUsecase.Backup{
			TenantID:    tenantID,
			Date:        date,
			LocationRef: filepath.Join(tenantDir, entry.Name()),
		})
	}

	sort.Slice(backups, func(i, j int) bool {
		return backups[i].Date.After(backups[j].Date)
	})
	return backups, nil
}

// VerifyBackupIntegrity recomputes each table file's SHA-256 against the
// manifest. A missing or mismatching file yields a negative verdict with a
// message; only infrastructure failures return an error.
func (r *FilesystemBackupRepository) VerifyBackupIntegrity(ctx context.Context, tenantID string, backupDate time.Time) (bool, string, error) {
	dir := r.backupDir(tenantID, backupDate)

	m, err := r.readManifest(dir)
	if os.IsNotExist(err) {
		return false, "manifest.json is missing", nil
	}
	if err != nil {
		return false, "", err
	}

	if m.TenantID != tenantID {
		return false, fmt.Sprintf("manifest tenant %q does not match %q", m.TenantID, tenantID), nil
	}
	if len(m.Tables) == 0 {
		return false, "manifest lists no tables", nil
	}

	for table, entry := range m.Tables {
		path, err := tableFilePath(dir, entry.File)
		if err != nil {
			return false, err.Error(), nil
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			return false, fmt.Sprintf("table file %s is missing", entry.File), nil
		}
		if err != nil {
			return false, "", fmt.Errorf("failed to read table file %s: %w", entry.File, err)
		}

		sum := sha256.Sum256(data)
		if !strings.EqualFold(hex.EncodeToString(sum[:]), entry.SHA256) {
			return false, fmt.Sprintf("checksum mismatch for table %s", table), nil
		}
	}

	return true, "", nil
}

// RestoreBackup loads every table in the backup and proves each ciphertext
// envelope decrypts through decryptFn. Rows are returned with their on-disk
// (still encrypted) values; decrypted bytes never leave this call.
func (r *FilesystemBackupRepository) RestoreBackup(
	ctx context.Context,
	tenantID string,
	backupDate time.Time,
	decryptFn func(ciphertext string) ([]byte, error),
) (map[string][]recoveryUsecase.Row, error) {
	dir := r.backupDir(tenantID, backupDate)

	m, err := r.readManifest(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest for tenant %s: %w", tenantID, err)
	}

	tables := make(map[string][]recoveryUsecase.Row, len(m.Tables))
	for table, entry := range m.Tables {
		rows, err := r.loadTable(dir, entry.File)
		if err != nil {
			return nil, fmt.Errorf("failed to load table %s: %w", table, err)
		}

		for i, row := range rows {
			for column, value := range row {
				ciphertext, ok := value.(string)
				if !ok || !strings.HasPrefix(ciphertext, "v1:") {
					continue
				}
				plaintext, err := decryptFn(ciphertext)
				if err != nil {
					return nil, errors.Wrapf(err, "table %s row %d column %s failed decryption", table, i, column)
				}
				// Proof of decryptability is all that is needed here.
				for j := range plaintext {
					plaintext[j] = 0
				}
			}
		}
		tables[table] = rows
	}

	return tables, nil
}

func (r *FilesystemBackupRepository) backupDir(tenantID string, backupDate time.Time) string {
	return filepath.Join(r.root, tenantID, backupDate.UTC().Format(backupDirLayout))
}

func (r *FilesystemBackupRepository) readManifest(dir string) (*manifest, error) {
	data, err := os.ReadFile(filepath.Join(dir, "manifest.json"))
	if err != nil {
		return nil, err
	}
	var m manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest.json: %w", err)
	}
	return &m, nil
}

// tableFilePath joins a manifest file entry onto the backup directory.
// Entries must be plain file names: a crafted manifest must not be able to
// reference files outside its own backup directory.
func tableFilePath(dir, file string) (string, error) {
	if file == "" || file == ".." || file != filepath.Base(file) {
		return "", fmt.Errorf("invalid table file name %q in manifest", file)
	}
	return filepath.Join(dir, file), nil
}

func (r *FilesystemBackupRepository) loadTable(dir, file string) ([]recoveryUsecase.Row, error) {
	path, err := tableFilePath(dir, file)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []recoveryUsecase.Row
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse row file %s: %w", file, err)
	}
	return rows, nil
}
