package sqlite

import (
	"context"
	"database/sql"
	"encoding/binary"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/ragent/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/ragent/internal/core/domain"
	"github.com/custodia-labs/ragent/internal/core/ports/driven"
)

// DBFileName is the database file inside the store directory.
const DBFileName = "ragent.db"

const (
	metaDimensions = "dimensions"
	metaModel      = "embedding_model"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// Store is a SQLite-backed vector store.
type Store struct {
	db         *sql.DB
	path       string
	dimensions int
	model      string
}

// Exists reports whether a store database is present in dir.
func Exists(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, DBFileName))
	return err == nil && info.Mode().IsRegular()
}

// NewStore opens or creates the store in dir for vectors of the given size
// produced by model. An existing store created with a different size or
// model is rejected.
func NewStore(dir string, dimensions int, model string) (*Store, error) {
	if dimensions <= 0 {
		return nil, fmt.Errorf("%w: store dimensions must be positive, got %d", domain.ErrInvalidSetting, dimensions)
	}

	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, domain.NewFileError(dir, err)
	}

	dbPath := filepath.Join(dir, DBFileName)

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, domain.NewFileError(dbPath, fmt.Errorf("opening database: %w", err))
	}

	s := &Store{
		db:         db,
		path:       dbPath,
		dimensions: dimensions,
		model:      model,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, domain.NewFileError(dbPath, fmt.Errorf("running migrations: %w", err))
	}

	if err := s.checkMeta(); err != nil {
		db.Close()
		return nil, err
	}

	return s, nil
}

// Inspect reports the recorded dimensions, model and entry count of the
// store in dir without validating it against an embedder. A missing store
// is reported as not existing and is not created.
func Inspect(ctx context.Context, dir string) (*domain.StoreStatus, error) {
	dbPath := filepath.Join(dir, DBFileName)
	status := &domain.StoreStatus{
		Backend:  domain.StoreBackendSQLite,
		Location: dbPath,
	}
	if !Exists(dir) {
		return status, nil
	}
	status.Exists = true

	db, err := sql.Open("sqlite", dbPath+"?_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, domain.NewFileError(dbPath, fmt.Errorf("opening database: %w", err))
	}
	defer db.Close()

	s := &Store{db: db, path: dbPath}
	if dims, err := s.getMeta(metaDimensions); err == nil {
		status.Dimensions, _ = strconv.Atoi(dims)
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if model, err := s.getMeta(metaModel); err == nil {
		status.Model = model
	}
	if status.Entries, err = s.Count(ctx); err != nil {
		return nil, err
	}
	return status, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// Location returns the database file path.
func (s *Store) Location() string {
	return s.path
}

// Dimensions returns the accepted vector size.
func (s *Store) Dimensions() int {
	return s.dimensions
}

// Add inserts entries in a single transaction. A mismatched vector rejects
// the batch before anything is written.
func (s *Store) Add(ctx context.Context, entries []domain.IndexedEntry) error {
	if err := similarity.CheckVectors(entries, s.dimensions); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return domain.NewFileError(s.path, fmt.Errorf("begin transaction: %w", err))
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO entries (chunk_id, document_id, source_path, page, title, start_index, text, vector)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return domain.NewFileError(s.path, fmt.Errorf("prepare insert: %w", err))
	}
	defer stmt.Close()

	for _, e := range entries {
		c := e.Chunk
		_, err := stmt.ExecContext(ctx,
			c.ID, c.DocumentID, c.Metadata.SourcePath, c.Metadata.Page, c.Metadata.Title,
			c.StartIndex, c.Text, float32SliceToBytes(e.Vector),
		)
		if err != nil {
			return domain.NewFileError(s.path, fmt.Errorf("insert chunk %s: %w", c.ID, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return domain.NewFileError(s.path, fmt.Errorf("commit: %w", err))
	}
	return nil
}

// Query scans every entry and returns the k most similar to vector.
func (s *Store) Query(ctx context.Context, vector []float32, k int) ([]domain.ScoredChunk, error) {
	if err := similarity.CheckQuery(vector, k, s.dimensions); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT chunk_id, document_id, source_path, page, title, start_index, text, vector
		FROM entries
		ORDER BY seq
	`)
	if err != nil {
		return nil, domain.NewFileError(s.path, fmt.Errorf("query entries: %w", err))
	}
	defer rows.Close()

	var entries []domain.IndexedEntry
	for rows.Next() {
		var (
			c    domain.Chunk
			blob []byte
		)
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Metadata.SourcePath, &c.Metadata.Page,
			&c.Metadata.Title, &c.StartIndex, &c.Text, &blob); err != nil {
			return nil, domain.NewFileError(s.path, fmt.Errorf("scan entry: %w", err))
		}
		entries = append(entries, domain.IndexedEntry{Vector: bytesToFloat32Slice(blob), Chunk: c})
	}
	if err := rows.Err(); err != nil {
		return nil, domain.NewFileError(s.path, fmt.Errorf("iterate entries: %w", err))
	}

	return similarity.TopK(entries, vector, k), nil
}

// Count returns the number of stored entries.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM entries").Scan(&n); err != nil {
		return 0, domain.NewFileError(s.path, fmt.Errorf("count entries: %w", err))
	}
	return n, nil
}

// checkMeta records dimensions and model on first use and verifies them afterwards.
func (s *Store) checkMeta() error {
	dims, err := s.getMeta(metaDimensions)
	if errors.Is(err, sql.ErrNoRows) {
		return s.putMeta(map[string]string{
			metaDimensions: strconv.Itoa(s.dimensions),
			metaModel:      s.model,
		})
	}
	if err != nil {
		return err
	}

	stored, err := strconv.Atoi(dims)
	if err != nil {
		return domain.NewFileError(s.path, fmt.Errorf("corrupt dimensions %q: %w", dims, err))
	}
	if stored != s.dimensions {
		return fmt.Errorf("%w: store at %s holds %d-dimensional vectors, embedder produces %d",
			domain.ErrDimensionMismatch, s.path, stored, s.dimensions)
	}

	model, err := s.getMeta(metaModel)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return err
	}
	if model != "" && s.model != "" && model != s.model {
		return fmt.Errorf("%w: store at %s was built with %q, configured model is %q",
			domain.ErrModelMismatch, s.path, model, s.model)
	}
	return nil
}

func (s *Store) getMeta(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM store_meta WHERE key = ?", key).Scan(&value)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return "", domain.NewFileError(s.path, fmt.Errorf("read %s: %w", key, err))
	}
	return value, err
}

func (s *Store) putMeta(values map[string]string) error {
	for key, value := range values {
		if _, err := s.db.Exec("INSERT OR REPLACE INTO store_meta (key, value) VALUES (?, ?)", key, value); err != nil {
			return domain.NewFileError(s.path, fmt.Errorf("write %s: %w", key, err))
		}
	}
	return nil
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys fs.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
