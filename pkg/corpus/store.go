package corpus

import (
	"database/sql"
	"fmt"
	"io"
	"log/slog"
)

// SetupSchema initializes the corpus and history tables in the provided
// database. It is idempotent and safe to call on an already-initialized
// database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaDocuments = `
CREATE TABLE IF NOT EXISTS corpus_documents (
    doc_id INTEGER PRIMARY KEY,
    doc_name TEXT NOT NULL UNIQUE,
    content TEXT NOT NULL,
    char_count INTEGER NOT NULL,
    added_at TEXT NOT NULL
);
`
		schemaRuns = `
CREATE TABLE IF NOT EXISTS generation_runs (
    run_id INTEGER PRIMARY KEY,
    source TEXT NOT NULL,
    window_length INTEGER NOT NULL,
    seed INTEGER,
    seed_text TEXT NOT NULL,
    target_length INTEGER NOT NULL,
    output TEXT NOT NULL,
    created_at TEXT NOT NULL
);
`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaDocuments); err != nil {
		return fmt.Errorf("could not create documents schema: %w", err)
	}

	if _, err = tx.Exec(schemaRuns); err != nil {
		return fmt.Errorf("could not create runs schema: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}

	return nil
}

// Store is the entry point for the corpus library. It holds the database
// connection and prepared statements for the document and history tables.
type Store struct {
	db              *sql.DB
	stmtPutDocument *sql.Stmt
	stmtGetDocInfo  *sql.Stmt
	stmtGetContent  *sql.Stmt
	stmtListDocs    *sql.Stmt
	stmtRemoveDoc   *sql.Stmt
	stmtInsertRun   *sql.Stmt
	stmtListRuns    *sql.Stmt
	stmtPruneRuns   *sql.Stmt
	stmtDocTotals   *sql.Stmt
	stmtRunCount    *sql.Stmt
	logger          *slog.Logger
}

// NewStore creates a Store on a database prepared with SetupSchema. It
// pre-compiles all SQL statements, returning an error if any preparation fails.
func NewStore(db *sql.DB) (*Store, error) {
	stmtPutDocument, err := db.Prepare(`INSERT INTO corpus_documents (doc_name, content, char_count, added_at) VALUES (?, ?, ?, ?)
ON CONFLICT(doc_name) DO UPDATE SET content = excluded.content, char_count = excluded.char_count, added_at = excluded.added_at
RETURNING doc_id;`)
	if err != nil {
		return nil, err
	}

	stmtGetDocInfo, err := db.Prepare(`SELECT doc_id, char_count, added_at FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetContent, err := db.Prepare(`SELECT content FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtListDocs, err := db.Prepare(`SELECT doc_id, doc_name, char_count, added_at FROM corpus_documents ORDER BY doc_name;`)
	if err != nil {
		return nil, err
	}

	stmtRemoveDoc, err := db.Prepare(`DELETE FROM corpus_documents WHERE doc_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtInsertRun, err := db.Prepare(`INSERT INTO generation_runs (source, window_length, seed, seed_text, target_length, output, created_at) VALUES (?, ?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtListRuns, err := db.Prepare(`SELECT run_id, source, window_length, seed, seed_text, target_length, output, created_at FROM generation_runs ORDER BY run_id DESC LIMIT ?;`)
	if err != nil {
		return nil, err
	}

	stmtPruneRuns, err := db.Prepare(`DELETE FROM generation_runs WHERE run_id NOT IN (SELECT run_id FROM generation_runs ORDER BY run_id DESC LIMIT ?);`)
	if err != nil {
		return nil, err
	}

	stmtDocTotals, err := db.Prepare(`SELECT COUNT(*), coalesce(SUM(char_count), 0) FROM corpus_documents;`)
	if err != nil {
		return nil, err
	}

	stmtRunCount, err := db.Prepare(`SELECT COUNT(*) FROM generation_runs;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:              db,
		stmtPutDocument: stmtPutDocument,
		stmtGetDocInfo:  stmtGetDocInfo,
		stmtGetContent:  stmtGetContent,
		stmtListDocs:    stmtListDocs,
		stmtRemoveDoc:   stmtRemoveDoc,
		stmtInsertRun:   stmtInsertRun,
		stmtListRuns:    stmtListRuns,
		stmtPruneRuns:   stmtPruneRuns,
		stmtDocTotals:   stmtDocTotals,
		stmtRunCount:    stmtRunCount,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store. The database
// itself is owned by the caller.
func (s *Store) Close() {
	_ = s.stmtPutDocument.Close()
	_ = s.stmtGetDocInfo.Close()
	_ = s.stmtGetContent.Close()
	_ = s.stmtListDocs.Close()
	_ = s.stmtRemoveDoc.Close()
	_ = s.stmtInsertRun.Close()
	_ = s.stmtListRuns.Close()
	_ = s.stmtPruneRuns.Close()
	_ = s.stmtDocTotals.Close()
	_ = s.stmtRunCount.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}
