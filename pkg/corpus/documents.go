package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"
)

// DocumentInfo holds the metadata of a stored training document.
type DocumentInfo struct {
	Id        int       `json:"id"`
	Name      string    `json:"name"`
	CharCount int       `json:"char_count"` // Length of the content in characters (runes), not bytes.
	AddedAt   time.Time `json:"added_at"`
}

// PutDocument reads all of r and stores it under name, replacing any existing
// document with the same name.
func (s *Store) PutDocument(ctx context.Context, name string, r io.Reader) (DocumentInfo, error) {
	if name == "" {
		return DocumentInfo{}, fmt.Errorf("document name is empty")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("could not read document '%s': %w", name, err)
	}

	info := DocumentInfo{
		Name:      name,
		CharCount: utf8.RuneCount(data),
		AddedAt:   time.Now().UTC().Truncate(time.Second),
	}
	err = s.stmtPutDocument.QueryRowContext(ctx, name, string(data), info.CharCount, info.AddedAt.Format(time.RFC3339)).Scan(&info.Id)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("could not store document '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Document stored",
		slog.String("doc_name", name),
		slog.Int("doc_id", info.Id),
		slog.Int("char_count", info.CharCount),
	)
	return info, nil
}

// GetDocumentInfo retrieves the metadata of a single document. It returns an
// error wrapping sql.ErrNoRows if the document does not exist.
func (s *Store) GetDocumentInfo(ctx context.Context, name string) (DocumentInfo, error) {
	info := DocumentInfo{Name: name}
	var addedAt string
	err := s.stmtGetDocInfo.QueryRowContext(ctx, name).Scan(&info.Id, &info.CharCount, &addedAt)
	if err != nil {
		return DocumentInfo{}, fmt.Errorf("could not get document '%s': %w", name, err)
	}
	info.AddedAt = parseTime(addedAt)
	return info, nil
}

// ListDocuments returns the metadata of all documents, ordered by name.
func (s *Store) ListDocuments(ctx context.Context) ([]DocumentInfo, error) {
	rows, err := s.stmtListDocs.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var docs []DocumentInfo
	for rows.Next() {
		var info DocumentInfo
		var addedAt string
		if err = rows.Scan(&info.Id, &info.Name, &info.CharCount, &addedAt); err != nil {
			return nil, err
		}
		info.AddedAt = parseTime(addedAt)
		docs = append(docs, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return docs, nil
}

// OpenDocument returns the content of a document as a reader that can be
// passed straight to a model for training. It returns an error wrapping
// sql.ErrNoRows if the document does not exist.
func (s *Store) OpenDocument(ctx context.Context, name string) (io.Reader, error) {
	var content string
	if err := s.stmtGetContent.QueryRowContext(ctx, name).Scan(&content); err != nil {
		return nil, fmt.Errorf("could not open document '%s': %w", name, err)
	}
	return strings.NewReader(content), nil
}

// RemoveDocument deletes a document. It returns an error wrapping
// sql.ErrNoRows if nothing was deleted.
func (s *Store) RemoveDocument(ctx context.Context, name string) error {
	res, err := s.stmtRemoveDoc.ExecContext(ctx, name)
	if err != nil {
		return fmt.Errorf("could not remove document '%s': %w", name, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("could not remove document '%s': %w", name, sql.ErrNoRows)
	}

	s.logger.InfoContext(ctx, "Document removed", slog.String("doc_name", name))
	return nil
}

func parseTime(value string) time.Time {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return t
}
