// Package research manages the uploaded research document library and
// resolves document references into long-context attachments for the
// generation pipeline.
package research

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Document is one uploaded research document. RemoteName/RemoteURI are set
// once the file has been pushed to the Gemini Files API.
type Document struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	DocType     string `json:"doc_type"` // "clinical-trial", "market-research", ...
	FileType    string `json:"file_type"` // "pdf", "ppt", "docx"
	FilePath    string `json:"-"`
	Description string `json:"description,omitempty"`
	RemoteName  string `json:"-"`
	RemoteURI   string `json:"-"`
	MIMEType    string `json:"mime_type,omitempty"`
	SizeKB      int64  `json:"size_kb"`
	UploadedAt  string `json:"uploaded_at"`
}

// Store manages research document persistence.
type Store struct {
	db *sql.DB
}

// NewStore creates a document store.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Add inserts a new document record and returns its generated id.
func (s *Store) Add(ctx context.Context, doc Document) (string, error) {
	id := doc.ID
	if id == "" {
		id = uuid.NewString()
	}
	uploadedAt := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.ExecContext(ctx, `INSERT INTO research_documents(id, name, doc_type, file_type, file_path, description, remote_name, remote_uri, mime_type, size_kb, uploaded_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, doc.Name, doc.DocType, doc.FileType, doc.FilePath, doc.Description,
		doc.RemoteName, doc.RemoteURI, doc.MIMEType, doc.SizeKB, uploadedAt)
	if err != nil {
		return "", fmt.Errorf("insert document: %w", err)
	}
	return id, nil
}

// SetRemote records the Gemini Files API location of an uploaded document.
func (s *Store) SetRemote(ctx context.Context, id, remoteName, remoteURI, mimeType string) error {
	if _, err := s.db.ExecContext(ctx, `UPDATE research_documents SET remote_name=?, remote_uri=?, mime_type=? WHERE id=?`,
		remoteName, remoteURI, mimeType, id); err != nil {
		return fmt.Errorf("update document remote: %w", err)
	}
	return nil
}

// Get returns one document by id.
func (s *Store) Get(ctx context.Context, id string) (Document, error) {
	row := s.db.QueryRowContext(ctx, selectDocuments+` WHERE id=?`, id)
	return scanDocument(row)
}

// List returns all documents, newest first.
func (s *Store) List(ctx context.Context) ([]Document, error) {
	rows, err := s.db.QueryContext(ctx, selectDocuments+` ORDER BY uploaded_at DESC, id`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()
	var out []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, doc)
	}
	return out, rows.Err()
}

// GetByIDs returns the documents for the given ids, preserving input order.
// Unknown ids are skipped.
func (s *Store) GetByIDs(ctx context.Context, ids []string) ([]Document, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	placeholders := strings.Repeat("?,", len(ids))
	placeholders = placeholders[:len(placeholders)-1]
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	rows, err := s.db.QueryContext(ctx, selectDocuments+` WHERE id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()
	byID := make(map[string]Document, len(ids))
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		byID[doc.ID] = doc
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	out := make([]Document, 0, len(ids))
	for _, id := range ids {
		if doc, ok := byID[id]; ok {
			out = append(out, doc)
		}
	}
	return out, nil
}

// Delete removes a document record.
func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM research_documents WHERE id=?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

const selectDocuments = `SELECT id, name, doc_type, file_type, file_path, description, remote_name, remote_uri, mime_type, size_kb, uploaded_at FROM research_documents`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (Document, error) {
	var doc Document
	var description, remoteName, remoteURI, mimeType sql.NullString
	if err := row.Scan(&doc.ID, &doc.Name, &doc.DocType, &doc.FileType, &doc.FilePath,
		&description, &remoteName, &remoteURI, &mimeType, &doc.SizeKB, &doc.UploadedAt); err != nil {
		return Document{}, fmt.Errorf("scan document: %w", err)
	}
	doc.Description = description.String
	doc.RemoteName = remoteName.String
	doc.RemoteURI = remoteURI.String
	doc.MIMEType = mimeType.String
	return doc, nil
}
