package research

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ishankgp/brainstorming-agent/internal/db"
	"github.com/ishankgp/brainstorming-agent/internal/gemini"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	conn, err := db.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewStore(conn)
}

func TestStore_AddGetDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	id, err := store.Add(ctx, Document{
		Name:     "oncologist-survey.pdf",
		DocType:  "market-research",
		FileType: "pdf",
		FilePath: "/tmp/oncologist-survey.pdf",
		SizeKB:   120,
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "oncologist-survey.pdf", doc.Name)
	assert.Empty(t, doc.RemoteURI)

	require.NoError(t, store.SetRemote(ctx, id, "files/abc", "https://files/abc", "application/pdf"))
	doc, err = store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://files/abc", doc.RemoteURI)

	require.NoError(t, store.Delete(ctx, id))
	assert.ErrorIs(t, store.Delete(ctx, id), sql.ErrNoRows)
}

func TestStore_GetByIDsPreservesOrder(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	idA, err := store.Add(ctx, Document{Name: "a.pdf", DocType: "t", FileType: "pdf", FilePath: "/a"})
	require.NoError(t, err)
	idB, err := store.Add(ctx, Document{Name: "b.pdf", DocType: "t", FileType: "pdf", FilePath: "/b"})
	require.NoError(t, err)

	docs, err := store.GetByIDs(ctx, []string{idB, "missing", idA})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, idB, docs[0].ID)
	assert.Equal(t, idA, docs[1].ID)
}

type fakeUploader struct {
	err   error
	calls int
}

func (u *fakeUploader) UploadFile(_ context.Context, path, displayName, mimeType string) (string, gemini.FileRef, error) {
	u.calls++
	if u.err != nil {
		return "", gemini.FileRef{}, u.err
	}
	return "files/" + displayName, gemini.FileRef{URI: "https://files/" + displayName, MIMEType: mimeType, DisplayName: displayName}, nil
}

func TestResolver_UsesStoredRemoteURI(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)
	uploader := &fakeUploader{}

	id, err := store.Add(ctx, Document{Name: "trial.pdf", DocType: "clinical-trial", FileType: "pdf", FilePath: "/trial",
		RemoteURI: "https://files/trial", MIMEType: "application/pdf"})
	require.NoError(t, err)

	refs, err := NewResolver(store, uploader).Resolve(ctx, []string{id})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, "https://files/trial", refs[0].URI)
	assert.Zero(t, uploader.calls, "already-uploaded documents do not re-upload")
}

func TestResolver_LazilyUploadsAndRecords(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)
	uploader := &fakeUploader{}

	id, err := store.Add(ctx, Document{Name: "deck.pdf", DocType: "market-research", FileType: "pdf", FilePath: "/deck"})
	require.NoError(t, err)

	refs, err := NewResolver(store, uploader).Resolve(ctx, []string{id})
	require.NoError(t, err)
	require.Len(t, refs, 1)
	assert.Equal(t, 1, uploader.calls)

	doc, err := store.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "https://files/deck.pdf", doc.RemoteURI, "remote location recorded for next run")
}

func TestResolver_SkipsFailedUploads(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := openTestStore(t)

	okID, err := store.Add(ctx, Document{Name: "ok.pdf", DocType: "t", FileType: "pdf", FilePath: "/ok",
		RemoteURI: "https://files/ok", MIMEType: "application/pdf"})
	require.NoError(t, err)
	badID, err := store.Add(ctx, Document{Name: "bad.pdf", DocType: "t", FileType: "pdf", FilePath: "/bad"})
	require.NoError(t, err)

	uploader := &fakeUploader{err: assert.AnError}
	refs, err := NewResolver(store, uploader).Resolve(ctx, []string{okID, badID})
	require.NoError(t, err, "per-document upload failures do not fail resolution")
	require.Len(t, refs, 1)
	assert.Equal(t, "https://files/ok", refs[0].URI)
}

func TestMimeTypeFor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "application/pdf", mimeTypeFor(Document{MIMEType: "application/pdf"}))
	assert.Contains(t, mimeTypeFor(Document{Name: "notes.txt"}), "text/plain")
	assert.Equal(t, fallbackMIMEType, mimeTypeFor(Document{Name: "mystery"}))
}
