package research

import (
	"context"
	"mime"
	"path/filepath"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ishankgp/brainstorming-agent/internal/gemini"
	"github.com/ishankgp/brainstorming-agent/internal/logging"
)

// fallbackMIMEType is assumed when neither the record nor the filename
// yields a type. The library is overwhelmingly PDF.
const fallbackMIMEType = "application/pdf"

// Uploader pushes a local file to the Gemini Files API. Implemented by
// gemini.Client.
type Uploader interface {
	UploadFile(ctx context.Context, path, displayName, mimeType string) (string, gemini.FileRef, error)
}

// Resolver turns stored document ids into file attachments. Documents that
// were added while offline are uploaded lazily, concurrently, on first use.
type Resolver struct {
	store    *Store
	uploader Uploader
}

// NewResolver creates a resolver over the document store.
func NewResolver(store *Store, uploader Uploader) *Resolver {
	return &Resolver{store: store, uploader: uploader}
}

// Resolve returns attachments for the given document ids. Per-document
// failures (missing record, failed upload) are logged and skipped; the
// pipeline degrades to fewer context files rather than failing the run.
func (r *Resolver) Resolve(ctx context.Context, ids []string) ([]gemini.FileRef, error) {
	logger := logging.Component("research")

	docs, err := r.store.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(docs) < len(ids) {
		logger.Warn().Int("requested", len(ids)).Int("found", len(docs)).Msg("some research documents are unknown, skipping")
	}

	refs := make([]gemini.FileRef, len(docs))
	ok := make([]bool, len(docs))
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)

	for i, doc := range docs {
		if doc.RemoteURI != "" {
			refs[i] = gemini.FileRef{URI: doc.RemoteURI, MIMEType: mimeTypeFor(doc), DisplayName: doc.Name}
			ok[i] = true
			continue
		}
		if r.uploader == nil {
			logger.Warn().Str("id", doc.ID).Msg("document not uploaded and no uploader available, skipping")
			continue
		}
		g.Go(func() error {
			remoteName, ref, err := r.uploader.UploadFile(gctx, doc.FilePath, doc.Name, mimeTypeFor(doc))
			if err != nil {
				logger.Error().Err(err).Str("id", doc.ID).Msg("lazy upload failed, skipping document")
				return nil
			}
			if err := r.store.SetRemote(gctx, doc.ID, remoteName, ref.URI, ref.MIMEType); err != nil {
				logger.Error().Err(err).Str("id", doc.ID).Msg("failed to record remote location")
			}
			mu.Lock()
			refs[i] = ref
			ok[i] = true
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]gemini.FileRef, 0, len(docs))
	for i := range docs {
		if ok[i] {
			out = append(out, refs[i])
		}
	}
	return out, nil
}

// mimeTypeFor picks the stored MIME type, else guesses from the filename,
// else assumes PDF.
func mimeTypeFor(doc Document) string {
	if doc.MIMEType != "" {
		return doc.MIMEType
	}
	if t := mime.TypeByExtension(filepath.Ext(doc.Name)); t != "" {
		return t
	}
	return fallbackMIMEType
}
