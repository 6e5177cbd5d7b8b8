package document

import (
	"context"
	"errors"
	"io"
	"path"
	"strings"
	"time"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type DocumentService interface {
	// Upload stores the files and records one document. The first file is the
	// document itself; any others are kept as its attachments.
	Upload(ctx context.Context, req UploadRequest) (string, error)
	Get(ctx context.Context, id string) (*Document, error)
	Open(ctx context.Context, id string) (*Document, io.ReadCloser, error)
	// Missing returns the ids among refs that have no stored document
	Missing(ctx context.Context, refs []DocumentRef) ([]string, error)
}

type DocumentServiceImpl struct {
	Repo    DocumentRepository
	Storage storage.Driver
	Logger  *zap.Logger
}

func NewDocumentService(repo DocumentRepository, driver storage.Driver, logger *zap.Logger) DocumentService {
	return &DocumentServiceImpl{
		Repo:    repo,
		Storage: driver,
		Logger:  logger,
	}
}

func (s *DocumentServiceImpl) Upload(ctx context.Context, req UploadRequest) (string, error) {
	if len(req.Files) == 0 {
		return "", apperr.Validation("No file provided")
	}
	folder, err := storage.CleanKey(req.Path)
	if err != nil {
		return "", apperr.Validation("Invalid upload path")
	}

	id := uuid.NewString()
	var total int64
	for _, f := range req.Files {
		total += f.Size
	}
	progress := &progressTracker{total: total, fn: req.Progress}

	var saved []Attachment
	for i, f := range req.Files {
		name := f.Filename
		if i == 0 && req.Filename != "" {
			name = req.Filename
		}
		name = path.Base(strings.ReplaceAll(name, "\\", "/"))
		if name == "" || name == "." || name == "/" {
			s.cleanup(saved)
			return "", apperr.Validation("Filename is required")
		}

		contentType := f.ContentType
		if contentType == "" {
			contentType = "application/octet-stream"
		}

		key := path.Join(folder, id, name)
		if err := s.Storage.Save(ctx, key, progress.wrap(f.Body), contentType); err != nil {
			s.cleanup(saved)
			s.Logger.Error("Failed to store upload", zap.String("key", key), zap.Error(err))
			return "", err
		}
		saved = append(saved, Attachment{Key: key, Filename: name, ContentType: contentType, Size: f.Size})
	}

	doc := &Document{
		ID:          id,
		Filename:    saved[0].Filename,
		Path:        folder,
		Key:         saved[0].Key,
		ContentType: saved[0].ContentType,
		Size:        saved[0].Size,
		Storage:     s.Storage.Name(),
		WorkName:    req.WorkName,
		CabinetNo:   req.CabinetNo,
		UploadedBy:  req.UploadedBy,
		Attachments: saved[1:],
		CreatedAt:   time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		s.cleanup(saved)
		s.Logger.Error("Failed to record document", zap.String("documentId", id), zap.Error(err))
		return "", err
	}

	s.Logger.Info("Document uploaded",
		zap.String("documentId", id),
		zap.String("username", req.UploadedBy),
		zap.Int("files", len(saved)),
		zap.Int64("bytes", progress.sent),
	)
	return id, nil
}

func (s *DocumentServiceImpl) cleanup(saved []Attachment) {
	for _, a := range saved {
		if err := s.Storage.Delete(context.Background(), a.Key); err != nil {
			s.Logger.Warn("Failed to remove orphaned upload", zap.String("key", a.Key), zap.Error(err))
		}
	}
}

func (s *DocumentServiceImpl) Get(ctx context.Context, id string) (*Document, error) {
	doc, err := s.Repo.FindByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return nil, apperr.NotFound("document", id)
	}
	return doc, err
}

func (s *DocumentServiceImpl) Open(ctx context.Context, id string) (*Document, io.ReadCloser, error) {
	doc, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	rc, _, err := s.Storage.Open(ctx, doc.Key)
	if err != nil {
		return nil, nil, err
	}
	return doc, rc, nil
}

func (s *DocumentServiceImpl) Missing(ctx context.Context, refs []DocumentRef) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, r := range refs {
		ids = append(ids, r.DocumentID)
	}
	found, err := s.Repo.Exists(ctx, ids)
	if err != nil {
		return nil, err
	}
	var missing []string
	for _, id := range ids {
		if !found[id] {
			missing = append(missing, id)
		}
	}
	return missing, nil
}

type progressTracker struct {
	sent  int64
	total int64
	fn    ProgressFunc
}

func (p *progressTracker) wrap(r io.Reader) io.Reader {
	if r == nil {
		r = strings.NewReader("")
	}
	return &progressReader{r: r, tracker: p}
}

type progressReader struct {
	r       io.Reader
	tracker *progressTracker
}

func (pr *progressReader) Read(b []byte) (int, error) {
	n, err := pr.r.Read(b)
	if n > 0 {
		pr.tracker.sent += int64(n)
		if pr.tracker.fn != nil {
			pr.tracker.fn(pr.tracker.sent, pr.tracker.total)
		}
	}
	return n, err
}
