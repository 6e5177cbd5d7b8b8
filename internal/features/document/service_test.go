package document

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/middleware"
	"go-docflow/internal/session"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type MockDocumentRepository struct {
	mock.Mock
}

func (m *MockDocumentRepository) Create(ctx context.Context, doc *Document) error {
	return m.Called(ctx, doc).Error(0)
}

func (m *MockDocumentRepository) FindByID(ctx context.Context, id string) (*Document, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Document), args.Error(1)
}

func (m *MockDocumentRepository) Exists(ctx context.Context, ids []string) (map[string]bool, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]bool), args.Error(1)
}

type memoryDriver struct {
	mu      sync.Mutex
	objects map[string][]byte
	failOn  string
}

func newMemoryDriver() *memoryDriver {
	return &memoryDriver{objects: map[string][]byte{}}
}

func (d *memoryDriver) Name() string { return "memory" }

func (d *memoryDriver) Save(ctx context.Context, key string, body io.Reader, contentType string) error {
	if d.failOn != "" && strings.HasSuffix(key, d.failOn) {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	d.objects[key] = data
	return nil
}

func (d *memoryDriver) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	data, ok := d.objects[key]
	if !ok {
		return nil, "", errors.New("no such object")
	}
	return io.NopCloser(bytes.NewReader(data)), "application/octet-stream", nil
}

func (d *memoryDriver) Delete(ctx context.Context, key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	delete(d.objects, key)
	return nil
}

func file(name, body string) UploadFile {
	return UploadFile{Filename: name, ContentType: "text/plain", Size: int64(len(body)), Body: strings.NewReader(body)}
}

func TestUpload(t *testing.T) {
	repo := new(MockDocumentRepository)
	driver := newMemoryDriver()
	var stored *Document
	repo.On("Create", mock.Anything, mock.AnythingOfType("*document.Document")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(*Document) }).
		Return(nil)

	svc := NewDocumentService(repo, driver, zap.NewNop())

	var lastSent, lastTotal int64
	id, err := svc.Upload(context.Background(), UploadRequest{
		Files:      []UploadFile{file("scan.txt", "hello"), file("annex.txt", "world!")},
		Path:       "/Finance/cabinet-12/",
		Progress:   func(sent, total int64) { lastSent, lastTotal = sent, total },
		Filename:   "invoice.txt",
		WorkName:   "invoice",
		CabinetNo:  "12",
		UploadedBy: "alice",
	})
	require.NoError(t, err)
	require.NotNil(t, stored)

	assert.Equal(t, id, stored.ID)
	assert.Equal(t, "invoice.txt", stored.Filename)
	assert.Equal(t, "Finance/cabinet-12", stored.Path)
	assert.Equal(t, "Finance/cabinet-12/"+id+"/invoice.txt", stored.Key)
	assert.Equal(t, "memory", stored.Storage)
	require.Len(t, stored.Attachments, 1)
	assert.Equal(t, "annex.txt", stored.Attachments[0].Filename)
	assert.Equal(t, DocumentRef{DocumentID: id, WorkName: "invoice", CabinetNo: "12"}, stored.Ref())

	assert.Equal(t, int64(11), lastSent)
	assert.Equal(t, int64(11), lastTotal)
	assert.Equal(t, []byte("hello"), driver.objects[stored.Key])
}

func TestUploadValidation(t *testing.T) {
	svc := NewDocumentService(new(MockDocumentRepository), newMemoryDriver(), zap.NewNop())

	tests := []struct {
		name string
		req  UploadRequest
	}{
		{"no files", UploadRequest{Path: "Finance"}},
		{"no path", UploadRequest{Files: []UploadFile{file("a.txt", "a")}}},
		{"escaping path", UploadRequest{Files: []UploadFile{file("a.txt", "a")}, Path: "../secrets"}},
		{"no filename", UploadRequest{Files: []UploadFile{file("", "a")}, Path: "Finance"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Upload(context.Background(), tt.req)
			var verr *apperr.ValidationError
			assert.ErrorAs(t, err, &verr)
		})
	}
}

func TestUploadCleansUpOnFailure(t *testing.T) {
	t.Run("storage failure on a later file", func(t *testing.T) {
		driver := newMemoryDriver()
		driver.failOn = "b.txt"
		repo := new(MockDocumentRepository)
		svc := NewDocumentService(repo, driver, zap.NewNop())

		_, err := svc.Upload(context.Background(), UploadRequest{
			Files: []UploadFile{file("a.txt", "a"), file("b.txt", "b")},
			Path:  "Finance",
		})
		assert.EqualError(t, err, "disk full")
		assert.Empty(t, driver.objects)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("metadata failure", func(t *testing.T) {
		driver := newMemoryDriver()
		repo := new(MockDocumentRepository)
		repo.On("Create", mock.Anything, mock.Anything).Return(errors.New("mongo down"))
		svc := NewDocumentService(repo, driver, zap.NewNop())

		_, err := svc.Upload(context.Background(), UploadRequest{Files: []UploadFile{file("a.txt", "a")}, Path: "Finance"})
		assert.EqualError(t, err, "mongo down")
		assert.Empty(t, driver.objects)
	})
}

func TestMissing(t *testing.T) {
	repo := new(MockDocumentRepository)
	repo.On("Exists", mock.Anything, []string{"d-1", "d-2"}).Return(map[string]bool{"d-1": true}, nil)
	svc := NewDocumentService(repo, newMemoryDriver(), zap.NewNop())

	missing, err := svc.Missing(context.Background(), []DocumentRef{{DocumentID: "d-1"}, {DocumentID: "d-2"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"d-2"}, missing)
}

func TestUploadEndpoint(t *testing.T) {
	repo := new(MockDocumentRepository)
	repo.On("Create", mock.Anything, mock.Anything).Return(nil)
	controller := NewDocumentController(NewDocumentService(repo, newMemoryDriver(), zap.NewNop()), zap.NewNop())

	app := fiber.New()
	app.Post("/api/v1/documents", func(c *fiber.Ctx) error {
		session.Store(c, middleware.DevSession)
		return c.Next()
	}, controller.Upload)

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("files", "scan.pdf")
	require.NoError(t, err)
	_, _ = part.Write([]byte("%PDF"))
	_ = w.WriteField("path", "Finance/cabinet-1")
	_ = w.WriteField("workName", "invoice")
	_ = w.WriteField("cabinetNo", "1")
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/api/v1/documents", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, resp.StatusCode)
	repo.AssertCalled(t, "Create", mock.Anything, mock.Anything)
}
