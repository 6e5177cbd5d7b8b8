package document

import (
	"fmt"
	"io"
	"mime/multipart"

	"go-docflow/internal/common/apperr"
	"go-docflow/internal/middleware"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type DocumentController struct {
	Service DocumentService
	Logger  *zap.Logger
}

func NewDocumentController(service DocumentService, logger *zap.Logger) *DocumentController {
	return &DocumentController{Service: service, Logger: logger}
}

// Upload godoc
// @Summary      Upload a document
// @Description  Multipart upload. The first file is the document, extra files become attachments.
// @Tags         documents
// @Accept       multipart/form-data
// @Produce      json
// @Param        files      formData  file    true   "Files"
// @Param        path       formData  string  true   "Folder, e.g. Finance/cabinet-12"
// @Param        filename   formData  string  false  "Stored name of the first file"
// @Param        workName   formData  string  false  "Work name"
// @Param        cabinetNo  formData  string  false  "Cabinet number"
// @Success      201  {object}  DocumentRef
// @Failure      400  {object}  map[string]string
// @Router       /api/v1/documents [post]
func (h *DocumentController) Upload(c *fiber.Ctx) error {
	s, err := middleware.RequireSession(c)
	if err != nil {
		return err
	}

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "Invalid multipart form"})
	}
	headers := append(form.File["files"], form.File["file"]...)
	if len(headers) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": "No file provided"})
	}

	files := make([]UploadFile, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			closeAll(files)
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": fmt.Sprintf("Cannot read %s", fh.Filename)})
		}
		files = append(files, UploadFile{
			Filename:    fh.Filename,
			ContentType: contentType(fh),
			Size:        fh.Size,
			Body:        f,
		})
	}
	defer closeAll(files)

	workName := c.FormValue("workName")
	cabinetNo := c.FormValue("cabinetNo")
	id, err := h.Service.Upload(c.UserContext(), UploadRequest{
		Files:      files,
		Path:       c.FormValue("path"),
		Progress:   h.progressLogger(s.Username),
		Filename:   c.FormValue("filename"),
		WorkName:   workName,
		CabinetNo:  cabinetNo,
		UploadedBy: s.Username,
	})
	if err != nil {
		return apperr.Respond(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(DocumentRef{DocumentID: id, WorkName: workName, CabinetNo: cabinetNo})
}

// Download godoc
// @Summary      Download a document
// @Tags         documents
// @Param        id  path  string  true  "Document ID"
// @Success      200
// @Failure      404  {object}  map[string]string
// @Router       /api/v1/documents/{id}/download [get]
func (h *DocumentController) Download(c *fiber.Ctx) error {
	doc, rc, err := h.Service.Open(c.UserContext(), c.Params("id"))
	if err != nil {
		return apperr.Respond(c, err)
	}
	defer rc.Close()

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", doc.Filename))
	body, err := io.ReadAll(rc)
	if err != nil {
		return apperr.Respond(c, err)
	}
	return c.Send(body)
}

// progressLogger reports each quarter of an upload at debug level
func (h *DocumentController) progressLogger(username string) ProgressFunc {
	last := int64(-1)
	return func(sent, total int64) {
		if total <= 0 {
			return
		}
		quarter := sent * 4 / total
		if quarter == last {
			return
		}
		last = quarter
		h.Logger.Debug("Upload progress",
			zap.String("username", username),
			zap.Int64("sent", sent),
			zap.Int64("total", total),
		)
	}
}

func contentType(fh *multipart.FileHeader) string {
	return fh.Header.Get("Content-Type")
}

func closeAll(files []UploadFile) {
	for _, f := range files {
		if closer, ok := f.Body.(io.Closer); ok {
			closer.Close()
		}
	}
}
