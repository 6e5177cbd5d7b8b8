package document

import (
	"io"
	"time"
)

const CollectionName = "documents"

// DocumentRef is what a process initiation request carries for each upload
type DocumentRef struct {
	DocumentID string `bson:"document_id" json:"documentId"`
	WorkName   string `bson:"work_name" json:"workName"`
	CabinetNo  string `bson:"cabinet_no" json:"cabinetNo"`
}

type Attachment struct {
	Key         string `bson:"key" json:"key"`
	Filename    string `bson:"filename" json:"filename"`
	ContentType string `bson:"content_type" json:"contentType"`
	Size        int64  `bson:"size" json:"size"`
}

// Document is the stored metadata of an uploaded file and its attachments
type Document struct {
	ID          string       `bson:"_id" json:"id"`
	Filename    string       `bson:"filename" json:"filename"`
	Path        string       `bson:"path" json:"path"`
	Key         string       `bson:"key" json:"key"`
	ContentType string       `bson:"content_type" json:"contentType"`
	Size        int64        `bson:"size" json:"size"`
	Storage     string       `bson:"storage" json:"storage"`
	WorkName    string       `bson:"work_name,omitempty" json:"workName,omitempty"`
	CabinetNo   string       `bson:"cabinet_no,omitempty" json:"cabinetNo,omitempty"`
	UploadedBy  string       `bson:"uploaded_by" json:"uploadedBy"`
	Attachments []Attachment `bson:"attachments,omitempty" json:"attachments,omitempty"`
	CreatedAt   time.Time    `bson:"created_at" json:"createdAt"`
}

func (d Document) Ref() DocumentRef {
	return DocumentRef{DocumentID: d.ID, WorkName: d.WorkName, CabinetNo: d.CabinetNo}
}

// UploadFile is one file handed to the gateway
type UploadFile struct {
	Filename    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ProgressFunc receives the bytes written so far and the total across all files
type ProgressFunc func(sent, total int64)

type UploadRequest struct {
	Files []UploadFile
	// Path is the logical folder, e.g. "Finance/cabinet-12"
	Path     string
	Progress ProgressFunc
	// Filename overrides the stored name of the first file
	Filename   string
	WorkName   string
	CabinetNo  string
	UploadedBy string
}
