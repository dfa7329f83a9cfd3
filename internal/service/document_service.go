package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bimaplus/bima-api/internal/models"
	appErrors "github.com/bimaplus/bima-api/pkg/errors"
	"github.com/bimaplus/bima-api/pkg/sanitize"
	"github.com/bimaplus/bima-api/pkg/storage"
)

type documentRepository interface {
	List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, int, error)
	FindByID(ctx context.Context, id string) (*models.Document, error)
	Create(ctx context.Context, document *models.Document) error
	Update(ctx context.Context, document *models.Document) error
	Delete(ctx context.Context, id string) error
}

// UploadDocumentRequest is the metadata part of a multipart document upload.
type UploadDocumentRequest struct {
	Title     string `form:"title" validate:"required,min=2"`
	Category  string `form:"category"`
	Published bool   `form:"published"`
}

// UpdateDocumentRequest is the staff-side metadata update.
type UpdateDocumentRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=2"`
	Category  *string `json:"category"`
	Published *bool   `json:"published"`
}

// DocumentConfig bounds uploads. AllowedMIMEs is the public allowlist.
type DocumentConfig struct {
	MaxFileSizeBytes int64
	AllowedMIMEs     []string
	DownloadBasePath string
}

// DocumentService manages downloadable files: bounded uploads to local
// storage, HMAC-signed download links, and a published-only public view.
type DocumentService struct {
	repo      documentRepository
	store     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	config    DocumentConfig
	validator *validator.Validate
	logger    *zap.Logger
}

// NewDocumentService creates an instance of DocumentService.
func NewDocumentService(repo documentRepository, store *storage.LocalStorage, signer *storage.SignedURLSigner, cfg DocumentConfig, validate *validator.Validate, logger *zap.Logger) *DocumentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.MaxFileSizeBytes <= 0 {
		cfg.MaxFileSizeBytes = 10 << 20
	}
	if cfg.DownloadBasePath == "" {
		cfg.DownloadBasePath = "/api/v1/documents/download"
	}
	return &DocumentService{repo: repo, store: store, signer: signer, config: cfg, validator: validate, logger: logger}
}

func (s *DocumentService) mimeAllowed(mime string) bool {
	for _, allowed := range s.config.AllowedMIMEs {
		if mime == allowed {
			return true
		}
	}
	return false
}

// Upload stores the file and creates the document record. Files over the
// configured cap or outside the MIME allowlist are rejected before anything
// touches disk.
func (s *DocumentService) Upload(ctx context.Context, req UploadDocumentRequest, header *multipart.FileHeader, uploadedBy *string) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document payload")
	}
	if header == nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file is required")
	}
	if header.Size > s.config.MaxFileSizeBytes {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("file exceeds the %d byte limit", s.config.MaxFileSizeBytes))
	}

	mimeType := header.Header.Get("Content-Type")
	if !s.mimeAllowed(mimeType) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "file type is not allowed")
	}

	src, err := header.Open()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "failed to read uploaded file")
	}
	defer src.Close() //nolint:errcheck

	fileID := uuid.NewString() + filepath.Ext(header.Filename)
	// LimitReader guards against a lying Content-Length.
	if _, err := s.store.SaveStream(fileID, io.LimitReader(src, s.config.MaxFileSizeBytes)); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store file")
	}

	document := &models.Document{
		Title:      sanitize.Clean(req.Title),
		Category:   sanitize.Clean(req.Category),
		FileID:     fileID,
		MimeType:   mimeType,
		SizeBytes:  header.Size,
		Published:  req.Published,
		UploadedBy: uploadedBy,
	}

	if err := s.repo.Create(ctx, document); err != nil {
		if delErr := s.store.Delete(fileID); delErr != nil {
			s.logger.Warn("failed to remove orphaned upload", zap.String("file_id", fileID), zap.Error(delErr))
		}
		return nil, storageError(err, "failed to create document")
	}

	s.decorate(document)
	return document, nil
}

// ListPublished returns only published documents for the public site.
func (s *DocumentService) ListPublished(ctx context.Context, filter models.DocumentFilter) ([]models.Document, *models.Pagination, error) {
	published := true
	filter.Published = &published
	return s.List(ctx, filter)
}

// List returns documents matching the filter with pagination metadata.
func (s *DocumentService) List(ctx context.Context, filter models.DocumentFilter) ([]models.Document, *models.Pagination, error) {
	documents, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, storageError(err, "failed to list documents")
	}

	for i := range documents {
		s.decorate(&documents[i])
	}

	limit := models.NormalizeLimit(filter.Limit, 50)
	return documents, models.NewPagination(filter.Page, limit, total), nil
}

// Get returns a document by ID.
func (s *DocumentService) Get(ctx context.Context, id string) (*models.Document, error) {
	document, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return nil, storageError(err, "failed to load document")
	}
	s.decorate(document)
	return document, nil
}

// Download resolves a signed token to the document and an open file handle.
// The caller owns closing the file.
func (s *DocumentService) Download(ctx context.Context, token string) (*models.Document, *os.File, error) {
	docID, fileID, _, err := s.signer.Parse(token)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Code, appErrors.ErrUnauthorized.Status, "invalid or expired download link")
	}

	document, err := s.Get(ctx, docID)
	if err != nil {
		return nil, nil, err
	}
	if document.FileID != fileID {
		return nil, nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download link")
	}

	file, err := s.store.Open(document.FileID)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrNotFound.Code, appErrors.ErrNotFound.Status, "stored file missing")
	}
	return document, file, nil
}

// Update applies the present metadata fields to a document.
func (s *DocumentService) Update(ctx context.Context, id string, req UpdateDocumentRequest) (*models.Document, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid document update payload")
	}

	document, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		document.Title = sanitize.Clean(*req.Title)
	}
	if req.Category != nil {
		document.Category = sanitize.Clean(*req.Category)
	}
	if req.Published != nil {
		document.Published = *req.Published
	}

	if err := s.repo.Update(ctx, document); err != nil {
		return nil, storageError(err, "failed to update document")
	}

	s.decorate(document)
	return document, nil
}

// Delete removes the record and the stored file.
func (s *DocumentService) Delete(ctx context.Context, id string) error {
	document, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "document not found")
		}
		return storageError(err, "failed to delete document")
	}

	if err := s.store.Delete(document.FileID); err != nil {
		s.logger.Warn("failed to remove stored file", zap.String("file_id", document.FileID), zap.Error(err))
	}
	return nil
}

// decorate fills FileURL with a fresh signed download link. Signing failures
// leave the URL empty rather than failing the read.
func (s *DocumentService) decorate(document *models.Document) {
	if s.signer == nil {
		return
	}
	token, _, err := s.signer.Generate(document.ID, document.FileID)
	if err != nil {
		s.logger.Warn("failed to sign download url", zap.String("document_id", document.ID), zap.Error(err))
		document.FileURL = ""
		return
	}
	document.FileURL = s.config.DownloadBasePath + "?token=" + token
}
