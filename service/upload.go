package service

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/malazinvestment/backend/model"
)

var (
	// ErrUnsupportedType is returned for uploads outside the MIME allow-list
	ErrUnsupportedType = errors.New("unsupported file type")
	// ErrUnknownToken is returned when an upload token names no stored file
	ErrUnknownToken = errors.New("unknown upload token")
)

// StoredFile is the result of persisting one upload
type StoredFile struct {
	Name         string // stored name, {uuid}_{original}
	OriginalName string
	URL          string
	ContentType  string
}

// Attachment returns the embedded-attachment form of the stored file
func (f *StoredFile) Attachment() model.FileAttachment {
	return model.FileAttachment{
		Filename: f.OriginalName,
		FileURL:  f.URL,
		FileType: f.ContentType,
	}
}

// UploadService validates uploads, stores them under random names and
// derives their public URLs.
type UploadService struct {
	store   FileStore
	baseURL string
	allowed map[string]bool
}

func NewUploadService(store FileStore, baseURL string, allowedTypes []string) *UploadService {
	allowed := make(map[string]bool, len(allowedTypes))
	for _, t := range allowedTypes {
		allowed[strings.ToLower(strings.TrimSpace(t))] = true
	}
	return &UploadService{
		store:   store,
		baseURL: strings.TrimRight(baseURL, "/"),
		allowed: allowed,
	}
}

// Allowed reports whether a declared content type is accepted
func (s *UploadService) Allowed(contentType string) bool {
	mediaType := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	return s.allowed[mediaType]
}

// Save checks the declared content type of the multipart file and stores it.
func (s *UploadService) Save(ctx context.Context, header *multipart.FileHeader) (*StoredFile, error) {
	contentType := header.Header.Get("Content-Type")
	if !s.Allowed(contentType) {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, contentType)
	}

	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	defer file.Close()

	original := baseName(header.Filename)
	name := uuid.New().String() + "_" + original

	if err := s.store.Save(ctx, name, file, header.Size, contentType); err != nil {
		return nil, err
	}

	return &StoredFile{
		Name:         name,
		OriginalName: original,
		URL:          s.URL(name),
		ContentType:  contentType,
	}, nil
}

// URL returns the public link for a stored name: absolute when a base URL
// is configured, root-relative otherwise.
func (s *UploadService) URL(name string) string {
	return s.baseURL + "/files/" + name
}

// LinkAttachments rewrites the fileName of every item whose recorded name
// equals file's original name to the stored file's URL and records the
// file's metadata on the item. It returns the number of items rewritten.
func LinkAttachments(company *model.Company, file *StoredFile) int {
	linked := 0
	company.EachItem(func(item *model.KeyValuePair) {
		if item.FileName != "" && item.FileName == file.OriginalName {
			attachment := file.Attachment()
			item.FileName = file.URL
			item.File = &attachment
			linked++
		}
	})
	return linked
}

// ResolveUploadTokens replaces each item's upload token with the URL of the
// file stored under that token.
func (s *UploadService) ResolveUploadTokens(ctx context.Context, company *model.Company) error {
	var firstErr error
	company.EachItem(func(item *model.KeyValuePair) {
		if firstErr != nil || item.UploadToken == "" {
			return
		}
		ok, err := s.store.Exists(ctx, item.UploadToken)
		if err != nil {
			firstErr = err
			return
		}
		if !ok {
			firstErr = fmt.Errorf("%w: %s", ErrUnknownToken, item.UploadToken)
			return
		}
		item.FileName = s.URL(item.UploadToken)
		item.UploadToken = ""
	})
	return firstErr
}

// baseName strips any client-supplied directory from an upload filename.
func baseName(name string) string {
	name = path.Base(filepath.ToSlash(name))
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "." || name == "/" || name == ".." || name == "" {
		return "file"
	}
	return name
}
