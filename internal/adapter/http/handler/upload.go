package handler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
)

const (
	maxFormValueBytes = 1 << 20
	// formSlackBytes covers text fields and multipart framing on top of the
	// file payload.
	formSlackBytes = 10 << 20
)

var (
	allowedImageExts  = map[string]bool{".jpg": true, ".jpeg": true, ".png": true}
	allowedImageTypes = map[string]bool{"image/jpeg": true, "image/png": true}
)

// UploadLimits caps image uploads per request.
type UploadLimits struct {
	MaxFiles      int
	MaxFileSizeMB int64
}

func (l UploadLimits) maxFileBytes() int64 {
	return l.MaxFileSizeMB << 20
}

// UploadMetrics counts rejected uploads. *metrics.MetricsManager implements it.
type UploadMetrics interface {
	UploadRejected()
}

func countRejection(m UploadMetrics, err error) {
	var uerr *domain.UploadError
	if m != nil && errors.As(err, &uerr) {
		m.UploadRejected()
	}
}

// multipartForm is a fully read form: text values plus in-memory files.
type multipartForm struct {
	Values url.Values
	Files  map[string][]domain.Upload
}

// parseForm reads an urlencoded or multipart body. fileFields maps each
// accepted file field to its maximum count; file parts under other names
// are discarded. Limits are checked while streaming, so an oversized or
// surplus file is rejected before it is buffered.
func parseForm(w http.ResponseWriter, r *http.Request, limits UploadLimits, fileFields map[string]int) (*multipartForm, error) {
	form := &multipartForm{Values: url.Values{}, Files: map[string][]domain.Upload{}}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		if err := r.ParseForm(); err != nil {
			return nil, &domain.UploadError{Message: "Malformed form body."}
		}
		form.Values = r.PostForm
		return form, nil
	}

	maxFiles := 0
	for _, n := range fileFields {
		maxFiles += n
	}
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxFiles)*limits.maxFileBytes()+formSlackBytes)

	mr, err := r.MultipartReader()
	if err != nil {
		return nil, &domain.UploadError{Message: "Malformed multipart form."}
	}

	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, bodyError(err, limits)
		}

		name := part.FormName()
		if part.FileName() == "" {
			value, err := io.ReadAll(io.LimitReader(part, maxFormValueBytes))
			_ = part.Close()
			if err != nil {
				return nil, bodyError(err, limits)
			}
			form.Values.Add(name, string(value))
			continue
		}

		limit, accepted := fileFields[name]
		if !accepted {
			_, _ = io.Copy(io.Discard, part)
			_ = part.Close()
			continue
		}
		if len(form.Files[name]) >= limit {
			_ = part.Close()
			return nil, domain.NewTooManyFilesError(limit)
		}

		upload, err := readImagePart(part, limits)
		_ = part.Close()
		if err != nil {
			return nil, err
		}
		form.Files[name] = append(form.Files[name], upload)
	}
	return form, nil
}

func readImagePart(part *multipart.Part, limits UploadLimits) (domain.Upload, error) {
	filename := filepath.Base(part.FileName())
	if !allowedImageExts[strings.ToLower(filepath.Ext(filename))] {
		return domain.Upload{}, domain.NewUnsupportedFileError()
	}

	data, err := io.ReadAll(io.LimitReader(part, limits.maxFileBytes()+1))
	if err != nil {
		return domain.Upload{}, bodyError(err, limits)
	}
	if int64(len(data)) > limits.maxFileBytes() {
		return domain.Upload{}, domain.NewFileTooLargeError(limits.MaxFileSizeMB)
	}

	contentType := http.DetectContentType(data)
	if !allowedImageTypes[contentType] {
		return domain.Upload{}, domain.NewUnsupportedFileError()
	}

	return domain.Upload{
		Filename:    filename,
		ContentType: contentType,
		Size:        int64(len(data)),
		Content:     bytes.NewReader(data),
	}, nil
}

func bodyError(err error, limits UploadLimits) error {
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return domain.NewFileTooLargeError(limits.MaxFileSizeMB)
	}
	return &domain.UploadError{Message: fmt.Sprintf("Malformed multipart form: %v", err)}
}
