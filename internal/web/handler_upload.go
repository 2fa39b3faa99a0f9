package web

import (
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/homeinv/internal/domain"
	"github.com/vbonduro/homeinv/internal/logging"
	"github.com/vbonduro/homeinv/internal/service"
)

const maxImageSize = 20 * 1024 * 1024 // 20 MB

// allowedImageTypes is the set of MIME types accepted for uploaded images.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately because the WHATWG sniff spec (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

var errNoImage = errors.New("no image in form")

// formImage reads the "image" file of an already parsed multipart form. It
// returns errNoImage when the field is absent.
func (s *Server) formImage(r *http.Request) (*service.Image, error) {
	file, _, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, errNoImage
	}
	if err != nil {
		return nil, &domain.ValidationError{Field: "image", Reason: "unreadable upload"}
	}
	defer closeWithLog(file, "upload file", logging.FromContext(r.Context()))

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, err
	}
	mimeType, ok := allowedImageMIME(data)
	if !ok {
		return nil, &domain.ValidationError{Field: "image", Reason: "unsupported image format"}
	}
	return &service.Image{Data: data, MimeType: mimeType}, nil
}

func parseMultipart(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxImageSize+1<<20)
	if err := r.ParseMultipartForm(maxImageSize); err != nil {
		return &domain.ValidationError{Reason: "failed to parse multipart form"}
	}
	return nil
}

// requiredImage parses the form and demands an image.
func (s *Server) requiredImage(w http.ResponseWriter, r *http.Request) (*service.Image, error) {
	if err := parseMultipart(w, r); err != nil {
		return nil, err
	}
	img, err := s.formImage(r)
	if errors.Is(err, errNoImage) {
		return nil, &domain.ValidationError{Field: "image", Reason: "required"}
	}
	return img, err
}

func (s *Server) serveImage(w http.ResponseWriter, r *http.Request, img *service.OpenImage) {
	logger := logging.FromContext(r.Context())
	defer closeWithLog(img.Body, "image reader", logger)

	w.Header().Set("Content-Type", img.MimeType)
	w.Header().Set("Cache-Control", "private, max-age=300")
	if _, err := io.Copy(w, img.Body); err != nil {
		logger.Error("write image failed", "error", err)
	}
}
