package service

import "io"

// Image is an uploaded picture whose MIME type has already been sniffed.
type Image struct {
	Data     []byte
	MimeType string
}

// OpenImage is a stored image being streamed back. Callers must close Body.
type OpenImage struct {
	Body     io.ReadCloser
	MimeType string
}
