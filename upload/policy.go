// Package upload decides which uploaded files are accepted and stores them
// under generated names.
package upload

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/xid"
)

var (
	ErrExtensionNotAllowed   = errors.New("file extension not allowed")
	ErrContentTypeNotAllowed = errors.New("file content type not allowed")
	ErrTooLarge              = errors.New("file too large")
)

// sniffLen is the number of bytes http.DetectContentType looks at
const sniffLen = 512

// Policy is an allow-list of file extensions and sniffed content types
type Policy struct {
	Extensions   []string
	ContentTypes []string
	MaxBytes     int64
}

// ImagePolicy accepts common web image formats up to 10 MB
func ImagePolicy() Policy {
	return Policy{
		Extensions:   []string{".png", ".jpg", ".jpeg", ".gif"},
		ContentTypes: []string{"image/png", "image/jpeg", "image/gif"},
		MaxBytes:     10 << 20,
	}
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// CheckName validates the extension of an uploaded file name
func (p Policy) CheckName(filename string) error {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == "" || !contains(p.Extensions, ext) {
		return fmt.Errorf("%w: %q", ErrExtensionNotAllowed, filepath.Ext(filename))
	}
	return nil
}

// Check validates the file name and the sniffed type of its first bytes
func (p Policy) Check(filename string, head []byte) error {
	if err := p.CheckName(filename); err != nil {
		return err
	}
	contentType := http.DetectContentType(head)
	if !contains(p.ContentTypes, contentType) {
		return fmt.Errorf("%w: %s", ErrContentTypeNotAllowed, contentType)
	}
	return nil
}

// StoredName generates a collision-free name keeping the original extension
func (p Policy) StoredName(filename string) string {
	return xid.New().String() + strings.ToLower(filepath.Ext(filename))
}

// Save checks fh against the policy and writes it under dir. It returns the
// generated file name. Nothing is written when the check fails.
func (p Policy) Save(dir string, fh *multipart.FileHeader) (string, error) {
	if err := p.CheckName(fh.Filename); err != nil {
		return "", err
	}
	if p.MaxBytes > 0 && fh.Size > p.MaxBytes {
		return "", ErrTooLarge
	}

	src, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("cannot open upload: %w", err)
	}
	defer src.Close()

	head := make([]byte, sniffLen)
	n, err := io.ReadFull(src, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("cannot read upload: %w", err)
	}
	head = head[:n]
	if err := p.Check(fh.Filename, head); err != nil {
		return "", err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("cannot create upload directory: %w", err)
	}

	name := p.StoredName(fh.Filename)
	dst, err := os.OpenFile(filepath.Join(dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("cannot create %s: %w", name, err)
	}

	if _, err := io.Copy(dst, io.MultiReader(bytes.NewReader(head), src)); err != nil {
		dst.Close()
		os.Remove(dst.Name())
		return "", fmt.Errorf("cannot write %s: %w", name, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(dst.Name())
		return "", fmt.Errorf("cannot write %s: %w", name, err)
	}
	return name, nil
}
