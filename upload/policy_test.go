package upload

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatalf("Failed to encode png: %v", err)
	}
	return buf.Bytes()
}

// fileHeader builds a multipart.FileHeader the way a real request would
func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("photo", filename)
	if err != nil {
		t.Fatalf("CreateFormFile failed: %v", err)
	}
	part.Write(content)
	w.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm failed: %v", err)
	}
	return req.MultipartForm.File["photo"][0]
}

func TestCheckName(t *testing.T) {
	p := ImagePolicy()

	testCases := []struct {
		filename string
		allowed  bool
	}{
		{"x.png", true},
		{"X.PNG", true},
		{"holiday.jpeg", true},
		{"a.b.gif", true},
		{"x.exe", false},
		{"x.png.exe", false},
		{"noext", false},
		{".png", true},
		{"shell.php", false},
	}

	for _, tc := range testCases {
		err := p.CheckName(tc.filename)
		if tc.allowed && err != nil {
			t.Errorf("Expected %q to be allowed, got %v", tc.filename, err)
		}
		if !tc.allowed && !errors.Is(err, ErrExtensionNotAllowed) {
			t.Errorf("Expected %q to be rejected, got %v", tc.filename, err)
		}
	}
}

func TestCheckContentType(t *testing.T) {
	p := ImagePolicy()

	if err := p.Check("x.png", pngBytes(t)); err != nil {
		t.Errorf("Expected real png to pass, got %v", err)
	}
	if err := p.Check("x.png", []byte("MZ\x90\x00 not an image")); !errors.Is(err, ErrContentTypeNotAllowed) {
		t.Errorf("Expected disguised binary to be rejected, got %v", err)
	}
}

func TestStoredNameUnique(t *testing.T) {
	p := ImagePolicy()
	seen := map[string]bool{}
	for i := 0; i < 1000; i++ {
		name := p.StoredName("x.PNG")
		if seen[name] {
			t.Fatalf("Duplicate stored name %s", name)
		}
		seen[name] = true
		if !strings.HasSuffix(name, ".png") || name == "x.png" {
			t.Fatalf("Unexpected stored name %s", name)
		}
	}
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	p := ImagePolicy()
	content := pngBytes(t)

	name, err := p.Save(dir, fileHeader(t, "x.png", content))
	if err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if name == "x.png" {
		t.Error("Expected a generated name")
	}

	written, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("Expected file on disk: %v", err)
	}
	if !bytes.Equal(written, content) {
		t.Error("Expected stored file to match upload")
	}
}

func TestSaveRejectsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	p := ImagePolicy()

	if _, err := p.Save(dir, fileHeader(t, "x.exe", []byte("MZ"))); !errors.Is(err, ErrExtensionNotAllowed) {
		t.Errorf("Expected ErrExtensionNotAllowed, got %v", err)
	}
	if _, err := p.Save(dir, fileHeader(t, "fake.png", []byte("plain text"))); !errors.Is(err, ErrContentTypeNotAllowed) {
		t.Errorf("Expected ErrContentTypeNotAllowed, got %v", err)
	}

	p.MaxBytes = 4
	if _, err := p.Save(dir, fileHeader(t, "big.png", pngBytes(t))); !errors.Is(err, ErrTooLarge) {
		t.Errorf("Expected ErrTooLarge, got %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 0 {
		t.Errorf("Expected no files written, got %d", len(entries))
	}
}
