package utils

import (
	"bytes"
	"mime/multipart"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// createTestFileHeader creates a mock multipart.FileHeader for testing
func createTestFileHeader(filename string, size int64, content []byte) *multipart.FileHeader {
	// Create a buffer to write our multipart form
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	// Create form file
	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", `form-data; name="file"; filename="`+filename+`"`)
	h.Set("Content-Type", "image/png")
	part, _ := writer.CreatePart(h)
	part.Write(content)
	writer.Close()

	// Parse the multipart form
	reader := multipart.NewReader(body, writer.Boundary())
	form, _ := reader.ReadForm(int64(len(content)) + 1024)
	defer form.RemoveAll()

	if len(form.File["file"]) > 0 {
		fileHeader := form.File["file"][0]
		// Override size for testing purposes
		fileHeader.Size = size
		return fileHeader
	}

	return nil
}

func TestValidateImageFile(t *testing.T) {
	content := []byte("fake image content")

	tests := []struct {
		name     string
		filename string
		size     int64
		wantCode string
	}{
		{"png under limit", "test.png", int64(len(content)), ""},
		{"jpg allowed", "test.jpg", int64(len(content)), ""},
		{"jpeg allowed", "test.jpeg", int64(len(content)), ""},
		{"webp allowed", "test.webp", int64(len(content)), ""},
		{"uppercase extension", "test.PNG", int64(len(content)), ""},
		{"too large", "large.png", 11 * 1024 * 1024, "FILE_TOO_LARGE"},
		{"gif rejected", "test.gif", int64(len(content)), "INVALID_FILE_FORMAT"},
		{"no extension", "testfile", int64(len(content)), "INVALID_FILE_FORMAT"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fileHeader := createTestFileHeader(tt.filename, tt.size, content)
			require.NotNil(t, fileHeader)

			err := ValidateImageFile(fileHeader)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}

			fileErr, ok := err.(*FileUploadError)
			require.True(t, ok, "Error should be of type FileUploadError")
			assert.Equal(t, tt.wantCode, fileErr.Code)
		})
	}
}

func TestValidateImageFile_Missing(t *testing.T) {
	err := ValidateImageFile(nil)

	fileErr, ok := err.(*FileUploadError)
	require.True(t, ok)
	assert.Equal(t, "MISSING_IMAGE", fileErr.Code)
}

func TestSaveUploadedFile(t *testing.T) {
	content := []byte("fake png content")
	fileHeader := createTestFileHeader("my car.png", int64(len(content)), content)
	require.NotNil(t, fileHeader)

	dir := filepath.Join(t.TempDir(), "nested", "uploads")
	filename, err := SaveUploadedFile(fileHeader, dir)
	require.NoError(t, err)

	assert.True(t, strings.HasSuffix(filename, "_my_car.png"))
	saved, err := os.ReadFile(filepath.Join(dir, filename))
	require.NoError(t, err)
	assert.Equal(t, content, saved)
}

func TestUniqueFilename(t *testing.T) {
	a := UniqueFilename("photo.png")
	b := UniqueFilename("photo.png")
	assert.NotEqual(t, a, b)
	assert.True(t, strings.HasSuffix(a, "_photo.png"))
	assert.True(t, IsSafeFilename(UniqueFilename("../../etc/passwd.png")))
}

func TestRemoveFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "image.png")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0644))

	assert.NoError(t, RemoveFile(path))
	assert.NoFileExists(t, path)
	assert.NoError(t, RemoveFile(path), "removing a missing file is not an error")
}

func TestIsSafeFilename(t *testing.T) {
	assert.True(t, IsSafeFilename("abc_image.png"))
	assert.False(t, IsSafeFilename(""))
	assert.False(t, IsSafeFilename("../secret.png"))
	assert.False(t, IsSafeFilename("dir/image.png"))
	assert.False(t, IsSafeFilename("dir\\image.png"))
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "image/png", ContentTypeFor("a.PNG"))
	assert.Equal(t, "image/jpeg", ContentTypeFor("a.jpeg"))
	assert.Equal(t, "", ContentTypeFor("a.gif"))
}

func TestFileUploadError_Error(t *testing.T) {
	err := &FileUploadError{
		Code:    "TEST_CODE",
		Message: "Test error message",
	}

	assert.Equal(t, "Test error message", err.Error())
}
