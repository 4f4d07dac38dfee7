package local

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildUpload assembles a real multipart.FileHeader the way gin receives it.
func buildUpload(t *testing.T, filename, contentType string, payload []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="slip"; filename="` + filename + `"`}
	if contentType != "" {
		header["Content-Type"] = []string{contentType}
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(payload)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["slip"][0]
}

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "/uploads/slips", WithTempDir(t.TempDir()))
	require.NoError(t, err)
	return store
}

func TestSaveUpload_PersistsImage(t *testing.T) {
	store := newTestStore(t)
	fh := buildUpload(t, "transfer.jpg", "image/jpeg", []byte("jpeg-bytes"))

	ref, err := store.SaveUpload(fh)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ref, "/uploads/slips/"))
	assert.True(t, strings.HasSuffix(ref, ".jpg"))

	stored := filepath.Join(store.Dir(), filepath.Base(ref))
	data, err := os.ReadFile(stored)
	require.NoError(t, err)
	assert.Equal(t, "jpeg-bytes", string(data))

	// staging directory holds no leftovers
	leftovers, err := os.ReadDir(store.tmpDir)
	require.NoError(t, err)
	assert.Empty(t, leftovers)
}

func TestSaveUpload_RejectsBadTypes(t *testing.T) {
	store := newTestStore(t)

	_, err := store.SaveUpload(buildUpload(t, "notes.txt", "text/plain", []byte("x")))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	_, err = store.SaveUpload(buildUpload(t, "anim.gif", "image/gif", []byte("x")))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// declared MIME wins even with an allowed extension
	_, err = store.SaveUpload(buildUpload(t, "fake.png", "application/pdf", []byte("x")))
	assert.ErrorIs(t, err, ErrUnsupportedType)

	// absent MIME falls back to the extension allow-list
	_, err = store.SaveUpload(buildUpload(t, "plain.webp", "", []byte("x")))
	assert.NoError(t, err)
}

func TestSaveUpload_UniqueNames(t *testing.T) {
	frozen := time.Now()
	store, err := NewStore(t.TempDir(), "/uploads/slips", WithTempDir(t.TempDir()), WithClock(func() time.Time { return frozen }))
	require.NoError(t, err)

	seen := map[string]bool{}
	for i := 0; i < 20; i++ {
		ref, err := store.SaveUpload(buildUpload(t, "slip.png", "image/png", []byte("x")))
		require.NoError(t, err)
		require.False(t, seen[ref], "duplicate name %s", ref)
		seen[ref] = true
	}
}

func TestMoveFile_SourceRemoved(t *testing.T) {
	srcDir := t.TempDir()
	dstDir := t.TempDir()
	src := filepath.Join(srcDir, "a.png")
	require.NoError(t, os.WriteFile(src, []byte("payload"), 0o644))

	dst := filepath.Join(dstDir, "b.png")
	require.NoError(t, moveFile(src, dst))

	data, err := os.ReadFile(dst)
	require.NoError(t, err)
	assert.Equal(t, "payload", string(data))
	_, err = os.Stat(src)
	assert.True(t, os.IsNotExist(err))
}
