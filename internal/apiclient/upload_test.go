package apiclient_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/linemk/impnet/internal/apiclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type progressLog struct {
	mu     sync.Mutex
	values []int
}

func (p *progressLog) record(percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values = append(p.values, percent)
}

func (p *progressLog) snapshot() []int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]int(nil), p.values...)
}

func TestUploadFile_Progress(t *testing.T) {
	ctx := context.Background()
	c, ts := newBackend(t)
	tok, _ := registerUser(t, c, "uploader")

	content := bytes.Repeat([]byte("a"), 100*1024)
	progress := &progressLog{}
	file, err := c.UploadFile(ctx, tok, apiclient.Upload{
		Name:        "notes.txt",
		ContentType: "text/plain",
		Size:        int64(len(content)),
		Body:        bytes.NewReader(content),
	}, true, progress.record)
	require.NoError(t, err)

	assert.Equal(t, "notes.txt", file.OriginalName)
	assert.Equal(t, "text/plain", file.MimeType)
	assert.Equal(t, int64(len(content)), file.FileSize)
	assert.True(t, file.IsPublic)

	values := progress.snapshot()
	require.NotEmpty(t, values)
	assert.Equal(t, 0, values[0])
	assert.Equal(t, 100, values[len(values)-1])
	for i := 1; i < len(values); i++ {
		assert.GreaterOrEqual(t, values[i], values[i-1], "progress must not go backwards")
	}

	files, err := c.ListFiles(ctx, tok)
	require.NoError(t, err)
	require.Len(t, files, 1)

	// содержимое доступно по url из ответа
	resp, err := http.Get(c.ResolveURL(file.URL))
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, content, body)
	assert.True(t, strings.HasPrefix(c.ResolveURL(file.URL), ts.URL))
}

func TestUploadDocument_ListAndDelete(t *testing.T) {
	ctx := context.Background()
	c, _ := newBackend(t)
	tok, _ := registerUser(t, c, "docs")

	doc, err := c.UploadDocument(ctx, tok, apiclient.Upload{
		Name:        "report.pdf",
		ContentType: "application/pdf",
		Size:        2048,
		Body:        bytes.NewReader(make([]byte, 2048)),
	}, "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, apiclient.DocumentTypeDocument, doc.Type)
	assert.Equal(t, "document - report.pdf", doc.Description)
	assert.Equal(t, int64(2048), doc.FileSize)

	docs, err := c.ListDocuments(ctx, tok)
	require.NoError(t, err)
	assert.Len(t, docs, 1)

	require.NoError(t, c.DeleteDocument(ctx, tok, doc.ID))
	docs, err = c.ListDocuments(ctx, tok)
	require.NoError(t, err)
	assert.Empty(t, docs)

	assert.ErrorIs(t, c.DeleteDocument(ctx, tok, doc.ID), apiclient.ErrNotFound)
}

func TestUpload_Unauthorized(t *testing.T) {
	c, _ := newBackend(t)

	_, err := c.UploadFile(context.Background(), apiclient.Anonymous, apiclient.Upload{
		Name: "a.txt",
		Size: 3,
		Body: strings.NewReader("abc"),
	}, false, nil)
	assert.ErrorIs(t, err, apiclient.ErrUnauthorized)
}

func TestUpload_RequiresFile(t *testing.T) {
	c, _ := newBackend(t)
	_, err := c.UploadFile(context.Background(), apiclient.Token("t"), apiclient.Upload{}, false, nil)
	assert.ErrorIs(t, err, apiclient.ErrValidation)
}

func TestPassportPhoto_UploadThenSet(t *testing.T) {
	ctx := context.Background()
	c, _ := newBackend(t)
	tok, _ := registerUser(t, c, "photo")

	_, err := c.CreatePassport(ctx, tok, passportForm())
	require.NoError(t, err)

	photo, err := c.UploadDocument(ctx, tok, apiclient.Upload{
		Name: "me.png",
		Size: 4,
		Body: strings.NewReader("\x89PNG"),
	}, apiclient.DocumentTypePassportPhoto, "", nil)
	require.NoError(t, err)
	assert.Equal(t, "image/png", photo.MimeType)

	require.NoError(t, c.SetPassportPhoto(ctx, tok, photo.ID))
	passport, err := c.GetPassport(ctx, tok)
	require.NoError(t, err)
	assert.Equal(t, photo.URL, passport.PhotoURL)
}

func TestOpenUpload(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "Report.PDF")
	require.NoError(t, os.WriteFile(path, []byte("%PDF"), 0o600))

	up, closer, err := apiclient.OpenUpload(path)
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, "Report.PDF", up.Name)
	assert.Equal(t, "application/pdf", up.ContentType)
	assert.Equal(t, int64(4), up.Size)

	_, _, err = apiclient.OpenUpload(dir)
	assert.Error(t, err)
	_, _, err = apiclient.OpenUpload(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestDetectContentType(t *testing.T) {
	assert.Equal(t, "application/pdf", apiclient.DetectContentType("a.pdf"))
	assert.Equal(t, "image/png", apiclient.DetectContentType("A.PNG"))
	assert.Equal(t, "application/octet-stream", apiclient.DetectContentType("noext"))
}
