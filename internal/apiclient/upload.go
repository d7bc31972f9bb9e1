package apiclient

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"os"
	"path/filepath"
	"strings"
)

// ProgressFunc получает процент отправленных байт файла (0-100). Частота вызовов не гарантируется.
type ProgressFunc func(percent int)

// Upload - файл для multipart-загрузки. Body читается потоково, целиком в память не попадает.
type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// OpenUpload открывает локальный файл для загрузки. Закрыть файл должен вызывающий.
func OpenUpload(path string) (Upload, io.Closer, error) {
	f, err := os.Open(path)
	if err != nil {
		return Upload{}, nil, fmt.Errorf("failed to open file: %w", err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return Upload{}, nil, fmt.Errorf("failed to stat file: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return Upload{}, nil, fmt.Errorf("%s is a directory", path)
	}
	name := filepath.Base(path)
	return Upload{
		Name:        name,
		ContentType: DetectContentType(name),
		Size:        info.Size(),
		Body:        f,
	}, f, nil
}

// DetectContentType определяет MIME-тип по расширению имени файла
func DetectContentType(name string) string {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); ct != "" {
		return ct
	}
	return "application/octet-stream"
}

// progressReader считает прочитанные байты и сообщает процент
type progressReader struct {
	r        io.Reader
	total    int64
	read     int64
	last     int
	progress ProgressFunc
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.progress != nil && p.total > 0 {
		percent := int(p.read * 100 / p.total)
		if percent > 100 {
			percent = 100
		}
		if percent != p.last {
			p.last = percent
			p.progress(percent)
		}
	}
	return n, err
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// uploadMultipart отправляет файл в поле "file" вместе с текстовыми полями через io.Pipe
func (c *Client) uploadMultipart(ctx context.Context, path string, creds Credentials, up Upload, fields map[string]string, progress ProgressFunc, out interface{}) error {
	if up.Body == nil || up.Name == "" {
		return &ValidationError{Fields: []FieldError{{Field: "File", Message: "This field is required"}}}
	}
	if up.ContentType == "" {
		up.ContentType = DetectContentType(up.Name)
	}

	pr, pw := io.Pipe()
	mw := multipart.NewWriter(pw)

	if progress != nil {
		progress(0)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		err := writeMultipart(mw, up, fields, progress)
		if err == nil {
			err = mw.Close()
		}
		pw.CloseWithError(err)
	}()

	req, err := c.newRequest(ctx, http.MethodPost, path, creds, pr, mw.FormDataContentType())
	if err != nil {
		pr.CloseWithError(err)
		<-done
		return err
	}

	err = c.send(req, out)
	// если сервер ответил до конца тела, разблокируем пишущую горутину
	pr.CloseWithError(io.ErrClosedPipe)
	<-done
	if err != nil {
		return err
	}
	if progress != nil {
		progress(100)
	}
	return nil
}

func writeMultipart(mw *multipart.Writer, up Upload, fields map[string]string, progress ProgressFunc) error {
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return err
		}
	}

	h := make(textproto.MIMEHeader)
	h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename="%s"`, quoteEscaper.Replace(up.Name)))
	h.Set("Content-Type", up.ContentType)
	part, err := mw.CreatePart(h)
	if err != nil {
		return err
	}

	body := &progressReader{r: up.Body, total: up.Size, progress: progress}
	_, err = io.Copy(part, body)
	return err
}
