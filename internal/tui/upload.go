package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/linemk/impnet/internal/apiclient"
)

// uploadBar - индикатор отправки; файлы пакета отправляются по очереди
type uploadBar struct {
	bar     progress.Model
	active  bool
	index   int
	total   int
	percent int
}

func newUploadBar() uploadBar {
	bar := progress.New(progress.WithDefaultGradient())
	bar.Width = 40
	return uploadBar{bar: bar}
}

func (u uploadBar) start(total int) uploadBar {
	u.active, u.index, u.total, u.percent = true, 0, total, 0
	return u
}

func (u uploadBar) apply(msg progressMsg) uploadBar {
	if !u.active {
		return u
	}
	u.index, u.percent = msg.index, msg.percent
	return u
}

func (u uploadBar) stop() uploadBar {
	u.active = false
	return u
}

func (u uploadBar) View(t *Theme) string {
	if !u.active {
		return ""
	}
	label := "Загрузка"
	if u.total > 1 {
		label += " " + strconv.Itoa(u.index+1) + "/" + strconv.Itoa(u.total)
	}
	return t.Muted.Render(label+" ") + u.bar.ViewAs(float64(u.percent)/100)
}

// splitPaths разбирает список путей через запятую
func splitPaths(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// openUploads открывает файлы; при ошибке уже открытые закрываются
func openUploads(paths []string) ([]apiclient.Upload, func(), error) {
	uploads := make([]apiclient.Upload, 0, len(paths))
	closers := make([]func() error, 0, len(paths))
	closeAll := func() {
		for _, c := range closers {
			_ = c()
		}
	}
	for _, p := range paths {
		up, c, err := apiclient.OpenUpload(p)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		uploads = append(uploads, up)
		closers = append(closers, c.Close)
	}
	return uploads, closeAll, nil
}
