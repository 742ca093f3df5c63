package web

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
)

//go:embed templates
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// Тексты, которые видит пользователь.
const (
	MsgLocationRequired = "Please enable location services to get directions"
	MsgDirectionsFailed = "Could not get directions. Please try again."
	MsgMapLoadError     = "Error loading map. Please try again later."
	MsgMapInitError     = "Error initializing map. Please check your browser compatibility."
	MsgNoEvents         = "No events found matching your criteria."

	MsgLocationUnavailable = "Could not get your location. Enable location services to get directions."
)

var ErrUnknownPage = errors.New("unknown page")

// Renderer рисует страницы: layout.html + один файл из templates/pages.
type Renderer struct {
	log   *slog.Logger
	pages map[string]*template.Template
}

func NewRenderer(log *slog.Logger) (*Renderer, error) {
	op := "web.NewRenderer()"

	files, err := fs.Glob(templatesFS, "templates/pages/*.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	r := &Renderer{
		log:   log,
		pages: make(map[string]*template.Template, len(files)),
	}

	for _, file := range files {
		name := strings.TrimSuffix(path.Base(file), ".html")

		t, err := template.New(name).Funcs(funcs).ParseFS(templatesFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("%s: parse %s: %w", op, name, err)
		}
		r.pages[name] = t
	}

	log.Debug("templates parsed", slog.String("op", op), slog.Int("pages", len(r.pages)))

	return r, nil
}

// Render исполняет шаблон в буфер и только потом пишет ответ,
// чтобы ошибка шаблона не оставила наполовину отданную страницу.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) error {
	op := "web.Renderer.Render()"

	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("%s: %w: %s", op, ErrUnknownPage, name)
	}

	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", page); err != nil {
		return fmt.Errorf("%s: %s: %w", op, name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static раздаёт встроенные css и js.
func Static() http.Handler {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FileServer(http.FS(sub))
}

var funcs = template.FuncMap{
	"eventURL": func(id int) string {
		return fmt.Sprintf("/events/%d", id)
	},
}
