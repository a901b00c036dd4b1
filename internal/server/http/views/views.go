// Package views renders the gallery's server-side HTML pages from embedded templates.
package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/and161185/gallery/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const baseFile = "base.html"

// Page is the data context handed to every view. Handlers fill only what the
// view uses.
type Page struct {
	User  *model.Account
	Flash string
	Error string

	Artworks        []model.Artwork
	Artwork         *model.Artwork
	Reviews         []model.Review
	Liked           bool
	ArtistName      string
	FollowedArtists []string
	LikedArtworks   []model.Artwork
	Notifications   []model.Notification

	Query     string
	NoResults bool

	Status  int
	Message string
}

// Renderer holds one parsed template set per view.
type Renderer struct {
	pages map[string]*template.Template
}

// New parses every view once. poster maps a poster reference to an image URL;
// nil leaves references unchanged.
func New(poster func(string) string) (*Renderer, error) {
	if poster == nil {
		poster = func(s string) string { return s }
	}
	funcs := template.FuncMap{
		"poster":     poster,
		"artistPath": ArtistPath,
		"date":       func(t time.Time) string { return t.Format("2006-01-02 15:04") },
	}

	base, err := template.New(baseFile).Funcs(funcs).ParseFS(templateFS, "templates/"+baseFile)
	if err != nil {
		return nil, fmt.Errorf("views: parse base: %w", err)
	}

	files, err := fs.Glob(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	r := &Renderer{pages: make(map[string]*template.Template, len(files))}
	for _, f := range files {
		name := strings.TrimSuffix(path.Base(f), ".html")
		if path.Base(f) == baseFile {
			continue
		}
		t, err := template.Must(base.Clone()).ParseFS(templateFS, f)
		if err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

// Has reports whether a view exists.
func (r *Renderer) Has(name string) bool {
	_, ok := r.pages[name]
	return ok
}

// Render executes view name into w with status. The page is rendered into a
// buffer first so a template error never leaves a half-written response.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, p *Page) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("views: unknown view %q", name)
	}
	if p == nil {
		p = &Page{}
	}
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "base", p); err != nil {
		return fmt.Errorf("views: render %s: %w", name, err)
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// ArtistPath is the /artist/{name} path segment for an artist: spaces become
// '-' and literal hyphens are percent-encoded so the mapping reverses exactly.
func ArtistPath(artist string) string {
	esc := strings.ReplaceAll(url.PathEscape(artist), "-", "%2D")
	return strings.ReplaceAll(esc, "%20", "-")
}

// ArtistFromPath reverses ArtistPath. Every bare '-' is a space; a segment that
// is not valid percent-encoding is taken literally.
func ArtistFromPath(segment string) string {
	spaced := strings.ReplaceAll(segment, "-", " ")
	if name, err := url.PathUnescape(spaced); err == nil {
		return name
	}
	return spaced
}
