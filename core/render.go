package core

import (
	"bytes"
	"embed"
	"html/template"
	"io/fs"
	"regexp"
	"sort"

	"github.com/pkg/errors"
	"github.com/tdewolff/minify/v2"
	mincss "github.com/tdewolff/minify/v2/css"
	minhtml "github.com/tdewolff/minify/v2/html"
	minjs "github.com/tdewolff/minify/v2/js"
)

//go:embed templates/*.html
var templateFS embed.FS

const layoutFile = "templates/layout.html"

// IndexPage is the context of the index template.
type IndexPage struct{}

// HelloPage is the context of the hello template.
type HelloPage struct {
	Name string
}

// pageContexts names every page template and the context type it is
// rendered with. Check renders each one with the zero value.
var pageContexts = map[string]any{
	"index": IndexPage{},
	"hello": HelloPage{},
}

type Renderer struct {
	pages    map[string]*template.Template
	minifier *minify.M
}

// NewRenderer parses every page template once. public backs the versioned
// template func and may be nil.
func NewRenderer(public fs.FS, minifyHTML bool) (*Renderer, error) {
	base, err := template.New("layout").
		Option("missingkey=error").
		Funcs(TemplateFuncs(public)).
		ParseFS(templateFS, layoutFile)
	if err != nil {
		return nil, errors.Wrap(err, "parse layout")
	}

	r := &Renderer{pages: make(map[string]*template.Template, len(pageContexts))}
	for name := range pageContexts {
		clone, err := base.Clone()
		if err != nil {
			return nil, errors.Wrapf(err, "clone layout for %s", name)
		}
		page, err := clone.ParseFS(templateFS, "templates/"+name+".html")
		if err != nil {
			return nil, errors.Wrapf(err, "parse template %s", name)
		}
		r.pages[name] = page
	}

	if minifyHTML {
		m := minify.New()
		m.AddFunc("text/html", minhtml.Minify)
		m.AddFunc("text/css", mincss.Minify)
		m.AddFuncRegexp(regexp.MustCompile("^(application|text)/(x-)?(java|ecma)script$"), minjs.Minify)
		r.minifier = m
	}
	return r, nil
}

// Render executes the named page into memory, so a failure never leaves a
// partial body behind.
func (r *Renderer) Render(name string, data any) ([]byte, error) {
	page, ok := r.pages[name]
	if !ok {
		return nil, &RenderError{Template: name, Err: errors.WithStack(ErrTemplateNotFound)}
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, &RenderError{Template: name, Err: errors.Wrap(err, "execute")}
	}

	if r.minifier == nil {
		return buf.Bytes(), nil
	}
	out, err := r.minifier.Bytes("text/html", buf.Bytes())
	if err != nil {
		return nil, &RenderError{Template: name, Err: errors.Wrap(err, "minify")}
	}
	return out, nil
}

func (r *Renderer) Names() []string {
	names := make([]string, 0, len(r.pages))
	for name := range r.pages {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// CheckPage renders one page with the zero value of its context type.
func (r *Renderer) CheckPage(name string) error {
	data, ok := pageContexts[name]
	if !ok {
		return &RenderError{Template: name, Err: errors.WithStack(ErrTemplateNotFound)}
	}
	_, err := r.Render(name, data)
	return err
}

// Check runs CheckPage over every page and returns the first failure.
func (r *Renderer) Check() error {
	for _, name := range r.Names() {
		if err := r.CheckPage(name); err != nil {
			return err
		}
	}
	return nil
}
