package core

import (
	"net/http"
)

func (a *App) index(w http.ResponseWriter, r *http.Request) {
	body, err := a.Renderer.Render("index", IndexPage{})
	a.Responder.HTML(w, r, "index", body, err)
}

// greet joins name and last_name with no separator. A repeated last_name
// resolves to its first occurrence.
func (a *App) greet(w http.ResponseWriter, r *http.Request) {
	name := Param(r, "name") + r.URL.Query().Get("last_name")
	body, err := a.Renderer.Render("hello", HelloPage{Name: name})
	a.Responder.HTML(w, r, "hello", body, err)
}
