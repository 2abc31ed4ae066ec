package web

import (
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"sync"

	"github.com/hpungsan/nook/internal/errors"
	"github.com/hpungsan/nook/internal/ops"
)

// Handlers contains HTTP route handlers for the web UI.
type Handlers struct {
	deps     *ops.Deps
	renderer *Renderer
	// mu serializes operations; each one rewrites the collection.
	mu sync.Mutex
}

func (h *Handlers) page(title string) PageData {
	return PageData{Title: title, Version: h.renderer.version, Nav: "workspaces"}
}

// HandleList handles GET /workspaces: list workspaces, or search them with ?q=.
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	q := r.URL.Query()
	data := ListPageData{
		PageData: h.page("Workspaces"),
		Query:    q.Get("q"),
		Flash:    q.Get("flash"),
	}
	limit := parseIntParam(r, "limit", ops.DefaultListLimit)
	offset := parseIntParam(r, "offset", 0)

	list, err := ops.List(r.Context(), h.deps, ops.ListInput{Limit: limit, Offset: offset})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	data.CurrentID = list.CurrentWorkspaceID

	if data.Query != "" {
		result, err := ops.Search(r.Context(), h.deps, ops.SearchInput{Query: data.Query, Limit: limit, Offset: offset})
		if err != nil {
			h.renderer.renderError(w, r, err)
			return
		}
		data.Results = result.Items
		data.Pagination = result.Pagination
	} else {
		data.Items = list.Items
		data.Pagination = list.Pagination
	}

	if wantsJSON(r) {
		if data.Query != "" {
			renderJSON(w, http.StatusOK, map[string]any{"items": data.Results, "pagination": data.Pagination})
		} else {
			renderJSON(w, http.StatusOK, list)
		}
		return
	}

	// If htmx targets #results (the search box), render only the results fragment
	if r.Header.Get("HX-Target") == "results" {
		h.renderer.renderBlock(w, http.StatusOK, "list", "results", data)
		return
	}
	h.renderer.renderPage(w, r, "list", data)
}

// HandleDetail handles GET /workspaces/{id}: one workspace and its tabs.
func (h *Handlers) HandleDetail(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out, err := ops.Fetch(r.Context(), h.deps, ops.FetchInput{Ref: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	h.renderer.renderPage(w, r, "detail", DetailPageData{
		PageData:        h.page(out.Workspace.Name),
		Workspace:       out.Workspace,
		IsCurrent:       out.IsCurrent,
		DescriptionHTML: renderMarkdown(out.Workspace.Description),
	})
}

// HandleCreate handles POST /workspaces: create a workspace from a form.
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderer.renderError(w, r, errors.NewInvalidRequest("invalid form data"))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	out, err := ops.Create(r.Context(), h.deps, ops.CreateInput{
		Name:        r.FormValue("name"),
		Description: r.FormValue("description"),
	})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	respondDone(w, r, http.StatusCreated, out, "/workspaces/"+url.PathEscape(out.Workspace.ID))
}

// HandleSwitch handles POST /workspaces/{id}/switch.
func (h *Handlers) HandleSwitch(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out, err := ops.Switch(r.Context(), h.deps, ops.SwitchInput{Ref: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	respondDone(w, r, http.StatusOK, out, "/workspaces/"+url.PathEscape(out.ID))
}

// HandleSave handles POST /workspaces/save: capture the open tabs into the
// current workspace.
func (h *Handlers) HandleSave(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out, err := ops.Save(r.Context(), h.deps)
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}

	message := "No current workspace; nothing saved"
	if out.Saved {
		message = fmt.Sprintf("Saved %d tabs", out.TabCount)
	}

	// HTMX request: return HTML fragment
	if isHTMX(r) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`<div class="flash">` + template.HTMLEscapeString(message) + `</div>`))
		return
	}
	if wantsJSON(r) {
		renderJSON(w, http.StatusOK, out)
		return
	}
	http.Redirect(w, r, "/workspaces?flash="+url.QueryEscape(message), http.StatusSeeOther)
}

// HandleDelete handles DELETE /workspaces/{id}.
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	h.mu.Lock()
	defer h.mu.Unlock()

	out, err := ops.Delete(r.Context(), h.deps, ops.DeleteInput{Ref: r.PathValue("id")})
	if err != nil {
		h.renderer.renderError(w, r, err)
		return
	}
	respondDone(w, r, http.StatusOK, out, "/workspaces")
}

// respondDone answers a successful mutation: htmx clients are told where to
// go, JSON clients get the result, browsers are redirected.
func respondDone(w http.ResponseWriter, r *http.Request, jsonStatus int, result any, location string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", location)
		w.WriteHeader(http.StatusOK)
		return
	}
	if wantsJSON(r) {
		renderJSON(w, jsonStatus, result)
		return
	}
	http.Redirect(w, r, location, http.StatusSeeOther)
}

// parseIntParam parses an integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	s := r.URL.Query().Get(name)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}
