// Package web serves .dmi sprite sheets over HTTP: their state tables, their
// metadata as JSON, single frames as PNG and animations as GIF.
package web

import (
	"encoding/json"
	"fmt"
	"html/template"
	"image/gif"
	"image/png"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/golang/glog"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"golang.org/x/net/trace"

	"badc0de.net/pkg/go-dmi/datafiles"
	"badc0de.net/pkg/go-dmi/sheet"
)

const generation = 1 // bump if the way we generate responses changes

type Handler struct {
	store *Store

	tableTmpl *template.Template
	indexTmpl *template.Template
}

// NewHandler constructs a web handler serving the sheets in store.
func NewHandler(store *Store) *Handler {
	return &Handler{
		store:     store,
		tableTmpl: template.Must(template.ParseFS(datafiles.HTMLTemplates, "statetable.html")),
		indexTmpl: template.Must(template.ParseFS(datafiles.HTMLTemplates, "index.html")),
	}
}

func (h *Handler) RegisterRoutes(r *mux.Router) {
	r.HandleFunc("/", h.indexHandler)
	r.HandleFunc("/dmi", h.indexHandler)
	r.HandleFunc("/dmi/{name}", h.tableHandler)
	r.HandleFunc("/dmi/{name}/meta.json", h.metaHandler)
	r.HandleFunc("/dmi/{name}/{state}/{dir:[0-9]+}/{frame:[0-9]+}.png", h.frameHandler)
	r.HandleFunc("/dmi/{name}/{state}/{dir:[0-9]+}.gif", h.gifHandler)
}

// request bundles what every sheet handler needs.
type request struct {
	w  http.ResponseWriter
	r  *http.Request
	tr trace.Trace

	name    string
	sheet   *sheet.Sheet
	modTime time.Time
}

// begin starts tracing the request and loads the sheet it names. It returns
// nil after writing an error response.
func (h *Handler) begin(family string, w http.ResponseWriter, r *http.Request) *request {
	req := &request{w: w, r: r, tr: trace.New("dmi.web."+family, r.URL.Path)}
	req.name = mux.Vars(r)["name"]

	sh, modTime, err := h.store.Get(req.name)
	if err != nil {
		req.fail(err)
		req.finish()
		return nil
	}
	req.sheet, req.modTime = sh, modTime
	req.tr.LazyPrintf("loaded %q, modified %v", req.name, modTime)
	return req
}

func (req *request) finish() {
	req.tr.Finish()
}

func (req *request) fail(err error) {
	req.tr.LazyPrintf("%v", err)
	req.tr.SetError()

	switch {
	case errors.Is(err, ErrBadName):
		http.Error(req.w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, os.ErrNotExist):
		http.Error(req.w, "no such sprite sheet", http.StatusNotFound)
	default:
		glog.Errorf("web: %s: %v", req.r.URL.Path, err)
		http.Error(req.w, err.Error(), http.StatusInternalServerError)
	}
}

// notModified answers conditional requests. It always sets the caching
// headers and reports whether the response is complete.
func (req *request) notModified(etag string) bool {
	req.w.Header().Set("Cache-Control", "public; max-age=3600")
	req.w.Header().Set("ETag", etag)
	req.w.Header().Set("Last-Modified", req.modTime.UTC().Format(http.TimeFormat))
	if req.r.Header.Get("If-None-Match") == etag {
		req.tr.LazyPrintf("not modified")
		req.w.WriteHeader(http.StatusNotModified)
		return true
	}
	return false
}

func (req *request) etag(kind string, parts ...interface{}) string {
	s := fmt.Sprintf("%s:%d:%s:%x", kind, generation, req.name, req.modTime.UnixNano())
	for _, p := range parts {
		s += fmt.Sprintf(":%v", p)
	}
	return `W/"` + s + `"`
}

func (h *Handler) indexHandler(w http.ResponseWriter, r *http.Request) {
	tr := trace.New("dmi.web.index", r.URL.Path)
	defer tr.Finish()

	names, err := h.store.Names()
	if err != nil {
		tr.LazyPrintf("%v", err)
		tr.SetError()
		glog.Errorf("web: %v", err)
		http.Error(w, "failed to list sprite sheets", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.indexTmpl.Execute(w, names); err != nil {
		glog.Errorf("web: rendering index: %v", err)
	}
}

type tableState struct {
	StateJSON
	DirList []int
}

func (h *Handler) tableHandler(w http.ResponseWriter, r *http.Request) {
	req := h.begin("table", w, r)
	if req == nil {
		return
	}
	defer req.finish()

	if req.notModified(req.etag("table", "text/html")) {
		return
	}

	md := req.sheet.Metadata()
	data := struct {
		Name          string
		Version       float64
		Width, Height int
		FrameCount    int
		States        []tableState
	}{
		Name:       req.name,
		Version:    md.Version(),
		Width:      md.Width(),
		Height:     md.Height(),
		FrameCount: md.FrameCount(),
	}
	for _, name := range md.States() {
		st, _ := md.Lookup(name)
		ts := tableState{StateJSON: stateJSON(st)}
		for d := 0; d < st.Dirs; d++ {
			ts.DirList = append(ts.DirList, d)
		}
		data.States = append(data.States, ts)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := h.tableTmpl.Execute(w, data); err != nil {
		glog.Errorf("web: rendering table for %q: %v", req.name, err)
	}
}

func (h *Handler) metaHandler(w http.ResponseWriter, r *http.Request) {
	req := h.begin("meta", w, r)
	if req == nil {
		return
	}
	defer req.finish()

	thumbs := r.URL.Query().Get("thumbs") == "1"
	if req.notModified(req.etag("meta", thumbs, "application/json")) {
		return
	}

	m, err := MetaJSON(req.name, req.sheet, thumbs)
	if err != nil {
		req.fail(err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(m); err != nil {
		glog.Errorf("web: encoding %q: %v", req.name, err)
	}
}

func (h *Handler) frameHandler(w http.ResponseWriter, r *http.Request) {
	req := h.begin("frame", w, r)
	if req == nil {
		return
	}
	defer req.finish()

	vars := mux.Vars(r)
	dir, err := strconv.Atoi(vars["dir"])
	if err != nil {
		http.Error(w, "dir not a number", http.StatusBadRequest)
		return
	}
	fr, err := strconv.Atoi(vars["frame"])
	if err != nil {
		http.Error(w, "frame not a number", http.StatusBadRequest)
		return
	}
	state := vars["state"]
	if _, ok := req.sheet.Metadata().Lookup(state); !ok {
		http.Error(w, "no such state", http.StatusNotFound)
		return
	}

	img, err := req.sheet.Frame(state, dir, fr)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	if scale, _ := strconv.Atoi(r.URL.Query().Get("scale")); scale > 1 && scale <= 16 {
		img = sheet.Scale(img, scale)
	}

	if req.notModified(req.etag("frame", state, dir, fr, r.URL.Query().Get("scale"), "image/png")) {
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.WriteHeader(http.StatusOK)
	png.Encode(w, img)
}

func (h *Handler) gifHandler(w http.ResponseWriter, r *http.Request) {
	req := h.begin("gif", w, r)
	if req == nil {
		return
	}
	defer req.finish()

	dir, err := strconv.Atoi(mux.Vars(r)["dir"])
	if err != nil {
		http.Error(w, "dir not a number", http.StatusBadRequest)
		return
	}
	state := mux.Vars(r)["state"]
	st, ok := req.sheet.Metadata().Lookup(state)
	if !ok || dir >= st.Dirs || st.Frames() == 0 {
		http.Error(w, "no such state, dir or animation", http.StatusNotFound)
		return
	}

	if req.notModified(req.etag("gif", state, dir, "image/gif")) {
		return
	}

	g, err := req.sheet.GIF(state, dir)
	if err != nil {
		req.fail(err)
		return
	}
	w.Header().Set("Content-Type", "image/gif")
	w.WriteHeader(http.StatusOK)
	gif.EncodeAll(w, g)
}
