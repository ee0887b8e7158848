package routes

import (
	"encoding/json"
	"fmt"
	"html/template"
	"image"
	"image/png"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"strings"
	"testing"

	"github.com/abiiranathan/pdfview/cli"
	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/surface"
	"github.com/abiiranathan/pdfview/viewer"
)

type stubDoc struct {
	path  string
	pages int
}

func (d *stubDoc) Path() string  { return d.path }
func (d *stubDoc) NumPages() int { return d.pages }
func (d *stubDoc) Close() error  { return nil }

func (d *stubDoc) PageSize(page int) (float64, float64, error) {
	if page < 0 || page >= d.pages {
		return 0, 0, pdf.ErrPageRange
	}
	return 40, 60, nil
}

func (d *stubDoc) RenderPage(page int, scale float64) (image.Image, error) {
	w, h, err := d.PageSize(page)
	if err != nil {
		return nil, err
	}
	pw, ph, err := pdf.PixelSize(w, h, scale)
	if err != nil {
		return nil, err
	}
	return image.NewRGBA(image.Rect(0, 0, pw, ph)), nil
}

type stubSource map[string]int

func (s stubSource) Open(path string) (pdf.Document, error) {
	n, ok := s[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no such file", pdf.ErrOpen, path)
	}
	return &stubDoc{path: path, pages: n}, nil
}

type testServer struct {
	handler http.Handler
	quits   int
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	tmpl, err := template.ParseFS(os.DirFS("../templates"), "*.html")
	if err != nil {
		t.Fatal(err)
	}

	cfg := viewer.Config{
		Pages:       viewer.DefaultConfig.Pages,
		Thumbnails:  viewer.DefaultConfig.Thumbnails,
		Concurrency: 2,
	}

	pages := surface.New(100, 80)
	thumbnails := surface.New(30, 80)
	app, err := viewer.New(cfg, stubSource{"report.pdf": 3}, pages, thumbnails, nil)
	if err != nil {
		t.Fatal(err)
	}

	ts := &testServer{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	mux := http.NewServeMux()
	session := NewSession(&cli.Viewer{App: app, Pages: pages, Thumbnails: thumbnails})
	SetupRoutes(mux, tmpl, session, func() { ts.quits++ }, logger)
	ts.handler = Logger(logger)(mux)
	return ts
}

func (ts *testServer) get(target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func (ts *testServer) post(target string, form url.Values, accept string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		r.Header.Set("Accept", accept)
	}

	w := httptest.NewRecorder()
	ts.handler.ServeHTTP(w, r)
	return w
}

func decodeStatus(t *testing.T, w *httptest.ResponseRecorder) Status {
	t.Helper()

	var st Status
	if err := json.NewDecoder(w.Body).Decode(&st); err != nil {
		t.Fatalf("invalid status json: %v", err)
	}
	return st
}

func TestHomeWithoutDocument(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	for _, want := range []string{"<title>PDF Viewer</title>", "Open...", "Extract Page(s)...", "Page 0 / 0"} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}
}

func TestOpenAndNavigate(t *testing.T) {
	ts := newTestServer(t)

	w := ts.post("/commands/open", url.Values{"path": {"report.pdf"}}, "")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after open, got %d: %s", w.Code, w.Body.String())
	}

	body := ts.get("/").Body.String()
	if !strings.Contains(body, "<title>PDF Viewer - report.pdf</title>") {
		t.Errorf("title not updated:\n%s", body)
	}
	if !strings.Contains(body, "Page 1 / 3") {
		t.Errorf("page indicator not updated:\n%s", body)
	}

	w = ts.post("/commands/next", nil, "application/json")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	st := decodeStatus(t, w)
	if st.Page != 2 || st.Pages != 3 {
		t.Errorf("expected page 2 / 3, got %d / %d", st.Page, st.Pages)
	}
	if st.Offset <= 0 {
		t.Errorf("page strip was not scrolled: %v", st.Offset)
	}

	st = decodeStatus(t, ts.post("/commands/goto", url.Values{"arg": {"3"}}, "application/json"))
	if st.Page != 3 {
		t.Errorf("expected page 3, got %d", st.Page)
	}

	st = decodeStatus(t, ts.post("/commands/goto", url.Values{"arg": {"ten"}}, "application/json"))
	if st.Page != 3 {
		t.Errorf("invalid goto changed the page to %d", st.Page)
	}

	st = decodeStatus(t, ts.get("/status"))
	if st.Title != "PDF Viewer - report.pdf" {
		t.Errorf("unexpected title %q", st.Title)
	}
}

func TestOpenFailureIsFlashed(t *testing.T) {
	ts := newTestServer(t)

	w := ts.post("/commands/open", url.Values{"path": {"missing.pdf"}}, "")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect, got %d", w.Code)
	}

	body := ts.get("/").Body.String()
	if !strings.Contains(body, "Failed to open the PDF file:") {
		t.Errorf("error message not shown:\n%s", body)
	}

	// Messages are shown once.
	body = ts.get("/").Body.String()
	if strings.Contains(body, "Failed to open the PDF file:") {
		t.Errorf("error message shown twice")
	}
}

func TestCommandErrors(t *testing.T) {
	ts := newTestServer(t)

	tests := []struct {
		name   string
		target string
		form   url.Values
		code   int
	}{
		{"unknown action", "/commands/print", nil, http.StatusNotFound},
		{"scroll without args", "/commands/scroll", nil, http.StatusBadRequest},
		{"scroll bad units", "/commands/scroll", url.Values{"arg": {"pages", "lots"}}, http.StatusBadRequest},
		{"scroll unknown panel", "/commands/scroll", url.Values{"arg": {"sidebar", "1"}}, http.StatusBadRequest},
		{"scroll bad axis", "/commands/scroll", url.Values{"arg": {"pages", "z", "1"}}, http.StatusBadRequest},
		{"resize without size", "/commands/resize", url.Values{"arg": {"pages"}}, http.StatusBadRequest},
		{"resize to nothing", "/commands/resize", url.Values{"arg": {"pages", "0", "0"}}, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ts.post(tt.target, tt.form, "")
			if w.Code != tt.code {
				t.Errorf("expected %d, got %d: %s", tt.code, w.Code, w.Body.String())
			}
		})
	}

	if w := ts.get("/commands/next"); w.Code != http.StatusMethodNotAllowed {
		t.Errorf("GET on a command: expected 405, got %d", w.Code)
	}
}

func TestHomeFollowsViewport(t *testing.T) {
	ts := newTestServer(t)
	ts.post("/commands/open", url.Values{"path": {"report.pdf"}}, "")

	body := ts.get("/").Body.String()
	for _, want := range []string{"viewport=100x80", `width="100" height="80"`} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q", want)
		}
	}

	w := ts.post("/commands/resize", url.Values{"arg": {"pages", "50", "40"}}, "")
	if w.Code != http.StatusSeeOther {
		t.Fatalf("expected redirect after resize, got %d: %s", w.Code, w.Body.String())
	}

	body = ts.get("/").Body.String()
	for _, want := range []string{"viewport=50x40", `width="50" height="40"`} {
		if !strings.Contains(body, want) {
			t.Errorf("home page missing %q after resize", want)
		}
	}
}

func TestQuitNeedsConfirmation(t *testing.T) {
	ts := newTestServer(t)

	w := ts.post("/commands/quit", nil, "")
	if w.Code != http.StatusSeeOther || ts.quits != 0 {
		t.Fatalf("unconfirmed quit: code %d, quits %d", w.Code, ts.quits)
	}

	// Placeholder menu items ask the same question.
	w = ts.post("/commands/select-area", url.Values{"confirm": {"yes"}}, "")
	if w.Code != http.StatusOK || ts.quits != 1 {
		t.Fatalf("confirmed exit: code %d, quits %d", w.Code, ts.quits)
	}
	if !strings.Contains(w.Body.String(), "Goodbye") {
		t.Errorf("unexpected body %q", w.Body.String())
	}
}

func TestPanels(t *testing.T) {
	ts := newTestServer(t)

	if w := ts.get("/panels/pages.png"); w.Code != http.StatusNotFound {
		t.Errorf("empty panel: expected 404, got %d", w.Code)
	}

	ts.post("/commands/open", url.Values{"path": {"report.pdf"}}, "")

	w := ts.get("/panels/pages.png")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("unexpected content type %q", ct)
	}

	img, err := png.Decode(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	// Three 40x60 pages with a 5% gap below the 20px top margin.
	if b := img.Bounds(); b.Dx() != 40 || b.Dy() != 209 {
		t.Errorf("unexpected strip size %v", b)
	}

	w = ts.get("/panels/thumbnails.png?viewport=50x40")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	img, err = png.Decode(w.Body)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Errorf("expected 50x40 viewport, got %v", b)
	}

	for target, code := range map[string]int{
		"/panels/pages.png?viewport=wide": http.StatusBadRequest,
		"/panels/pages.png?viewport=0x10": http.StatusBadRequest,
		"/panels/sidebar.png":             http.StatusNotFound,
		"/panels/pages":                   http.StatusNotFound,
	} {
		if w := ts.get(target); w.Code != code {
			t.Errorf("%s: expected %d, got %d", target, code, w.Code)
		}
	}
}

func TestAbout(t *testing.T) {
	ts := newTestServer(t)

	w := ts.get("/about")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "<h1>PDF Viewer</h1>") {
		t.Errorf("about text not rendered as html:\n%s", w.Body.String())
	}

	w = ts.post("/commands/about", nil, "application/json")
	st := decodeStatus(t, w)
	if len(st.Messages) != 1 || st.Messages[0].Title != "About" {
		t.Errorf("about command did not show a message: %+v", st.Messages)
	}
}

func TestParseViewport(t *testing.T) {
	tests := []struct {
		in   string
		w, h int
		ok   bool
	}{
		{"600x650", 600, 650, true},
		{"600X650", 600, 650, true},
		{"600", 0, 0, false},
		{"x650", 0, 0, false},
		{"-1x5", 0, 0, false},
		{"20000x5", 0, 0, false},
	}

	for _, tt := range tests {
		w, h, err := parseViewport(tt.in)
		if (err == nil) != tt.ok {
			t.Errorf("%q: unexpected error %v", tt.in, err)
			continue
		}
		if w != tt.w || h != tt.h {
			t.Errorf("%q: got %dx%d", tt.in, w, h)
		}
	}
}
