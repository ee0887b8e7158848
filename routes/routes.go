package routes

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"image/png"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/abiiranathan/pdfview/cli"
	"github.com/abiiranathan/pdfview/surface"
	"github.com/abiiranathan/pdfview/viewer"
	"github.com/yuin/goldmark"
)

type Thumbnail struct {
	Page   int
	X, Y   float64
	Width  float64
	Height float64
}

// Status is the JSON view of the session.
type Status struct {
	Title    string    `json:"title"`
	Page     int       `json:"page"`
	Pages    int       `json:"pages"`
	Offset   float64   `json:"offset"`
	Messages []Message `json:"messages,omitempty"`
}

func currentStatus(v *cli.Viewer) Status {
	nav := v.App.State().Nav
	_, y := v.Pages.ScrollOffset()
	return Status{
		Title:  v.App.Title(),
		Page:   nav.Current(),
		Pages:  nav.Count(),
		Offset: y,
	}
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func Home(tmpl *template.Template, session *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var data map[string]any

		session.Do(func(v *cli.Viewer) {
			st := v.App.State()

			thumbnails := make([]Thumbnail, 0, len(st.Thumbnails.Layout.Entries))
			for _, e := range st.Thumbnails.Layout.Entries {
				thumbnails = append(thumbnails, Thumbnail{
					Page: e.PageIndex + 1, X: e.X, Y: e.Y, Width: e.Width, Height: e.Height,
				})
			}

			width, height := v.Pages.ViewportSize()
			data = map[string]any{
				"ViewportWidth":  width,
				"ViewportHeight": height,
				"Status":         currentStatus(v),
				"Menus":          viewer.Menus,
				"Flash":          session.takeFlash(),
				"Thumbnails":     thumbnails,
				"HasPages":       st.Nav.Count() > 0,
			}
		})

		// Render into a buffer so a template error does not leave a half written page.
		var buf bytes.Buffer
		if err := tmpl.ExecuteTemplate(&buf, "index.html", data); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Write(buf.Bytes())
	}
}

// Command dispatches the action in the URL. Arguments come from repeated
// "arg" form values. A confirmed exit calls quit.
func Command(session *Session, quit func(), logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			http.Error(w, "Invalid form", http.StatusBadRequest)
			return
		}

		action := viewer.Action(r.PathValue("action"))
		ui := &webUI{r: r}

		var err error
		var status Status
		session.Do(func(v *cli.Viewer) {
			err = v.App.Dispatch(action, viewer.Request{
				Context: r.Context(),
				UI:      ui,
				Args:    r.Form["arg"],
			})
			if err == nil {
				session.pushFlash(ui.messages)
			}
			status = currentStatus(v)
		})
		status.Messages = ui.messages

		switch {
		case errors.Is(err, viewer.ErrQuit):
			logger.Info("exit confirmed from the browser")
			if wantsJSON(r) {
				writeJSON(w, http.StatusOK, map[string]string{"message": "Goodbye"})
			} else {
				fmt.Fprintln(w, "Goodbye")
			}
			if quit != nil {
				quit()
			}
			return
		case errors.Is(err, viewer.ErrUnknownAction):
			http.Error(w, err.Error(), http.StatusNotFound)
			return
		case errors.Is(err, viewer.ErrUsage), errors.Is(err, viewer.ErrUnknownPanel):
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		if wantsJSON(r) {
			writeJSON(w, http.StatusOK, status)
			return
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// parseViewport parses "WxH".
func parseViewport(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(s), "x")
	if !ok {
		return 0, 0, fmt.Errorf("viewport must be WxH, got %q", s)
	}

	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 || w > 10000 {
		return 0, 0, fmt.Errorf("invalid viewport width %q", ws)
	}
	h, err := strconv.Atoi(hs)
	if err != nil || h <= 0 || h > 10000 {
		return 0, 0, fmt.Errorf("invalid viewport height %q", hs)
	}
	return w, h, nil
}

// Panel serves a panel as PNG: the whole strip, or with ?viewport=WxH the
// visible part at the current scroll offset scaled to W×H.
func Panel(session *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name, ok := strings.CutSuffix(r.PathValue("panel"), ".png")
		if !ok {
			http.NotFound(w, r)
			return
		}

		var vw, vh int
		if q := r.URL.Query().Get("viewport"); q != "" {
			var err error
			vw, vh, err = parseViewport(q)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
		}

		var buf bytes.Buffer
		var err error
		found := true

		session.Do(func(v *cli.Viewer) {
			canvas, ok := v.Canvas(viewer.PanelName(name))
			if !ok {
				found = false
				return
			}

			if vw > 0 {
				img, verr := canvas.Viewport(vw, vh)
				if verr != nil {
					err = verr
					return
				}
				err = png.Encode(&buf, img)
				return
			}
			err = canvas.EncodePNG(&buf)
		})

		switch {
		case !found:
			http.NotFound(w, r)
			return
		case errors.Is(err, surface.ErrEmpty):
			http.Error(w, "No document loaded", http.StatusNotFound)
			return
		case err != nil:
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		w.Write(buf.Bytes())
	}
}

func StatusJSON(session *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var status Status
		session.Do(func(v *cli.Viewer) {
			status = currentStatus(v)
		})
		writeJSON(w, http.StatusOK, status)
	}
}

// About renders the about text from markdown once, at startup.
func About(tmpl *template.Template) http.HandlerFunc {
	var buf bytes.Buffer
	if err := goldmark.Convert([]byte(viewer.AboutText), &buf); err != nil {
		// we panic because the about text is a constant
		panic(fmt.Errorf("unable to render about text: %v", err))
	}
	body := template.HTML(buf.String())

	return func(w http.ResponseWriter, r *http.Request) {
		err := tmpl.ExecuteTemplate(w, "about.html", map[string]any{
			"Body": body,
		})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
		}
	}
}
