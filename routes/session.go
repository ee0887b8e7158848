package routes

import (
	"net/http"
	"strings"
	"sync"

	"github.com/abiiranathan/pdfview/cli"
	"github.com/abiiranathan/pdfview/viewer"
)

// Message is a dialog shown on the next page load.
type Message struct {
	Kind  string // "error" or "info"
	Title string
	Text  string
}

// Session serializes access to the viewer shared by all requests.
type Session struct {
	mu     sync.Mutex
	viewer *cli.Viewer
	flash  []Message
}

func NewSession(v *cli.Viewer) *Session {
	return &Session{viewer: v}
}

// Do runs fn with the session locked.
func (s *Session) Do(fn func(v *cli.Viewer)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.viewer)
}

func (s *Session) pushFlash(msgs []Message) {
	s.flash = append(s.flash, msgs...)
}

func (s *Session) takeFlash() []Message {
	msgs := s.flash
	s.flash = nil
	return msgs
}

// webUI answers dialogs from the form values of the request that triggered
// the command.
type webUI struct {
	r        *http.Request
	messages []Message
}

func (u *webUI) ShowError(title, message string) {
	u.messages = append(u.messages, Message{Kind: "error", Title: title, Text: message})
}

func (u *webUI) ShowInfo(title, message string) {
	u.messages = append(u.messages, Message{Kind: "info", Title: title, Text: message})
}

// AskYesNo is answered by the confirm form field.
func (u *webUI) AskYesNo(title, message string) bool {
	answer := strings.ToLower(u.r.FormValue("confirm"))
	return answer == "yes" || answer == "y" || answer == "true"
}

// AskOpenFile is answered by the path form field.
func (u *webUI) AskOpenFile(title string, types []viewer.FileType) (string, bool) {
	path := strings.TrimSpace(u.r.FormValue("path"))
	return path, path != ""
}
