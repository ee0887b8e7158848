package viewer

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
)

var (
	// ErrQuit is returned by a command when the user confirmed leaving.
	ErrQuit = errors.New("quit")

	ErrUnknownAction = errors.New("unknown action")
	ErrUsage         = errors.New("invalid arguments")
)

// Action is the symbolic name of a command.
type Action string

const (
	ActionOpen         Action = "open"
	ActionOpenRecent   Action = "open-recent"
	ActionClose        Action = "close"
	ActionSelectArea   Action = "select-area"
	ActionExtractPages Action = "extract-pages"
	ActionAbout        Action = "about"
	ActionNext         Action = "next"
	ActionPrevious     Action = "previous"
	ActionGoTo         Action = "goto"
	ActionScroll       Action = "scroll"
	ActionResize       Action = "resize"
	ActionQuit         Action = "quit"
)

// Request carries what a command needs from the front end that invoked it.
type Request struct {
	Context context.Context
	UI      UI
	Args    []string
}

func (r Request) ctx() context.Context {
	if r.Context == nil {
		return context.Background()
	}
	return r.Context
}

// Command is anything the app can dispatch to.
type Command interface {
	Execute(a *App, req Request) error
}

// CommandFunc adapts a function to a Command.
type CommandFunc func(a *App, req Request) error

func (f CommandFunc) Execute(a *App, req Request) error {
	return f(a, req)
}

type MenuItem struct {
	Label  string
	Action Action
}

type Menu struct {
	Label string
	Items []MenuItem
}

// Menus is the menu bar shared by every front end.
var Menus = []Menu{
	{Label: "File", Items: []MenuItem{
		{Label: "Open...", Action: ActionOpen},
		{Label: "Open Recent", Action: ActionOpenRecent},
		{Label: "Close", Action: ActionClose},
	}},
	{Label: "Tools", Items: []MenuItem{
		{Label: "Select Area", Action: ActionSelectArea},
		{Label: "Extract Page(s)...", Action: ActionExtractPages},
	}},
	{Label: "Help", Items: []MenuItem{
		{Label: "About", Action: ActionAbout},
	}},
}

func defaultCommands() map[Action]Command {
	exit := CommandFunc(confirmExit)

	return map[Action]Command{
		ActionOpen: CommandFunc(openFile),

		// Not implemented yet; they fall through to the exit dialog.
		ActionOpenRecent:   exit,
		ActionClose:        exit,
		ActionSelectArea:   exit,
		ActionExtractPages: exit,

		ActionAbout: CommandFunc(func(a *App, req Request) error {
			req.UI.ShowInfo("About", AboutText)
			return nil
		}),
		ActionNext: CommandFunc(func(a *App, req Request) error {
			a.Next()
			return nil
		}),
		ActionPrevious: CommandFunc(func(a *App, req Request) error {
			a.Previous()
			return nil
		}),
		ActionGoTo:   CommandFunc(goTo),
		ActionScroll: CommandFunc(scroll),
		ActionResize: CommandFunc(resize),
		ActionQuit:   exit,
	}
}

// Handle registers cmd for action, replacing any existing command.
func (a *App) Handle(action Action, cmd Command) {
	a.commands[action] = cmd
}

// Actions returns the registered actions in sorted order.
func (a *App) Actions() []Action {
	actions := make([]Action, 0, len(a.commands))
	for action := range a.commands {
		actions = append(actions, action)
	}
	slices.Sort(actions)
	return actions
}

// Dispatch runs the command registered for action.
func (a *App) Dispatch(action Action, req Request) error {
	cmd, ok := a.commands[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}

	a.log.Debug("dispatch", "action", action, "args", req.Args)
	return cmd.Execute(a, req)
}

func confirmExit(a *App, req Request) error {
	if req.UI.AskYesNo("Exit", "Are you sure you want to exit?") {
		return ErrQuit
	}
	return nil
}

// openFile opens the path given as the first argument, or asks for one.
// A failed open is reported through the UI and does not fail the command.
func openFile(a *App, req Request) error {
	var path string
	if len(req.Args) > 0 {
		path = req.Args[0]
	} else {
		var ok bool
		path, ok = req.UI.AskOpenFile("Select a PDF", PDFFileTypes)
		if !ok || path == "" {
			return nil
		}
	}

	if err := a.Open(req.ctx(), path); err != nil {
		a.log.Error("open failed", "path", path, "error", err)
		req.UI.ShowError("Error", fmt.Sprintf("Failed to open the PDF file: %v", err))
	}
	return nil
}

// goTo ignores anything that is not a page number, like the page entry box.
func goTo(a *App, req Request) error {
	if len(req.Args) == 0 {
		return nil
	}
	page, err := strconv.Atoi(req.Args[0])
	if err != nil {
		return nil
	}
	a.GoTo(page)
	return nil
}

// scroll expects a panel name, an optional axis (x or y, default y) and a
// signed number of units.
func scroll(a *App, req Request) error {
	args := req.Args
	axis := "y"
	if len(args) == 3 {
		axis, args = args[1], []string{args[0], args[2]}
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: scroll <pages|thumbnails> [x|y] <units>", ErrUsage)
	}

	units, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("%w: units must be an integer: %q", ErrUsage, args[1])
	}

	panel := PanelName(args[0])
	switch axis {
	case "y":
		return a.Scroll(panel, units)
	case "x":
		return a.ScrollX(panel, units)
	}
	return fmt.Errorf("%w: axis must be x or y: %q", ErrUsage, axis)
}

// resize expects a panel name, a width and a height in pixels.
func resize(a *App, req Request) error {
	if len(req.Args) != 3 {
		return fmt.Errorf("%w: resize <pages|thumbnails> <width> <height>", ErrUsage)
	}

	width, err := strconv.Atoi(req.Args[1])
	if err != nil {
		return fmt.Errorf("%w: width must be an integer: %q", ErrUsage, req.Args[1])
	}
	height, err := strconv.Atoi(req.Args[2])
	if err != nil {
		return fmt.Errorf("%w: height must be an integer: %q", ErrUsage, req.Args[2])
	}

	err = a.Resize(PanelName(req.Args[0]), width, height)
	if errors.Is(err, ErrInvalidViewport) {
		return fmt.Errorf("%w: %v", ErrUsage, err)
	}
	return err
}
