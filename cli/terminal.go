package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/abiiranathan/pdfview/viewer"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Terminal runs a viewer session on a line based terminal. Dialogs become
// prompts and the panels are written to disk with the save command.
type Terminal struct {
	in      *bufio.Scanner
	out     io.Writer
	printer *message.Printer
	viewer  *Viewer
}

func NewTerminal(in io.Reader, out io.Writer, v *Viewer, lang string) *Terminal {
	tag, err := language.Parse(lang)
	if err != nil {
		tag = language.English
	}

	return &Terminal{
		in:      bufio.NewScanner(in),
		out:     out,
		printer: message.NewPrinter(tag),
		viewer:  v,
	}
}

func (t *Terminal) ShowError(title, message string) {
	fmt.Fprintf(t.out, "[%s] %s\n", title, message)
}

func (t *Terminal) ShowInfo(title, message string) {
	fmt.Fprintf(t.out, "[%s]\n%s\n", title, message)
}

func (t *Terminal) AskYesNo(title, message string) bool {
	fmt.Fprintf(t.out, "[%s] %s [y/N]: ", title, message)

	line, ok := t.readLine()
	if !ok {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes"
}

func (t *Terminal) AskOpenFile(title string, types []viewer.FileType) (string, bool) {
	filters := make([]string, len(types))
	for i, ft := range types {
		filters[i] = fmt.Sprintf("%s (%s)", ft.Name, ft.Pattern)
	}
	fmt.Fprintf(t.out, "%s [%s]: ", title, strings.Join(filters, ", "))

	line, ok := t.readLine()
	path := strings.TrimSpace(line)
	if !ok || path == "" {
		return "", false
	}
	return path, true
}

func (t *Terminal) readLine() (string, bool) {
	if !t.in.Scan() {
		return "", false
	}
	return t.in.Text(), true
}

// Status formats the page indicator for the terminal's locale.
func (t *Terminal) Status() string {
	nav := t.viewer.App.State().Nav
	return t.printer.Sprintf("Page %d / %d", nav.Current(), nav.Count())
}

func (t *Terminal) prompt() {
	fmt.Fprintf(t.out, "%s (%s)> ", t.viewer.App.Title(), t.Status())
}

// Run reads commands until the user confirms an exit or input ends.
func (t *Terminal) Run(ctx context.Context) error {
	t.prompt()

	for {
		line, ok := t.readLine()
		if !ok {
			fmt.Fprintln(t.out)
			return t.in.Err()
		}

		fields := strings.Fields(line)
		if len(fields) == 0 {
			t.prompt()
			continue
		}

		err := t.exec(ctx, fields[0], fields[1:])
		switch {
		case errors.Is(err, viewer.ErrQuit):
			return nil
		case errors.Is(err, viewer.ErrUnknownAction):
			fmt.Fprintf(t.out, "unknown command %q, try help\n", fields[0])
		case err != nil:
			fmt.Fprintf(t.out, "error: %v\n", err)
		}

		if err := ctx.Err(); err != nil {
			return err
		}
		t.prompt()
	}
}

func (t *Terminal) exec(ctx context.Context, name string, args []string) error {
	switch name {
	case "help", "menu":
		t.printHelp()
		return nil
	case "status":
		fmt.Fprintln(t.out, t.Status())
		return nil
	case "save":
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		written, err := t.viewer.Save(dir)
		for _, path := range written {
			fmt.Fprintf(t.out, "wrote %s\n", path)
		}
		return err
	case "ls":
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		files, err := FindFiles(dir, viewer.PDFFileTypes)
		for _, path := range files {
			fmt.Fprintln(t.out, path)
		}
		return err
	}

	return t.viewer.App.Dispatch(viewer.Action(name), viewer.Request{
		Context: ctx,
		UI:      t,
		Args:    args,
	})
}

func (t *Terminal) printHelp() {
	for _, menu := range viewer.Menus {
		fmt.Fprintf(t.out, "%s\n", menu.Label)
		for _, item := range menu.Items {
			fmt.Fprintf(t.out, "  %-15s %s\n", item.Action, item.Label)
		}
	}

	fmt.Fprintln(t.out, "Navigation")
	fmt.Fprintf(t.out, "  %-15s %s\n", viewer.ActionNext, "Next page")
	fmt.Fprintf(t.out, "  %-15s %s\n", viewer.ActionPrevious, "Previous page")
	fmt.Fprintf(t.out, "  %-15s %s\n", viewer.ActionGoTo+" N", "Go to page N")
	fmt.Fprintf(t.out, "  %-15s %s\n", viewer.ActionScroll+" P [x|y] N", "Scroll panel P (pages, thumbnails) by N units, down or right when positive")
	fmt.Fprintf(t.out, "  %-15s %s\n", viewer.ActionResize+" P W H", "Resize the viewport of panel P")
	fmt.Fprintf(t.out, "  %-15s %s\n", "status", "Show the current page")
	fmt.Fprintf(t.out, "  %-15s %s\n", "save DIR", "Write both panels as PNG")
	fmt.Fprintf(t.out, "  %-15s %s\n", "ls DIR", "List the PDF files under DIR")
	fmt.Fprintf(t.out, "  %-15s %s\n", viewer.ActionQuit, "Exit")
}
