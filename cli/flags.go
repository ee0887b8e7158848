package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/abiiranathan/goflag"
	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/viewer"
)

func backendNames() string {
	names := make([]string, 0)
	for _, b := range pdf.Backends() {
		names = append(names, string(b))
	}
	return strings.Join(names, ", ")
}

// RunTerminal starts an interactive session, opening config.Filename first if set.
func RunTerminal(config *Config, in io.Reader, out io.Writer) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	v, err := NewViewer(config, NewLogger(os.Stderr))
	if err != nil {
		return err
	}
	defer v.App.Close()

	term := NewTerminal(in, out, v, config.Lang)
	if config.Filename != "" {
		err := v.App.Dispatch(viewer.ActionOpen, viewer.Request{
			Context: ctx,
			UI:      term,
			Args:    []string{config.Filename},
		})
		if err != nil {
			return err
		}
	}
	return term.Run(ctx)
}

// Render opens config.Filename and writes both panels to config.OutDir.
func Render(config *Config, out io.Writer) error {
	v, err := NewViewer(config, NewLogger(os.Stderr))
	if err != nil {
		return err
	}
	defer v.App.Close()

	if err := v.App.Open(context.Background(), config.Filename); err != nil {
		return err
	}

	written, err := v.Save(config.OutDir)
	for _, path := range written {
		fmt.Fprintf(out, "wrote %s\n", path)
	}
	return err
}

// Info prints the page count and the size of every page in points.
func Info(config *Config, out io.Writer) error {
	source, err := pdf.NewSource(pdf.Backend(config.Backend))
	if err != nil {
		return err
	}

	doc, err := source.Open(config.Filename)
	if err != nil {
		return err
	}
	defer doc.Close()

	fmt.Fprintf(out, "%s: %d pages (%s)\n", doc.Path(), doc.NumPages(), source.Backend())
	for i := range doc.NumPages() {
		w, h, err := doc.PageSize(i)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  page %d: %.1f x %.1f pt\n", i+1, w, h)
	}
	return nil
}

func DefineFlags(config *Config, runserver func()) *goflag.Context {
	fileFlag := goflag.Flag{
		FlagType:  goflag.FlagFilePath,
		Name:      "file",
		ShortName: "f",
		Value:     &config.Filename,
		Usage:     "The PDF file to open",
		Required:  true,
		Validator: nil,
	}

	// Create flag context.
	ctx := goflag.NewContext()

	// global flags
	ctx.AddFlag(goflag.FlagString, "backend", "b", &config.Backend,
		fmt.Sprintf("Rendering backend (%s)", backendNames()), false)

	ctx.AddFlag(goflag.FlagInt, "concurrency", "c",
		&config.MaxConcurrency,
		"No of pages rasterized at once",
		false, goflag.Min(1), goflag.Max(100))

	ctx.AddFlag(goflag.FlagFloat64, "page-scale", "ps", &config.PageScale,
		"Scale factor of full pages", false)
	ctx.AddFlag(goflag.FlagFloat64, "page-gap", "pg", &config.PageGap,
		"Space after each page, as a fraction of its height", false)
	ctx.AddFlag(goflag.FlagFloat64, "page-margin", "pm", &config.PageMargin,
		"Margin before the first page in pixels", false)

	ctx.AddFlag(goflag.FlagFloat64, "thumb-scale", "ts", &config.ThumbScale,
		"Scale factor of thumbnails", false)
	ctx.AddFlag(goflag.FlagFloat64, "thumb-gap", "tg", &config.ThumbGap,
		"Space after each thumbnail, as a fraction of its height", false)
	ctx.AddFlag(goflag.FlagFloat64, "thumb-margin", "tm", &config.ThumbMargin,
		"Margin before the first thumbnail in pixels", false)

	ctx.AddFlag(goflag.FlagString, "lang", "l", &config.Lang,
		"Language used to format page numbers", false)

	// register subcommands
	ctx.AddSubCommand("view", "Browse a PDF interactively in the terminal", func() {
		if err := RunTerminal(config, os.Stdin, os.Stdout); err != nil {
			log.Fatalln(err)
		}
	}).AddFlag(goflag.FlagString, "file", "f", &config.Filename, "The PDF file to open on start", false)

	ctx.AddSubCommand("render", "Render the page and thumbnail panels of a PDF to PNG", func() {
		if err := Render(config, os.Stdout); err != nil {
			log.Fatalln(err)
		}
	}).AddFlagPtr(&fileFlag).
		AddFlag(goflag.FlagString, "out", "o", &config.OutDir, "Directory to write the PNG files to", false)

	ctx.AddSubCommand("info", "Print the page count and page sizes of a PDF", func() {
		if err := Info(config, os.Stdout); err != nil {
			log.Fatalln(err)
		}
	}).AddFlagPtr(&fileFlag)

	// Run server
	ctx.AddSubCommand("runserver", "Start an Http server to view PDFs in the browser", runserver).
		AddFlag(goflag.FlagInt, "port", "p", &config.Port, "The port to run the server on", false).
		AddFlag(goflag.FlagString, "file", "f", &config.Filename, "The PDF file to open on start", false).
		AddFlag(goflag.FlagInt, "viewport-width", "vw", &config.ViewportWidth, "Width of the page viewport", false).
		AddFlag(goflag.FlagInt, "viewport-height", "vh", &config.ViewportHeight, "Height of the page viewport", false)

	return ctx
}
