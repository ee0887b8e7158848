package main

import (
	"embed"
	"log"
	"os"

	"github.com/abiiranathan/pdfview/cli"
	"github.com/abiiranathan/pdfview/pdf"
	"github.com/abiiranathan/pdfview/server"
)

//go:embed all:templates
var viewsFs embed.FS

// Default configuration for the CLI
var config = &cli.DefaultConfig

func startServer() {
	server.Run(config, viewsFs)
}

func main() {
	log.SetPrefix("[pdfview]: ")
	log.SetFlags(log.Lshortfile)

	// Set the locale to the system's default
	pdf.SetLocale()

	// Parse the command line arguments
	ctx := cli.DefineFlags(config, startServer)
	subcmd, err := ctx.Parse(os.Args)
	if err != nil {
		log.Fatalln(err)
	}

	// If the subcommand is nil, print the usage and exit
	if subcmd == nil {
		ctx.PrintUsage(os.Stdout)
		os.Exit(1)
	}

	// Run the subcommand
	subcmd.Handler()
}
