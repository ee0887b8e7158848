package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/abiiranathan/pdfview/cli"
	"github.com/abiiranathan/pdfview/routes"
	"github.com/abiiranathan/pdfview/viewer"
)

func Run(config *cli.Config, viewsFs embed.FS) {
	// Parse templates.
	tmpl, err := template.ParseFS(viewsFs, "templates/*.html")
	if err != nil {
		// we panic because we cannot proceed without the templates
		panic(fmt.Errorf("unable to parse templates: %v", err))
	}

	logger := cli.NewLogger(os.Stdout)

	v, err := cli.NewViewer(config, logger)
	if err != nil {
		log.Fatalf("unable to create viewer: %v\n", err)
	}

	if config.Filename != "" {
		if err := v.App.Open(context.Background(), config.Filename); err != nil {
			log.Fatalln(err)
		}
	}

	// Closed when the exit is confirmed from the browser.
	done := make(chan struct{})
	var once sync.Once
	quit := func() { once.Do(func() { close(done) }) }

	mux := http.NewServeMux()

	// Rasterizing a large document on open takes a while, hence the long write timeout.
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Port),
		Handler:           routes.Logger(logger)(mux),
		ReadTimeout:       time.Second * 10,
		WriteTimeout:      time.Minute * 2,
		ReadHeaderTimeout: time.Second * 5,
	}

	// Connect the routes.
	session := routes.NewSession(v)
	routes.SetupRoutes(mux, tmpl, session, quit, logger)

	ln, err := net.Listen("tcp", server.Addr)
	if err != nil {
		log.Fatalf("unable to listen on %s: %v\n", server.Addr, err)
	}

	log.Printf("Listening on http://0.0.0.0:%d (%s)\n", config.Port, viewer.DefaultTitle)

	// Start the server
	if err := Serve(server, ln, session, done, 10*time.Second); err != nil {
		log.Fatalf("Server terminated with error: %v\n", err)
	}
}

// Serve accepts connections on ln until an interrupt arrives or done is
// closed. It returns once in-flight requests have drained, or timeout has
// passed, and the open document is closed.
func Serve(server *http.Server, ln net.Listener, session *routes.Session, done <-chan struct{}, timeout time.Duration) error {
	// Serve returns as soon as Shutdown starts; the drain is over only when
	// GracefulShutdown returns.
	shutdownDone := make(chan struct{})
	go func() {
		defer close(shutdownDone)
		GracefulShutdown(server, done, timeout)
	}()

	err := server.Serve(ln)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	<-shutdownDone

	// Handlers that outlived the timeout may still hold the session.
	session.Do(func(v *cli.Viewer) {
		if err := v.App.Close(); err != nil {
			log.Println(err)
		}
	})
	return nil
}

// Gracefully shuts down the server on os.Interrupt or when done is closed.
// The default timeout is 10 seconds to wait for pending connections.
func GracefulShutdown(server *http.Server, done <-chan struct{}, timeout ...time.Duration) {
	var t time.Duration
	if len(timeout) > 0 {
		t = timeout[0]
	} else {
		t = 10 * time.Second
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	defer signal.Stop(quit)
	log.Println("waiting on os.Interrupt")

	select {
	case <-quit:
	case <-done:
	}

	ctx, cancel := context.WithTimeout(context.Background(), t)
	defer cancel()

	log.Println("Shutting down the server")
	if err := server.Shutdown(ctx); err != nil {
		log.Println(err)
		return
	}
	log.Println("shutting down gracefully")
}
