package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ayusman/tactus/internal/app"
	"github.com/ayusman/tactus/internal/config"
	"github.com/ayusman/tactus/internal/geom"
	"github.com/ayusman/tactus/internal/gesture"
	"github.com/ayusman/tactus/internal/sensor"
	"github.com/ayusman/tactus/internal/server"
	"github.com/ayusman/tactus/internal/touch"
)

func main() {
	addr := flag.String("addr", ":8080", "HTTP listen address")
	configPath := flag.String("config", "", "path to a JSON recognition config (defaults are used if empty)")
	demo := flag.Bool("demo", false, "replay built-in gestures through the recognition pipeline")
	flag.Parse()

	fmt.Println("Tactus - Multi-touch Gesture Recognition")

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
		cfg = loaded
	}

	if *demo {
		a, err := app.New(app.Config{
			Source:      sensor.NewMockSource(demoFrames()...),
			Recognition: cfg,
		})
		if err != nil {
			log.Fatalf("Failed to create pipeline: %v", err)
		}
		a.OnGesture(func(res *gesture.Result) {
			fmt.Printf("Recognized %v\n", res)
		})
		if err := a.Start(); err != nil {
			log.Fatalf("Failed to start pipeline: %v", err)
		}
		defer a.Stop()
	}

	// Find web directory
	webDir := findWebDir()
	if webDir != "" {
		fmt.Printf("Serving static files from: %s\n", webDir)
	}

	srv := server.New(server.Config{
		StaticDir:   webDir,
		Recognition: cfg,
	})

	errCh := make(chan error, 1)
	go func() {
		fmt.Printf("Starting server on %s\n", *addr)
		errCh <- srv.ListenAndServe(*addr)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Printf("Server failed: %v", err)
	case sig := <-sigCh:
		log.Printf("Received %v, shutting down", sig)
	}
}

// demoFrames returns one session of every built-in gesture, each followed by
// enough empty frames to end the session.
func demoFrames() []touch.Frame {
	sessions := [][]touch.Frame{
		sensor.TapFrames(geom.Pt(10, 10), 2, 3),
		sensor.LineFrames(geom.Pt(5, 5), geom.Pt(40, 5), 12),
		sensor.CircleFrames(geom.Pt(30, 20), 10, 360, 16, true),
		sensor.SemiCircleFrames(geom.Pt(30, 20), 10, 12, false),
		sensor.PinchFrames(geom.Pt(30, 20), 30, 5, 10),
		sensor.OneFingerPinchFrames(geom.Pt(10, 20), 5, 30, 10),
		sensor.DragFrames(geom.Pt(5, 5), geom.Pt(35, 5), 3, 10),
	}

	var frames []touch.Frame
	for _, s := range sessions {
		frames = append(frames, s...)
		for i := 0; i < app.DefaultIdleFrames; i++ {
			frames = append(frames, touch.Frame{})
		}
	}
	return frames
}

// findWebDir searches for the web directory in common locations.
// It checks: "web", "../web", "../../web", and ~/.tactus/web.
// Returns the first existing directory or empty string if none found.
func findWebDir() string {
	// Check relative paths from current working directory
	relativePaths := []string{"web", "../web", "../../web"}
	for _, p := range relativePaths {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			absPath, err := filepath.Abs(p)
			if err == nil {
				return absPath
			}
			return p
		}
	}

	// Check home directory
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}

	homeWebDir := filepath.Join(homeDir, ".tactus", "web")
	if info, err := os.Stat(homeWebDir); err == nil && info.IsDir() {
		return homeWebDir
	}

	return ""
}
