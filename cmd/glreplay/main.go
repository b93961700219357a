// SPDX-License-Identifier: Unlicense OR MIT

// Command glreplay renders a YAML scene through the fixed-function
// layer on the software device and writes every frame as a PNG file.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/png"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"

	"github.com/vglgo/vgl/gl"
	"github.com/vglgo/vgl/gpu/headless"
)

func main() {
	scenePath := flag.String("scene", "", "scene file")
	outDir := flag.String("out", ".", "output directory")
	frames := flag.Int("frames", 0, "number of frames, 0 for the scene's count")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	if *scenePath == "" {
		fmt.Fprintln(os.Stderr, "usage: glreplay -scene scene.yaml [-out dir] [-frames n] [-v]")
		os.Exit(2)
	}
	s, err := LoadScene(*scenePath)
	if err != nil {
		log.Error("failed to load scene", "error", err)
		os.Exit(1)
	}
	if *frames > 0 {
		s.Frames = *frames
	}
	if err := render(s, *outDir, log, os.Stderr); err != nil {
		log.Error("replay failed", "error", err)
		os.Exit(1)
	}
}

// render draws every frame of s and writes it to outDir, reporting
// progress to progress.
func render(s *Scene, outDir string, log *slog.Logger, progress io.Writer) error {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}
	w, err := headless.NewWindowConfig(s.Width, s.Height, gl.Config{Logger: log})
	if err != nil {
		return err
	}
	defer w.Release()
	r, err := newRenderer(w.Context(), s, log)
	if err != nil {
		return err
	}
	log.Info("rendering", "frames", s.Frames, "size", w.Size(), "draws", len(s.Draws))

	pb := progressbar.NewOptions(s.Frames,
		progressbar.OptionSetWriter(progress),
		progressbar.OptionSetDescription("rendering"),
		progressbar.OptionShowCount(),
	)
	defer pb.Close()
	img := image.NewRGBA(image.Rectangle{Max: w.Size()})
	for n := 0; n < s.Frames; n++ {
		if err := w.Frame(func(c *gl.Context) { r.frame(c, n) }); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		if err := w.Screenshot(img); err != nil {
			return fmt.Errorf("frame %d: %w", n, err)
		}
		path := filepath.Join(outDir, fmt.Sprintf("frame%04d.png", n))
		if err := writePNG(path, img); err != nil {
			return err
		}
		log.Debug("frame written", "path", path)
		pb.Add(1)
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
