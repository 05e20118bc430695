package cli

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/gogpu/lisa/checkpoint"
	"github.com/gogpu/lisa/internal/imageio"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("logged = %v, want %v (output %q)", got, tt.wantLog, buf.String())
			}
		})
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) != log.Default() {
		t.Error("empty context should yield log.Default()")
	}

	l := newLogger(&bytes.Buffer{}, log.InfoLevel)
	if loggerFromContext(withLogger(context.Background(), l)) != l {
		t.Error("loggerFromContext did not return the stored logger")
	}
}

func TestSetVersion(t *testing.T) {
	SetVersion("v1.2.3", "abc123", "2026-01-01")
	t.Cleanup(func() { SetVersion("dev", "", "") })

	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out.String(), "lisa v1.2.3") || !strings.Contains(out.String(), "commit: abc123") {
		t.Errorf("version output = %q", out.String())
	}
}

// writeTarget saves a small two-color image: red on the left, blue on the
// right.
func writeTarget(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 12, 8))
	for y := range 8 {
		for x := range 12 {
			c := color.NRGBA{R: 200, G: 20, B: 20, A: 255}
			if x >= 6 {
				c = color.NRGBA{R: 20, G: 20, B: 200, A: 255}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	path := filepath.Join(dir, "target.png")
	if err := imageio.SavePNG(path, img); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	if err := root.ExecuteContext(context.Background()); err != nil {
		t.Fatalf("lisa %s: %v\n%s", strings.Join(args, " "), err, out.String())
	}
	return out.String()
}

func TestRunRenderHistory(t *testing.T) {
	dir := t.TempDir()
	target := writeTarget(t, dir)
	outDir := filepath.Join(dir, "out")

	cfgPath := filepath.Join(dir, "lisa.toml")
	cfg := fmt.Sprintf("population = 8\nmax_generations = 50\nworkers = 2\n\n[output]\ndir = %q\nstore = \"sqlite\"\n", outDir)
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}

	execute(t, "run", "-c", cfgPath, "--seed", "3", "--weighted", target)

	for _, name := range []string{"best.json", "best.svg", "best.png", "lisa.db"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Fatalf("missing output %s: %v", name, err)
		}
	}

	rec, err := checkpoint.LoadFile(filepath.Join(outDir, "best.json"))
	if err != nil {
		t.Fatal(err)
	}
	if rec.Width != 12 || rec.Height != 8 {
		t.Errorf("checkpoint size = %dx%d, want 12x8", rec.Width, rec.Height)
	}
	if rec.Individual.Shapes.Len() == 0 {
		t.Error("checkpoint has no shapes")
	}

	png := filepath.Join(dir, "big.png")
	execute(t, "render", filepath.Join(outDir, "best.json"), "-o", png, "--scale", "2", "--caption")
	img, err := imageio.LoadImage(png)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 24 || b.Dy() != 16 {
		t.Errorf("rendered size = %dx%d, want 24x16", b.Dx(), b.Dy())
	}

	hist := execute(t, "history", rec.RunID, "--db", filepath.Join(outDir, "lisa.db"))
	if !strings.HasPrefix(hist, "GENERATION") {
		t.Errorf("history output = %q", hist)
	}
	if lines := strings.Count(strings.TrimSpace(hist), "\n"); lines < 1 {
		t.Errorf("history has no rows: %q", hist)
	}
}

func TestRunResume(t *testing.T) {
	dir := t.TempDir()
	target := writeTarget(t, dir)
	first := filepath.Join(dir, "first")
	second := filepath.Join(dir, "second")

	execute(t, "run", target, "-g", "30", "--seed", "4", "-o", first)
	before, err := checkpoint.LoadFile(filepath.Join(first, "best.json"))
	if err != nil {
		t.Fatal(err)
	}

	execute(t, "run", target, "-g", "10", "--seed", "5", "-o", second, "--resume", filepath.Join(first, "best.json"))
	after, err := checkpoint.LoadFile(filepath.Join(second, "best.json"))
	if err != nil {
		t.Fatal(err)
	}
	if after.Fitness > before.Fitness {
		t.Errorf("resumed fitness %.2f is worse than %.2f", after.Fitness, before.Fitness)
	}
	if after.Individual.Mutations < before.Individual.Mutations {
		t.Errorf("resumed mutations %d < %d", after.Individual.Mutations, before.Individual.Mutations)
	}
}

func TestWeights(t *testing.T) {
	dir := t.TempDir()
	target := writeTarget(t, dir)
	out := filepath.Join(dir, "w.png")

	execute(t, "weights", target, "-o", out)
	img, err := imageio.LoadImage(out)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 12 || b.Dy() != 8 {
		t.Errorf("weights size = %dx%d, want 12x8", b.Dx(), b.Dy())
	}
}

func TestRunRejectsBadFlags(t *testing.T) {
	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"run", "x.png", "--store", "redis"})
	if err := root.ExecuteContext(context.Background()); err == nil {
		t.Error("expected an error for an unknown store")
	}
}
