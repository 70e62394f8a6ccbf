// Package openscad renders OpenSCAD sources to STL with the openscad binary
// and tracks the files a source pulls in.
package openscad

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// ErrNotInstalled is returned when the openscad binary is not on PATH
var ErrNotInstalled = errors.New("openscad not found in PATH")

// dependencyPattern matches use <file> and include <file> statements
var dependencyPattern = regexp.MustCompile(`^\s*(?:use|include)\s*<([^>]+)>`)

// Renderer resolves sources and library paths relative to a work directory
type Renderer struct {
	workDir string
	binary  string
}

// NewRenderer creates a renderer rooted at workDir
func NewRenderer(workDir string) *Renderer {
	return &Renderer{workDir: workDir, binary: "openscad"}
}

func (r *Renderer) abs(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(r.workDir, path)
}

// RenderToSTL runs openscad to write source as STL to output
func (r *Renderer) RenderToSTL(ctx context.Context, source, output string) error {
	bin, err := exec.LookPath(r.binary)
	if err != nil {
		return ErrNotInstalled
	}

	cmd := exec.CommandContext(ctx, bin, "-o", output, r.abs(source))
	cmd.Dir = r.workDir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			return fmt.Errorf("failed to render %s: %w", source, err)
		}
		return fmt.Errorf("failed to render %s: %w: %s", source, err, msg)
	}
	return nil
}

// Dependencies returns source followed by every file it uses or includes,
// transitively and without repeats
func (r *Renderer) Dependencies(source string) ([]string, error) {
	var deps []string
	visited := make(map[string]bool)

	var walk func(path string) error
	walk = func(path string) error {
		if visited[path] {
			return nil
		}
		visited[path] = true
		deps = append(deps, path)

		direct, err := r.parse(path)
		if err != nil {
			return err
		}
		for _, d := range direct {
			if err := walk(d); err != nil {
				return err
			}
		}
		return nil
	}

	if err := walk(filepath.Clean(r.abs(source))); err != nil {
		return nil, err
	}
	return deps, nil
}

// parse lists the direct dependencies of one file
func (r *Renderer) parse(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var deps []string
	dir := filepath.Dir(path)
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(strings.TrimSpace(line), "//") {
			continue
		}
		if m := dependencyPattern.FindStringSubmatch(line); m != nil {
			deps = append(deps, r.resolve(m[1], dir))
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return deps, nil
}

// resolve looks a dependency up next to the including file, then in the work directory
func (r *Renderer) resolve(dep, dir string) string {
	local := filepath.Join(dir, dep)
	if strings.HasPrefix(dep, "./") || strings.HasPrefix(dep, "../") {
		return filepath.Clean(local)
	}
	if _, err := os.Stat(local); err == nil {
		return filepath.Clean(local)
	}
	return filepath.Clean(r.abs(dep))
}
