/**
 * Copyright 2024 Robert Cronin
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     https://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package backend is the facade in front of the three concrete code
// generators: it names them, generates their output strings, and copies
// each one's asset tree into the output directory around them.
package backend

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/backend/cbackend"
	"github.com/openabl/openabl/pkg/backend/flamebackend"
	"github.com/openabl/openabl/pkg/backend/masonbackend"
)

// Generator produces the backend-specific source files for a script, keyed
// by the relative path they should be written to under outputDir.
type Generator func(s *ast.Script) map[string]string

var registry = map[string]Generator{
	"c":     cbackend.Generate,
	"flame": flamebackend.Generate,
	"mason": masonbackend.Generate,
}

// Names returns every registered backend name in deterministic sort order
// (so help text and error messages are stable run to run).
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ErrUnsupportedBackend names an unregistered backend.
type ErrUnsupportedBackend struct{ Name string }

func (e *ErrUnsupportedBackend) Error() string {
	return fmt.Sprintf("unsupported backend %q (known: %v)", e.Name, Names())
}

// Generate renders name's sources for script and writes them under
// outputDir, after copying assetDir/<name>'s template tree there first so
// generated files can overwrite placeholder copies. It returns
// ErrUnsupportedBackend for an unknown name, otherwise any I/O error
// encountered.
func Generate(name string, s *ast.Script, outputDir, assetDir string) error {
	gen, ok := registry[name]
	if !ok {
		return &ErrUnsupportedBackend{Name: name}
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return err
	}

	assetSrc := filepath.Join(assetDir, name)
	if info, err := os.Stat(assetSrc); err == nil && info.IsDir() {
		if err := copyTree(assetSrc, outputDir); err != nil {
			return err
		}
	}

	for relPath, content := range gen(s) {
		dst := filepath.Join(outputDir, relPath)
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return err
		}
		if err := os.WriteFile(dst, []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

// copyTree copies every regular file under src into dst, preserving the
// relative path, in sorted order so behavior never depends on the host
// filesystem's directory-read order.
func copyTree(src, dst string) error {
	var paths []string
	if err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			paths = append(paths, path)
		}
		return nil
	}); err != nil {
		return err
	}
	sort.Strings(paths)

	for _, path := range paths {
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		if err := copyFile(path, filepath.Join(dst, rel)); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}
