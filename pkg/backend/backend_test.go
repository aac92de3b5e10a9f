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

package backend_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/openabl/openabl/pkg/analysis"
	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/backend"
	"github.com/openabl/openabl/pkg/parser"
)

func parsedScript(t *testing.T) *ast.Script {
	t.Helper()
	s, err := parser.Parse(`function f() {}`)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	if errs := analysis.New().Analyze(s, nil); errs.HasErrors() {
		t.Fatalf("unexpected analysis errors: %v", errs.Errors())
	}
	return s
}

func TestNamesIsSortedAndComplete(t *testing.T) {
	names := backend.Names()
	want := []string{"c", "flame", "mason"}
	if len(names) != len(want) {
		t.Fatalf("expected %v, got %v", want, names)
	}
	for i, n := range want {
		if names[i] != n {
			t.Fatalf("expected %v, got %v", want, names)
		}
	}
}

func TestGenerateUnknownBackend(t *testing.T) {
	err := backend.Generate("nonexistent", parsedScript(t), t.TempDir(), t.TempDir())
	if err == nil {
		t.Fatalf("expected an error for an unknown backend")
	}
	if _, ok := err.(*backend.ErrUnsupportedBackend); !ok {
		t.Fatalf("expected *backend.ErrUnsupportedBackend, got %T", err)
	}
}

func TestGenerateCopiesAssetsAndWritesGeneratedFiles(t *testing.T) {
	assetRoot := t.TempDir()
	assetDir := filepath.Join(assetRoot, "c")
	if err := os.MkdirAll(assetDir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(assetDir, "Makefile"), []byte("all:\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir := t.TempDir()
	if err := backend.Generate("c", parsedScript(t), outDir, assetRoot); err != nil {
		t.Fatalf("unexpected error: %s", err)
	}

	if _, err := os.Stat(filepath.Join(outDir, "Makefile")); err != nil {
		t.Fatalf("expected copied Makefile: %s", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "main.c")); err != nil {
		t.Fatalf("expected generated main.c: %s", err)
	}
}
