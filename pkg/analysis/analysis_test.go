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

package analysis_test

import (
	"testing"

	"github.com/openabl/openabl/pkg/analysis"
	"github.com/openabl/openabl/pkg/ast"
	"github.com/openabl/openabl/pkg/constfold"
	"github.com/openabl/openabl/pkg/errors"
	"github.com/openabl/openabl/pkg/parser"
	"github.com/openabl/openabl/pkg/types"
)

func mustParse(t *testing.T, src string) *ast.Script {
	t.Helper()
	script, err := parser.Parse(src)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	return script
}

func TestMinimalAgentAndStep(t *testing.T) {
	script := mustParse(t, `
		agent Boid { position vec2 p; vec2 v; }
		step boid_step(Boid self) { self.p = self.p + self.v; }
	`)

	errs := analysis.New().Analyze(script, nil)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	fn := script.Funcs["boid_step"]
	if fn == nil || !fn.IsStep {
		t.Fatalf("expected boid_step to be recognized as a step function")
	}
	if !fn.StepAgentType.Equal(types.AgentOf(script.Agents["Boid"])) {
		t.Fatalf("expected stepAgent to be Boid, got %s", fn.StepAgentType)
	}
	if !fn.AccessedMembers["p"] || !fn.AccessedMembers["v"] {
		t.Fatalf("expected accessedMembers {p, v}, got %v", fn.AccessedMembers)
	}
}

func TestNeighborhoodLoopRecordsRadius(t *testing.T) {
	script := mustParse(t, `
		agent Boid { position vec2 p; vec2 v; }
		step s(Boid self) { for (Boid o in near(self, 1.5)) { self.v = self.v + (o.p - self.p); } }
	`)

	errs := analysis.New().Analyze(script, nil)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	fn := script.Funcs["s"]
	if len(fn.Radiuses) != 1 || fn.Radiuses[0] != 1.5 {
		t.Fatalf("expected radius list [1.5], got %v", fn.Radiuses)
	}
}

func TestScalarLeftVectorMultiplyTypechecks(t *testing.T) {
	script := mustParse(t, `
		function f() {
			vec2 a = vec2(1.0, 2.0);
			float s = 2.0;
			vec2 b = s * a;
		}
	`)

	errs := analysis.New().Analyze(script, nil)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}
}

func TestOverloadResolution(t *testing.T) {
	script := mustParse(t, `
		function f() {
			vec3 a = vec3(1.0, 2.0, 3.0);
			vec3 b = vec3(4.0, 5.0, 6.0);
			vec3 r1 = random(a, b);
			float r2 = random(0.0, 1.0);
		}
	`)
	errs := analysis.New().Analyze(script, nil)
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	script2 := mustParse(t, `
		agent Boid { position vec2 p; }
		function f() {
			vec3 b = vec3(4.0, 5.0, 6.0);
			vec3 r = random(0.0, b);
		}
	`)
	errs2 := analysis.New().Analyze(script2, nil)
	if !errs2.HasErrors() {
		t.Fatalf("expected NoMatchingOverload for random(float, vec3)")
	}
	found := false
	for _, e := range errs2.Errors() {
		if e.Kind == errors.NoMatchingOverload {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a NoMatchingOverload diagnostic, got %v", errs2.Errors())
	}
}

func TestConstParameterOverride(t *testing.T) {
	script := mustParse(t, `const int N = 100;`)

	errs := analysis.New().Analyze(script, map[string]string{"N": "1024"})
	if errs.HasErrors() {
		t.Fatalf("unexpected errors: %v", errs.Errors())
	}

	entry := script.Scope.Get(script.Consts[0].Name.Id)
	folded, ok := entry.Value.(constfold.Value)
	if !ok || folded.I != 1024 {
		t.Fatalf("expected N to be overridden to 1024, got %#v", entry.Value)
	}
}

func TestRedeclarationError(t *testing.T) {
	script := mustParse(t, `
		agent Boid { position vec2 p; }
		agent Boid { position vec2 p; }
	`)

	errs := analysis.New().Analyze(script, nil)
	count := 0
	for _, e := range errs.Errors() {
		if e.Kind == errors.Redeclaration {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("expected exactly one Redeclaration error, got %d (%v)", count, errs.Errors())
	}
}
