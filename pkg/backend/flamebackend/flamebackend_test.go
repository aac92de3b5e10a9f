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

package flamebackend_test

import (
	"testing"

	"github.com/gkampitakis/go-snaps/snaps"
	"github.com/openabl/openabl/pkg/analysis"
	"github.com/openabl/openabl/pkg/backend/flamebackend"
	"github.com/openabl/openabl/pkg/parser"
)

const boidScript = `
agent Boid {
	position vec2 p;
	vec2 v;
}

step boid_step(Boid self) {
	vec2 accum = vec2(0.0, 0.0);
	for (Boid o in near(self, 5.0)) {
		accum = accum + (o.p - self.p);
	}
	self.v = self.v + accum;
	self.p = self.p + self.v;
}
`

func TestGenerateBoidScript(t *testing.T) {
	script, err := parser.Parse(boidScript)
	if err != nil {
		t.Fatalf("parse error: %s", err)
	}
	if errs := analysis.New().Analyze(script, nil); errs.HasErrors() {
		t.Fatalf("unexpected analysis errors: %v", errs.Errors())
	}

	files := flamebackend.Generate(script)
	functions, ok := files["functions.c"]
	if !ok {
		t.Fatalf("expected functions.c in generated output")
	}
	snaps.MatchSnapshot(t, functions)
}
