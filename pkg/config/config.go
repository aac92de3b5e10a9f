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

// Package config loads the optional project file (asset dir/default
// backend) and composes the const-parameter override map the analyzer
// consumes from a JSON params file plus repeated -D NAME=VALUE flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Project is the optional "openabl.yaml" sitting next to a source file:
// defaults for flags the user would otherwise repeat on every invocation.
type Project struct {
	Backend  string `yaml:"backend"`
	AssetDir string `yaml:"assetDir"`
}

// LoadProject reads and parses path. A missing file is not an error — it
// simply yields a zero Project so callers fall back to built-in defaults.
func LoadProject(path string) (Project, error) {
	var p Project
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := yaml.Unmarshal(data, &p); err != nil {
		return p, fmt.Errorf("parsing %s: %w", path, err)
	}
	return p, nil
}

// LoadParams builds the name→literal override map the analyzer's const
// folding consults. paramsFile (optional, "" to skip) supplies a flat JSON
// object of overrides; each "-D NAME=VALUE" in defines is then applied on
// top, letting a one-off flag win over the checked-in file.
func LoadParams(paramsFile string, defines []string) (map[string]string, error) {
	doc := "{}"
	if paramsFile != "" {
		data, err := os.ReadFile(paramsFile)
		if err != nil {
			return nil, err
		}
		if !gjson.ValidBytes(data) {
			return nil, fmt.Errorf("%s is not valid JSON", paramsFile)
		}
		doc = string(data)
	}

	for _, d := range defines {
		name, value, ok := strings.Cut(d, "=")
		if !ok {
			return nil, fmt.Errorf("-D %q is not in NAME=VALUE form", d)
		}
		var err error
		doc, err = sjson.Set(doc, name, value)
		if err != nil {
			return nil, fmt.Errorf("applying -D %s: %w", d, err)
		}
	}

	overrides := map[string]string{}
	result := gjson.Parse(doc)
	if !result.IsObject() {
		return nil, fmt.Errorf("params must be a flat JSON object")
	}
	result.ForEach(func(key, value gjson.Result) bool {
		overrides[key.String()] = value.String()
		return true
	})
	return overrides, nil
}
