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

// Package console is an interactive parse-and-analyze diagnostic loop: it
// reads one snippet per line, reports every error the analyzer finds, and
// never executes anything (simulation execution is out of scope).
package console

import (
	"bufio"
	"fmt"
	"os"

	"github.com/openabl/openabl/pkg/analysis"
	"github.com/openabl/openabl/pkg/logger"
	"github.com/openabl/openabl/pkg/parser"
)

func Start() {
	fmt.Println("OpenABL diagnostic console. Type 'exit' to quit.")
	fmt.Println("Each line is parsed and analyzed as a complete, standalone script.")

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print(">> ")
		if !scanner.Scan() {
			break
		}

		line := scanner.Text()
		if line == "exit" {
			break
		}

		script, err := parser.Parse(line)
		if err != nil {
			logger.Log.Errorw("syntax error", "error", err)
			continue
		}

		errs := analysis.New().Analyze(script, nil)
		if errs.HasErrors() {
			for _, e := range errs.Errors() {
				fmt.Println(e.Error())
			}
			continue
		}

		fmt.Println("ok")
	}

	fmt.Println("Goodbye!")
}
