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

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/openabl/openabl/pkg/analysis"
	"github.com/openabl/openabl/pkg/backend"
	"github.com/openabl/openabl/pkg/config"
	"github.com/openabl/openabl/pkg/console"
	"github.com/openabl/openabl/pkg/logger"
	"github.com/openabl/openabl/pkg/parser"
	"github.com/spf13/cobra"
)

var (
	inputFile   string
	outputDir   string
	backendName string
	assetDir    string
	paramsFile  string
	defines     []string
	logLevel    string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "openabl",
		Short: "OpenABL source-to-source compiler",
		Long:  `OpenABL compiles an agent-based-simulation script to one of several target frameworks.`,
	}

	rootCmd.PersistentFlags().StringVarP(&logLevel, "loglevel", "l", "info", "Log level (debug, info, warn, error)")

	buildCmd := &cobra.Command{
		Use:   "build",
		Short: "Compile a script to a target framework's project",
		Run:   runBuild,
	}
	buildCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input script")
	buildCmd.Flags().StringVarP(&outputDir, "output-dir", "o", "", "Destination directory")
	buildCmd.Flags().StringVarP(&backendName, "backend", "b", "c", "Target backend")
	buildCmd.Flags().StringVarP(&assetDir, "asset-dir", "A", "./asset", "Backend asset/template directory")
	buildCmd.Flags().StringVarP(&paramsFile, "params-file", "P", "", "JSON file of const-parameter overrides")
	buildCmd.Flags().StringArrayVarP(&defines, "define", "D", nil, "Const-parameter override, NAME=VALUE (repeatable)")
	buildCmd.MarkFlagRequired("input")
	buildCmd.MarkFlagRequired("output-dir")

	checkCmd := &cobra.Command{
		Use:   "check",
		Short: "Parse and analyze a script without generating code",
		Run:   runCheck,
	}
	checkCmd.Flags().StringVarP(&inputFile, "input", "i", "", "Input script")
	checkCmd.MarkFlagRequired("input")

	consoleCmd := &cobra.Command{
		Use:   "console",
		Short: "Start the interactive diagnostic console",
		Run:   runConsole,
	}

	rootCmd.AddCommand(buildCmd, checkCmd, consoleCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func initLogger() {
	logger.Init(logger.ParseLevel(logLevel))
}

// loadProjectDefaults reads an optional openabl.yaml next to inputFile and
// fills in --backend/--asset-dir for any flag the user left at its default,
// so a project doesn't need to repeat them on every invocation.
func loadProjectDefaults(cmd *cobra.Command) {
	if inputFile == "" {
		return
	}
	projectFile := filepath.Join(filepath.Dir(inputFile), "openabl.yaml")
	project, err := config.LoadProject(projectFile)
	if err != nil {
		logger.Log.Errorw("invalid project file", "path", projectFile, "error", err)
		os.Exit(1)
	}
	if project.Backend != "" && !cmd.Flags().Changed("backend") {
		backendName = project.Backend
	}
	if project.AssetDir != "" && !cmd.Flags().Changed("asset-dir") {
		assetDir = project.AssetDir
	}
}

func runBuild(cmd *cobra.Command, args []string) {
	initLogger()
	logger.Log.Info("openabl: starting build")

	loadProjectDefaults(cmd)

	if info, err := os.Stat(assetDir); err != nil || !info.IsDir() {
		logger.Log.Errorw("asset directory does not exist", "assetDir", assetDir)
		os.Exit(1)
	}

	input, err := os.ReadFile(inputFile)
	if err != nil {
		logger.Log.Errorw("cannot read input file", "error", err)
		os.Exit(1)
	}

	script, err := parser.Parse(string(input))
	if err != nil {
		logger.Log.Errorw("syntax error", "error", err)
		os.Exit(1)
	}

	overrides, err := config.LoadParams(paramsFile, defines)
	if err != nil {
		logger.Log.Errorw("invalid parameter override", "error", err)
		os.Exit(1)
	}

	errs := analysis.New().Analyze(script, overrides)
	if errs.HasErrors() {
		errs.PrintTo(os.Stderr)
		os.Exit(1)
	}

	if err := backend.Generate(backendName, script, outputDir, assetDir); err != nil {
		logger.Log.Errorw("code generation failed", "error", err)
		os.Exit(1)
	}

	logger.Log.Info("openabl: build finished")
}

func runCheck(cmd *cobra.Command, args []string) {
	initLogger()

	input, err := os.ReadFile(inputFile)
	if err != nil {
		logger.Log.Errorw("cannot read input file", "error", err)
		os.Exit(1)
	}

	script, err := parser.Parse(string(input))
	if err != nil {
		logger.Log.Errorw("syntax error", "error", err)
		os.Exit(1)
	}

	errs := analysis.New().Analyze(script, nil)
	if errs.HasErrors() {
		errs.PrintTo(os.Stderr)
		os.Exit(1)
	}

	logger.Log.Info("no errors")
}

func runConsole(cmd *cobra.Command, args []string) {
	initLogger()
	logger.Log.Info("openabl: starting console")
	console.Start()
	logger.Log.Info("openabl: console finished")
}
