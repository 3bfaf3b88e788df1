package config

import (
	"fmt"
	"strings"
)

// ProjectType represents the type of JavaScript/TypeScript project
type ProjectType string

const (
	ProjectTypeGeneric     ProjectType = "generic"
	ProjectTypeReact       ProjectType = "react"
	ProjectTypeVue         ProjectType = "vue"
	ProjectTypeNodeBackend ProjectType = "node"
)

// Strictness represents the scoring strictness level
type Strictness string

const (
	StrictnessRelaxed  Strictness = "relaxed"
	StrictnessStandard Strictness = "standard"
	StrictnessStrict   Strictness = "strict"
)

// ProjectPreset holds file patterns for different project types
type ProjectPreset struct {
	IncludePatterns []string
	ExcludePatterns []string
}

// StrictnessPreset holds threshold values for different strictness levels
type StrictnessPreset struct {
	FileLow    int
	FileMedium int
	FileHigh   int
	FuncLow    int
	FuncMedium int
	FuncHigh   int
}

// GetProjectPresets returns presets for different project types
func GetProjectPresets() map[ProjectType]ProjectPreset {
	base := ProjectPreset{
		IncludePatterns: []string{
			"**/*.js",
			"**/*.ts",
			"**/*.jsx",
			"**/*.tsx",
		},
		ExcludePatterns: []string{
			"**/node_modules/**",
			"**/dist/**",
			"**/build/**",
			"**/*.min.js",
			"**/*.bundle.js",
		},
	}

	react := base
	react.ExcludePatterns = append(append([]string{}, base.ExcludePatterns...),
		"**/.next/**",
		"**/coverage/**",
		"**/*.stories.tsx",
	)

	vue := base
	vue.IncludePatterns = append(append([]string{}, base.IncludePatterns...), "**/*.vue")
	vue.ExcludePatterns = append(append([]string{}, base.ExcludePatterns...), "**/.nuxt/**")

	node := base
	node.ExcludePatterns = append(append([]string{}, base.ExcludePatterns...),
		"**/logs/**",
		"**/tmp/**",
	)

	return map[ProjectType]ProjectPreset{
		ProjectTypeGeneric:     base,
		ProjectTypeReact:       react,
		ProjectTypeVue:         vue,
		ProjectTypeNodeBackend: node,
	}
}

// GetStrictnessPresets returns threshold presets for each strictness level
func GetStrictnessPresets() map[Strictness]StrictnessPreset {
	return map[Strictness]StrictnessPreset{
		StrictnessRelaxed: {
			FileLow: 10, FileMedium: 25, FileHigh: 40,
			FuncLow: 8, FuncMedium: 15, FuncHigh: 25,
		},
		StrictnessStandard: {
			FileLow: 5, FileMedium: 15, FileHigh: 25,
			FuncLow: 5, FuncMedium: 10, FuncHigh: 20,
		},
		StrictnessStrict: {
			FileLow: 3, FileMedium: 10, FileHigh: 18,
			FuncLow: 3, FuncMedium: 7, FuncHigh: 12,
		},
	}
}

// GetFullConfigTemplate renders a commented YAML config for the given presets
func GetFullConfigTemplate(projectType ProjectType, strictness Strictness) string {
	project, ok := GetProjectPresets()[projectType]
	if !ok {
		project = GetProjectPresets()[ProjectTypeGeneric]
	}
	levels, ok := GetStrictnessPresets()[strictness]
	if !ok {
		levels = GetStrictnessPresets()[StrictnessStandard]
	}

	return fmt.Sprintf(`# cogscan configuration
# Project type: %s, strictness: %s

complexity:
  # Severity boundaries for file totals
  file_thresholds:
    low: %d
    medium: %d
    high: %d

  # Stricter boundaries applied per function
  function_thresholds:
    low: %d
    medium: %d
    high: %d

  # How nested function bodies are scored: separate or fold
  nested_functions: separate

output:
  # text, json, yaml, csv
  format: text
  sort_by: complexity
  show_details: false
  min_score: 0

analysis:
  recursive: true
  respect_gitignore: true
  include_patterns:
%s
  exclude_patterns:
%s
`,
		projectType, strictness,
		levels.FileLow, levels.FileMedium, levels.FileHigh,
		levels.FuncLow, levels.FuncMedium, levels.FuncHigh,
		formatYAMLList(project.IncludePatterns),
		formatYAMLList(project.ExcludePatterns),
	)
}

// GetMinimalConfigTemplate renders a minimal config with defaults only
func GetMinimalConfigTemplate() string {
	return `# cogscan configuration
complexity:
  file_thresholds:
    low: 5
    medium: 15
    high: 25
  function_thresholds:
    low: 5
    medium: 10
    high: 20
`
}

func formatYAMLList(items []string) string {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(fmt.Sprintf("    - %q\n", item))
	}
	return strings.TrimRight(b.String(), "\n")
}
