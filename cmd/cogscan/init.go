package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/cogscan/cogscan/internal/config"
	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a cogscan configuration file",
		Long: `Generate a documented cogscan configuration file with sensible defaults.

By default, creates cogscan.yaml in the current directory with full
documentation. Use --interactive for a guided setup wizard.

Examples:
  # Create cogscan.yaml in current directory
  cogscan init

  # Custom output path
  cogscan init --config custom.yaml

  # Overwrite existing file
  cogscan init --force

  # Generate smaller config with essential options only
  cogscan init --minimal

  # Interactive setup wizard
  cogscan init --interactive
  cogscan init -i`,
		RunE: runInit,
	}

	cmd.Flags().StringP("config", "c", "cogscan.yaml",
		"Output path for the config file")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing config file")
	cmd.Flags().Bool("minimal", false,
		"Generate minimal config with essential options only")
	cmd.Flags().BoolP("interactive", "i", false,
		"Interactive setup wizard")

	return cmd
}

func runInit(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	force, _ := cmd.Flags().GetBool("force")
	minimal, _ := cmd.Flags().GetBool("minimal")
	interactive, _ := cmd.Flags().GetBool("interactive")

	var projectType config.ProjectType = config.ProjectTypeGeneric
	var strictness config.Strictness = config.StrictnessStandard

	if interactive {
		var err error
		var interactiveConfigPath string
		projectType, strictness, interactiveConfigPath, err = runInteractiveSetup(configPath)
		if err != nil {
			return err
		}
		configPath = interactiveConfigPath
	}

	if !force {
		if _, err := os.Stat(configPath); err == nil {
			return fmt.Errorf("%s already exists. Use --force to overwrite", configPath)
		}
	}

	dir := filepath.Dir(configPath)
	if dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("directory does not exist: %s", dir)
		}
	}

	var content string
	if minimal {
		content = config.GetMinimalConfigTemplate()
	} else {
		content = config.GetFullConfigTemplate(projectType, strictness)
	}

	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	displayPath := configPath
	if absPath, err := filepath.Abs(configPath); err == nil {
		displayPath = absPath
	}
	fmt.Printf("Created %s\n", displayPath)
	fmt.Println("\nRun 'cogscan analyze .' to score your project.")

	return nil
}

// wizardChoice is one selectable entry in the setup wizard
type wizardChoice struct {
	Label       string
	Description string
	value       string
}

// selectChoice runs one select prompt and returns the chosen value
func selectChoice(label string, choices []wizardChoice) (string, error) {
	prompt := promptui.Select{
		Label: label,
		Items: choices,
		Templates: &promptui.SelectTemplates{
			Label:    "{{ . }}",
			Active:   "> {{ .Label | cyan }}  {{ .Description | faint }}",
			Inactive: "  {{ .Label }}  {{ .Description | faint }}",
			Selected: "{{ .Label | green }}",
		},
	}

	idx, _, err := prompt.Run()
	if err != nil {
		return "", err
	}
	return choices[idx].value, nil
}

// strictnessChoices lists the strictness levels with the function tier
// limits each preset actually applies
func strictnessChoices() []wizardChoice {
	presets := config.GetStrictnessPresets()
	tiers := func(s config.Strictness) string {
		p := presets[s]
		return fmt.Sprintf("function tiers %d/%d/%d", p.FuncLow, p.FuncMedium, p.FuncHigh)
	}

	return []wizardChoice{
		{"Standard (recommended)", tiers(config.StrictnessStandard), string(config.StrictnessStandard)},
		{"Relaxed", tiers(config.StrictnessRelaxed), string(config.StrictnessRelaxed)},
		{"Strict", tiers(config.StrictnessStrict), string(config.StrictnessStrict)},
	}
}

func runInteractiveSetup(defaultConfigPath string) (config.ProjectType, config.Strictness, string, error) {
	fmt.Println()
	fmt.Println("cogscan configuration setup")
	fmt.Println()

	projectChoices := []wizardChoice{
		{"Generic JavaScript/TypeScript", "default patterns", string(config.ProjectTypeGeneric)},
		{"React/Next.js", "excludes .next, coverage, stories", string(config.ProjectTypeReact)},
		{"Vue/Nuxt", "includes .vue files", string(config.ProjectTypeVue)},
		{"Node.js backend", "excludes logs, tmp", string(config.ProjectTypeNodeBackend)},
	}
	project, err := selectChoice("What type of project is this?", projectChoices)
	if err != nil {
		return "", "", "", fmt.Errorf("setup cancelled: %w", err)
	}

	strictness, err := selectChoice("How strict should the scoring be?", strictnessChoices())
	if err != nil {
		return "", "", "", fmt.Errorf("setup cancelled: %w", err)
	}

	pathPrompt := promptui.Prompt{
		Label:   "Config file path",
		Default: defaultConfigPath,
	}
	outputPath, err := pathPrompt.Run()
	if err != nil {
		return "", "", "", fmt.Errorf("setup cancelled: %w", err)
	}
	if outputPath == "" {
		outputPath = defaultConfigPath
	}

	return config.ProjectType(project), config.Strictness(strictness), outputPath, nil
}
