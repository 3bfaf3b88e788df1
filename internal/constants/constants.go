package constants

// Tool name and related constants
const (
	// ToolName is the name of this tool
	ToolName = "cogscan"

	// ConfigFileName is the default config file name
	ConfigFileName = "cogscan.yaml"

	// EnvVarPrefix is the prefix for environment variables
	EnvVarPrefix = "COGSCAN"
)
