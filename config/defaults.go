package config

func DefaultSystemConfig() *SystemConfig {
	return &SystemConfig{
		DataDirectory: "~/.local/share/rtui",
	}
}

func DefaultUserConfig() *UserConfig {
	return &UserConfig{
		Provider: ProviderConfig{
			Type:   ProviderOpenAI,
			Model:  "gpt-5-nano",
			Models: ModelChoicesFor(ProviderOpenAI),
		},
		Research: ResearchConfig{
			ToolTimeout:       "60s",
			UserAgent:         "MyAgent/0.1",
			WikipediaLanguage: "en",
		},
		Security: SecurityConfig{
			Method: string(SecurityPlainText),
		},
		ReportDirectory: "~/Downloads",
	}
}

func GenerateSystemConfigTemplate() string {
	return `# rtui System Configuration
# Location: ~/.config/rtui/settings.toml
# This file uses TOML format: https://toml.io

# Directory where history, credentials and user config are stored
data_directory = "~/.local/share/rtui"
`
}

func GenerateUserConfigTemplate() string {
	return `# rtui User Configuration
# Location: <data_directory>/config.toml
# This file uses TOML format: https://toml.io

# Where "ctrl+s" saves research_report.txt
report_directory = "~/Downloads"

[provider]
# One of: openai, anthropic, ollama
type = "openai"

# Leave empty for the provider default
# base_url = "https://api.openai.com/v1"

# Model used on startup, and the choices cycled with ctrl+o
model = "gpt-5-nano"
models = ["gpt-5-nano", "gpt-4o-mini"]

[research]
# Per tool call timeout ("0s" disables). A timed out call is reported
# back to the model as an error instead of stalling the round.
tool_timeout = "60s"

# Sent with every Wikipedia, DuckDuckGo and scrape request
user_agent = "MyAgent/0.1"

wikipedia_language = "en"

[security]
# "plaintext" stores API keys in credentials.toml (0600)
# "ssh_key" encrypts them into credentials.enc with a key derived from ssh_key_path
method = "plaintext"
# ssh_key_path = "~/.ssh/id_ed25519"
`
}
