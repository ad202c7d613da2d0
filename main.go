package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/jessevdk/go-flags"

	"rtui/config"
	appmodel "rtui/model"
	"rtui/provider"
	"rtui/research"
	"rtui/storage"
	"rtui/tools"
	"rtui/ui"
)

const Version = "v0.1.0"

func main() {
	opts, err := parseOptions(os.Args[1:])
	if err != nil {
		if flags.WroteHelp(err) {
			fmt.Println(err)
			os.Exit(0)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
	if opts.Version {
		fmt.Println("rtui " + Version)
		return
	}
	os.Exit(run(opts))
}

func run(opts *Options) int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize debug logging after config is loaded
	config.InitDebugLog(cfg.DataDir())

	if opts.SetKey != "" {
		if err := storeAPIKey(cfg, opts.SetKey, os.Stdin); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		fmt.Fprintf(os.Stderr, "Stored API key for %s\n", config.ProviderDisplayName(opts.SetKey))
		return 0
	}

	if opts.Model != "" {
		cfg.DefaultModel = opts.Model
	}

	if err := cfg.Validate(); err != nil {
		if config.DebugLog != nil {
			config.DebugLog.Printf("[Main] Startup precondition failed: %v", err)
		}
		if errors.Is(err, config.ErrMissingAPIKey) && !opts.Headless() {
			showStartupError(cfg, err)
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", startupErrorMessage(cfg, err))
		}
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	history, err := storage.OpenHistory(ctx, cfg.DataDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open history: %v\n", err)
		return 1
	}
	session, err := appmodel.NewSession(ctx, history)
	if err != nil {
		history.Close()
		fmt.Fprintf(os.Stderr, "Failed to load history: %v\n", err)
		return 1
	}
	defer func() {
		if err := session.Close(); err != nil && config.DebugLog != nil {
			config.DebugLog.Printf("[Main] Warning: failed to close history: %v", err)
		}
	}()

	p, err := provider.FromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize provider: %v\n", err)
		return 1
	}

	assistant := research.NewAssistant(p, tools.NewRegistryFromConfig(cfg), cfg.ToolTimeout)
	app := appmodel.NewModel(cfg, p, session, assistant, storage.NewReportExporter(), Version)

	if opts.Headless() {
		if err := runHeadless(ctx, app, opts.Prompt, os.Stdout, os.Stderr); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return 1
		}
		return 0
	}

	program := tea.NewProgram(
		ui.NewAppView(app),
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		fmt.Fprintf(os.Stderr, "Error running program: %v\n", err)
		return 1
	}
	app.CancelTurn()
	return 0
}

func startupErrorMessage(cfg *config.Config, err error) string {
	if !errors.Is(err, config.ErrMissingAPIKey) {
		return err.Error()
	}
	return fmt.Sprintf("No API key found for %s.\n\n"+
		"Set RTUI_API_KEY (or %s), or store it with\n"+
		"rtui --set-key %s < keyfile, then start rtui again.",
		config.ProviderDisplayName(cfg.ProviderType),
		providerKeyEnv(cfg.ProviderType),
		cfg.ProviderType)
}

// storeAPIKey reads one key from r and saves it in the credential store.
func storeAPIKey(cfg *config.Config, providerID string, r io.Reader) error {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("failed to read API key: %w", err)
	}
	key := strings.TrimSpace(line)
	if key == "" {
		return fmt.Errorf("no API key given on stdin")
	}
	return config.SetAPIKey(cfg, providerID, key)
}

func providerKeyEnv(providerType string) string {
	if providerType == config.ProviderAnthropic {
		return "ANTHROPIC_API_KEY"
	}
	return "OPENAI_API_KEY"
}

func showStartupError(cfg *config.Config, err error) {
	errorModal := ui.NewErrorModal("API Key Required", startupErrorMessage(cfg, err))
	p := tea.NewProgram(
		errorModal,
		tea.WithAltScreen(),
	)
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}
