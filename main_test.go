package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jessevdk/go-flags"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtui/config"
	appmodel "rtui/model"
	"rtui/provider/testutil"
	"rtui/research"
	"rtui/storage"
)

func TestParseOptions(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		want     Options
		headless bool
		wantErr  bool
	}{
		{name: "no flags", args: []string{}, want: Options{}},
		{name: "prompt short", args: []string{"-p", "research apples"}, want: Options{Prompt: "research apples"}, headless: true},
		{name: "prompt long with model", args: []string{"--prompt=hi", "--model", "gpt-4o-mini"}, want: Options{Prompt: "hi", Model: "gpt-4o-mini"}, headless: true},
		{name: "version", args: []string{"-v"}, want: Options{Version: true}},
		{name: "stray argument", args: []string{"hello"}, wantErr: true},
		{name: "unknown flag", args: []string{"--nope"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts, err := parseOptions(tt.args)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, *opts)
			assert.Equal(t, tt.headless, opts.Headless())
		})
	}
}

func TestParseOptionsHelp(t *testing.T) {
	_, err := parseOptions([]string{"--help"})
	require.Error(t, err)
	assert.True(t, flags.WroteHelp(err))
}

func newHeadlessApp(t *testing.T, provider appmodel.Provider) *appmodel.Model {
	t.Helper()
	cfg := &config.Config{
		ProviderType:    config.ProviderOpenAI,
		DefaultModel:    "m1",
		ReportDirectory: t.TempDir(),
		KeyBindings:     config.DefaultKeybindings(),
	}
	ctx := context.Background()
	history, err := storage.OpenHistory(ctx, t.TempDir())
	require.NoError(t, err)
	session, err := appmodel.NewSession(ctx, history)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	assistant := research.NewAssistant(provider, nil, 0)
	return appmodel.NewModel(cfg, provider, session, assistant, storage.NewReportExporter(), Version)
}

func TestRunHeadlessPlain(t *testing.T) {
	provider := testutil.NewScriptedProvider(
		testutil.Step{Response: testutil.FinalResponse("r1", "Paris.")},
	)
	app := newHeadlessApp(t, provider)

	var out, errOut bytes.Buffer
	err := runHeadless(context.Background(), app, "What's the capital of France?", &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, "Paris.\n", out.String())
	assert.Empty(t, errOut.String())
	assert.Len(t, app.Session.History(), 2)

	entries, err := os.ReadDir(app.Config.ReportDir())
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRunHeadlessResearchSavesReport(t *testing.T) {
	provider := testutil.NewScriptedProvider(
		testutil.Step{Response: testutil.FinalResponse("r1", "Apple Inc. was founded in 1976.")},
	)
	app := newHeadlessApp(t, provider)

	var out, errOut bytes.Buffer
	err := runHeadless(context.Background(), app, "Research the Apple Company", &out, &errOut)
	require.NoError(t, err)

	assert.Equal(t, "Apple Inc. was founded in 1976.\n", out.String())

	path := filepath.Join(app.Config.ReportDir(), appmodel.ReportFileName)
	assert.Contains(t, errOut.String(), path)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "Apple Inc. was founded in 1976.", string(data))
}

func TestRunHeadlessFailure(t *testing.T) {
	provider := testutil.NewScriptedProvider(
		testutil.Step{Err: assert.AnError},
	)
	app := newHeadlessApp(t, provider)

	var out, errOut bytes.Buffer
	err := runHeadless(context.Background(), app, "hello", &out, &errOut)
	require.ErrorIs(t, err, assert.AnError)
	assert.Empty(t, out.String())
	assert.Nil(t, app.Report())

	history := app.Session.History()
	require.Len(t, history, 1)
	assert.Equal(t, appmodel.RoleUser, history[0].Role)
}

func TestStartupErrorMessage(t *testing.T) {
	cfg := &config.Config{ProviderType: config.ProviderAnthropic, DataDirectory: "/tmp/rtui"}
	msg := startupErrorMessage(cfg, config.ErrMissingAPIKey)
	assert.Contains(t, msg, "Anthropic")
	assert.Contains(t, msg, "ANTHROPIC_API_KEY")
	assert.Contains(t, msg, "rtui --set-key anthropic")
}

func TestStoreAPIKey(t *testing.T) {
	dataDir := t.TempDir()
	cfg := &config.Config{
		DataDirectory:   dataDir,
		ProviderType:    config.ProviderOpenAI,
		CredentialStore: config.NewCredentialStore(config.SecurityPlainText, ""),
	}

	require.NoError(t, storeAPIKey(cfg, config.ProviderOpenAI, strings.NewReader("sk-test\n")))
	assert.Equal(t, "sk-test", cfg.APIKey())
	assert.FileExists(t, filepath.Join(dataDir, "credentials.toml"))

	assert.Error(t, storeAPIKey(cfg, config.ProviderOpenAI, strings.NewReader("\n")))
	assert.Error(t, storeAPIKey(cfg, "nope", strings.NewReader("sk-test")))
}
