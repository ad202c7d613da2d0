package main

import (
	"fmt"
	"strings"

	"github.com/jessevdk/go-flags"
)

// Options are the command line flags. The struct tags are interpreted by
// github.com/jessevdk/go-flags.
type Options struct {
	Prompt  string `short:"p" long:"prompt" description:"Run a single turn without the UI and print the answer"`
	Model   string `short:"m" long:"model" description:"Model to use instead of the configured one"`
	SetKey  string `long:"set-key" value-name:"PROVIDER" description:"Read an API key from stdin and store it for PROVIDER"`
	Version bool   `short:"v" long:"version" description:"Print the version and exit"`
}

// Headless reports whether a single turn should run without the UI.
func (o *Options) Headless() bool {
	return o.Prompt != ""
}

func parseOptions(args []string) (*Options, error) {
	opts := &Options{}
	parser := flags.NewParser(opts, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = "rtui"
	rest, err := parser.ParseArgs(args)
	if err != nil {
		return nil, err
	}
	if len(rest) > 0 {
		return nil, fmt.Errorf("unexpected arguments: %s", strings.Join(rest, " "))
	}
	return opts, nil
}
