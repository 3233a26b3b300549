// Command genaictl drives the proxy from a terminal the same way the browser page does.
//
// Usage:
//
//	genaictl [flags] tools
//	genaictl [flags] generate <prompt>
//	genaictl [flags] analyze <image-file> <prompt>
//	genaictl [flags] chat <message>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/erauner12/toolbridge-genai/internal/config"
	"github.com/erauner12/toolbridge-genai/internal/gateway/client"
	"github.com/erauner12/toolbridge-genai/internal/ui"
)

var (
	configPath = flag.String("config", "", "Path to configuration file (JSON)")
	proxyURL   = flag.String("proxy", "http://localhost:3000", "Base URL of the proxy server")
	gatewayURL = flag.String("gateway", "", "Base URL of the tool gateway (overrides config)")
	debug      = flag.Bool("debug", false, "Enable debug logging")
)

func main() {
	flag.Usage = usage
	flag.Parse()

	if flag.NArg() == 0 {
		usage()
		os.Exit(2)
	}

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	config.SetupLogging(cfg, "genaictl")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	gateway := client.New(cfg.GatewayURL, cfg.GatewayTimeout.Std())
	c := ui.NewController(*proxyURL, gateway, nil)

	if err := run(ctx, c, gateway, flag.Args()); err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage:\n  genaictl [flags] tools\n  genaictl [flags] generate <prompt>\n  genaictl [flags] analyze <image-file> <prompt>\n  genaictl [flags] chat <message>\n\nFlags:\n")
	flag.PrintDefaults()
}

func loadConfig() (*config.Config, error) {
	var cfg *config.Config
	var err error

	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadFromEnvironment()
	}
	if err != nil {
		return nil, err
	}

	// The CLI only writes warnings unless asked for more
	cfg.LogLevel = "warn"
	if *debug {
		cfg.Debug = true
		cfg.LogLevel = "debug"
	}
	if *gatewayURL != "" {
		cfg.GatewayURL = *gatewayURL
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// run executes one subcommand against the controller. chat has no proxy
// endpoint and goes to the gateway directly.
func run(ctx context.Context, c *ui.Controller, gateway *client.Client, args []string) error {
	switch args[0] {
	case "tools":
		c.LoadTools(ctx)
		return c.RenderTools(os.Stdout)

	case "generate":
		if len(args) < 2 {
			return fmt.Errorf("generate: missing prompt")
		}
		c.SetTextPrompt(strings.Join(args[1:], " "))
		c.GenerateText(ctx)

	case "analyze":
		if len(args) < 3 {
			return fmt.Errorf("analyze: need an image file and a prompt")
		}
		data, err := os.ReadFile(args[1])
		if err != nil {
			return fmt.Errorf("analyze: %w", err)
		}
		c.SelectImage(args[1], data)
		c.SetImagePrompt(strings.Join(args[2:], " "))
		c.AnalyzeImage(ctx)

	case "chat":
		if len(args) < 2 {
			return fmt.Errorf("chat: missing message")
		}
		reply, err := gateway.CallTool(ctx, client.ToolChatWithGemini, map[string]any{
			"messages": []map[string]string{{"role": "user", "content": strings.Join(args[1:], " ")}},
		})
		if err != nil {
			return fmt.Errorf("chat: %w", err)
		}
		fmt.Println(reply)
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}

	fmt.Println(c.Snapshot().Result)
	return nil
}
