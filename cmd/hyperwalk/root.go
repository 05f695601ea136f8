package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aretw0/hyperwalk"
	"github.com/aretw0/hyperwalk/internal/cli"
	"github.com/aretw0/hyperwalk/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "hyperwalk",
	Short: "hyperwalk follows links through hypermedia APIs",
	Long: `hyperwalk starts at a URI, follows a chain of link relations through JSON or HAL
documents (using embedded resources instead of requests where it can) and then acts
on the resource it reached.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		cli.NewPrinter(os.Stderr, "text").Error(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "YAML configuration file")
	flags.StringP("media-type", "m", "", "Media type of the API: hal or json (default hal)")
	flags.StringSliceP("follow", "f", nil, "Link relations to follow, in order (repeatable or comma-separated)")
	flags.StringArrayP("param", "p", nil, "URI template parameter as key=value (repeatable)")
	flags.StringArrayP("header", "H", nil, "Request header as 'Name: value' (repeatable)")
	flags.StringP("user", "u", "", "Basic auth credentials as user:password")
	flags.Duration("timeout", 0, "Per-request timeout")
	flags.StringP("output", "o", "", "Output format: text, json or yaml")
	flags.String("log-level", "", "Log level: debug, info, warn or error")
}

// settings is the merged result of the config file and the flags.
type settings struct {
	cfg     *cli.Config
	logger  *slog.Logger
	printer *cli.Printer
}

func loadSettings(cmd *cobra.Command) (*settings, error) {
	flags := cmd.Flags()
	path, _ := flags.GetString("config")
	cfg, err := cli.LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if v, _ := flags.GetString("media-type"); v != "" {
		cfg.MediaType = v
	}
	if v, _ := flags.GetString("output"); v != "" {
		cfg.Output = v
	}
	if v, _ := flags.GetString("log-level"); v != "" {
		cfg.LogLevel = v
	}
	if v, _ := flags.GetDuration("timeout"); v > 0 {
		cfg.Timeout = v
	}
	if v, _ := flags.GetString("user"); v != "" {
		user, pass, _ := strings.Cut(v, ":")
		cfg.BasicAuth = &cli.BasicAuth{Username: user, Password: pass}
	}
	lines, _ := flags.GetStringArray("header")
	headers, err := cli.ParseHeaders(lines)
	if err != nil {
		return nil, err
	}
	if len(headers) > 0 && cfg.Headers == nil {
		cfg.Headers = map[string]string{}
	}
	for k, v := range headers {
		cfg.Headers[k] = v
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return &settings{
		cfg:     cfg,
		logger:  logging.New(os.Stderr, level),
		printer: cli.NewPrinter(cmd.OutOrStdout(), cfg.Output),
	}, nil
}

// newBuilder loads settings and prepares the Builder for the start URI in args.
func newBuilder(cmd *cobra.Command, args []string) (*hyperwalk.Builder, *settings, error) {
	s, err := loadSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	follow, _ := cmd.Flags().GetStringSlice("follow")
	pairs, _ := cmd.Flags().GetStringArray("param")
	params, err := cli.ParseParams(pairs)
	if err != nil {
		return nil, nil, err
	}

	b, err := s.cfg.NewBuilder(cli.Traversal{StartURI: args[0], Follow: follow, Params: params}, s.logger)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Debug("traversal configured", "traversal", b.ID(), "start_uri", b.StartURI(), "follow", b.Links())
	return b, s, nil
}

// readBody parses the --data flag: inline JSON, or @path to read a file.
func readBody(cmd *cobra.Command) (any, error) {
	data, _ := cmd.Flags().GetString("data")
	if data == "" {
		return nil, nil
	}
	raw := []byte(data)
	if path, ok := strings.CutPrefix(data, "@"); ok {
		var err error
		if raw, err = os.ReadFile(path); err != nil {
			return nil, fmt.Errorf("read body: %w", err)
		}
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, fmt.Errorf("body must be JSON: %w", err)
	}
	return body, nil
}
