// MIT License
//
// Copyright (c) 2025 Mike Lane
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package main

import (
	"context"
	"encoding/json"
	goflag "flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap/zapcore"
	"sigs.k8s.io/controller-runtime/pkg/log"
	"sigs.k8s.io/controller-runtime/pkg/log/zap"

	"github.com/mikelane/issuemyst/internal/config"
	"github.com/mikelane/issuemyst/internal/credential"
	"github.com/mikelane/issuemyst/internal/domain"
	"github.com/mikelane/issuemyst/internal/github"
	"github.com/mikelane/issuemyst/internal/picker"
	"github.com/mikelane/issuemyst/internal/server"
)

// options holds flag values shared by every subcommand
type options struct {
	configPath string
	listenAddr string
	tokenFile  string
	maxIssues  int
	zapOpts    zap.Options
}

func newRootCommand() *cobra.Command {
	opts := &options{
		zapOpts: zap.Options{TimeEncoder: zapcore.ISO8601TimeEncoder},
	}

	cmd := &cobra.Command{
		Use:          "issuemyst",
		Short:        "Serve a random open issue from any GitHub repository",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			log.SetLogger(zap.New(zap.UseFlagOptions(&opts.zapOpts)))
		},
	}

	goFlags := goflag.NewFlagSet("zap", goflag.ContinueOnError)
	opts.zapOpts.BindFlags(goFlags)
	cmd.PersistentFlags().AddGoFlagSet(goFlags)
	bindFlags(cmd.PersistentFlags(), opts)

	cmd.AddCommand(
		newServeCommand(opts),
		newPickCommand(opts),
		newVersionCommand(),
	)
	return cmd
}

func bindFlags(fs *pflag.FlagSet, opts *options) {
	fs.StringVarP(&opts.configPath, "config", "c", "", "path to a YAML config file")
	fs.StringVar(&opts.listenAddr, "listen", "", "address to listen on (overrides listen_addr)")
	fs.StringVar(&opts.tokenFile, "token-file", "", "file holding the GitHub token (overrides token_file)")
	fs.IntVar(&opts.maxIssues, "max-issues", 0, "largest open issue count to page through (overrides max_issues)")
}

// loadConfig reads the config file and applies flags the user set explicitly
func (o *options) loadConfig(fs *pflag.FlagSet) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}

	if fs.Changed("listen") {
		cfg.ListenAddr = o.listenAddr
	}
	if fs.Changed("token-file") {
		cfg.TokenFile = o.tokenFile
	}
	if fs.Changed("max-issues") {
		cfg.MaxIssues = o.maxIssues
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

// newPicker wires the credential file, GitHub client and picker from cfg
func newPicker(cfg *config.Config) (*picker.Picker, *credential.File, error) {
	tokens := credential.NewFile(cfg.TokenFile)
	if _, err := tokens.Token(); err != nil {
		// Not fatal: every pick fails with CredentialUnavailable until the file is readable.
		log.Log.Error(err, "GitHub token is not readable", "path", cfg.TokenFile)
	}

	client, err := github.NewClient(github.Options{
		Tokens:    tokens,
		BaseURL:   cfg.APIBaseURL,
		UserAgent: cfg.UserAgent,
		Timeout:   cfg.RequestTimeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create GitHub client: %w", err)
	}

	p := picker.New(client,
		picker.WithMaxIssues(cfg.MaxIssues),
		picker.WithPageDelay(cfg.PageDelay),
	)
	return p, tokens, nil
}

func newServeCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			p, tokens, err := newPicker(cfg)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			go reloadOnHangup(ctx, tokens)

			srv := server.NewServer(cfg.ListenAddr, p, server.NewRateLimiter(cfg.RepoRequestsPerMinute))
			return srv.Start(ctx)
		},
	}
}

// reloadOnHangup re-reads the token file on SIGHUP until ctx is done
func reloadOnHangup(ctx context.Context, tokens *credential.File) {
	hup := make(chan os.Signal, 1)
	signal.Notify(hup, syscall.SIGHUP)
	defer signal.Stop(hup)

	for {
		select {
		case <-ctx.Done():
			return
		case <-hup:
			if err := tokens.Reload(); err != nil {
				log.Log.Error(err, "Failed to reload GitHub token", "path", tokens.Path())
				continue
			}
			log.Log.Info("Reloaded GitHub token", "path", tokens.Path())
		}
	}
}

func newPickCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "pick owner/repo",
		Short: "Print one random open issue as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			repo, err := domain.ParseRepoRef(args[0])
			if err != nil {
				return err
			}

			cfg, err := opts.loadConfig(cmd.Flags())
			if err != nil {
				return err
			}

			p, _, err := newPicker(cfg)
			if err != nil {
				return err
			}

			issue, err := p.RandomIssue(cmd.Context(), repo)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(issue)
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "issuemyst %s\n", version)
		},
	}
}
