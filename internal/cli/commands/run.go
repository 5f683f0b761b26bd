package commands

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/AlecAivazis/survey/v2"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/orangensaft-lang/orangensaft/internal/cli/config"
	"github.com/orangensaft-lang/orangensaft/internal/cli/ui"
	"github.com/orangensaft-lang/orangensaft/internal/errors"
	"github.com/orangensaft-lang/orangensaft/internal/eval"
	"github.com/orangensaft-lang/orangensaft/internal/lexer"
	"github.com/orangensaft-lang/orangensaft/internal/parser"
	"github.com/orangensaft-lang/orangensaft/internal/provider"
	"github.com/orangensaft-lang/orangensaft/internal/provider/auth"
	"github.com/orangensaft-lang/orangensaft/internal/provider/cache"
	"github.com/orangensaft-lang/orangensaft/internal/resolver"
	"github.com/orangensaft-lang/orangensaft/internal/stdlib"
	"github.com/orangensaft-lang/orangensaft/internal/value"
	"github.com/redis/go-redis/v9"
)

var (
	runProviderName string
	runEndpoint     string
	runAPIKeyEnv    string
	runAPIKeyHash   string
	runModel        string
	runTemperature  float64
	runMaxRounds    int
	runMaxCalls     int
	runConfirm      bool
	runCacheURL     string
	runVerbose      bool
)

// NewRunCommand creates the run command.
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Lex, parse, resolve, and evaluate a program",
		Long: `Run executes a program end to end: lex, parse, resolve, then evaluate
its statements, dispatching any prompt expressions to the configured
provider.

Examples:
  orangensaft run program.orj
  orangensaft run program.orj --provider http --model gpt-4 --api-key-env OPENAI_API_KEY
  orangensaft run program.orj --confirm-tools`,
		Args: cobra.ExactArgs(1),
		RunE: runRun,
	}

	cmd.Flags().StringVar(&runProviderName, "provider", "", "Prompt provider: noop|heuristic|sequence|http|stream (default from config)")
	cmd.Flags().StringVar(&runEndpoint, "endpoint", "", "URL the http/stream provider sends requests to")
	cmd.Flags().StringVar(&runAPIKeyEnv, "api-key-env", "", "Environment variable holding the provider API key")
	cmd.Flags().StringVar(&runAPIKeyHash, "api-key-hash", "", "bcrypt hash the api-key-env value must match before the provider is used")
	cmd.Flags().StringVar(&runModel, "model", "", "Model name to request from the provider")
	cmd.Flags().Float64Var(&runTemperature, "temperature", -1, "Sampling temperature (provider-dependent)")
	cmd.Flags().IntVar(&runMaxRounds, "max-tool-rounds", 0, "Maximum tool-calling rounds per prompt")
	cmd.Flags().IntVar(&runMaxCalls, "max-tool-calls", 0, "Maximum total tool calls per prompt")
	cmd.Flags().BoolVar(&runConfirm, "confirm-tools", false, "Interactively confirm each tool call before it runs")
	cmd.Flags().StringVar(&runCacheURL, "cache-url", "", "redis:// URL to cache prompt responses")
	cmd.Flags().BoolVarP(&runVerbose, "verbose", "v", false, "Log provider requests and tool dispatch")

	return cmd
}

func runRun(cmd *cobra.Command, args []string) error {
	path := args[0]
	src, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	applyRunFlags(cmd, cfg)

	recovery := errors.NewErrorRecovery()

	l := lexer.New(string(src), path)
	tokens, lexErrs := l.ScanTokens()
	for _, le := range lexErrs {
		recovery.Recover(errors.NewCompilerError("lexer", "", le.Message, errors.SourceLocation{
			File: le.Span.File, Line: le.Span.Line, Column: le.Span.Col, Length: le.Span.End - le.Span.Start,
		}, errors.Error))
	}
	if recovery.HasErrors() {
		fmt.Fprint(cmd.ErrOrStderr(), recovery.FormatForTerminal())
		return fmt.Errorf("%s: %s", path, recovery.Summary())
	}

	p := parser.New(tokens, path)
	prog, parseErrs := p.Parse()
	recovery.RecoverMultiple(parseErrs)
	if recovery.HasErrors() {
		fmt.Fprint(cmd.ErrOrStderr(), recovery.FormatForTerminal())
		return fmt.Errorf("%s: %s", path, recovery.Summary())
	}

	resolveErrs := resolver.Resolve(prog, path, stdlib.Names())
	recovery.RecoverMultiple(resolveErrs)
	if recovery.HasErrors() {
		fmt.Fprint(cmd.ErrOrStderr(), recovery.FormatForTerminal())
		return fmt.Errorf("%s: %s", path, recovery.Summary())
	}

	var logger *zap.Logger
	if runVerbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger = zap.NewNop()
	}
	if err != nil {
		return err
	}
	defer logger.Sync()

	prov, err := buildProvider(cfg, logger)
	if err != nil {
		return err
	}

	ev := eval.New(path, prov, logger)
	ev.MaxToolRounds = cfg.MaxToolRounds
	ev.MaxToolCalls = cfg.MaxToolCalls
	if cfg.ConfirmTools {
		ev.Gate = confirmGate
	}

	// Verbose mode already narrates every step through the zap logger; a
	// spinner on top of that just interleaves badly. Quiet mode gets the
	// spinner since a provider round-trip is the one step in `run` that
	// can visibly block.
	if runVerbose {
		err := ev.Run(context.Background(), prog)
		logCacheStats(logger, prov)
		return err
	}

	spinner := ui.NewSpinner(cmd.ErrOrStderr(), ui.SpinnerOptions{Message: fmt.Sprintf("running %s", path)})
	ev.OnRound = func(round, maxRounds int) {
		spinner.UpdateMessage(fmt.Sprintf("running %s (tool round %d/%d)", path, round, maxRounds))
	}
	spinner.Start()
	if err := ev.Run(context.Background(), prog); err != nil {
		spinner.Error(fmt.Sprintf("running %s failed", path))
		return err
	}
	spinner.Success(fmt.Sprintf("running %s", path))
	logCacheStats(logger, prov)
	return nil
}

// logCacheStats logs the prompt cache's hit rate for this run, when prov
// is wrapped in a PromptCache (i.e. --cache-url was set).
func logCacheStats(logger *zap.Logger, prov provider.Provider) {
	pc, ok := prov.(*provider.PromptCache)
	if !ok {
		return
	}
	stats, err := pc.Stats(context.Background())
	if err != nil {
		logger.Debug("prompt cache stats unavailable", zap.Error(err))
		return
	}
	logger.Info("prompt cache stats",
		zap.Int64("hits", stats.Hits),
		zap.Int64("misses", stats.Misses),
		zap.Float64("hit_rate", stats.HitRate()),
	)
}

// applyRunFlags layers explicitly-set CLI flags over the loaded config,
// so an unset flag falls back to orangensaft.yml/ORANGENSAFT_* rather than
// clobbering it with a flag default.
func applyRunFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("provider") {
		cfg.Provider = runProviderName
	}
	if cmd.Flags().Changed("endpoint") {
		cfg.Endpoint = runEndpoint
	}
	if cmd.Flags().Changed("api-key-env") {
		cfg.APIKeyEnv = runAPIKeyEnv
	}
	if cmd.Flags().Changed("api-key-hash") {
		cfg.APIKeyHash = runAPIKeyHash
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = runModel
	}
	if cmd.Flags().Changed("temperature") {
		cfg.Temperature = runTemperature
	}
	if cmd.Flags().Changed("max-tool-rounds") {
		cfg.MaxToolRounds = runMaxRounds
	}
	if cmd.Flags().Changed("max-tool-calls") {
		cfg.MaxToolCalls = runMaxCalls
	}
	if cmd.Flags().Changed("confirm-tools") {
		cfg.ConfirmTools = runConfirm
	}
	if cmd.Flags().Changed("cache-url") {
		cfg.CacheURL = runCacheURL
	}
}

func buildProvider(cfg *config.Config, logger *zap.Logger) (provider.Provider, error) {
	var prov provider.Provider

	switch strings.ToLower(cfg.Provider) {
	case "", "heuristic":
		prov = provider.HeuristicProvider{}
	case "noop":
		prov = provider.NoopProvider{}
	case "sequence":
		prov = provider.NewSequenceProvider(nil)
	case "http":
		hp := provider.NewHTTPProvider(cfg.Endpoint, cfg.Model, logger)
		if cfg.APIKeyEnv != "" {
			hp.APIKey = os.Getenv(cfg.APIKeyEnv)
		}
		if cfg.APIKeyHash != "" && !auth.VerifyAPIKey(hp.APIKey, cfg.APIKeyHash) {
			return nil, fmt.Errorf("value of %s does not match configured api_key_hash", cfg.APIKeyEnv)
		}
		prov = hp
	case "stream":
		prov = provider.NewStreamProvider(cfg.Endpoint, nil, logger)
	default:
		return nil, fmt.Errorf("unknown provider: %s", cfg.Provider)
	}

	if cfg.CacheURL != "" {
		opts, err := redis.ParseURL(cfg.CacheURL)
		if err != nil {
			return nil, fmt.Errorf("parsing cache-url: %w", err)
		}
		rc := cache.NewRedisCacheWithClient(redis.NewClient(opts), cache.DefaultCacheConfig())
		prov = provider.NewPromptCache(prov, rc, logger)
	}

	return prov, nil
}

// confirmGate interactively asks the operator to approve each tool call
// before it runs, via a yes/no prompt over stdin.
func confirmGate(name string, args map[string]value.Value) bool {
	var parts []string
	keys := make([]string, 0, len(args))
	for k := range args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%s", k, args[k].String()))
	}

	confirmed := false
	prompt := &survey.Confirm{
		Message: fmt.Sprintf("Run tool %s(%s)?", name, strings.Join(parts, ", ")),
		Default: false,
	}
	_ = survey.AskOne(prompt, &confirmed)
	return confirmed
}
