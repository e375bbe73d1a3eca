package main

import (
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/classifier"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/config"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/features"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/gate"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/llm"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/logging"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/model"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/observability"
	"github.com/Pratyay-Mondal/tinder-practice-nlp/internal/rules"
)

var (
	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	cyan   = color.New(color.FgCyan).SprintFunc()
	gray   = color.New(color.FgHiBlack).SprintFunc()
	bold   = color.New(color.Bold).SprintFunc()
)

func errorText(msg string) string {
	return red("error: " + msg)
}

// isTTY reports whether both ends of the terminal are interactive.
func isTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}

// app bundles the loaded configuration and the gate built from it. Every
// subcommand goes through here so chat, batch, sweep, and serve gate
// messages identically.
type app struct {
	cfg       *config.Config
	artifact  *model.Artifact
	extractor *features.Extractor
	gate      *gate.Gate
	logger    logging.Logger
	metrics   *observability.Metrics
	rng       *rand.Rand
}

type rootFlags struct {
	configPath string
	modelPath  string
	threshold  float64
	persona    string
	verbose    bool
}

// NewRootCommand creates the practicebot CLI.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:   "practicebot",
		Short: "Dating-chat practice partner with a safety gate",
		Long: `practicebot simulates a dating-app chat partner so you can practice
openers, follow-ups, and date suggestions. Every message you type is
screened by a risk classifier plus deterministic escalation rules; gated
messages get a boundary-safe redirect instead of reaching the partner.

Examples:
  practicebot chat                         # interactive practice session
  practicebot chat --persona flirty_adult_ok
  practicebot batch --samples data/samples_batch.jsonl
  practicebot sweep --samples data/samples_labeled.jsonl
  practicebot serve --port 8080`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&flags.configPath, "config", "", "Config file (default: practicebot-config.yaml in $HOME or .)")
	rootCmd.PersistentFlags().StringVar(&flags.modelPath, "model", "", "Model artifact path (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&flags.threshold, "threshold", -1, "Gate threshold in [0,1] (overrides config)")
	rootCmd.PersistentFlags().StringVar(&flags.persona, "persona", "", "Practice persona (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "Debug logging")

	rootCmd.AddCommand(newChatCommand(flags))
	rootCmd.AddCommand(newBatchCommand(flags))
	rootCmd.AddCommand(newReportCommand())
	rootCmd.AddCommand(newSweepCommand(flags))
	rootCmd.AddCommand(newServeCommand(flags))

	return rootCmd
}

// loadConfig resolves configuration with flag overrides applied on top.
func loadConfig(flags *rootFlags) (*config.Config, error) {
	var cfg *config.Config
	var err error
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, err
	}

	if flags.modelPath != "" {
		cfg.ModelPath = flags.modelPath
	}
	if flags.threshold >= 0 {
		cfg.Threshold = flags.threshold
	}
	if flags.persona != "" {
		cfg.Persona = flags.persona
	}
	if flags.verbose {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildApp loads the model once and assembles the gate.
func buildApp(flags *rootFlags, opts ...gate.Option) (*app, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger := logging.New(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})

	artifact, err := model.Load(cfg.ModelPath)
	if err != nil {
		return nil, err
	}
	extractor, err := features.NewExtractor(artifact.Embedding)
	if err != nil {
		return nil, err
	}
	clf, err := classifier.New(artifact)
	if err != nil {
		return nil, err
	}
	engine, err := rules.NewEngine(cfg.Rules)
	if err != nil {
		return nil, err
	}

	opts = append([]gate.Option{gate.WithLogger(logger)}, opts...)
	g, err := gate.New(extractor, clf, engine, cfg.Threshold, opts...)
	if err != nil {
		return nil, err
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	return &app{
		cfg:       cfg,
		artifact:  artifact,
		extractor: extractor,
		gate:      g,
		logger:    logger,
		rng:       rand.New(rand.NewSource(seed)),
	}, nil
}

func (a *app) newLLMClient() (llm.Client, error) {
	return llm.NewClient(a.cfg.LLM, a.logger)
}

// traceLine renders a one-line account of a gate decision for the terminal.
func traceLine(record gate.Record) string {
	verdict := green(string(record.Label))
	if record.Label == gate.LabelMove {
		verdict = red(string(record.Label))
	}
	line := fmt.Sprintf("%s p_move=%.3f thr=%.2f action=%s",
		verdict, record.PMove, record.ThresholdUsed, record.Action)
	for _, hit := range record.RuleHits {
		line += " " + yellow("rule:"+hit.Rule)
	}
	if record.TemplateID != "" {
		line += " " + gray("template:"+record.TemplateID)
	}
	return gray("[gate] ") + line
}
