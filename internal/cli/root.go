// Package cli implements the yase command line.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"yase/internal/config"
	"yase/internal/domain"
	"yase/internal/logger"
	"yase/internal/progress"
	"yase/internal/report"
	"yase/internal/service"
	"yase/internal/tui"
	"yase/internal/vectorstore"
	"yase/internal/vectorstore/csvfile"
	"yase/internal/vectorstore/memory"
)

var (
	inputPath     string
	inputEncoding string
	outputPath    string
	dictPath      string
	dictEncoding  string
	separator     string
	noReplace     bool
	replacements  string
	normalize     bool
	outputFormat  string
	progressMode  string
	configPath    string
	verbose       bool
	previewLines  int
)

var rootCmd = &cobra.Command{
	Use:   "yase",
	Short: "Transcode text lines into embedding vector sequences",
	Long: `yase maps every line of a text file to the sequence of vectors of its
tokens, looked up in a pretrained embedding table.

Lines are cleaned with ordered replacement rules, lower-cased and split on a
regular expression. Tokens missing from the table are dropped and reported.

Examples:
  yase -i corpus.txt -d vectors.txt -o out.csv
  yase -i corpus.txt -d vectors.txt -o out.db --progress tui
  yase -i latin1.txt --input-encoding latin1 -d vectors.txt -o out.csv --no-replace`,
	SilenceUsage:     true,
	Args:             cobra.NoArgs,
	PersistentPreRun: setupLogging,
	RunE:             runTranscode,
}

func init() {
	f := rootCmd.Flags()
	f.StringVarP(&inputPath, "input", "i", "", "text file to transcode, one record per line")
	f.StringVar(&inputEncoding, "input-encoding", "UTF8", "encoding of the input file")
	f.StringVarP(&outputPath, "output", "o", "", "output file (.csv, or .db/.sqlite for SQLite)")
	f.StringVarP(&dictPath, "dict", "d", "", "embedding table, one \"token v1 v2 ...\" entry per line")
	f.StringVar(&dictEncoding, "dict-encoding", "UTF8", "encoding of the embedding table")
	f.StringVarP(&separator, "separator", "s", " ", "regular expression tokens are split on")
	f.BoolVar(&noReplace, "no-replace", false, "do not clean lines with replacement rules")
	f.StringVar(&replacements, "replacements", "", "JSON or YAML replacement rules (default: bundled rules)")
	f.BoolVar(&normalize, "normalize", false, "apply Unicode NFKC normalization before the rules")
	f.StringVar(&outputFormat, "format", "", "output format: csv or sqlite (default: from the output extension)")
	f.StringVar(&progressMode, "progress", config.ProgressBar, "progress display: bar, tui or none")
	f.IntVar(&previewLines, "preview", 0, "transcode only the first N lines and print them instead of writing --output")

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default: $YASE_CONFIG, ./yase.yaml, ~/.config/yase/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print diagnostics to stderr")
}

func setupLogging(cmd *cobra.Command, _ []string) {
	logger.SetVerbose(verbose)
	logger.SetOutput(cmd.ErrOrStderr())
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func runTranscode(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	applyFlags(cmd, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	var missing []error
	if inputPath == "" {
		missing = append(missing, errors.New("--input is required"))
	}
	if dictPath == "" {
		missing = append(missing, errors.New("--dict is required"))
	}
	if outputPath == "" && previewLines <= 0 {
		missing = append(missing, errors.New("--output is required"))
	}
	if len(missing) > 0 {
		return errors.Join(missing...)
	}

	req := service.Request{
		InputPath:        inputPath,
		InputEncoding:    cfg.Transcode.InputEncoding,
		TablePath:        dictPath,
		TableEncoding:    cfg.Transcode.TableEncoding,
		OutputPath:       outputPath,
		OutputFormat:     cfg.Output.Format,
		Separator:        cfg.Transcode.Separator,
		NoReplace:        cfg.Transcode.NoReplace,
		ReplacementsPath: cfg.Transcode.Replacements,
		NormalizeUnicode: cfg.Transcode.NormalizeUnicode,
	}
	tracker := report.NewUnknownTracker()
	top := cfg.Report.UnknownTop

	var (
		open    vectorstore.OpenFunc
		preview *memory.Storage
	)
	if previewLines > 0 {
		preview = memory.NewStorage()
		open = func(string, string) (vectorstore.Storage, error) { return preview, nil }
		req.MaxLines = int64(previewLines)
	}

	work := func(obs domain.ProgressObserver) (string, error) {
		if _, err := service.NewTranscodeService(obs, open, tracker).Process(req); err != nil {
			return "", err
		}
		logger.Scope("report").Info("%s", tracker.Summarize(top))
		return tracker.Summarize(top), nil
	}

	if cfg.Progress.Mode == config.ProgressTUI && preview == nil {
		return tui.Run("yase "+inputPath, cmd.OutOrStdout(), work)
	}

	var obs domain.ProgressObserver
	if cfg.Progress.Mode == config.ProgressBar {
		interval := time.Duration(cfg.Progress.MinIntervalMS) * time.Millisecond
		obs = progress.NewBar(cmd.ErrOrStderr(), interval)
	}
	summary, err := work(obs)
	if err != nil {
		return err
	}
	if preview != nil {
		printPreview(cmd.OutOrStdout(), preview.Records())
	}
	printSummary(cmd.OutOrStdout(), summary, tracker)
	return nil
}

func printPreview(w io.Writer, records []domain.Record) {
	for _, rec := range records {
		fmt.Fprintf(w, "%d\t%s\t%s\n", rec.Line, rec.Input, csvfile.FormatVectors(rec.Vectors))
	}
}

func printSummary(w io.Writer, summary string, tracker *report.UnknownTracker) {
	if tracker.Dropped() > 0 || tracker.EmptyLines() > 0 {
		fmt.Fprintln(w, summary)
	}
	fmt.Fprintln(w, "done !")
}

// loadConfig resolves the config file from --config, then $YASE_CONFIG,
// then the default locations.
func loadConfig() (*config.AppConfig, error) {
	path := configPath
	if path == "" {
		path = os.Getenv(config.EnvConfigPath)
	}
	if path == "" {
		cfg, found, err := config.LoadDefault()
		if err != nil {
			return nil, err
		}
		if found != "" {
			logger.Scope("config").Debug("%s", found)
		}
		return cfg, nil
	}
	logger.Scope("config").Debug("%s", path)
	return config.Load(path)
}

// applyFlags overrides config values with flags set on the command line.
func applyFlags(cmd *cobra.Command, cfg *config.AppConfig) {
	f := cmd.Flags()
	if f.Changed("input-encoding") {
		cfg.Transcode.InputEncoding = inputEncoding
	}
	if f.Changed("dict-encoding") {
		cfg.Transcode.TableEncoding = dictEncoding
	}
	if f.Changed("separator") {
		cfg.Transcode.Separator = separator
	}
	if f.Changed("no-replace") {
		cfg.Transcode.NoReplace = noReplace
	}
	if f.Changed("replacements") {
		cfg.Transcode.Replacements = replacements
	}
	if f.Changed("normalize") {
		cfg.Transcode.NormalizeUnicode = normalize
	}
	if f.Changed("format") {
		cfg.Output.Format = outputFormat
	}
	if f.Changed("progress") {
		cfg.Progress.Mode = progressMode
	}
}
