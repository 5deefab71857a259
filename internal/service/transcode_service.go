// Package service runs the transcoding pipeline: it loads the table and the
// rules, streams the input file and appends one record per line to the
// output storage.
package service

import (
	"errors"
	"fmt"

	"yase/internal/cleaner"
	"yase/internal/domain"
	"yase/internal/embedding"
	"yase/internal/logger"
	"yase/internal/replacement"
	"yase/internal/report"
	"yase/internal/textenc"
	"yase/internal/tokenizer"
	"yase/internal/transcoder"
	"yase/internal/vectorstore"
)

// Request describes one pipeline run.
type Request struct {
	InputPath     string
	InputEncoding string
	TablePath     string
	TableEncoding string
	OutputPath    string
	// OutputFormat is csv or sqlite; empty infers it from OutputPath.
	OutputFormat string
	// Separator is the token split pattern; empty means a single space.
	Separator string
	// NoReplace disables the replacement rules entirely.
	NoReplace bool
	// ReplacementsPath overrides the bundled rule resource.
	ReplacementsPath string
	NormalizeUnicode bool
	// MaxLines stops the run after that many lines; 0 reads the whole input.
	MaxLines int64
}

// Summary is what a finished run reports back.
type Summary struct {
	Lines      int64
	TableStats embedding.Stats
	Rules      int
}

// TranscodeService wires the pipeline stages together.
type TranscodeService struct {
	obs     domain.ProgressObserver
	open    vectorstore.OpenFunc
	tracker *report.UnknownTracker
}

// NewTranscodeService builds a service. obs may be nil; open defaults to
// vectorstore.Open; tracker may be nil when no unknown-token report is wanted.
func NewTranscodeService(obs domain.ProgressObserver, open vectorstore.OpenFunc, tracker *report.UnknownTracker) *TranscodeService {
	if obs == nil {
		obs = domain.NopObserver{}
	}
	if open == nil {
		open = vectorstore.Open
	}
	return &TranscodeService{obs: obs, open: open, tracker: tracker}
}

// Process runs the whole pipeline. It writes exactly one record per input
// line, in input order, and stops at the first fatal error. With MaxLines set
// only that many leading lines are read.
func (s *TranscodeService) Process(req Request) (sum Summary, err error) {
	tok, err := tokenizer.New(req.Separator)
	if err != nil {
		return sum, err
	}

	done := logger.For(domain.StageTable).Begin()
	table, err := embedding.Load(req.TablePath, req.TableEncoding, s.obs)
	done()
	if err != nil {
		return sum, err
	}
	sum.TableStats = table.Stats()

	rules, err := replacement.Load(req.ReplacementsPath, req.NoReplace)
	if err != nil {
		return sum, err
	}
	sum.Rules = len(rules)
	rlog := logger.Scope("rules")
	switch {
	case req.NoReplace:
		rlog.Info("disabled")
	case req.ReplacementsPath == "":
		rlog.Info("%d bundled", len(rules))
	default:
		rlog.Info("%d from %s", len(rules), req.ReplacementsPath)
	}
	tc := transcoder.New(table, cleaner.New(rules, req.NormalizeUnicode), tok)

	in, err := textenc.Open(req.InputPath, req.InputEncoding)
	if err != nil {
		return sum, fmt.Errorf("open input %s: %w", req.InputPath, err)
	}
	defer in.Close()

	// Storage errors carry the output path already.
	store, err := s.open(req.OutputFormat, req.OutputPath)
	if err != nil {
		return sum, err
	}
	defer func() {
		err = errors.Join(err, store.Close())
	}()

	run := domain.RunInfo{InputPath: req.InputPath, TablePath: req.TablePath, Separator: tok.Pattern()}
	if err := store.Init(run); err != nil {
		return sum, err
	}

	log := logger.For(domain.StageInput)
	defer log.Begin()()
	verbose := logger.IsVerbose()
	size := in.Size()
	for {
		line, ok, err := in.Next()
		if err != nil {
			return sum, fmt.Errorf("read input %s: %w", req.InputPath, err)
		}
		if !ok {
			break
		}
		rec, err := tc.Transcode(line)
		if err != nil {
			return sum, fmt.Errorf("transcode %s line %d: %w", req.InputPath, in.Lines(), err)
		}
		rec.Line = in.Lines()
		if verbose && len(rec.Unknown) > 0 {
			log.Line(rec.Line, "dropped %q", rec.Unknown)
		}
		if err := store.Append(rec); err != nil {
			return sum, err
		}
		if s.tracker != nil {
			s.tracker.Observe(rec)
		}
		sum.Lines++
		s.obs.OnProgress(domain.StageInput, in.Consumed(), size)
		if req.MaxLines > 0 && sum.Lines >= req.MaxLines {
			break
		}
	}
	s.obs.OnStageDone(domain.StageInput, sum.Lines)
	if req.OutputPath != "" {
		log.Info("%d lines written to %s", sum.Lines, req.OutputPath)
	} else {
		log.Info("%d lines transcoded", sum.Lines)
	}
	return sum, nil
}
