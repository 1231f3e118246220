package scheduler

import (
	"context"
	"errors"
	"fmt"
	"html"
	"log"
	"os"
	"path/filepath"
	"strings"

	"StockLens/internal/chart"
	"StockLens/internal/exporter"
	"StockLens/internal/model"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
	"StockLens/internal/report"

	"github.com/robfig/cron/v3"
)

// Analyzer produces an analysis for one symbol.
type Analyzer interface {
	Analyze(ctx context.Context, symbol, period, interval string) (*model.Analysis, error)
}

// Job describes what every scheduled run does.
type Job struct {
	Symbols  []string
	Period   string
	Interval string

	// ExportDir receives "<symbol>_data.<ext>" when Exporter is set.
	ExportDir string
	// ChartDir receives "<symbol>_chart.html" when non-empty.
	ChartDir string
	Simple   bool
}

// Scheduler runs the watch job on a cron schedule and answers chat commands.
type Scheduler struct {
	Cron     *cron.Cron
	Analyzer Analyzer
	Notifier notifier.Notifier
	Recorder recorder.Recorder
	Exporter exporter.Exporter
	Job      Job
	Ctx      context.Context
}

// NewScheduler creates a new Scheduler. Nil collaborators are replaced by no-ops.
func NewScheduler(ctx context.Context, an Analyzer, n notifier.Notifier, rec recorder.Recorder, exp exporter.Exporter, job Job) *Scheduler {
	if n == nil {
		n = notifier.NoopNotifier{}
	}
	if rec == nil {
		rec = recorder.NewNoopRecorder()
	}
	return &Scheduler{
		Cron:     cron.New(cron.WithSeconds()),
		Analyzer: an,
		Notifier: n,
		Recorder: rec,
		Exporter: exp,
		Job:      job,
		Ctx:      ctx,
	}
}

// Register schedules the watch job with a six-field cron spec.
func (s *Scheduler) Register(spec string) error {
	if _, err := s.Cron.AddFunc(spec, s.watchTask); err != nil {
		return fmt.Errorf("register watch task: %w", err)
	}
	return nil
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	log.Println("[INFO] scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	<-s.Cron.Stop().Done()
	log.Println("[INFO] scheduler stopped")
}

// RunNow executes the watch job immediately (for manual trigger / RUN_ON_START).
func (s *Scheduler) RunNow() error {
	return s.watch()
}

func (s *Scheduler) watchTask() {
	if err := s.watch(); err != nil {
		log.Printf("[ERROR] watch task: %v", err)
	}
}

// watch analyzes every symbol; one failing symbol does not stop the others.
func (s *Scheduler) watch() error {
	log.Printf("[INFO] running watch task for %d symbol(s)", len(s.Job.Symbols))
	var errs []error
	for _, sym := range s.Job.Symbols {
		if err := s.runSymbol(sym); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", sym, err))
		}
	}
	return errors.Join(errs...)
}

func (s *Scheduler) runSymbol(symbol string) error {
	a, err := s.Analyzer.Analyze(s.Ctx, symbol, s.Job.Period, s.Job.Interval)
	if err != nil {
		log.Printf("[ERROR] analyze %s: %v", symbol, err)
		s.trySend(failure(symbol+" analysis failed", err))
		return err
	}

	if s.Exporter != nil {
		path := exporter.DefaultPath(s.Job.ExportDir, a.Symbol, s.Exporter)
		if err := ensureDir(path); err != nil {
			log.Printf("[ERROR] export %s: %v", a.Symbol, err)
		} else if err := s.Exporter.Export(a, path); err != nil {
			log.Printf("[ERROR] export %s: %v", a.Symbol, err)
		} else {
			log.Printf("[INFO] exported %s to %s", a.Symbol, path)
		}
	}
	if s.Job.ChartDir != "" {
		path := filepath.Join(s.Job.ChartDir, strings.ToLower(a.Symbol)+"_chart.html")
		if err := ensureDir(path); err != nil {
			log.Printf("[ERROR] chart %s: %v", a.Symbol, err)
		} else if err := chart.RenderFile(path, a, chart.Options{Simple: s.Job.Simple}); err != nil {
			log.Printf("[ERROR] chart %s: %v", a.Symbol, err)
		}
	}
	if _, err := s.Recorder.RecordAnalysis(a); err != nil {
		log.Printf("[ERROR] record analysis: %v", err)
	}

	s.trySend(report.SummaryHTML(a))
	return nil
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(ctx context.Context, command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return helpText
	}
	switch fields[0] {
	case "/analyze":
		if len(fields) < 2 {
			return "usage: /analyze SYMBOL [period]"
		}
		period := s.Job.Period
		if len(fields) > 2 {
			period = fields[2]
		}
		a, err := s.Analyzer.Analyze(ctx, fields[1], period, s.Job.Interval)
		if err != nil {
			return failure(fields[1], err)
		}
		return report.SummaryHTML(a)
	case "/last":
		if len(fields) < 2 {
			return "usage: /last SYMBOL"
		}
		run, err := s.Recorder.LatestRun(strings.ToUpper(fields[1]))
		if err != nil {
			return failure(fields[1], err)
		}
		return report.FormatRun(run)
	case "/watch":
		if err := s.watch(); err != nil {
			return failure("watch", err)
		}
		return ""
	default:
		return helpText
	}
}

// failure formats an error for an HTML-mode message; both parts may carry
// user input or upstream response bodies.
func failure(subject string, err error) string {
	return fmt.Sprintf("❌ %s: %s", html.EscapeString(subject), html.EscapeString(err.Error()))
}

const helpText = "Commands:\n• /analyze SYMBOL [period]\n• /last SYMBOL\n• /watch"

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendWithRetry(s.Ctx, text, 3); err != nil {
		log.Printf("[ERROR] send notification: %v", err)
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." || dir == "" {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
