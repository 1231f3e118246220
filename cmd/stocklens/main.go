package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"StockLens/internal/cache"
	"StockLens/internal/chart"
	"StockLens/internal/collector"
	"StockLens/internal/config"
	"StockLens/internal/exporter"
	"StockLens/internal/metrics"
	"StockLens/internal/notifier"
	"StockLens/internal/recorder"
	"StockLens/internal/report"
	"StockLens/internal/scheduler"
	"StockLens/internal/server"
)

type options struct {
	configPath string
	period     string
	interval   string
	simple     bool
	save       string
	export     string
	format     string
	watch      bool
	serve      bool
}

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}

	var o options
	flag.StringVar(&o.configPath, "config", cfgPath, "path to the YAML config file")
	flag.StringVar(&o.period, "period", "", "time period: 1d, 5d, 1mo, 3mo, 6mo, 1y, 2y, 5y, 10y, ytd, max")
	flag.StringVar(&o.interval, "interval", "", "bar interval: 1d or 1wk")
	flag.BoolVar(&o.simple, "simple", false, "show the close-price chart only (no indicators)")
	flag.StringVar(&o.save, "save", "", "save the chart to this HTML file")
	flag.StringVar(&o.export, "export", "", "export data to this file (json, csv or parquet)")
	flag.StringVar(&o.format, "format", "", "export format; defaults to the -export extension")
	flag.BoolVar(&o.watch, "watch", false, "re-analyze the configured symbols on the cron schedule")
	flag.BoolVar(&o.serve, "serve", false, "serve the HTTP API")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: stocklens [flags] SYMBOL\n\nStock data analysis tool.\n\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(o.configPath)
	if err != nil {
		log.Fatalf("[FATAL] load config: %v", err)
	}
	if o.period != "" {
		cfg.Analysis.Period = o.period
	}
	if o.interval != "" {
		cfg.Analysis.Interval = o.interval
	}
	if o.simple {
		cfg.Output.Simple = true
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("[FATAL] config validation: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	fetcher := newFetcher(ctx, cfg)
	log.Printf("[INFO] data source: %s", fetcher.Name())
	col := collector.NewCollector(fetcher, cfg.Indicators)

	switch {
	case o.serve:
		rec := newRecorder(cfg)
		defer rec.Close()
		m := metrics.NewMetrics()
		h := server.NewHandler(metrics.Instrument(col, m, cfg.Analysis.Symbols...), rec, cfg.Analysis.Period, cfg.Analysis.Interval)
		if err := server.Run(ctx, cfg.Server.Addr, server.NewRouter(h, m.Handler())); err != nil {
			log.Fatalf("[FATAL] http server: %v", err)
		}
	case o.watch:
		if flag.NArg() > 0 {
			cfg.Analysis.Symbols = flag.Args()
		}
		if err := watch(ctx, cfg, col); err != nil {
			log.Fatalf("[FATAL] watch: %v", err)
		}
	default:
		if flag.NArg() != 1 {
			flag.Usage()
			os.Exit(2)
		}
		if err := runOnce(ctx, cfg, col, flag.Arg(0), o); err != nil {
			log.Printf("[ERROR] %v", err)
			fmt.Println("Failed to fetch data. Please check the stock symbol and try again.")
			os.Exit(1)
		}
	}
}

func runOnce(ctx context.Context, cfg *config.Config, col *collector.Collector, symbol string, o options) error {
	fmt.Printf("Fetching data for %s...\n", symbol)
	a, err := col.Analyze(ctx, symbol, cfg.Analysis.Period, cfg.Analysis.Interval)
	if err != nil {
		return err
	}
	fmt.Println("Data fetched successfully!")
	fmt.Println()
	fmt.Print(report.Summary(a))

	if o.save != "" {
		if err := chart.RenderFile(o.save, a, chart.Options{Simple: cfg.Output.Simple}); err != nil {
			log.Printf("[ERROR] save chart: %v", err)
		} else {
			fmt.Printf("Chart saved to %s\n", o.save)
		}
	}
	if o.export != "" {
		exp, err := exporter.ForPath(o.export, o.format)
		if err != nil {
			log.Printf("[ERROR] export: %v", err)
		} else if err := exp.Export(a, o.export); err != nil {
			log.Printf("[ERROR] export: %v", err)
		} else {
			fmt.Printf("Data exported to %s\n", o.export)
		}
	}
	rec := newRecorder(cfg)
	defer rec.Close()
	if _, err := rec.RecordAnalysis(a); err != nil {
		log.Printf("[WARN] record analysis: %v", err)
	}
	return nil
}

func watch(ctx context.Context, cfg *config.Config, col *collector.Collector) error {
	if len(cfg.Analysis.Symbols) == 0 {
		return errors.New("no symbols configured (analysis.symbols or positional arguments)")
	}
	rec := newRecorder(cfg)
	defer rec.Close()

	exp, err := exporter.New(cfg.Output.ExportFormat)
	if err != nil {
		return err
	}

	var n notifier.Notifier = notifier.NoopNotifier{}
	var tn *notifier.TelegramNotifier
	if cfg.TelegramEnabled() {
		tn = notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)
		n = tn
	}

	sched := scheduler.NewScheduler(ctx, col, n, rec, exp, scheduler.Job{
		Symbols:   cfg.Analysis.Symbols,
		Period:    cfg.Analysis.Period,
		Interval:  cfg.Analysis.Interval,
		ExportDir: cfg.Output.ExportDir,
		ChartDir:  cfg.Output.ChartDir,
		Simple:    cfg.Output.Simple,
	})
	if err := sched.Register(cfg.Schedule.WatchCron); err != nil {
		return err
	}
	sched.Start()
	defer sched.Stop()

	if tn != nil {
		go tn.StartPolling(ctx, sched.HandleCommand)
		log.Println("[INFO] Telegram polling started")
	}

	if os.Getenv("RUN_ON_START") == "true" {
		log.Println("[INFO] RUN_ON_START enabled, executing watch task now")
		go func() {
			if err := sched.RunNow(); err != nil {
				log.Printf("[ERROR] watch task: %v", err)
			}
		}()
	}

	log.Printf("[INFO] watching %s on %q. Press Ctrl+C to stop.", strings.Join(cfg.Analysis.Symbols, ","), cfg.Schedule.WatchCron)
	<-ctx.Done()
	log.Println("[INFO] shutdown signal received, stopping...")
	return nil
}

func newFetcher(ctx context.Context, cfg *config.Config) collector.Fetcher {
	var f collector.Fetcher
	switch cfg.DataSource.Provider {
	case config.ProviderAlphaVantage:
		f = collector.NewAlphaVantageFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	case config.ProviderMock:
		f = &collector.MockFetcher{Price: 100}
	default:
		f = collector.NewYahooFetcher(cfg.Proxy)
	}

	if cfg.Cache.RedisAddr == "" {
		return f
	}
	rdb, err := cache.NewClient(ctx, cfg.Cache.RedisAddr, cfg.Cache.Password, cfg.Cache.DB)
	if err != nil {
		log.Printf("[WARN] redis unavailable, caching disabled: %v", err)
		return f
	}
	log.Printf("[INFO] caching bars in redis %s (ttl %v)", cfg.Cache.RedisAddr, cfg.Cache.TTL)
	return cache.NewCachingFetcher(rdb, cfg.Cache.TTL, f, "")
}

func newRecorder(cfg *config.Config) recorder.Recorder {
	if cfg.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
	if err != nil {
		log.Printf("[WARN] init sqlite recorder failed, using noop: %v", err)
		return recorder.NewNoopRecorder()
	}
	return sr
}
