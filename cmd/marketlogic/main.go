package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"marketlogic/internal/analyzer"
	"marketlogic/internal/collector"
	"marketlogic/internal/config"
	"marketlogic/internal/metrics"
	"marketlogic/internal/notifier"
	"marketlogic/internal/scheduler"
	"marketlogic/internal/server"
)

var (
	cfgFile string
	days    int
	format  string
	addr    string
	runNow  bool
)

func main() {
	log.SetFlags(log.LstdFlags | log.Lshortfile)

	rootCmd := &cobra.Command{
		Use:   "marketlogic",
		Short: "Market logic scorecard for stocks and ETFs",
		Long: `Marketlogic evaluates a single equity ticker across six factor blocks
(trend, breadth, sentiment, valuation, volatility regime, liquidity)
and maps the combined score to a buy/hold/sell recommendation.

Examples:
  marketlogic analyze AAPL
  marketlogic analyze GRID --days 1095 --format json
  marketlogic serve --addr :8080
  marketlogic watch`,
	}
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "configs/config.yaml", "config file path")

	analyzeCmd := &cobra.Command{
		Use:   "analyze TICKER",
		Short: "Run one analysis and print the scorecard",
		Args:  cobra.ExactArgs(1),
		RunE:  runAnalyze,
	}
	analyzeCmd.Flags().IntVar(&days, "days", 0, "lookback window in calendar days (365-1095, default from config)")
	analyzeCmd.Flags().StringVar(&format, "format", "table", "output format: table, json")

	serveCmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the dashboard JSON API",
		RunE:  runServe,
	}
	serveCmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	watchCmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-analyze the configured ticker on a schedule and notify via Telegram",
		RunE:  runWatch,
	}
	watchCmd.Flags().BoolVar(&runNow, "now", false, "run one analysis immediately on start")

	rootCmd.AddCommand(analyzeCmd, serveCmd, watchCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}
	return cfg, nil
}

func newFetcher(cfg *config.Config) collector.Fetcher {
	var fetcher collector.Fetcher
	if cfg.DataSource.BaseURL != "" {
		fetcher = collector.NewRESTFetcher(cfg.DataSource.BaseURL, cfg.DataSource.APIKey, cfg.Proxy)
	} else {
		fetcher = collector.NewYahooFetcher(cfg.Proxy)
	}
	log.Printf("[INFO] data source: %s", fetcher.Name())
	return fetcher
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	lookback := cfg.DataSource.LookbackDays
	if cmd.Flags().Changed("days") {
		lookback = days
	}
	if lookback < config.MinLookbackDays || lookback > config.MaxLookbackDays {
		return fmt.Errorf("days must be between %d and %d", config.MinLookbackDays, config.MaxLookbackDays)
	}

	a := analyzer.New(newFetcher(cfg), cfg.DataSource.Benchmark, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	res, err := a.Analyze(ctx, args[0], lookback)
	if err != nil {
		return err
	}

	if format == "json" {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	printResult(res)
	return nil
}

func printResult(res *analyzer.Result) {
	snap := res.Snapshot
	card := res.Scorecard

	fmt.Printf("\n%s | as of %s (%d bars)\n\n", res.Ticker, res.AsOf.Format("2006-01-02"), res.Bars)
	fmt.Printf("Price: $%.2f | MA50: $%.2f | MA200: $%.2f\n", snap.Price, snap.MA50, snap.MA200)
	fmt.Printf("20d ROC: %+.2f%% | Volatility (20d): %.2f%% | Vol z-score: %.2f\n", snap.ROC20d, snap.Volatility20d, snap.VolZScore)
	fmt.Printf("Win rate: %.1f%% | 52w position: %.1f%%\n\n", snap.WinRate, snap.RangePosition)

	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"Category", "Score", "Status", "Rationale"}),
	)
	for _, c := range card.Categories {
		status := "~ NEUTRAL"
		if c.Score > 0 {
			status = "+ FAVORABLE"
		} else if c.Score < 0 {
			status = "- UNFAVORABLE"
		}
		rationale := ""
		if len(c.Verdicts) > 0 {
			rationale = c.Verdicts[0]
		}
		table.Append([]string{
			c.Name,
			fmt.Sprintf("%+d/%d", c.Score, c.Max),
			status,
			rationale,
		})
	}
	table.Render()

	fmt.Printf("\nRaw score: %+d / %d\n", card.Raw, card.MaxScore)
	fmt.Printf("Normalized: %+.2f (scale -5 to +5)\n", card.Normalized)
	fmt.Printf("Recommendation: %s\n", card.Recommendation)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	listenAddr := cfg.Server.Addr
	if addr != "" {
		listenAddr = addr
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	a := analyzer.New(newFetcher(cfg), cfg.DataSource.Benchmark, m)
	srv := server.New(listenAddr, a, cfg.DataSource.LookbackDays)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case <-sigCh:
		log.Println("[INFO] shutdown signal received, stopping...")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(ctx)
}

func runWatch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Watch.Enabled = true
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	a := analyzer.New(newFetcher(cfg), cfg.DataSource.Benchmark, nil)
	tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w := scheduler.NewWatcher(ctx, a, tn, cfg.Watch.Ticker, cfg.Watch.Days)
	if err := w.Register(cfg.Watch.Cron); err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	go tn.StartPolling(ctx, w.HandleCommand)
	log.Println("[INFO] Telegram polling started")

	if runNow {
		go w.RunNow()
	}

	log.Printf("[INFO] watching %s (%s). Press Ctrl+C to stop.", cfg.Watch.Ticker, cfg.Watch.Cron)

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[INFO] shutdown signal received, stopping...")
	return nil
}
