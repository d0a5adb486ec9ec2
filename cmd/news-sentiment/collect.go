package main

import (
	"context"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/news-sentiment/internal/archive"
	"github.com/pdiddy/news-sentiment/internal/collect"
	"github.com/pdiddy/news-sentiment/internal/pagecache"
	"github.com/pdiddy/news-sentiment/internal/plan"
	"github.com/pdiddy/news-sentiment/internal/secrets"
	"github.com/pdiddy/news-sentiment/internal/sentiment"
	"github.com/pdiddy/news-sentiment/pkg/types"
)

const (
	defaultTimeout   = 60 * time.Second
	defaultCachePath = "cache/pages.db"
)

var collectCmd = &cobra.Command{
	Use:   "collect <keyword>... <year-min> <year-max> <increment> <max-results>",
	Short: "Collect and score newspaper pages for keywords over a year range",
	Long: `Collect splits [year-min, year-max] into intervals of increment years and
queries Chronicling America once per interval for pages mentioning any of the
keywords, keeping at most max-results records per interval. The sentences
that mention a keyword are scored for polarity and subjectivity.

Each interval is written to <keyword>-<start>-<end>.csv and recorded in
<keyword>-log.csv. A failed page is retried once after a cooldown; if the
retry also fails the run stops, and every interval already logged stays
valid. Re-run with --resume-from (or a later year-min) to continue.`,
	Args: cobra.MinimumNArgs(5),
	RunE: runCollect,
}

func init() {
	collectCmd.Flags().String("output-dir", ".", "directory for result and log CSV files")
	collectCmd.Flags().String("cache", defaultCachePath, "SQLite page cache")
	collectCmd.Flags().Bool("no-cache", false, "query the archive without the page cache")
	collectCmd.Flags().Int("page-size", archive.DefaultPageSize, "rows requested per archive page")
	collectCmd.Flags().Duration("cooldown", 0, "wait before retrying a failed page (default 1m)")
	collectCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 60s)")
	collectCmd.Flags().Int("resume-from", 0, "skip planned intervals that end before this year")
	collectCmd.Flags().Bool("skip-logged", false, "skip intervals already present in the log")
	collectCmd.Flags().String("sentiment", string(types.SentimentLexicon), "sentiment backend: lexicon or http")
	collectCmd.Flags().String("sentiment-url", "", "scoring endpoint for the http sentiment backend")

	for key, flag := range map[string]string{
		"collect.output_dir":        "output-dir",
		"collect.cache_path":        "cache",
		"collect.archive.page_size": "page-size",
		"collect.cooldown":          "cooldown",
		"collect.archive.timeout":   "timeout",
		"collect.skip_logged":       "skip-logged",
		"sentiment.backend":         "sentiment",
		"sentiment.url":             "sentiment-url",
	} {
		_ = viper.BindPFlag(key, collectCmd.Flags().Lookup(flag))
	}

	rootCmd.AddCommand(collectCmd)
}

// collectArgs are the positional arguments of collect.
type collectArgs struct {
	Keywords   []string
	YearMin    int
	YearMax    int
	Increment  int
	MaxResults int
}

// parseCollectArgs reads keywords followed by four numbers. The maximum
// may be written as a float ("5e3") and is truncated.
func parseCollectArgs(args []string) (collectArgs, error) {
	if len(args) < 5 {
		return collectArgs{}, errors.New("expected at least five arguments: keywords, year-min, year-max, increment, max-results")
	}
	n := len(args)
	var a collectArgs
	var err error

	if a.MaxResults, err = parseCount(args[n-1]); err != nil {
		return a, fmt.Errorf("max-results %q: expected a positive number of records per interval", args[n-1])
	}
	names := []string{"year-min", "year-max", "increment"}
	targets := []*int{&a.YearMin, &a.YearMax, &a.Increment}
	for i, raw := range args[n-4 : n-1] {
		v, convErr := strconv.Atoi(strings.TrimSpace(raw))
		if convErr != nil {
			return a, fmt.Errorf("%s %q: expected an integer", names[i], raw)
		}
		*targets[i] = v
	}

	for _, kw := range args[:n-4] {
		if kw = strings.TrimSpace(kw); kw != "" {
			a.Keywords = append(a.Keywords, kw)
		}
	}
	if len(a.Keywords) == 0 {
		return a, errors.New("expected at least one keyword before year-min")
	}
	return a, nil
}

func parseCount(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if v, err := strconv.Atoi(raw); err == nil && v > 0 {
		return v, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || f < 1 || math.IsInf(f, 0) {
		return 0, errors.New("not a positive count")
	}
	return int(f), nil
}

func runCollect(cmd *cobra.Command, args []string) error {
	pos, err := parseCollectArgs(args)
	if err != nil {
		return err
	}

	timeout := viper.GetDuration("collect.archive.timeout")
	if timeout == 0 {
		timeout = defaultTimeout
	}
	resumeFrom, _ := cmd.Flags().GetInt("resume-from")
	noCache, _ := cmd.Flags().GetBool("no-cache")

	userAgent := secretDefault(viper.GetString("collect.archive.user_agent"), secrets.ArchiveUserAgent)
	if userAgent == "" {
		userAgent = defaultUserAgent
	}

	cfg := types.CollectConfig{
		Archive: types.ArchiveConfig{
			HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: userAgent},
			BaseURL:    viper.GetString("collect.archive.base_url"),
			PageSize:   viper.GetInt("collect.archive.page_size"),
		},
		Keywords:   pos.Keywords,
		YearMin:    pos.YearMin,
		YearMax:    pos.YearMax,
		Increment:  pos.Increment,
		MaxResults: pos.MaxResults,
		OutputDir:  viper.GetString("collect.output_dir"),
		CachePath:  viper.GetString("collect.cache_path"),
		Cooldown:   viper.GetDuration("collect.cooldown"),
		ResumeFrom: resumeFrom,
		SkipLogged: viper.GetBool("collect.skip_logged"),
	}
	if noCache {
		cfg.CachePath = ""
	}

	scorer, err := sentiment.New(types.SentimentConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: userAgent},
		Backend:    types.SentimentBackend(viper.GetString("sentiment.backend")),
		URL:        viper.GetString("sentiment.url"),
		APIKey:     secretDefault(viper.GetString("sentiment.api_key"), secrets.SentimentAPIKey),
	})
	if err != nil {
		return err
	}

	var source archive.Source = archive.NewClient(cfg.Archive)
	var cached *archive.Cached
	if cfg.CachePath != "" {
		store, err := pagecache.Open(cfg.CachePath)
		if err != nil {
			return err
		}
		defer store.Close()
		cached = &archive.Cached{Next: source, Store: store}
		source = cached
	}

	collector := &collect.Collector{
		Executor: &collect.Executor{
			Source:   source,
			Scorer:   scorer,
			PageSize: cfg.Archive.PageSize,
			Cooldown: cfg.Cooldown,
			Log:      appLog,
		},
		OutputDir: cfg.OutputDir,
		Progress:  os.Stdout,
		Log:       appLog,
	}

	run, err := collector.Collect(context.Background(), cfg)
	if cached != nil {
		appLog.Info("page cache", "path", cfg.CachePath, "hits", cached.Hits, "misses", cached.Misses)
	}
	if err != nil {
		return collectError(err, pos, len(run.Entries))
	}

	fmt.Printf("Wrote %d interval(s) to %s (%d of %d available records, %d article(s) scored, %d without keyword sentences).\n",
		len(run.Entries), run.LogPath, run.Collected, run.Available, run.Articles, run.Dropped)
	if cached != nil {
		fmt.Printf("Page cache: %d hit(s), %d miss(es).\n", cached.Hits, cached.Misses)
	}
	fmt.Println("Finished!")
	return nil
}

// collectError rewrites the typed collection errors into messages that
// name the argument to change.
func collectError(err error, pos collectArgs, completed int) error {
	var rangeErr *plan.InvalidRangeError
	if errors.As(err, &rangeErr) {
		if rangeErr.Increment < 1 {
			return fmt.Errorf("%w; pass an increment of at least 1", err)
		}
		return fmt.Errorf("%w; pass a year-min no later than year-max", err)
	}

	var queryErr *collect.QueryFailedError
	if errors.As(err, &queryErr) {
		resume := queryErr.ResumeYear()
		return fmt.Errorf("%w\n%d interval(s) completed and remain valid; re-run with year-min %d (or --resume-from %d) to continue:\n  news-sentiment collect %s %d %d %d %d --resume-from %d",
			err, completed, resume, resume,
			strings.Join(pos.Keywords, " "), pos.YearMin, pos.YearMax, pos.Increment, pos.MaxResults, resume)
	}
	return err
}
