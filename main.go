// Command tandoor-importer bulk imports recipe URLs into a Tandoor
// instance, skipping anything the instance already has. URLs come from a
// line-oriented file or an RSS feed; every run ends with a categorized
// report that can be mirrored to a file and archived to S3.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"tandoorimport/canonical"
	"tandoorimport/config"
	"tandoorimport/dedup"
	"tandoorimport/importer"
	"tandoorimport/report"
	"tandoorimport/sources"
	"tandoorimport/tandoor"
	"tandoorimport/types"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Load environment variables from .env if present (non-fatal if missing)
	_ = godotenv.Load()
	log.SetFlags(0)

	startFrom := flag.Int("start-from", 0, "index of the first valid URL to import")
	maxImports := flag.Int("max-imports", 0, "cap on attempted imports, 0 imports everything")
	output := flag.String("output", "", "mirror logs and the final report to this file")
	feed := flag.String("feed", "", "import links from an RSS/Atom feed URL or preset instead of a file")
	delay := flag.Int("delay", 0, "seconds between imports, overrides IMPORT_DELAY_SECONDS")
	flag.Usage = usage
	flag.Parse()

	switch {
	case *feed == "" && flag.NArg() != 1:
		usage()
		return 1
	case *feed != "" && flag.NArg() != 0:
		usage()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		return fail(err)
	}
	if *delay > 0 {
		if *delay < config.MinDelaySeconds || *delay > config.MaxDelaySeconds {
			return fail(&types.ConfigError{Msg: fmt.Sprintf("invalid delay value: %d. Must be between %d and %d seconds", *delay, config.MinDelaySeconds, config.MaxDelaySeconds)})
		}
		cfg.Delay = time.Duration(*delay) * time.Second
	}

	var mirror *os.File
	if *output != "" {
		mirror, err = openMirror(*output)
		if err != nil {
			return fail(&types.FileError{Msg: fmt.Sprintf("cannot open output file %s", *output), Err: err})
		}
		defer mirror.Close()
		log.SetOutput(io.MultiWriter(os.Stderr, mirror))
	}

	log.Println("🔧 TANDOOR BULK RECIPE IMPORTER")
	log.Println("Using corrected two-step import process")
	log.Println(strings.Repeat("=", 60))

	rules, err := config.LoadSiteRules(cfg.SiteRulesFile)
	if err != nil {
		return fail(err)
	}
	canon := canonical.New(rules)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	urls, err := loadURLs(ctx, *feed, flag.Arg(0))
	if err != nil {
		return fail(err)
	}

	client := tandoor.New(cfg.TandoorURL, cfg.APIToken)
	if err := checkConnectivity(ctx, client, cfg.TandoorURL); err != nil {
		return fail(err)
	}

	imp := importer.New(client, cfg, canon)
	if cfg.FollowRedirects {
		log.Println("🌐 Redirect resolution enabled")
		imp.ResolveRedirect = func(ctx context.Context, rawURL string) string {
			return canon.ResolveRedirect(ctx, client.HTTPClient(), rawURL)
		}
	}
	if os.Getenv("REDIS_ADDR") != "" {
		cache, err := dedup.NewSeenCacheFromEnv()
		if err != nil {
			log.Printf("⚠️ Seen-cache unavailable: %v (continuing without it)", err)
		} else {
			defer cache.Close()
			imp.Seen = cache
			log.Println("✅ Seen-cache connected")
		}
	}

	rec, runErr := imp.Run(ctx, urls, importer.RunOptions{StartFrom: *startFrom, MaxImports: *maxImports})
	if rec != nil {
		fmt.Println()
		fmt.Print(report.Styled(rec))
		if mirror != nil {
			fmt.Fprintln(mirror)
			fmt.Fprint(mirror, report.Text(rec))
		}
		archive(rec)
	}
	if runErr != nil {
		return fail(runErr)
	}
	if ctx.Err() != nil {
		fmt.Println("\n🛑 Import interrupted by user")
		return 130
	}
	return 0
}

// fail prints err with the prefix for its category and picks the exit code.
// URL-level failures never land here; only the four run-fatal kinds do.
func fail(err error) int {
	switch {
	case errors.As(err, new(*types.ConfigError)):
		fmt.Printf("❌ Configuration Error: %v\n", err)
	case errors.As(err, new(*types.FileError)):
		fmt.Printf("❌ File Error: %v\n", err)
	case errors.As(err, new(*types.NetworkError)):
		fmt.Printf("❌ Network Error: %v\n", err)
	case errors.As(err, new(*types.ProcessingError)):
		fmt.Printf("❌ Recipe Processing Error: %v\n", err)
	default:
		fmt.Printf("❌ Unexpected error: %v\n", err)
	}
	return 1
}

// openMirror creates the output file, making parent directories as needed.
func openMirror(path string) (*os.File, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
	}
	return os.Create(path)
}

// loadURLs reads the candidate list from the feed or the URL file.
func loadURLs(ctx context.Context, feed, path string) ([]string, error) {
	if feed != "" {
		feedURL := sources.ResolveFeedURL(feed)
		log.Printf("🌐 Fetching feed: %s", feedURL)
		urls, err := sources.FetchFeed(ctx, feedURL, 0)
		if err != nil {
			return nil, err
		}
		log.Printf("📊 Feed yielded %d links", len(urls))
		return urls, nil
	}
	urls, err := sources.ReadFile(path)
	if err != nil {
		return nil, err
	}
	log.Printf("📖 Read %d URLs from %s", len(urls), path)
	return urls, nil
}

// checkConnectivity makes one cheap list call so a wrong URL or token fails
// the run before any imports start. Any HTTP answer past auth counts as
// reachable; the index fetch has its own per-status retries.
func checkConnectivity(ctx context.Context, client *tandoor.Client, baseURL string) error {
	log.Printf("🌐 Checking connection to %s ...", baseURL)
	_, err := client.ListRecipes(ctx, 1, 1, "")
	if err == nil {
		log.Println("✅ Tandoor is reachable")
		return nil
	}
	if tandoor.IsAuthFailure(err) {
		return &types.NetworkError{Msg: "authentication failed, check TANDOOR_API_TOKEN", Err: err}
	}
	var se *tandoor.StatusError
	if errors.As(err, &se) {
		log.Printf("⚠️ Tandoor answered %d on the connectivity check, continuing", se.StatusCode)
		return nil
	}
	return &types.NetworkError{Msg: fmt.Sprintf("cannot reach Tandoor at %s", baseURL), Err: err}
}

// archive uploads the run record when S3 is configured. Uses a fresh
// context: the run context is already canceled when a report follows an
// interrupt.
func archive(rec *importer.RunRecord) {
	ctx := context.Background()
	arc := report.NewArchiverFromEnv(ctx)
	if arc == nil {
		log.Println("ℹ️ S3 not configured; skipping run archive")
		return
	}
	if err := arc.Archive(ctx, rec); err != nil {
		log.Printf("⚠️ Run archive failed: %v", err)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, "Usage: tandoor-importer [flags] url_file")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Bulk import recipe URLs into a Tandoor instance, skipping duplicates.")
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Flags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr)
	fmt.Fprintln(os.Stderr, "Examples:")
	fmt.Fprintln(os.Stderr, "  tandoor-importer url-list.txt")
	fmt.Fprintln(os.Stderr, "  tandoor-importer -start-from 100 url-list.txt")
	fmt.Fprintln(os.Stderr, "  tandoor-importer -max-imports 50 -output results.log url-list.txt")
	fmt.Fprintln(os.Stderr, "  tandoor-importer -feed smittenkitchen -max-imports 10")
}
