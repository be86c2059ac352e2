// Command import-tui runs the bulk importer behind a live terminal monitor
// instead of scrolling console logs.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"tandoorimport/canonical"
	"tandoorimport/config"
	"tandoorimport/dedup"
	"tandoorimport/importer"
	"tandoorimport/report"
	"tandoorimport/sources"
	"tandoorimport/tandoor"
	"tandoorimport/tui"
)

func main() {
	os.Exit(run())
}

func run() int {
	_ = godotenv.Load()
	log.SetFlags(0)

	startFrom := flag.Int("start-from", 0, "index of the first valid URL to import")
	maxImports := flag.Int("max-imports", 0, "cap on attempted imports, 0 imports everything")
	feed := flag.String("feed", "", "import links from an RSS/Atom feed URL or preset instead of a file")
	flag.Parse()

	if *feed == "" && flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "Usage: import-tui [flags] url_file")
		flag.PrintDefaults()
		return 1
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("❌ Configuration Error: %v\n", err)
		return 1
	}
	rules, err := config.LoadSiteRules(cfg.SiteRulesFile)
	if err != nil {
		fmt.Printf("❌ Configuration Error: %v\n", err)
		return 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var urls []string
	if *feed != "" {
		urls, err = sources.FetchFeed(ctx, sources.ResolveFeedURL(*feed), 0)
	} else {
		urls, err = sources.ReadFile(flag.Arg(0))
	}
	if err != nil {
		fmt.Printf("❌ %v\n", err)
		return 1
	}

	// The screen owns the terminal from here; drop the importer's console
	// logging rather than letting it tear through the frames.
	log.SetOutput(io.Discard)
	defer log.SetOutput(os.Stderr)

	client := tandoor.New(cfg.TandoorURL, cfg.APIToken)
	imp := importer.New(client, cfg, canonical.New(rules))
	if os.Getenv("REDIS_ADDR") != "" {
		if cache, cerr := dedup.NewSeenCacheFromEnv(); cerr == nil {
			defer cache.Close()
			imp.Seen = cache
		}
	}

	program := tea.NewProgram(tui.NewModel("🍲 Tandoor Bulk Import", cancel))
	imp.OnStart = func(ev importer.StartEvent) { program.Send(tui.StartedMsg(ev)) }
	imp.OnProgress = func(ev importer.ProgressEvent) { program.Send(tui.ProgressMsg(ev)) }

	recCh := make(chan *importer.RunRecord, 1)
	go func() {
		rec, runErr := imp.Run(ctx, urls, importer.RunOptions{StartFrom: *startFrom, MaxImports: *maxImports})
		program.Send(tui.RunDoneMsg{Record: rec, Err: runErr})
		recCh <- rec
	}()

	final, err := program.Run()
	cancel()
	if err != nil {
		fmt.Printf("Error running program: %v\n", err)
		return 1
	}

	// A quit mid-run tears the summary screen down with the rest; dump the
	// plain report so the partial stats survive.
	rec := <-recCh
	if fm, ok := final.(tui.Model); ok && fm.State == tui.StateRunning && rec != nil {
		fmt.Println()
		fmt.Print(report.Text(rec))
	}
	return 0
}
