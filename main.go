// termtris is a terminal tetris game with local versus play and a shared leaderboard.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"termtris/config"
	"termtris/engine"
	"termtris/leaderboard"
	"termtris/replay"
	"termtris/ui"
)

// Version is set at build time via ldflags
var Version = "dev"

// Command-line flags
var (
	flagMode    = flag.String("mode", "", "Start a game immediately (single or versus)")
	flagName    = flag.String("name", "", "Player name used for replays and the leaderboard")
	flagServe   = flag.String("serve", "", "Serve the leaderboard over HTTP on this address (e.g. :8080) instead of playing")
	flagVersion = flag.Bool("version", false, "Print version and exit")
)

var app *tview.Application
var rootPage *tview.Pages
var cfg *config.Config
var store leaderboard.Store
var sink ui.AudioSink = ui.NopSink{}

var singleView *ui.SingleView
var versusView *ui.VersusView
var scoresUI *ui.ScoresUI
var replayBrowser *ui.ReplayBrowserUI
var colorConfig *ui.ColorConfigUI

func main() {
	flag.Parse()

	if *flagVersion {
		fmt.Printf("termtris %s\n", Version)
		return
	}

	var err error
	cfg, err = config.InitConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "termtris: %s\n", err)
		os.Exit(1)
	}
	if *flagName != "" {
		cfg.PlayerName = *flagName
	}

	if *flagServe != "" {
		if err := serve(*flagServe); err != nil {
			fmt.Fprintf(os.Stderr, "termtris: %s\n", err)
			os.Exit(1)
		}
		return
	}

	mode := replay.Mode(strings.ToLower(*flagMode))
	if mode != "" && mode != replay.ModeSingle && mode != replay.ModeVersus {
		fmt.Fprintf(os.Stderr, "termtris: unknown mode %q (want single or versus)\n", *flagMode)
		os.Exit(2)
	}

	if logFile := openDebugLog(); logFile != nil {
		defer logFile.Close()
	}

	singleKeys, err := ui.NewKeyMap(cfg.Keys.Single)
	if err != nil {
		fmt.Fprintf(os.Stderr, "termtris: single player keys: %s\n", err)
		os.Exit(1)
	}
	versusKeys, err := ui.NewKeyMap(cfg.Keys.PlayerOne, cfg.Keys.PlayerTwo)
	if err != nil {
		fmt.Fprintf(os.Stderr, "termtris: versus keys: %s\n", err)
		os.Exit(1)
	}

	store, err = openStore(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "termtris: leaderboard: %s\n", err)
		os.Exit(1)
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "termtris: %s\n", err)
		os.Exit(1)
	}
	if cfg.Sound {
		sink = ui.NewBellSink(screen)
	}

	app = tview.NewApplication()
	app.SetScreen(screen)
	rootPage = tview.NewPages()
	rootPage.SetBorder(true).SetTitle(" ▦ termtris ")

	toSetup := func() {
		rootPage.SwitchToPage("setup")
	}

	singleView = ui.NewSingleView(cfg, singleKeys, toSetup)
	versusView = ui.NewVersusView(cfg, versusKeys, [2]string{}, toSetup)
	scoresUI = ui.NewScores(store, queue, toSetup)
	replayBrowser = ui.NewReplayBrowser(cfg, cfg.ReplayPath(), toSetup)
	colorConfig = ui.NewColorConfig(cfg, config.FileSettings{}, func(saved *config.Config, err error) {
		if err != nil {
			showError(fmt.Sprintf("Could not save colors:\n%s", err))
			return
		}
		if saved != nil {
			*cfg = *saved
			singleView.SetConfig(cfg)
			versusView.SetConfig(cfg)
		}
		toSetup()
	})

	setupUI := ui.NewGameSetup(ui.GameOptions{
		Mode:       mode,
		PlayerName: cfg.PlayerName,
	}, ui.SetupActions{
		Start: startGame,
		Scores: func() {
			rootPage.SwitchToPage("scores")
			scoresUI.Refresh()
		},
		Replays: func() {
			replayBrowser.Refresh()
			rootPage.SwitchToPage("replays")
		},
		Colors: func() {
			colorConfig.Reset(cfg)
			rootPage.SwitchToPage("colors")
		},
		Quit: func() {
			app.Stop()
		},
	})

	rootPage.AddPage("setup", setupUI.Form(), true, mode == "")
	rootPage.AddPage("single", singleView.Frame(), true, false)
	rootPage.AddPage("versus", versusView.Frame(), true, false)
	rootPage.AddPage("scores", scoresUI.Flex(), true, false)
	rootPage.AddPage("replays", replayBrowser.Flex(), true, false)
	rootPage.AddPage("colors", colorConfig.Flex(), true, false)

	if mode != "" {
		startGame(setupUI.Options())
	}

	err = app.SetRoot(rootPage, true).Run()
	singleView.Detach()
	versusView.Detach()
	if err != nil {
		fmt.Fprintf(os.Stderr, "termtris: %s\n", err)
		os.Exit(1)
	}
}

// queue hands f to the UI goroutine and redraws.
func queue(f func()) {
	app.QueueUpdateDraw(f)
}

// startGame starts a session for the options chosen on the setup screen.
func startGame(opts ui.GameOptions) {
	if opts.PlayerName != "" && opts.PlayerName != cfg.PlayerName {
		cfg.PlayerName = opts.PlayerName
		if err := cfg.Save(); err != nil {
			log.Printf("save player name: %s", err)
		}
	}

	sessionOpts := ui.SessionOptions{
		ReplayDir: cfg.ReplayPath(),
		Sink:      sink,
		Queue:     queue,
	}

	switch opts.Mode {
	case replay.ModeVersus:
		names := [2]string{opts.PlayerName, opts.OpponentName}
		versusView.SetNames(names)
		sessionOpts.Players = playerNames(names[:])
		session := ui.NewVersusSession(sessionOpts)
		versusView.Attach(session)
		session.Start()
		rootPage.SwitchToPage("versus")
		app.SetFocus(versusView.Well().Box)
	default:
		sessionOpts.Players = playerNames([]string{opts.PlayerName})
		session := ui.NewSingleSession(sessionOpts)
		session.OnGameOver = func(s engine.GameState) {
			if s.Score > 0 {
				promptScore(opts.PlayerName, s.Score)
			}
		}
		singleView.Attach(session)
		session.Start()
		rootPage.SwitchToPage("single")
		app.SetFocus(singleView.Well().Box)
	}
}

func playerNames(names []string) []string {
	out := make([]string, len(names))
	for i, name := range names {
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		out[i] = name
	}
	return out
}

// promptScore asks for a name and submits a finished single-player score.
func promptScore(name string, score int) {
	closePrompt := func() {
		rootPage.RemovePage("submit")
		app.SetFocus(singleView.Well().Box)
	}
	prompt := ui.NewNamePrompt(name, score, func(name string) {
		closePrompt()
		go submitScore(leaderboard.Submission{
			Name:  name,
			Score: score,
			Mode:  string(replay.ModeSingle),
		})
	}, closePrompt)
	rootPage.AddPage("submit", prompt, true, true)
}

func submitScore(s leaderboard.Submission) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := store.Submit(ctx, s)
	queue(func() {
		if err != nil {
			showError(fmt.Sprintf("Failed to submit score:\n%s", err))
		}
	})
}

// showError displays msg in a modal above the current page.
func showError(msg string) {
	modal := tview.NewModal().
		SetText(msg).
		AddButtons([]string{"OK"}).
		SetDoneFunc(func(buttonIndex int, buttonLabel string) {
			rootPage.RemovePage("error")
		})
	rootPage.AddPage("error", modal, true, true)
}

// openStore picks the remote leaderboard when a URL is configured and the
// local score file otherwise.
func openStore(c *config.Config) (leaderboard.Store, error) {
	if c.Leaderboard.URL != "" {
		return leaderboard.NewClient(c.Leaderboard.URL), nil
	}
	path, err := c.LeaderboardPath()
	if err != nil {
		return nil, err
	}
	return leaderboard.NewFileStore(path), nil
}

// openDebugLog sends session diagnostics to the XDG state dir. Failure only
// disables the log.
func openDebugLog() *os.File {
	path, err := config.LogPath()
	if err != nil {
		return nil
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil
	}
	ui.SetDebugLog(f)
	log.SetOutput(f)
	return f
}

// serve runs the leaderboard HTTP server until interrupted.
func serve(addr string) error {
	path, err := cfg.LeaderboardPath()
	if err != nil {
		return err
	}
	logger := log.New(os.Stderr, "termtris ", log.LstdFlags)
	srv := &http.Server{
		Addr:              addr,
		Handler:           leaderboard.Handler(leaderboard.NewFileStore(path), logger),
		ReadHeaderTimeout: 5 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		logger.Printf("serving leaderboard %s on %s", path, addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Printf("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
