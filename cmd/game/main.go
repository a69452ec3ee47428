package main

import (
	"bufio"
	"fmt"
	"os"

	"github.com/mkarls/outrush/internal/config"
	"github.com/mkarls/outrush/internal/highscore"
	"github.com/mkarls/outrush/internal/loop"
	"golang.org/x/term"
)

func main() {
	fd := int(os.Stdin.Fd())
	oldState, err := term.MakeRaw(fd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to enable raw mode: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = term.Restore(fd, oldState)
	}()

	opts := loop.Options{
		Seed: config.GetEnvInt64("OUTRUSH_SEED", 0),
	}

	// Scores persist only when a database path is configured.
	var store *highscore.Store
	if dbPath := config.GetEnv("OUTRUSH_DB", ""); dbPath != "" {
		store, err = highscore.Open(dbPath)
		if err != nil {
			_ = term.Restore(fd, oldState)
			fmt.Fprintf(os.Stderr, "failed to open high scores: %v\n", err)
			os.Exit(1)
		}
		name := config.GetEnv("USER", "player")
		opts.Reporter = store.NewReporter(name, nil)
	}

	reader := bufio.NewReader(os.Stdin)
	if err := loop.Run(reader, os.Stdout, opts); err != nil {
		_ = term.Restore(fd, oldState)
		fmt.Fprintf(os.Stderr, "game error: %v\n", err)
		os.Exit(1)
	}

	// Back to cooked mode before printing the board.
	_ = term.Restore(fd, oldState)
	if store != nil {
		printTopScores(store)
	}
}

// printTopScores writes the leaderboard after the terminal is back in cooked
// mode on exit.
func printTopScores(store *highscore.Store) {
	top, err := store.Top(5)
	if err != nil || len(top) == 0 {
		return
	}
	fmt.Println("High scores:")
	for i, e := range top {
		fmt.Printf("  %d. %-16s %d\n", i+1, e.Name, e.Score)
	}
}
