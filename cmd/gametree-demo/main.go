// Command gametree-demo plays tic-tac-toe against itself using the search
// engine, optionally persisting the transposition cache between runs.
package main

import (
	"fmt"
	"log"
	"os"

	flag "github.com/spf13/pflag"

	"github.com/hailam/gametree/games/tictactoe"
	"github.com/hailam/gametree/internal/cache"
	"github.com/hailam/gametree/internal/search"
	"github.com/hailam/gametree/internal/ttstore"
)

func main() {
	var (
		preset     = flag.String("preset", search.Standard.Name, "search depth preset: easy, standard, or thorough")
		cacheSize  = flag.Int("cache-size", 1<<16, "number of transposition cache slots")
		maxAge     = flag.Int("max-age", 8, "aging sweeps before an unreferenced entry is evicted")
		persistent = flag.Bool("persist", false, "load/save the transposition cache from the default data directory")
	)
	flag.Parse()

	depth, err := depthForPreset(*preset)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *cacheSize <= 0 || *maxAge <= 0 {
		fmt.Fprintln(os.Stderr, "--cache-size and --max-age must be positive")
		os.Exit(2)
	}

	c := cache.New(*cacheSize, *maxAge)

	var store *ttstore.Store
	if *persistent {
		store, err = openPersistentStore(c)
		if err != nil {
			log.Fatalf("gametree-demo: %v", err)
		}
		defer func() {
			if err := store.SnapshotCache(c); err != nil {
				log.Printf("gametree-demo: saving cache: %v", err)
			}
			store.Close()
		}()
	}

	driver := search.New(c, tictactoe.Evaluator{}, tictactoe.Generator{}, depth)
	playSelfGame(driver, c)
}

func depthForPreset(name string) (int, error) {
	for _, p := range search.Presets() {
		if p.Name == name {
			return p.MaxDepth, nil
		}
	}
	return 0, fmt.Errorf("unknown preset %q (want one of: easy, standard, thorough)", name)
}

func openPersistentStore(c *cache.Cache) (*ttstore.Store, error) {
	dir, err := ttstore.CacheDir()
	if err != nil {
		return nil, fmt.Errorf("resolving cache directory: %w", err)
	}
	store, err := ttstore.Open(dir)
	if err != nil {
		return nil, fmt.Errorf("opening cache store: %w", err)
	}
	if err := store.RestoreCache(c); err != nil {
		log.Printf("gametree-demo: starting with an empty cache: %v", err)
	}
	return store, nil
}

// playSelfGame drives the engine against itself move by move, aging the
// cache once per completed turn as the lifecycle in §3 of the design
// prescribes, and printing the board after every move.
func playSelfGame(driver *search.Driver, c *cache.Cache) {
	state := search.GameState(tictactoe.NewGame())

	for ply := 1; ; ply++ {
		best, ok := driver.FindBestReply(state)
		if !ok {
			fmt.Println("game over: no legal reply")
			return
		}
		state = best
		fmt.Printf("ply %d:\n%v\n", ply, state)
		c.Age()
	}
}
