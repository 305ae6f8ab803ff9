// Command dashwatch follows a running dashd from the terminal, redrawing the
// dashboard panel on every snapshot.
//
// Usage:
//
//	dashwatch                              # connect to localhost:8080
//	dashwatch -url http://host:8080        # custom server
//	dashwatch -symbol NVDA                 # select NVDA before streaming
//	dashwatch -list                        # print the selectable symbols and exit
//	dashwatch -raw                         # print frames as JSON instead of drawing
//	dashwatch -stats 10                    # log frame rate every N seconds
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ndrandal/stock-dashboard/internal/client"
	"github.com/ndrandal/stock-dashboard/internal/config"
	"github.com/ndrandal/stock-dashboard/internal/symbol"
	"github.com/ndrandal/stock-dashboard/internal/view"
	"github.com/ndrandal/stock-dashboard/internal/wire"
)

const clearScreen = "\033[H\033[2J"

func main() {
	base := flag.String("url", "http://localhost:8080", "dashd base URL")
	sym := flag.String("symbol", "", "Select this symbol before streaming")
	list := flag.Bool("list", false, "List selectable symbols and exit")
	raw := flag.Bool("raw", false, "Print frames as JSON")
	statsInterval := flag.Int("stats", 0, "Log frame rate every N seconds (0 = off)")
	logLevel := flag.String("log-level", "info", "Log level")
	flag.Parse()

	if err := config.SetupLogging(*logLevel, "console"); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	c := client.New(*base, 5*time.Second)

	if *list {
		syms, err := c.Symbols(ctx)
		if err != nil {
			log.Fatal().Err(err).Msg("list symbols")
		}
		for _, s := range syms {
			mark := " "
			if s.Selected {
				mark = "*"
			}
			fmt.Printf("%s %-6s %-24s %s\n", mark, s.Ticker, s.Name, s.Sector)
		}
		return
	}

	if *sym != "" {
		res, err := c.Select(ctx, *sym)
		switch {
		case errors.Is(err, symbol.ErrUnknownSymbol):
			log.Fatal().Str("symbol", *sym).Strs("valid", symbol.Tickers()).Msg("unknown symbol")
		case err != nil:
			log.Fatal().Err(err).Msg("select symbol")
		}
		log.Info().Str("symbol", res.Symbol).Str("previous", res.Previous).Msg("symbol selected")
	}

	var frames uint64
	if *statsInterval > 0 {
		go func() {
			ticker := time.NewTicker(time.Duration(*statsInterval) * time.Second)
			defer ticker.Stop()
			var last uint64
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					cur := atomic.LoadUint64(&frames)
					rate := float64(cur-last) / float64(*statsInterval)
					log.Info().Uint64("frames", cur).Float64("per_sec", rate).Msg("stats")
					last = cur
				}
			}
		}()
	}

	log.Info().Str("url", *base).Msg("streaming")
	err := c.Stream(ctx, func(f wire.Frame) {
		atomic.AddUint64(&frames, 1)

		if *raw {
			data, _ := json.Marshal(f)
			fmt.Println(string(data))
			return
		}

		switch f.Type {
		case wire.FrameSnapshot:
			if f.View != nil {
				fmt.Print(clearScreen)
				fmt.Println(view.RenderText(*f.View))
			}
		case wire.FrameSymbol:
			log.Info().Str("symbol", f.Symbol).Msg("symbol changed")
		case wire.FrameError:
			log.Warn().Str("error", f.Error).Msg("server error")
		}
	})
	if err != nil {
		log.Fatal().Err(err).Msg("stream")
	}
}
