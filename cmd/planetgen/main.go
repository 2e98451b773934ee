// Command planetgen prints the planets of a region. It scans a square region
// with -n and -offset, or an explicit list with -coords "x,y;x,y".
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"

	"planets-procgen/internal/initializers"
	"planets-procgen/internal/location"
	"planets-procgen/internal/planet"
	"planets-procgen/internal/region"
	"planets-procgen/internal/shared/errors"
	"planets-procgen/internal/shared/logger"
)

type options struct {
	size     int64
	offset   int64
	coords   string
	config   string
	remote   string
	workers  int
	format   string
	verbose  bool
	logLevel string
}

func main() {
	var opts options
	flag.Int64Var(&opts.size, "n", 16, "side length of the scanned square")
	flag.Int64Var(&opts.offset, "offset", 0, "first coordinate of the scanned square")
	flag.StringVar(&opts.coords, "coords", "", `explicit coordinates, e.g. "12,71;-53,28"`)
	flag.StringVar(&opts.config, "config", "", "initializers file (.yaml, .yml or .json)")
	flag.StringVar(&opts.remote, "remote", "", "initializers URL")
	flag.IntVar(&opts.workers, "workers", 0, "derivation workers (0 uses GOMAXPROCS)")
	flag.StringVar(&opts.format, "format", "listing", "output format: listing or json")
	flag.BoolVar(&opts.verbose, "verbose", false, "log every planet found")
	flag.StringVar(&opts.logLevel, "log-level", "info", "log level")
	flag.Parse()

	slog.SetDefault(logger.New(os.Stderr, opts.logLevel, false))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, opts, os.Stdout); err != nil {
		slog.Error("planetgen failed", "error", err, "error_type", errors.GetType(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer) error {
	inits, err := initializers.Resolve(ctx, opts.config, initializers.RemoteConfig{URL: opts.remote})
	if err != nil {
		return err
	}

	deriver, err := planet.NewDeriver(inits, slog.Default())
	if err != nil {
		return err
	}

	var source region.Source = region.Square{Size: opts.size, Offset: opts.offset}
	if opts.coords != "" {
		if source, err = parseCoords(opts.coords); err != nil {
			return err
		}
	}

	stats := &region.Stats{}
	reporters := region.Reporters{stats}
	if opts.verbose {
		reporters = append(reporters, region.NewLogReporter(slog.Default()))
	}

	var listing *region.ListingReporter
	switch opts.format {
	case "listing":
		listing = region.NewListingReporter(out)
		reporters = append(reporters, listing)
	case "json":
	default:
		return errors.Validationf("unknown format %q", opts.format)
	}

	gen, err := region.New(source, deriver, reporters)
	if err != nil {
		return err
	}

	results, err := region.Collect(ctx, gen, opts.workers)
	if err != nil {
		return err
	}

	if listing != nil {
		if err := listing.Err(); err != nil {
			return errors.WrapInternal("failed to write listing", err)
		}
	} else {
		found := make([]region.Result, 0, stats.Planets)
		for _, r := range results {
			if r.Planet != nil {
				found = append(found, r)
			}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(found); err != nil {
			return errors.WrapInternal("failed to write json", err)
		}
	}

	slog.Info(stats.Summary(), "fallbacks", deriver.Fallbacks())
	return nil
}

// parseCoords reads "x,y;x,y" into a coordinate list.
func parseCoords(s string) (region.List, error) {
	var list region.List
	for _, pair := range strings.Split(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, errors.Validationf("coordinate %q is not of the form x,y", pair)
		}
		x, err := strconv.ParseInt(strings.TrimSpace(xs), 10, 64)
		if err != nil {
			return nil, errors.WrapValidation(fmt.Sprintf("invalid x in %q", pair), err)
		}
		y, err := strconv.ParseInt(strings.TrimSpace(ys), 10, 64)
		if err != nil {
			return nil, errors.WrapValidation(fmt.Sprintf("invalid y in %q", pair), err)
		}
		list = append(list, location.Coords{X: x, Y: y})
	}
	return list, nil
}
