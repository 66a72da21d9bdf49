// Command paygrid prints a student's payment grid and optionally toggles one
// cell before printing.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/noah-isme/school-admin-gateway/internal/repository"
	"github.com/noah-isme/school-admin-gateway/internal/service"
	"github.com/noah-isme/school-admin-gateway/pkg/config"
	"github.com/noah-isme/school-admin-gateway/pkg/paygrid"
	"github.com/noah-isme/school-admin-gateway/pkg/upstream"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "paygrid:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	fs := flag.NewFlagSet("paygrid", flag.ContinueOnError)
	base := fs.String("base", cfg.Upstream.BaseURL, "school API base URL")
	student := fs.String("student", "", "student carnet")
	toggle := fs.String("toggle", "", "cell to toggle, as type:month:year or a special type id")
	timeout := fs.Duration("timeout", cfg.Upstream.Timeout, "per-request timeout")
	verbose := fs.Bool("v", false, "log upstream calls")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *student == "" {
		return fmt.Errorf("-student is required")
	}

	logr := zap.NewNop()
	if *verbose {
		if logr, err = zap.NewDevelopment(); err != nil {
			return err
		}
		defer logr.Sync() //nolint:errcheck
	}

	client := upstream.New(upstream.Config{BaseURL: *base, Timeout: *timeout, Logger: logr})
	payments := repository.NewPaymentRepository(client)

	clock := service.NewServerClock(repository.NewStatsRepository(client), logr)

	ctx := context.Background()
	catalog := catalogFromConfig(ctx, cfg.Grid, clock)
	cells, err := paygrid.BuildGrid(catalog)
	if err != nil {
		return err
	}
	vm := paygrid.NewViewModel(*student, cells, payments, paygrid.WithTimeout(*timeout))
	defer vm.Close()

	snap, err := vm.Refresh(ctx)
	if err != nil {
		fmt.Println(renderSnapshot(snap, catalog.Years))
		return fmt.Errorf("load payments: %w", err)
	}

	if *toggle != "" {
		key, err := paygrid.ParseKey(*toggle)
		if err != nil {
			return err
		}
		cell, err := vm.Toggle(ctx, key)
		if err != nil {
			return fmt.Errorf("toggle %s: %w", key, err)
		}
		logr.Info("cell toggled", zap.String("cell", key.String()), zap.Bool("paid", cell.Paid))
		snap = vm.Snapshot()
	}

	fmt.Println(renderSnapshot(snap, catalog.Years))
	return nil
}

// yearSource reports the school API's current year and month.
type yearSource interface {
	Current(ctx context.Context) (year, month int)
}

// catalogFromConfig builds the grid catalog. Without configured years the
// grid spans the server's current year and the next one.
func catalogFromConfig(ctx context.Context, grid config.GridConfig, clock yearSource) paygrid.Config {
	years := grid.Years
	if len(years) == 0 {
		current, _ := clock.Current(ctx)
		years = []int{current, current + 1}
	}
	specials := make([]paygrid.SpecialType, 0, len(grid.SpecialTypes))
	for _, st := range grid.SpecialTypes {
		specials = append(specials, paygrid.SpecialType{ID: st.ID, Label: st.Label})
	}
	return paygrid.Config{Years: years, MonthLabels: grid.MonthLabels, SpecialTypes: specials}
}
