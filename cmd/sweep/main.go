package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/noisetex/app"
	"github.com/pthm-cable/noisetex/config"
)

// Row is one line of sweep.csv.
type Row struct {
	Case        string  `csv:"case"`
	Algorithm   string  `csv:"algorithm"`
	Threads     int     `csv:"threads"`
	BudgetMS    int64   `csv:"budget_ms"`
	Runs        int     `csv:"runs"`
	WallMeanSec float64 `csv:"wall_mean_sec"`
	WallStdSec  float64 `csv:"wall_std_sec"`
	CPUMeanSec  float64 `csv:"cpu_mean_sec"`
}

func main() {
	configPath := flag.String("config", "", "Base config YAML file (empty = use defaults)")
	algos := flag.String("algorithms", "perlin,simplex", "Algorithms to sweep")
	interps := flag.String("interpolations", "bilinear,bicubic", "Perlin interpolations to sweep")
	threads := flag.String("threads", "1,2,4,8", "Thread counts to sweep")
	budgets := flag.String("budgets-ms", "25", "Main goroutine budgets to sweep, in ms")
	runs := flag.Int("runs", 3, "Generations per case")
	outputDir := flag.String("output", "", "Output directory for results")
	flag.Parse()

	if *outputDir == "" {
		log.Fatal("--output is required")
	}
	if err := os.MkdirAll(*outputDir, 0755); err != nil {
		log.Fatalf("failed to create output directory: %v", err)
	}
	if err := config.Init(*configPath); err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	baseCfg := config.Cfg()

	base, err := app.RequestFromConfig(baseCfg)
	if err != nil {
		log.Fatalf("invalid default request: %v", err)
	}
	algoList, err := parseAlgorithms(*algos)
	if err != nil {
		log.Fatalf("--algorithms: %v", err)
	}
	interpList, err := parseInterpolations(*interps)
	if err != nil {
		log.Fatalf("--interpolations: %v", err)
	}
	threadList, err := parseInts(*threads)
	if err != nil {
		log.Fatalf("--threads: %v", err)
	}
	budgetMS, err := parseInts(*budgets)
	if err != nil {
		log.Fatalf("--budgets-ms: %v", err)
	}
	budgetList := make([]time.Duration, len(budgetMS))
	for i, ms := range budgetMS {
		budgetList[i] = time.Duration(ms) * time.Millisecond
	}

	cases := Grid(algoList, interpList, threadList, budgetList)
	quiet := slog.New(slog.NewTextHandler(io.Discard, nil))

	var (
		rows      []Row
		best      Row
		bestCase  Case
		startTime = time.Now()
	)
	best.WallMeanSec = -1

	fmt.Printf("Sweeping %d cases x %d runs at %dx%d\n", len(cases), *runs, base.Width, base.Height)
	for i, c := range cases {
		a := app.New(
			app.WithLogger(quiet),
			app.WithBudget(c.Budget),
			app.WithThreads(c.Threads),
		)
		walls := make([]float64, 0, *runs)
		cpus := make([]float64, 0, *runs)
		for r := 0; r < *runs; r++ {
			ev, err := a.RunHeadless(context.Background(), c.Request(base))
			if err != nil {
				log.Fatalf("%s: %v", c.Name(), err)
			}
			walls = append(walls, ev.Result.Wall.Seconds())
			cpus = append(cpus, ev.Result.SecondsCPU())
		}
		a.Shutdown()

		wallMean, wallStd := stat.MeanStdDev(walls, nil)
		row := Row{
			Case:        c.Name(),
			Algorithm:   c.Algorithm.String(),
			Threads:     c.Threads,
			BudgetMS:    c.Budget.Milliseconds(),
			Runs:        *runs,
			WallMeanSec: wallMean,
			WallStdSec:  wallStd,
			CPUMeanSec:  stat.Mean(cpus, nil),
		}
		rows = append(rows, row)
		if best.WallMeanSec < 0 || row.WallMeanSec < best.WallMeanSec {
			best, bestCase = row, c
		}

		elapsed := time.Since(startTime)
		remaining := elapsed / time.Duration(i+1) * time.Duration(len(cases)-i-1)
		fmt.Printf("Case %d/%d %-32s wall=%.3fs cpu=%.3fs | elapsed: %s, ETA: %s\n",
			i+1, len(cases), c.Name(), row.WallMeanSec, row.CPUMeanSec,
			formatDuration(elapsed), formatDuration(remaining))
	}

	csvPath := filepath.Join(*outputDir, "sweep.csv")
	f, err := os.Create(csvPath)
	if err != nil {
		log.Fatalf("failed to create %s: %v", csvPath, err)
	}
	if err := gocsv.MarshalFile(&rows, f); err != nil {
		log.Fatalf("failed to write %s: %v", csvPath, err)
	}
	f.Close()

	fmt.Printf("\nSweep complete in %s\n", formatDuration(time.Since(startTime)))
	fmt.Printf("Fastest: %s (%.3fs wall)\n", best.Case, best.WallMeanSec)

	// Save the fastest scheduler settings over the base config.
	bestCfg, _ := config.Load(*configPath)
	bestCfg.Generation.Threads = bestCase.Threads
	bestCfg.Generation.TimeBudgetMS = int(bestCase.Budget.Milliseconds())
	configOutPath := filepath.Join(*outputDir, "best_config.yaml")
	if err := bestCfg.WriteYAML(configOutPath); err != nil {
		log.Printf("failed to write best config: %v", err)
	} else {
		fmt.Printf("Best config saved to: %s\n", configOutPath)
	}
}
