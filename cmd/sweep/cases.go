// Package main sweeps scheduler settings over headless generations to find
// the fastest thread count and time budget for a machine.
package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pthm-cable/noisetex/noise"
)

// Case is one point of the sweep grid.
type Case struct {
	Algorithm     noise.Algorithm
	Interpolation noise.Interpolation // Perlin only
	Threads       int
	Budget        time.Duration
}

// Name identifies the case in logs and CSV rows.
func (c Case) Name() string {
	name := c.Algorithm.String()
	if c.Algorithm == noise.AlgoPerlin {
		name += "/" + c.Interpolation.String()
	}
	return fmt.Sprintf("%s/t%d/b%dms", name, c.Threads, c.Budget.Milliseconds())
}

// Request applies the case to a base request.
func (c Case) Request(base noise.Request) noise.Request {
	req := base
	req.Algorithm = c.Algorithm
	req.Perlin.Interpolation = c.Interpolation
	return req
}

// Grid expands the cartesian product of the sweep axes. Interpolations
// only multiply Perlin cases.
func Grid(algos []noise.Algorithm, interps []noise.Interpolation, threads []int, budgets []time.Duration) []Case {
	var cases []Case
	for _, algo := range algos {
		ips := []noise.Interpolation{0}
		if algo == noise.AlgoPerlin {
			ips = interps
		}
		for _, ip := range ips {
			for _, k := range threads {
				for _, b := range budgets {
					cases = append(cases, Case{Algorithm: algo, Interpolation: ip, Threads: k, Budget: b})
				}
			}
		}
	}
	return cases
}

// parseInts parses a comma-separated list of positive integers.
func parseInts(s string) ([]int, error) {
	var out []int
	for _, field := range strings.Split(s, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		v, err := strconv.Atoi(field)
		if err != nil {
			return nil, fmt.Errorf("parsing %q: %w", field, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("value %d must be positive", v)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list %q", s)
	}
	return out, nil
}

// parseAlgorithms parses a comma-separated list of algorithm names.
func parseAlgorithms(s string) ([]noise.Algorithm, error) {
	var out []noise.Algorithm
	for _, field := range strings.Split(s, ",") {
		algo, err := noise.ParseAlgorithm(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		out = append(out, algo)
	}
	return out, nil
}

// parseInterpolations parses a comma-separated list of interpolation names.
func parseInterpolations(s string) ([]noise.Interpolation, error) {
	var out []noise.Interpolation
	for _, field := range strings.Split(s, ",") {
		ip, err := noise.ParseInterpolation(strings.TrimSpace(field))
		if err != nil {
			return nil, err
		}
		out = append(out, ip)
	}
	return out, nil
}

// formatDuration formats a duration as HH:MM:SS or MM:SS for shorter durations.
func formatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second

	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
