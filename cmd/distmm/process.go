// SPDX-License-Identifier: MIT

package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"

	"github.com/katalvlaran/distmm/bench"
	"github.com/katalvlaran/distmm/collective"
	"github.com/katalvlaran/distmm/collective/wsnet"
	"github.com/mattn/go-shellwords"
	"golang.org/x/sync/errgroup"
)

// processRunner runs each trial with this process as the coordinator and
// P-1 freshly spawned worker processes, one per rank.
type processRunner struct {
	command    []string // worker command template, e.g. ["distmm", "worker"]
	listen     string
	workerArgs []string
	opts       []bench.Option
	copts      []collective.Option
	log        *slog.Logger
}

var _ bench.Runner = (*processRunner)(nil)

// newProcessRunner parses the worker command template with shell quoting rules.
func newProcessRunner(template, listen string, workerArgs []string, opts []bench.Option, copts []collective.Option, log *slog.Logger) (*processRunner, error) {
	words, err := shellwords.Parse(template)
	if err != nil {
		return nil, fmt.Errorf("worker command %q: %w", template, err)
	}
	if len(words) == 0 {
		return nil, errors.New("worker command is empty")
	}

	return &processRunner{command: words, listen: listen, workerArgs: workerArgs, opts: opts, copts: copts, log: log}, nil
}

// Run implements bench.Runner.
func (r *processRunner) Run(n, p int) (*bench.TimingRecord, error) {
	coord, err := wsnet.Listen(r.listen, p, r.copts...)
	if err != nil {
		return nil, err
	}
	defer coord.Close()

	cmds := make([]*exec.Cmd, 0, p-1)
	kill := func() {
		for _, c := range cmds {
			_ = c.Process.Kill()
		}
	}
	for rank := 1; rank < p; rank++ {
		c := r.workerCmd(coord.URL(), rank, p, n)
		if err = c.Start(); err != nil {
			kill()

			return nil, fmt.Errorf("start worker %d: %w", rank, err)
		}
		cmds = append(cmds, c)
	}

	var wg errgroup.Group
	for _, c := range cmds {
		wg.Go(c.Wait)
	}
	if err = coord.Wait(); err != nil {
		kill()
		_ = wg.Wait()

		return nil, err
	}

	rec, err := bench.RunTrial(coord, n, r.opts...)
	if err != nil {
		_ = coord.Close()
		_ = wg.Wait()

		return nil, err
	}
	if werr := wg.Wait(); werr != nil {
		r.log.Warn("worker exited with error after a complete trial", "n", n, "p", p, "err", werr)
	}

	return rec, nil
}

func (r *processRunner) workerCmd(url string, rank, size, n int) *exec.Cmd {
	args := append([]string{}, r.command[1:]...)
	args = append(args,
		"--url", url,
		"--rank", strconv.Itoa(rank),
		"--size", strconv.Itoa(size),
		"--n", strconv.Itoa(n),
	)
	args = append(args, r.workerArgs...)

	c := exec.Command(r.command[0], args...)
	c.Env = append(os.Environ(),
		envRank+"="+strconv.Itoa(rank),
		envSize+"="+strconv.Itoa(size),
	)
	c.Stdout = os.Stderr
	c.Stderr = os.Stderr

	return c
}
