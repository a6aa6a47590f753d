// SPDX-License-Identifier: MIT

package bench

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

const (
	rowFormat    = "%11s %9s %14s %14s %9s %10s  %s\n"
	flagArtifact = "superlinear"
)

// RenderTable writes records and failures as an aligned table. Styling
// follows profile: pass termenv.Ascii for plain text or the terminal's
// profile for color. Superlinear rows are highlighted and marked, never
// altered.
func RenderTable(w io.Writer, recs []TimingRecord, fails []Failure, profile termenv.Profile) error {
	out := termenv.NewOutput(w, termenv.WithProfile(profile))
	warn := profile.Color("3")
	bad := profile.Color("1")

	header := fmt.Sprintf(rowFormat, Columns[0], Columns[1], "sequential (s)", "distributed(s)", "speedup", "efficiency", "")
	if _, err := fmt.Fprint(out, out.String(header).Bold().String()); err != nil {
		return fmt.Errorf("bench: RenderTable: %w", err)
	}
	for _, r := range recs {
		note := ""
		if r.Superlinear {
			note = flagArtifact
		}
		line := fmt.Sprintf(rowFormat,
			fmt.Sprint(r.MatrixSize), fmt.Sprint(r.ProcessCount),
			fmt.Sprintf("%.6f", r.SequentialTime.Seconds()), fmt.Sprintf("%.6f", r.DistributedTime.Seconds()),
			fmt.Sprintf("%.2fx", r.Speedup), fmt.Sprintf("%.3f", r.Efficiency), note)
		s := out.String(line)
		if r.Superlinear {
			s = s.Foreground(warn)
		}
		if _, err := fmt.Fprint(out, s.String()); err != nil {
			return fmt.Errorf("bench: RenderTable: %w", err)
		}
	}
	for _, f := range fails {
		line := fmt.Sprintf("%11d %9d  FAILED %s: %v\n", f.MatrixSize, f.ProcessCount, f.Kind, f.Err)
		if _, err := fmt.Fprint(out, out.String(line).Foreground(bad).String()); err != nil {
			return fmt.Errorf("bench: RenderTable: %w", err)
		}
	}

	return nil
}
