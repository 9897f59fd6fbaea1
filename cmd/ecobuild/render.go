package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/nerrad567/ecobuild-core/internal/building"
	"github.com/nerrad567/ecobuild-core/internal/results"
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

// painter wraps the colours used by the analyze output.
type painter struct {
	heading *color.Color
	good    *color.Color
	fair    *color.Color
	poor    *color.Color
	dim     *color.Color
}

func newPainter(enabled bool) painter {
	p := painter{
		heading: color.New(color.Bold),
		good:    color.New(color.FgGreen, color.Bold),
		fair:    color.New(color.FgYellow, color.Bold),
		poor:    color.New(color.FgRed, color.Bold),
		dim:     color.New(color.Faint),
	}
	for _, c := range []*color.Color{p.heading, p.good, p.fair, p.poor, p.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p painter) rating(r building.Rating) *color.Color {
	switch r {
	case building.RatingHigh:
		return p.good
	case building.RatingMedium:
		return p.fair
	default:
		return p.poor
	}
}

// renderView writes the result pane as plain text.
func renderView(w io.Writer, name string, v results.View, colored bool) {
	p := newPainter(colored)

	switch v.State {
	case results.StateIdle:
		fmt.Fprintln(w, p.dim.Sprint("No analysis yet."))
		return
	case results.StateLoading:
		fmt.Fprintln(w, p.dim.Sprint(v.Message))
		return
	case results.StateError:
		fmt.Fprintln(w, p.poor.Sprint(v.Message))
		return
	}

	fmt.Fprintln(w, p.heading.Sprintf("Sustainability analysis: %s", name))
	fmt.Fprintf(w, "Score: %s (%s)\n",
		p.rating(v.Rating).Sprintf("%d/100", v.Score), v.Rating)
	fmt.Fprintln(w)
	fmt.Fprintln(w, v.Summary)

	for _, g := range v.Groups {
		fmt.Fprintln(w)
		fmt.Fprintln(w, p.heading.Sprint(string(g.Category)))
		if len(g.Items) == 0 {
			fmt.Fprintln(w, p.dim.Sprint("  No recommendations."))
			continue
		}
		for _, item := range g.Items {
			fmt.Fprintf(w, "  - %s\n", item)
		}
	}
}

// renderLocation writes a location analysis block.
func renderLocation(w io.Writer, region building.Region, la *building.LocationAnalysis, colored bool) {
	p := newPainter(colored)
	fmt.Fprintln(w, p.heading.Sprintf("Location: %s", region))
	fmt.Fprintf(w, "Weather: %s\n", la.WeatherSummary)
	if len(la.SustainabilityMeasures) > 0 {
		fmt.Fprintf(w, "Measures: %s\n", strings.Join(la.SustainabilityMeasures, "; "))
	}
	fmt.Fprintf(w, "Transport: %s\n", la.TransportationNotes)
	fmt.Fprintln(w)
}

// renderOutcome writes what happened to the persistence attempt.
func renderOutcome(w io.Writer, o results.Outcome, colored bool) {
	p := newPainter(colored)
	switch {
	case o.Skipped:
		fmt.Fprintln(w, p.dim.Sprint("Not saved (no credentials given)."))
	case o.Degraded:
		fmt.Fprintln(w, p.fair.Sprint(o.Message))
		fmt.Fprintf(w, "Reference: %s\n", o.ID)
	default:
		fmt.Fprintf(w, "%s %s\n", p.good.Sprint("Saved as"), o.ID)
	}
}
