package view

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/logrusorgru/aurora"

	"slowlife/src/panel"
)

//ConsoleOut is the line oriented viewer for the headless mode
type ConsoleOut struct {
	p         *panel.Panel
	w         io.Writer
	au        aurora.Aurora
	startTime time.Time

	mu       sync.Mutex
	lastMode panel.RunningMode
	lastGen  int
}

func NewConsoleOut(w io.Writer, colors bool) *ConsoleOut {
	return &ConsoleOut{w: w, au: aurora.NewAurora(colors)}
}

func (c *ConsoleOut) Refresh() {
	st := c.p.Status()
	c.mu.Lock()
	defer c.mu.Unlock()
	switch {
	case st.Mode == panel.ModeRunning && st.Generation != c.lastGen && st.Generation%10 == 0:
		_, _ = fmt.Fprintf(c.w, "  Generations done: %v\n", st.Generation)
	case st.Mode == panel.ModeStopped && c.lastMode == panel.ModeRunning:
		_, _ = fmt.Fprintln(c.w, c.au.Red("\nStopped:"))
		c.printProps(
			prop{"Last generation", st.Generation},
			prop{"Live cells", st.LiveCells},
			prop{"Total time", time.Since(c.startTime).Round(time.Millisecond)},
		)
		_, _ = fmt.Fprint(c.w, c.grid())
	}
	c.lastMode = st.Mode
	c.lastGen = st.Generation
}

func (c *ConsoleOut) Register(p *panel.Panel) {
	c.p = p
	o := p.Options()
	_, _ = fmt.Fprintln(c.w, c.au.Green("Running configuration:"))
	c.printProps(
		prop{"Dimension", fmt.Sprintf("%v x %v", o.Size, o.Size)},
		prop{"Interval", o.Interval},
		prop{"Max generations", o.MaxSteps},
	)
}

func (c *ConsoleOut) Start() error {
	c.mu.Lock()
	c.startTime = time.Now()
	c.mu.Unlock()
	_, err := fmt.Fprintln(c.w, "\nSimulation started...")
	return err
}

//grid renders the cells with the "X" and "." glyphs, one row per line
func (c *ConsoleOut) grid() string {
	var b strings.Builder
	for _, row := range c.p.Cells() {
		for _, cell := range row {
			b.WriteString(cell.String())
		}
		b.WriteByte('\n')
	}
	return b.String()
}

//prop is the single "name: value" line of the report
type prop struct {
	name  string
	value interface{}
}

//printProps prints the properties in the given order
func (c *ConsoleOut) printProps(props ...prop) {
	for _, p := range props {
		_, _ = fmt.Fprintf(c.w, "  %s: %v\n", p.name, p.value)
	}
}
