package view

import (
	"bytes"
	"fmt"
	"log"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"

	"slowlife/src/panel"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//ConsoleUI is the interactive terminal display surface
//it renders the grid and forwards the user actions to the panel
type ConsoleUI struct {
	p      *panel.Panel
	g      *gocui.Gui
	k      []keyBindings
	closed atomic.Bool

	density    float64
	liveFiller string
	deadFiller string
}

var (
	runningModeDescr = map[panel.RunningMode]string{
		panel.ModeStopped: aurora.Colorize("stopped", aurora.BlueFg).String(),
		panel.ModeRunning: aurora.Colorize("running", aurora.CyanFg).String(),
	}
)

//NewViewTerminal creates the terminal UI, density is used for the random settle command
func NewViewTerminal(density float64) (*ConsoleUI, error) {
	var err error
	t := ConsoleUI{
		density:    density,
		liveFiller: aurora.Green(panel.NewCell(true).Text()).BgBrightGreen().String(),
		deadFiller: panel.NewCell(false).Text(),
	}

	t.g, err = gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, err
	}

	t.g.Mouse = true
	t.k = []keyBindings{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Step", t.cmdStep, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'u', "U", "Undo", t.cmdUndo, ""},
		{'b', "B", "Backup", t.cmdBackup, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Random", t.cmdSettleWithRandom, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle the cell", t.cmdMouseClick, "grid"},
	}
	t.g.SetManagerFunc(t.layout)

	t.initKeyBindings(t.k)

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			log.Panicln(err)
		}
	}
}

func (t *ConsoleUI) Register(p *panel.Panel) {
	t.p = p
}

//Start runs the UI main loop until the user quits
//on exit the continuous run is stopped and waited for before the gui is closed
func (t *ConsoleUI) Start() error {
	defer t.close()
	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return err
	}
	return nil
}

func (t *ConsoleUI) close() {
	t.closed.Store(true)
	t.p.Stop()
	t.p.Wait()
	t.g.Close()
}

//Refresh can be called from the panel goroutine, the drawing goes through the UI event queue
//it does nothing once the UI is closed
func (t *ConsoleUI) Refresh() {
	if t.closed.Load() {
		return
	}
	t.g.Update(func(g *gocui.Gui) error {
		t.drawAll(g)
		return nil
	})
}

func (t *ConsoleUI) drawAll(g *gocui.Gui) {
	if v, e := g.View("grid"); e == nil {
		t.drawGrid(v)
	}
	if v, e := g.View("configuration"); e == nil {
		t.drawConfiguration(v)
	}
	if v, e := g.View("status"); e == nil {
		t.drawStatus(v)
	}
}

func (t *ConsoleUI) drawGrid(v *gocui.View) {
	v.Clear()

	cells := t.p.Cells()
	maxW, maxH := v.Size()
	crop := len(cells) > maxW || len(cells) > maxH

	var b bytes.Buffer
	for i, row := range cells {
		//discard the data outside the view area
		if i >= maxH {
			break
		}
		if i != 0 {
			b.WriteByte('\n')
		}
		if crop && i == (maxH-1) {
			b.WriteString(aurora.Red("The grid is larger than the viewing area").BgBlack().String())
			break
		}
		for j, c := range row {
			if j >= maxW {
				break
			}
			if c.Alive() {
				b.WriteString(t.liveFiller)
			} else {
				b.WriteString(t.deadFiller)
			}
		}
	}
	_, _ = fmt.Fprint(v, b.String())
}

func (t *ConsoleUI) drawStatus(v *gocui.View) {
	s := t.p.Status()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
	_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
	_, _ = fmt.Fprintln(v, t.renderProp("Evaluation time", "%v", s.GenerationTime.Round(time.Microsecond)))
	_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningModeDescr[s.Mode]))
	_, _ = fmt.Fprintln(v, t.renderProp("Undo", "%v", t.p.BackupCells() != nil))
}

func (t *ConsoleUI) drawConfiguration(v *gocui.View) {
	c := t.p.Options()
	v.Clear()
	_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", c.Size, c.Size))
	_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", c.Interval))
	if c.MaxSteps > 0 {
		_, _ = fmt.Fprintln(v, t.renderProp("Generations", "%v max", c.MaxSteps))
	} else {
		_, _ = fmt.Fprintln(v, t.renderProp("Generations", "until stopped"))
	}
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 20

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil && err != gocui.ErrUnknownView {
			return err
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("grid")
		return nil
	}
	if _, err := t.headerLayout(g, 3, "Conway's Game of Life"); err != nil && err != gocui.ErrUnknownView {
		return err
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
	}

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
	}

	if v, err := g.SetView("grid", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Grid"
		v.Frame = true
	}

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	t.drawAll(g)
	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		pad := 0
		if maxX > len(text) {
			pad = (maxX - len(text)) / 2
		}
		_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2+1)+strings.Repeat(" ", pad)+text)
	}
	return
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdStep(_ *gocui.View) error {
	if !t.p.Running() {
		t.p.Run()
	}
	return nil
}

func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	t.p.Start()
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.p.Stop()
	return nil
}

func (t *ConsoleUI) cmdUndo(_ *gocui.View) error {
	if !t.p.Running() {
		t.p.Undo()
	}
	return nil
}

func (t *ConsoleUI) cmdBackup(_ *gocui.View) error {
	if !t.p.Running() {
		t.p.Backup()
		t.Refresh()
	}
	return nil
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	if !t.p.Running() {
		t.p.Clear()
	}
	return nil
}

func (t *ConsoleUI) cmdSettleWithRandom(_ *gocui.View) error {
	if !t.p.Running() {
		t.p.SettleWithRandomData(t.density)
	}
	return nil
}

//cmdMouseClick toggles the cell under the cursor, the view x is the column
func (t *ConsoleUI) cmdMouseClick(v *gocui.View) error {
	cx, cy := v.Cursor()
	if !t.p.Running() {
		t.p.ToggleCell(cy, cx)
	}
	return nil
}
