package panel

import (
	"math/rand"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
)

//Panel is the N x N toroidal Life grid with a single level undo buffer
//the cells are guarded by the mutex so the viewers can read them while the continuous run advances the grid,
//Stop only touches the running flag, so it is safe from any goroutine
type Panel struct {
	options Options
	size    int
	running atomic.Bool

	//every continuous run gets its own id, a loop exits once the id moved on
	ctlMu    sync.Mutex
	runID    atomic.Uint64
	lastDone chan struct{}
	loops    sync.WaitGroup

	mu          sync.Mutex
	cells       [][]Cell
	backupCells [][]bool
	status      Status

	views     []Viewer
	templates map[string]Template
}

//NewPanel creates the panel with all cells dead
//nil options means DefaultOptions
func NewPanel(o *Options) (*Panel, error) {
	if o == nil {
		o = &DefaultOptions
	}
	size, err := ConvertToInt(o.Size)
	if err != nil {
		return nil, errors.Wrap(err, "panel size")
	}
	if size == 0 {
		return nil, errors.Wrap(ErrInvalidArgument, "panel size must be positive")
	}
	if o.MaxSteps < 0 {
		return nil, errors.Wrapf(ErrInvalidArgument, "max steps %d is negative", o.MaxSteps)
	}

	p := &Panel{
		options:   *o,
		size:      size,
		cells:     createCells(size),
		templates: map[string]Template{},
	}
	return p, nil
}

//Size returns the grid dimension
func (p *Panel) Size() int {
	return p.size
}

//Options returns the panel configuration
func (p *Panel) Options() Options {
	return p.options
}

//Status returns the panel status at the moment of the call
func (p *Panel) Status() Status {
	p.mu.Lock()
	st := p.status
	p.mu.Unlock()
	st.Mode = ModeStopped
	if p.running.Load() {
		st.Mode = ModeRunning
	}
	return st
}

//Running reports whether the continuous run is active
func (p *Panel) Running() bool {
	return p.running.Load()
}

//Cells returns a copy of the current grid
func (p *Panel) Cells() [][]Cell {
	p.mu.Lock()
	defer p.mu.Unlock()
	return copyCells(p.cells)
}

//SetCells replaces the grid contents, cells must be size x size
//the panel is left untouched on error
func (p *Panel) SetCells(cells [][]Cell) error {
	if len(cells) != p.size {
		return errors.Wrapf(ErrInvalidArgument, "got %d rows, want %d", len(cells), p.size)
	}
	for i, row := range cells {
		if len(row) != p.size {
			return errors.Wrapf(ErrInvalidArgument, "row %d has %d cells, want %d", i, len(row), p.size)
		}
	}
	p.mu.Lock()
	p.cells = copyCells(cells)
	p.status.LiveCells = p.liveCells()
	p.mu.Unlock()
	p.refreshView()
	return nil
}

//LiveCells returns the number of alive cells
func (p *Panel) LiveCells() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.liveCells()
}

//Neighbours returns the live neighbours count of the cell at row, col
//the addressing wraps around at every edge
func (p *Panel) Neighbours(row int, col int) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.neighbours(row, col)
}

//Step calculates the next generation
//it does not touch the backup
func (p *Panel) Step() {
	p.mu.Lock()
	p.step()
	p.mu.Unlock()
	p.refreshView()
}

//Run does a single advance: takes the backup and calculates the next generation,
//so Undo returns the grid to the state before the call
func (p *Panel) Run() {
	p.mu.Lock()
	p.backup()
	p.step()
	p.mu.Unlock()
	p.refreshView()
}

//RunContinuous repeats Run with the configured interval until Stop is called
//or MaxSteps generations are done, blocks the caller
//returns immediately if the panel is already running
func (p *Panel) RunContinuous() {
	r, ok := p.begin()
	if !ok {
		return
	}
	p.loop(r)
}

//Start starts the continuous run on its own goroutine, returns immediately
//the panel is Running when Start returns, so a following Stop is never lost
func (p *Panel) Start() {
	r, ok := p.begin()
	if !ok {
		return
	}
	go p.loop(r)
}

//Stop stops the continuous run, can be called from any goroutine
//the loop observes it before the next generation
func (p *Panel) Stop() {
	p.running.Store(false)
}

//Wait blocks until every started loop has exited
func (p *Panel) Wait() {
	p.loops.Wait()
}

//run is the single continuous run
type run struct {
	id   uint64
	prev chan struct{} //closed when the previous loop exited
	done chan struct{}
}

//begin switches the panel to running and registers the new loop
func (p *Panel) begin() (*run, bool) {
	p.ctlMu.Lock()
	defer p.ctlMu.Unlock()
	if p.running.Load() {
		return nil, false
	}
	r := &run{id: p.runID.Add(1), prev: p.lastDone, done: make(chan struct{})}
	p.lastDone = r.done
	p.running.Store(true)
	p.loops.Add(1)
	return r, true
}

//active reports whether the loop of run id should go on
func (p *Panel) active(id uint64) bool {
	return p.running.Load() && p.runID.Load() == id
}

//loop is the continuous run body, it starts once the previous loop exited
//so only one loop advances the grid at a time
func (p *Panel) loop(r *run) {
	defer func() {
		p.ctlMu.Lock()
		if p.runID.Load() == r.id {
			p.running.Store(false)
		}
		p.ctlMu.Unlock()
		p.refreshView()
		close(r.done)
		p.loops.Done()
	}()
	if r.prev != nil {
		<-r.prev
	}
	p.refreshView()
	for steps := 0; p.active(r.id); steps++ {
		if p.options.MaxSteps > 0 && steps >= p.options.MaxSteps {
			return
		}
		p.Run()
		if p.options.Interval > 0 {
			time.Sleep(p.options.Interval)
		}
	}
}

//Backup stores the current state of every cell, replacing the previous backup
func (p *Panel) Backup() {
	p.mu.Lock()
	p.backup()
	p.mu.Unlock()
}

//BackupCells returns a copy of the backup store, nil if Backup was never called
func (p *Panel) BackupCells() [][]bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.backupCells == nil {
		return nil
	}
	c := make([][]bool, len(p.backupCells))
	for i := range p.backupCells {
		c[i] = append([]bool(nil), p.backupCells[i]...)
	}
	return c
}

//Undo restores the cells from the backup
//without any backup it does nothing
func (p *Panel) Undo() {
	p.mu.Lock()
	if p.backupCells == nil {
		p.mu.Unlock()
		return
	}
	for r := range p.backupCells {
		for c := range p.backupCells[r] {
			p.cells[r][c].SetAlive(p.backupCells[r][c])
		}
	}
	p.status.LiveCells = p.liveCells()
	p.mu.Unlock()
	p.refreshView()
}

//ToggleCell inverts the cell state at row, col, coordinates outside the grid are ignored
func (p *Panel) ToggleCell(row int, col int) {
	if row < 0 || col < 0 || row >= p.size || col >= p.size {
		return
	}
	p.mu.Lock()
	c := &p.cells[row][col]
	c.SetAlive(!c.Alive())
	p.status.LiveCells = p.liveCells()
	p.mu.Unlock()
	p.refreshView()
}

//Clear kills all cells and resets the counters, the backup is kept
func (p *Panel) Clear() {
	p.mu.Lock()
	p.cells = createCells(p.size)
	p.status = Status{}
	p.mu.Unlock()
	p.refreshView()
}

//AddTemplate adds the seeding template to the internal storage
//the panel can be populated with this template by call SettleTemplate
func (p *Panel) AddTemplate(tmpl Template) {
	p.templates[tmpl.Name] = tmpl
}

//SettleTemplate populates the panel with the seeding template
func (p *Panel) SettleTemplate(name string) error {
	tmpl, ok := p.templates[name]
	if !ok {
		return errors.Wrapf(ErrUnknownTemplate, "template %q", name)
	}
	p.Settle(tmpl.Coordinates)
	return nil
}

//Settle makes the cells alive
//vc - array of row, col coordinates, the ones outside the grid are skipped
func (p *Panel) Settle(vc [][]int) {
	p.mu.Lock()
	p.settle(vc)
	p.status.LiveCells = p.liveCells()
	p.mu.Unlock()
	p.refreshView()
}

//SettleWithRandomData populates the panel with random data,
//each cell is alive with the density probability
func (p *Panel) SettleWithRandomData(density float64) {
	p.mu.Lock()
	p.walkCells(func(row int, col int, c *Cell) {
		c.SetAlive(rand.Float64() < density)
	})
	p.status.LiveCells = p.liveCells()
	p.mu.Unlock()
	p.refreshView()
}

//RegisterViewer registers the viewer - the panel will call the viewer when the state is changed
func (p *Panel) RegisterViewer(v Viewer) {
	p.views = append(p.views, v)
	v.Register(p)
}

//ConvertToBoolean maps every cell to its state keeping the shape
func (p *Panel) ConvertToBoolean(cells [][]Cell) [][]bool {
	b := make([][]bool, len(cells))
	for r := range cells {
		b[r] = make([]bool, len(cells[r]))
		for c := range cells[r] {
			b[r][c] = cells[r][c].Alive()
		}
	}
	return b
}

//ConvertToInt returns n unchanged when it is not negative
//and fails with ErrNumberFormat otherwise
func ConvertToInt(n int) (int, error) {
	if n < 0 {
		return 0, errors.Wrapf(ErrNumberFormat, "%d is negative", n)
	}
	return n, nil
}

//step calculates the next generation into the new buffer and replaces the current one
func (p *Panel) step() {
	start := time.Now()
	next := createCells(p.size)
	liveCells := 0
	p.walkCells(func(row int, col int, c *Cell) {
		alive := nextState(c.Alive(), p.neighbours(row, col))
		next[row][col].SetAlive(alive)
		if alive {
			liveCells++
		}
	})
	p.cells = next
	p.status.Generation++
	p.status.LiveCells = liveCells
	p.status.GenerationTime = time.Since(start)
}

func (p *Panel) backup() {
	if p.backupCells == nil {
		p.backupCells = make([][]bool, p.size)
		for i := range p.backupCells {
			p.backupCells[i] = make([]bool, p.size)
		}
	}
	p.walkCells(func(row int, col int, c *Cell) {
		p.backupCells[row][col] = c.Alive()
	})
}

func (p *Panel) neighbours(row int, col int) int {
	n := 0
	for i := -1; i < 2; i++ {
		for j := -1; j < 2; j++ {
			//skip my position
			if i == 0 && j == 0 {
				continue
			}
			if p.cells[wrap(row+i, p.size)][wrap(col+j, p.size)].Alive() {
				n++
			}
		}
	}
	return n
}

func (p *Panel) settle(vc [][]int) {
	for _, v := range vc {
		if len(v) < 2 || v[0] < 0 || v[1] < 0 || v[0] >= p.size || v[1] >= p.size {
			continue
		}
		p.cells[v[0]][v[1]].SetAlive(true)
	}
}

func (p *Panel) liveCells() int {
	n := 0
	p.walkCells(func(_ int, _ int, c *Cell) {
		if c.Alive() {
			n++
		}
	})
	return n
}

//walkCells walks the entire grid and calls the cb function for each cell
func (p *Panel) walkCells(cb func(row int, col int, c *Cell)) {
	for r := range p.cells {
		for c := range p.cells[r] {
			cb(r, c, &p.cells[r][c])
		}
	}
}

//refreshView calls Refresh event for all registered views
func (p *Panel) refreshView() {
	for _, v := range p.views {
		v.Refresh()
	}
}

//nextState is the Conway rule: born with 3 neighbours, survives with 2 or 3
func nextState(alive bool, neighbours int) bool {
	return neighbours == 3 || (alive && neighbours == 2)
}

//wrap maps the index to the opposite edge when it leaves the 0..size-1 range
func wrap(i int, size int) int {
	return (i%size + size) % size
}

//createCells allocates the size x size grid of dead cells over a single backing slice
func createCells(size int) [][]Cell {
	cells := make([][]Cell, size)
	b := make([]Cell, size*size)
	for i := range cells {
		start := size * i
		cells[i] = b[start : start+size : start+size]
	}
	for i := range b {
		b[i].SetAlive(false)
	}
	return cells
}

func copyCells(src [][]Cell) [][]Cell {
	dst := make([][]Cell, len(src))
	for i := range src {
		dst[i] = make([]Cell, len(src[i]))
		for j := range src[i] {
			dst[i][j] = NewCell(src[i][j].Alive())
		}
	}
	return dst
}
