package panel

import (
	"time"

	"github.com/pkg/errors"
)

//Options represents the panel's configurable options
type Options struct {
	Size     int
	Interval time.Duration
	MaxSteps int //0 means the continuous run goes until Stop
}

//Status represents the status of the panel at concrete moment
type Status struct {
	Generation     int
	Mode           RunningMode
	LiveCells      int
	GenerationTime time.Duration
}

//Viewer is the interface to any display surface - the object who can show the grid or control the panel
type Viewer interface {
	Refresh()
	Register(p *Panel)
	Start() error
}

//Template represents the seeding template which can be used to settle the panel with predefined data
type Template struct {
	Name        string
	Descr       string
	Coordinates [][]int //array of [row, col] coordinates
}

//RunningMode is the state of the running flag
type RunningMode int

const (
	ModeStopped RunningMode = iota
	ModeRunning
)

func (m RunningMode) String() string {
	if m == ModeRunning {
		return "running"
	}
	return "stopped"
}

//default options
const (
	DefInterval = time.Millisecond * 100
	DefSize     = 15
)

var DefaultOptions = Options{
	Size:     DefSize,
	Interval: DefInterval,
}

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNumberFormat    = errors.Wrap(ErrInvalidArgument, "number format")
	ErrUnknownTemplate = errors.New("unknown template")
)
