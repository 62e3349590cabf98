package panel

const (
	aliveGlyph   = "X"
	deadText     = " "
	deadStringer = "."
)

//Cell is the single grid entity
//the zero value is a dead cell
type Cell struct {
	alive bool
	text  string
}

//NewCell creates the cell with the initial state
func NewCell(alive bool) Cell {
	c := Cell{}
	c.SetAlive(alive)
	return c
}

//SetAlive sets the cell state and updates the display text
func (c *Cell) SetAlive(alive bool) {
	c.alive = alive
	if alive {
		c.text = aliveGlyph
	} else {
		c.text = deadText
	}
}

//Alive returns the current state
func (c Cell) Alive() bool {
	return c.alive
}

//Text returns the glyph shown on the display surface
func (c Cell) Text() string {
	if c.text == "" {
		return deadText
	}
	return c.text
}

func (c Cell) String() string {
	if c.alive {
		return aliveGlyph
	}
	return deadStringer
}
