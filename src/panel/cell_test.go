package panel

import "testing"

func TestCell_Default(t *testing.T) {
	var c Cell
	if c.Alive() {
		t.Fatal("zero cell is alive")
	}
	if c.Text() != " " {
		t.Errorf("text: got %q, want %q", c.Text(), " ")
	}
	if NewCell(false).Alive() {
		t.Error("NewCell(false) is alive")
	}
	if !NewCell(true).Alive() {
		t.Error("NewCell(true) is dead")
	}
}

func TestCell_SetAlive(t *testing.T) {
	tests := []struct {
		name     string
		initial  bool
		sequence []bool
		alive    bool
		text     string
		str      string
	}{
		{"set true", false, []bool{true}, true, "X", "X"},
		{"set false", false, []bool{false}, false, " ", "."},
		{"true false true", false, []bool{true, false, true}, true, "X", "X"},
		{"alive set false", true, []bool{false}, false, " ", "."},
		{"constructed alive", true, nil, true, "X", "X"},
		{"constructed dead", false, nil, false, " ", "."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCell(tt.initial)
			for _, v := range tt.sequence {
				c.SetAlive(v)
			}
			if c.Alive() != tt.alive {
				t.Errorf("alive: got %v, want %v", c.Alive(), tt.alive)
			}
			if c.Text() != tt.text {
				t.Errorf("text: got %q, want %q", c.Text(), tt.text)
			}
			if c.String() != tt.str {
				t.Errorf("string: got %q, want %q", c.String(), tt.str)
			}
		})
	}
}
