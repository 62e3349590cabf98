package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/pkg/errors"

	"slowlife/src/panel"
)

//file is the JSON layout of the options file
type file struct {
	Size     *int    `json:"size"`
	Interval *string `json:"interval"`
	MaxSteps *int    `json:"max_steps"`
}

//Load reads the options file on top of the defaults
//fields missing from the file keep the default value
func Load(filename string, defaults panel.Options) (panel.Options, error) {
	o := defaults

	data, err := os.ReadFile(filename)
	if err != nil {
		return o, errors.Wrapf(err, "[Load] failed to read file: %+v", filename)
	}

	var f file
	if err = json.Unmarshal(data, &f); err != nil {
		return o, errors.Wrapf(err, "[Load] failed to unmarshal data from file: %+v", filename)
	}

	if f.Size != nil {
		if o.Size, err = panel.ConvertToInt(*f.Size); err != nil {
			return defaults, errors.Wrapf(err, "[Load] size in file: %+v", filename)
		}
	}
	if f.MaxSteps != nil {
		if o.MaxSteps, err = panel.ConvertToInt(*f.MaxSteps); err != nil {
			return defaults, errors.Wrapf(err, "[Load] max_steps in file: %+v", filename)
		}
	}
	if f.Interval != nil {
		if o.Interval, err = time.ParseDuration(*f.Interval); err != nil {
			return defaults, errors.Wrapf(err, "[Load] interval in file: %+v", filename)
		}
	}
	return o, nil
}
