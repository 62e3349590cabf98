package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"

	"github.com/integrii/flaggy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"slowlife/src/config"
	"slowlife/src/panel"
	"slowlife/src/view"
)

var (
	templates = []panel.Template{
		{Name: "corner", Descr: "three cells in the top left corner, grows into the block", Coordinates: [][]int{{0, 0}, {0, 1}, {1, 0}}},
		{Name: "plus", Descr: "the plus in the center, dies out through the wrap on 5x5", Coordinates: [][]int{{1, 2}, {2, 1}, {2, 2}, {2, 3}, {3, 2}}},
		{Name: "blinker", Descr: "period 2 oscillator", Coordinates: [][]int{{1, 0}, {1, 1}, {1, 2}}},
		{Name: "glider", Descr: "travels across the edges", Coordinates: [][]int{{0, 1}, {1, 2}, {2, 0}, {2, 1}, {2, 2}}},
	}
)

type EnvOptions struct {
	interactive bool
	randomData  bool
	density     float64
	template    string
	configFile  string
}

func main() {
	eo, o, err := initOptions()
	if err != nil {
		log.Printf("configuration: %v", err)
		os.Exit(1)
	}

	p, err := newPanel(eo, o)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}

	if eo.interactive {
		err = runInteractive(p, eo)
	} else {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		err = runHeadless(ctx, p, os.Stdout, true)
		stop()
	}
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
}

//newPanel creates the panel and seeds it with random data or the template
func newPanel(eo *EnvOptions, o *panel.Options) (*panel.Panel, error) {
	p, err := panel.NewPanel(o)
	if err != nil {
		return nil, err
	}
	for _, t := range templates {
		p.AddTemplate(t)
	}
	if eo.randomData {
		p.SettleWithRandomData(eo.density)
		return p, nil
	}
	if err = p.SettleTemplate(eo.template); err != nil {
		return nil, err
	}
	return p, nil
}

func runInteractive(p *panel.Panel, eo *EnvOptions) error {
	v, err := view.NewViewTerminal(eo.density)
	if err != nil {
		return errors.Wrap(err, "terminal ui")
	}
	p.RegisterViewer(v)
	return v.Start()
}

//runHeadless runs the continuous run until the natural exit or ctx is done
func runHeadless(ctx context.Context, p *panel.Panel, w io.Writer, colors bool) error {
	c := view.NewConsoleOut(w, colors)
	p.RegisterViewer(c)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if err := c.Start(); err != nil {
		return err
	}
	//the panel is running once Start returns, a signal observed later always stops it
	p.Start()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer cancel()
		p.Wait()
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		p.Stop()
		return nil
	})
	return g.Wait()
}

func initOptions() (eo *EnvOptions, o *panel.Options, err error) {
	opts := panel.DefaultOptions
	o = &opts
	eo = &EnvOptions{template: "corner", density: 0.3}

	//the options file is the base, the flags are registered on top of its values
	if eo.configFile = configFileArg(os.Args[1:]); eo.configFile != "" {
		if *o, err = config.Load(eo.configFile, *o); err != nil {
			return nil, nil, err
		}
	}

	names := make([]string, 0, len(templates))
	for _, t := range templates {
		names = append(names, t.Name)
	}
	sort.Strings(names)

	size := o.Size
	flaggy.DefaultParser.ShowHelpOnUnexpected = true
	flaggy.Int(&size, "n", "size", "Dimension of the square grid")
	flaggy.Duration(&o.Interval, "i", "interval", "Delay between the generations in format the number with 'ms' suffix, for example 150ms")
	flaggy.Int(&o.MaxSteps, "s", "maxSteps", "Limit the continuous run to maxSteps generations, 0 runs until stopped")
	flaggy.Bool(&eo.interactive, "t", "interactive", "Start the terminal UI")
	flaggy.Bool(&eo.randomData, "r", "random", "Settle with random data")
	flaggy.Float64(&eo.density, "d", "density", "Share of alive cells for the random data")
	flaggy.String(&eo.template, "p", "template", "Seeding template ["+strings.Join(names, "|")+"]")
	flaggy.String(&eo.configFile, "c", "config", "JSON options file, the other flags override its values")

	flaggy.Parse()

	if o.Size, err = panel.ConvertToInt(size); err != nil {
		return nil, nil, errors.Wrap(err, "size flag")
	}

	if !eo.interactive {
		fmt.Println("Headless mode, use -t for the terminal UI")
	}
	return eo, o, nil
}

//configFileArg finds the value of the -c/--config flag before the flags are parsed
func configFileArg(args []string) string {
	for i, a := range args {
		name, value, hasValue := strings.Cut(a, "=")
		if name != "-c" && name != "--config" {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
	}
	return ""
}
