package view

import (
	"bytes"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"
)

const (
	viewHeader        = "header"
	viewConfiguration = "configuration"
	viewStatus        = "status"
	viewField         = "field"
	viewHelp          = "help"
)

type keyBinding struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

// ConsoleUI is an interactive terminal front end for a Session
type ConsoleUI struct {
	s        *Session
	g        *gocui.Gui
	k        []keyBinding
	logger   *slog.Logger
	interval time.Duration
	stopCh   chan struct{}

	liveFiller string
	deadFiller string
}

func NewConsoleUI(s *Session, interval time.Duration, logger *slog.Logger) (*ConsoleUI, error) {
	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "[NewConsoleUI] failed to init terminal")
	}

	t := &ConsoleUI{
		s:          s,
		g:          g,
		logger:     logger,
		interval:   interval,
		liveFiller: aurora.Green("█").BgBrightGreen().String(),
		deadFiller: "░",
	}
	t.g.Mouse = true
	t.k = []keyBinding{
		{gocui.KeyCtrlC, "^C", "Exit", t.cmdQuit, ""},
		{'n', "N", "Next step", t.cmdStep, ""},
		{'r', "R", "Run", t.cmdRun, ""},
		{'s', "S", "Stop", t.cmdStop, ""},
		{'c', "C", "Clear", t.cmdClear, ""},
		{'w', "W", "Randomize", t.cmdRandomize, ""},
		{gocui.MouseLeft, "MOUSE", "Toggle cell", t.cmdToggle, viewField},
	}
	t.g.SetManagerFunc(t.layout)

	for _, kb := range t.k {
		h := kb.handler
		if err = t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(_ *gocui.Gui, v *gocui.View) error {
			return h(v)
		}); err != nil {
			t.g.Close()
			return nil, errors.Wrapf(err, "[NewConsoleUI] failed to bind key: %+v", kb.name)
		}
	}

	return t, nil
}

// Start runs the UI main loop until the user quits
func (t *ConsoleUI) Start() error {
	defer t.g.Close()
	defer t.stopRunning()

	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "[ConsoleUI.Start] main loop failed")
	}
	return nil
}

func (t *ConsoleUI) refresh(g *gocui.Gui) {
	t.renderField(g)
	t.renderConfiguration(g)
	t.renderStatus(g)
}

func (t *ConsoleUI) renderField(g *gocui.Gui) {
	v, err := g.View(viewField)
	if err != nil {
		return
	}
	v.Clear()
	maxW, maxH := v.Size()
	notice := aurora.Red("The universe is larger than the viewing area").BgBlack().String()
	_, _ = fmt.Fprint(v, t.s.Field(maxW, maxH, t.liveFiller, t.deadFiller, notice))
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui) {
	v, err := g.View(viewStatus)
	if err != nil {
		return
	}
	mode := aurora.Colorize("waiting", aurora.BlueFg).String()
	if t.s.Running() {
		mode = aurora.Colorize("running", aurora.CyanFg).String()
	}
	v.Clear()
	_, _ = fmt.Fprintln(v, renderProp("Generation", "%v", t.s.Generation()))
	_, _ = fmt.Fprintln(v, renderProp("Live cells", "%v", t.s.Universe().CountLiving()))
	_, _ = fmt.Fprintln(v, renderProp("Mode", "%v", mode))
}

func (t *ConsoleUI) renderConfiguration(g *gocui.Gui) {
	v, err := g.View(viewConfiguration)
	if err != nil {
		return
	}
	u := t.s.Universe()
	v.Clear()
	_, _ = fmt.Fprintln(v, renderProp("Dimension", "%v x %v", u.Width(), u.Height()))
	_, _ = fmt.Fprintln(v, renderProp("Interval", "%v", t.interval))
}

func renderProp(name string, valueFormat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueFormat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {
	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 12

	if maxY < minWindowHeight {
		if err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			return err
		}
		for _, name := range []string{viewConfiguration, viewStatus, viewField, viewHelp} {
			_ = g.DeleteView(name)
		}
		return nil
	}
	if err := t.headerLayout(g, 3, "Game of Life"); err != nil {
		return err
	}

	split := 3 + (maxY-5-3)/2
	if v, err := g.SetView(viewConfiguration, 0, 3, leftColumnWidth, split); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Configuration"
	}
	if v, err := g.SetView(viewStatus, 0, split+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Status"
	}
	if v, err := g.SetView(viewField, leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Title = "Universe"
	}
	if v, err := g.SetView(viewHelp, -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		var b bytes.Buffer
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

	t.refresh(g)
	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) error {
	maxX, _ := g.Size()
	v, err := g.SetView(viewHeader, -1, -1, maxX+1, height)
	if err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
		v.Frame = false
		v.BgColor = gocui.ColorCyan
		v.FgColor = gocui.ColorBlack
	}
	v.Clear()
	pad := max(0, (maxX-len(text))/2)
	_, _ = fmt.Fprintln(v, strings.Repeat("\n", height/2)+strings.Repeat(" ", pad)+text)
	return nil
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdStep(_ *gocui.View) error {
	t.s.Step()
	t.refresh(t.g)
	return nil
}

// cmdRun starts a ticker that posts steps to the main loop, so the universe
// is still only touched from one goroutine
func (t *ConsoleUI) cmdRun(_ *gocui.View) error {
	if t.s.running {
		return nil
	}
	t.s.running = true
	t.stopCh = make(chan struct{})
	t.logger.Debug("auto-run started", "interval", t.interval)

	go func(stop <-chan struct{}) {
		ticker := time.NewTicker(max(t.interval, time.Millisecond))
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				t.g.Update(func(g *gocui.Gui) error {
					if t.s.running {
						t.s.Step()
						t.refresh(g)
					}
					return nil
				})
			}
		}
	}(t.stopCh)

	t.refresh(t.g)
	return nil
}

func (t *ConsoleUI) cmdStop(_ *gocui.View) error {
	t.stopRunning()
	t.refresh(t.g)
	return nil
}

func (t *ConsoleUI) stopRunning() {
	if !t.s.running {
		return
	}
	t.s.running = false
	close(t.stopCh)
	t.logger.Debug("auto-run stopped", "generation", t.s.Generation())
}

func (t *ConsoleUI) cmdClear(_ *gocui.View) error {
	t.stopRunning()
	t.s.Clear()
	t.refresh(t.g)
	return nil
}

func (t *ConsoleUI) cmdRandomize(_ *gocui.View) error {
	t.stopRunning()
	t.s.Randomize()
	t.refresh(t.g)
	return nil
}

func (t *ConsoleUI) cmdToggle(v *gocui.View) error {
	cx, cy := v.Cursor()
	if t.s.Toggle(cx, cy) {
		t.refresh(t.g)
	}
	return nil
}
