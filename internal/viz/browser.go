package viz

import (
	"context"
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/san-kum/cosmosim/internal/sim"
	"github.com/san-kum/cosmosim/internal/space"
)

// Source supplies nodes to the browser. storage.Store implements it.
type Source interface {
	Node(ctx context.Context, id string) (*space.Node, error)
	Children(ctx context.Context, parentID string) ([]*space.Node, error)
}

// TreeSource serves an in-memory hierarchy.
type TreeSource struct {
	index space.Index
}

func NewTreeSource(root *space.Node) TreeSource {
	return TreeSource{index: space.NewIndex(root)}
}

func (s TreeSource) Node(ctx context.Context, id string) (*space.Node, error) {
	return s.index.Node(ctx, id)
}

func (s TreeSource) Children(ctx context.Context, parentID string) ([]*space.Node, error) {
	n, err := s.index.Node(ctx, parentID)
	if err != nil {
		return nil, err
	}
	return n.Children, nil
}

const (
	orbitSamples = 240
	canvasWidth  = 40
	canvasHeight = 12
)

type Browser struct {
	ctx      context.Context
	src      Source
	path     []*space.Node
	children []*space.Node
	cursor   int

	showOrbit bool
	theme     int
	styles    styles
	status    string
	width     int
}

// NewBrowser opens the browser on root's children.
func NewBrowser(ctx context.Context, src Source, root *space.Node) (Browser, error) {
	b := Browser{
		ctx:    ctx,
		src:    src,
		path:   []*space.Node{root},
		styles: newStyles(Themes[0]),
		width:  80,
	}
	children, err := src.Children(ctx, root.ID)
	if err != nil {
		return Browser{}, fmt.Errorf("load children of %s: %w", root.ID, err)
	}
	b.children = children
	return b, nil
}

func (b Browser) Init() tea.Cmd { return nil }

func (b Browser) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return b.handleKey(msg)
	case tea.WindowSizeMsg:
		b.width = msg.Width
	}
	return b, nil
}

func (b Browser) handleKey(msg tea.KeyMsg) (Browser, tea.Cmd) {
	b.status = ""
	switch msg.String() {
	case "q", "ctrl+c":
		return b, tea.Quit
	case "up", "k":
		if b.cursor > 0 {
			b.cursor--
		}
	case "down", "j":
		if b.cursor < len(b.children)-1 {
			b.cursor++
		}
	case "enter", "right", "l":
		b = b.descend()
	case "backspace", "left", "h":
		b = b.ascend()
	case "o":
		b.showOrbit = !b.showOrbit
	case "t":
		b.theme = (b.theme + 1) % len(Themes)
		b.styles = newStyles(Themes[b.theme])
	}
	return b, nil
}

func (b Browser) descend() Browser {
	sel := b.Selected()
	if sel == nil {
		return b
	}
	children, err := b.src.Children(b.ctx, sel.ID)
	if err != nil {
		b.status = err.Error()
		return b
	}
	if len(children) == 0 {
		b.status = fmt.Sprintf("%s has no children", sel.Name)
		return b
	}
	b.path = append(b.path[:len(b.path):len(b.path)], sel)
	b.children = children
	b.cursor = 0
	return b
}

func (b Browser) ascend() Browser {
	if len(b.path) < 2 {
		return b
	}
	from := b.Current()
	b.path = b.path[:len(b.path)-1]
	children, err := b.src.Children(b.ctx, b.Current().ID)
	if err != nil {
		b.status = err.Error()
		return b
	}
	b.children = children
	b.cursor = 0
	for i, c := range children {
		if c.ID == from.ID {
			b.cursor = i
			break
		}
	}
	return b
}

// Current returns the node whose children are listed.
func (b Browser) Current() *space.Node { return b.path[len(b.path)-1] }

func (b Browser) Selected() *space.Node {
	if b.cursor < 0 || b.cursor >= len(b.children) {
		return nil
	}
	return b.children[b.cursor]
}

func (b Browser) View() string {
	s := b.styles
	var out strings.Builder

	cur := b.Current()
	crumbs := make([]string, len(b.path))
	for i, n := range b.path {
		crumbs[i] = label(n)
	}
	out.WriteString("\n  " + s.title.Render("COSMOSIM") + "  " + s.subtitle.Render(strings.Join(crumbs, " / ")) + "\n\n")

	if len(b.children) == 0 {
		out.WriteString("  " + s.item.Render(fmt.Sprintf("%s has no children", label(cur))) + "\n")
	}
	for i, c := range b.children {
		name := fmt.Sprintf("%-14s %-14s", c.Kind, c.Name)
		if i == b.cursor {
			out.WriteString("  " + s.cursor.Render("▸") + " " + s.selected.Render(name) + "\n")
		} else {
			out.WriteString("    " + s.item.Render(name) + "\n")
		}
	}

	if sel := b.Selected(); sel != nil {
		out.WriteString("\n" + s.panel.Render(b.details(sel)) + "\n")
		if b.showOrbit {
			out.WriteString(b.orbitView(sel))
		}
	}

	if b.status != "" {
		out.WriteString("\n  " + s.errText.Render(b.status) + "\n")
	}
	out.WriteString("\n  " + b.hints() + "\n")
	return out.String()
}

func (b Browser) details(n *space.Node) string {
	s := b.styles
	row := func(k, v string) string {
		return s.label.Render(fmt.Sprintf("%-12s", k)) + s.value.Render(v) + "\n"
	}

	var out strings.Builder
	out.WriteString(row("id", n.ID))
	out.WriteString(row("kind", string(n.Kind)))
	out.WriteString(row("mass", fmt.Sprintf("%.4g kg", n.Mass)))
	out.WriteString(row("radius", fmt.Sprintf("%.4g m", n.ContainingRadius())))
	out.WriteString(row("position", fmt.Sprintf("(%.3g, %.3g, %.3g)", n.Position.X, n.Position.Y, n.Position.Z)))
	if n.Temperature != nil {
		out.WriteString(row("temperature", fmt.Sprintf("%.1f K", *n.Temperature)))
	}
	if o := n.Orbit; o != nil {
		out.WriteString(row("periapsis", fmt.Sprintf("%.4g m", o.Periapsis)))
		out.WriteString(row("eccentricity", fmt.Sprintf("%.4f", o.Eccentricity)))
		out.WriteString(row("inclination", fmt.Sprintf("%.2f°", o.Inclination*180/math.Pi)))
		out.WriteString(row("period", formatPeriod(o.Period)))
	}
	return strings.TrimRight(out.String(), "\n")
}

func (b Browser) orbitView(n *space.Node) string {
	s := b.styles
	if n.Orbit == nil {
		return "\n  " + s.item.Render("no orbit") + "\n"
	}
	if math.IsInf(n.Orbit.Period, 1) {
		return "\n  " + s.item.Render("unbound orbit") + "\n"
	}
	tr, err := sim.TrackOrbit(b.ctx, *n.Orbit, sim.TrackConfig{Samples: orbitSamples, Periods: 1})
	if err != nil {
		return "\n  " + s.errText.Render(err.Error()) + "\n"
	}

	xs := make([]float64, len(tr.Samples))
	ys := make([]float64, len(tr.Samples))
	for i, smp := range tr.Samples {
		xs[i], ys[i] = smp.State.Position.X, smp.State.Position.Y
	}
	c := NewCanvas(canvasWidth, canvasHeight)
	ox, oy := c.Path(xs, ys)
	c.Set(ox, oy)

	var out strings.Builder
	out.WriteString("\n")
	for _, line := range strings.Split(strings.TrimRight(c.String(), "\n"), "\n") {
		out.WriteString("  " + s.orbit.Render(line) + "\n")
	}
	out.WriteString("  " + s.label.Render("radius ") + s.orbit.Render(Sparkline(tr.Radii(), canvasWidth)) + "\n")
	return out.String()
}

func (b Browser) hints() string {
	s := b.styles
	pairs := [][2]string{{"j/k", "navigate"}, {"enter", "open"}, {"h", "back"}, {"o", "orbit"}, {"t", "theme"}, {"q", "quit"}}
	parts := make([]string, len(pairs))
	for i, p := range pairs {
		parts[i] = s.key.Render(p[0]) + " " + s.hint.Render(p[1])
	}
	return strings.Join(parts, "  ")
}

func label(n *space.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return string(n.Kind)
}

func formatPeriod(seconds float64) string {
	const year = 365.25 * 86400
	switch {
	case math.IsInf(seconds, 1):
		return "unbound"
	case seconds >= 1e6*year:
		return fmt.Sprintf("%.3g Myr", seconds/(1e6*year))
	case seconds >= year:
		return fmt.Sprintf("%.3g yr", seconds/year)
	default:
		return fmt.Sprintf("%.3g d", seconds/86400)
	}
}

// Run starts the browser full screen and blocks until it quits.
func Run(ctx context.Context, src Source, root *space.Node) error {
	b, err := NewBrowser(ctx, src, root)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(b, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	return err
}
