package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/boxesandglue/luatextshape/hb"
	"github.com/boxesandglue/luatextshape/hbshape"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const (
	inputText = iota
	inputFeatures
	inputDirection
	inputCount
)

// shapeModel reshapes the text on every keystroke.
type shapeModel struct {
	font    *hb.Font
	path    string
	inputs  [inputCount]textinput.Model
	focus   int
	result  string
	glyphs  int
	advance int
	err     error
}

func newShapeModel(font *hb.Font, path string) *shapeModel {
	m := &shapeModel{font: font, path: path}
	prompts := [inputCount]string{"text: ", "features: ", "direction: "}
	placeholders := [inputCount]string{"Hello", "kern,-liga", "ltr, rtl, ttb, btt or empty"}
	for i := range m.inputs {
		ti := textinput.New()
		ti.Prompt = prompts[i]
		ti.Placeholder = placeholders[i]
		ti.Width = 60
		m.inputs[i] = ti
	}
	m.inputs[inputText].Focus()
	return m
}

func (m *shapeModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *shapeModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		case "tab", "down":
			m.moveFocus(1)
			return m, nil
		case "shift+tab", "up":
			m.moveFocus(-1)
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	m.reshape()
	return m, cmd
}

func (m *shapeModel) moveFocus(delta int) {
	m.inputs[m.focus].Blur()
	m.focus = (m.focus + delta + inputCount) % inputCount
	m.inputs[m.focus].Focus()
}

func (m *shapeModel) reshape() {
	m.result, m.glyphs, m.advance, m.err = "", 0, 0, nil

	opts := hbshape.Options{Text: m.inputs[inputText].Value()}
	features, err := hb.ParseFeatures(m.inputs[inputFeatures].Value())
	if err != nil {
		m.err = err
		return
	}
	opts.Features = features
	if d := strings.TrimSpace(m.inputs[inputDirection].Value()); d != "" {
		opts.Direction = hb.ParseDirection(d)
		if !opts.Direction.IsValid() {
			m.err = fmt.Errorf("invalid direction %q", d)
			return
		}
	}

	buf, err := hbshape.Shape(m.font, &opts)
	if err != nil {
		m.err = err
		return
	}
	m.result = hbshape.Serialize(m.font, buf, &opts)
	for _, g := range buf.Glyphs() {
		m.glyphs++
		m.advance += g.XAdvance
	}
}

func (m *shapeModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("luahb"))
	b.WriteString(" ")
	b.WriteString(m.path)
	b.WriteString("\n\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render("Error: " + m.err.Error()))
	} else {
		b.WriteString(resultStyle.Render(m.result))
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%d glyphs, advance %d", m.glyphs, m.advance)))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render("tab next field • esc quit"))
	return b.String()
}

func runInteractive(path string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("interactive mode needs a terminal")
	}
	face, err := hb.NewFaceFromFile(path, 0)
	if err != nil {
		return err
	}
	font, err := hb.NewFont(face)
	if err != nil {
		return err
	}
	p := tea.NewProgram(newShapeModel(font, path), tea.WithAltScreen())
	_, err = p.Run()
	return err
}
