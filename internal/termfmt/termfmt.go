// Terminal styling for run reports.  The Style/Escape shape follows shabbyrobe's termfmt
// (https://github.com/shabbyrobe/golib, MIT), cut down to what confluence-publish prints.
package termfmt

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

type Escape interface {
	Wrap(out string) string
}

func With(escs ...Escape) Style { return (Style{}).With(escs...) }
func Bold() Style               { return (Style{}).Bold() }
func Strike() Style             { return (Style{}).Strike() }
func Linked(link string) Style  { return (Style{}).Linked(link) }
func Fg(c C16Name) Style        { return (Style{}).Fg(c) }

// Enabled turns escapes on and off globally, e.g. when output isn't a terminal.
var Enabled = true

type Style struct {
	escapes []Escape
	v       any
}

var _ fmt.Formatter = Style{}

func (c Style) With(escs ...Escape) Style {
	c.escapes = append(append([]Escape(nil), c.escapes...), escs...)
	return c
}

func (c Style) Bold() Style              { return c.With(BoldEscape{}) }
func (c Style) Strike() Style            { return c.With(StrikeEscape{}) }
func (c Style) Linked(link string) Style { return c.With(Link{link}) }
func (c Style) Fg(name C16Name) Style    { return c.With(C16Color{Name: name}) }

func (c Style) V(v any) Style {
	c.v = v
	return c
}

func (c Style) Format(f fmt.State, verb rune) {
	v := printable(fmt.Sprintf(buildValueFormat(f, verb), c.v))
	if Enabled {
		for i := len(c.escapes) - 1; i >= 0; i-- {
			v = c.escapes[i].Wrap(v)
		}
	}
	f.Write([]byte(v))
}

func buildValueFormat(f fmt.State, verb rune) string {
	s := "%"
	for _, flag := range " +-0#" {
		if f.Flag(int(flag)) {
			s += string(flag)
		}
	}
	if width, ok := f.Width(); ok {
		s += strconv.Itoa(width)
	}
	if prec, ok := f.Precision(); ok {
		s += "." + strconv.Itoa(prec)
	}
	return s + string(verb)
}

// Link is an OSC 8 hyperlink.
type Link struct {
	URL string
}

func (l Link) Wrap(out string) string {
	return "\x1b]8;;" + printable(l.URL) + "\x1b\\" + out + "\x1b]8;;\x1b\\"
}

type BoldEscape struct{}

func (BoldEscape) Wrap(v string) string { return "\x1b[1m" + v + "\x1b[0m" }

type StrikeEscape struct{}

func (StrikeEscape) Wrap(v string) string { return "\x1b[9m" + v + "\x1b[0m" }

type C16Name uint8

const (
	DefaultColor C16Name = iota

	Black
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	LightGrey

	DarkGrey
	LightRed
	LightGreen
	LightYellow
	LightBlue
	LightMagenta
	LightCyan
	White
)

type C16Color struct {
	Name C16Name
	Bg   bool
}

func (c C16Color) Wrap(out string) string {
	cv := 39
	if c.Name != DefaultColor {
		// The lower 8 colours run from 30 to 37, the upper 8 from 90 to 97.
		cv = int(c.Name) - 1 + 30
		if c.Name >= DarkGrey {
			cv = int(c.Name) - int(DarkGrey) + 90
		}
	}
	if c.Bg {
		cv += 10
	}
	return "\x1b[" + strconv.Itoa(cv) + "m" + out + "\x1b[0m"
}

func printable(v string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsGraphic(r) {
			return r
		}
		return -1
	}, v)
}
