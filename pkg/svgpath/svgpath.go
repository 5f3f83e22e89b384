// Package svgpath parses SVG path data ("d" attributes) into subpaths of
// explicit draw commands. Smooth curve variants (S/s, T/t) are resolved to
// plain curves at parse time by reflecting the previous control point, so
// consumers never see implicit control points.
package svgpath

import (
	"fmt"
	"strconv"
	"strings"
)

// The parser follows the grammar from the SVG 1.1 specification, section
// 8.3.9 ("The grammar for path data"):
//
// svg-path:
//     wsp* moveto-drawto-command-groups? wsp*
// moveto-drawto-command-group:
//     moveto wsp* drawto-commands?
// drawto-command:
//     closepath | lineto | horizontal-lineto | vertical-lineto
//     | curveto | smooth-curveto
//     | quadratic-bezier-curveto | smooth-quadratic-bezier-curveto
//     | elliptical-arc
// elliptical-arc-argument:
//     nonnegative-number comma-wsp? nonnegative-number comma-wsp?
//         number comma-wsp flag comma-wsp? flag comma-wsp? coordinate-pair
// number:
//     sign? integer-constant | sign? floating-point-constant
// comma-wsp:
//     (wsp+ comma? wsp*) | (comma wsp*)

type Command string

const (
	ClosePath = "Z"
	LineTo    = "L"
	CurveTo   = "C"
	QuadTo    = "Q"
	ArcTo     = "A"
)

// DrawTo is one resolved drawing command. X, Y is always the command's
// endpoint. CurveTo fills X1, Y1, X2, Y2; QuadTo fills X1, Y1; ArcTo fills
// RX, RY, XAxisRotation, LargeArc, Sweep.
type DrawTo struct {
	Command       Command
	X, Y          float64
	X1, Y1        float64
	X2, Y2        float64
	RX, RY        float64
	XAxisRotation float64
	LargeArc      bool
	Sweep         bool
}

// SubPath is one moveto-initiated group: a start point and its commands.
type SubPath struct {
	X, Y   float64
	DrawTo []*DrawTo
}

// EndPoint returns the final point of the subpath.
func (sp *SubPath) EndPoint() (float64, float64) {
	if len(sp.DrawTo) == 0 {
		return sp.X, sp.Y
	}
	last := sp.DrawTo[len(sp.DrawTo)-1]
	return last.X, last.Y
}

type state struct {
	data     string
	index    int
	subPaths []*SubPath
	group    *SubPath
	currentX float64
	currentY float64
	relative bool

	// Previous control point for smooth command reflection. Valid only
	// when lastCmd is CurveTo (for S) or QuadTo (for T).
	lastCmd      Command
	lastCtrlX    float64
	lastCtrlY    float64
	haveLastCtrl bool
}

// Parse parses a path data string into subpaths.
func Parse(path string) ([]*SubPath, error) {
	s := &state{data: path}
	err := s.parse()
	return s.subPaths, err
}

func (s *state) parse() error {
	for {
		s.whitespace()
		c := s.peek()
		if c != 'M' && c != 'm' {
			break
		}
		if err := s.parseMoveTo(); err != nil {
			return err
		}
		s.whitespace()
		if err := s.parseDrawToCommands(); err != nil {
			return err
		}
	}

	s.whitespace()
	if s.index != len(s.data) {
		return fmt.Errorf("unparsed path data: %q", s.data[s.index:])
	}
	return nil
}

func (s *state) parseMoveTo() error {
	command := s.next()
	if command != 'M' && command != 'm' {
		return fmt.Errorf("expected \"M\" or \"m\", got %q", string(command))
	}
	s.relative = command == 'm'
	s.whitespace()

	x, y, err := s.parseCoordinatePair()
	if err != nil {
		return err
	}
	if s.relative {
		x += s.currentX
		y += s.currentY
	}
	s.currentX, s.currentY = x, y
	s.setLastCommand("M")

	// A moveto always starts a new subpath.
	s.group = &SubPath{X: s.currentX, Y: s.currentY}
	s.subPaths = append(s.subPaths, s.group)

	// Extra coordinate pairs after a moveto are implicit linetos.
	for {
		savedIndex := s.index
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			s.index = savedIndex
			break
		}
		s.emitLineTo(x, y)
	}
	return nil
}

func (s *state) parseDrawToCommands() error {
	first := true
	for {
		if !first {
			s.whitespace()
		}
		first = false

		var err error
		switch s.peek() {
		case 'L', 'l':
			err = s.parseLineTo()
		case 'H', 'h':
			err = s.parseHorizontalLineTo()
		case 'V', 'v':
			err = s.parseVerticalLineTo()
		case 'C', 'c':
			err = s.parseCurveTo(false)
		case 'S', 's':
			err = s.parseCurveTo(true)
		case 'Q', 'q':
			err = s.parseQuadTo(false)
		case 'T', 't':
			err = s.parseQuadTo(true)
		case 'A', 'a':
			err = s.parseArcTo()
		case 'Z', 'z':
			err = s.parseClosePath()
		default:
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func (s *state) ensureSubPath() {
	if s.group == nil {
		s.group = &SubPath{X: s.currentX, Y: s.currentY}
		s.subPaths = append(s.subPaths, s.group)
	}
}

func (s *state) emitLineTo(x, y float64) {
	if s.relative {
		x += s.currentX
		y += s.currentY
	}
	s.ensureSubPath()
	s.group.DrawTo = append(s.group.DrawTo, &DrawTo{Command: LineTo, X: x, Y: y})
	s.currentX, s.currentY = x, y
	s.setLastCommand(LineTo)
}

func (s *state) setLastCommand(cmd Command) {
	s.lastCmd = cmd
	s.haveLastCtrl = cmd == CurveTo || cmd == QuadTo
}

func (s *state) parseClosePath() error {
	c := s.next()
	if c != 'Z' && c != 'z' {
		return fmt.Errorf("expecting \"Z\" or \"z\", got %q", string(c))
	}
	if s.group == nil {
		return fmt.Errorf("close path without an open subpath")
	}
	s.group.DrawTo = append(s.group.DrawTo,
		&DrawTo{Command: ClosePath, X: s.group.X, Y: s.group.Y})
	s.currentX = s.group.X
	s.currentY = s.group.Y
	s.group = nil
	s.setLastCommand(ClosePath)
	return nil
}

func (s *state) parseLineTo() error {
	c := s.next()
	if c != 'L' && c != 'l' {
		return fmt.Errorf("expecting \"L\" or \"l\", got %q", string(c))
	}
	s.relative = c == 'l'
	s.whitespace()
	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}
		s.emitLineTo(x, y)
		first = false
	}
}

func (s *state) parseHorizontalLineTo() error {
	c := s.next()
	if c != 'H' && c != 'h' {
		return fmt.Errorf("expecting \"H\" or \"h\", got %q", string(c))
	}
	relative := c == 'h'
	s.whitespace()
	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}
		x, err := s.parseNumber()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}
		if relative {
			x += s.currentX
		}
		s.relative = false
		s.emitLineTo(x, s.currentY)
		first = false
	}
}

func (s *state) parseVerticalLineTo() error {
	c := s.next()
	if c != 'V' && c != 'v' {
		return fmt.Errorf("expecting \"V\" or \"v\", got %q", string(c))
	}
	relative := c == 'v'
	s.whitespace()
	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}
		y, err := s.parseNumber()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}
		if relative {
			y += s.currentY
		}
		s.relative = false
		s.emitLineTo(s.currentX, y)
		first = false
	}
}

// parseCurveTo handles C/c, and S/s when smooth is true. A smooth curveto
// takes only the second control point and the endpoint; the first control
// point is the previous curve's second control point reflected about the
// current point, or the current point itself when the previous command was
// not a curveto.
func (s *state) parseCurveTo(smooth bool) error {
	c := s.next()
	switch {
	case !smooth && c != 'C' && c != 'c':
		return fmt.Errorf("expecting \"C\" or \"c\", got %q", string(c))
	case smooth && c != 'S' && c != 's':
		return fmt.Errorf("expecting \"S\" or \"s\", got %q", string(c))
	}
	s.relative = c == 'c' || c == 's'
	s.whitespace()
	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		var x1, y1 float64
		var err error
		if !smooth {
			x1, y1, err = s.parseCoordinatePair()
			if err != nil {
				if !first {
					s.index = oldIndex
					return nil
				}
				return err
			}
			s.commaWhitespace()
		}

		x2, y2, err := s.parseCoordinatePair()
		if err != nil {
			if smooth && !first {
				s.index = oldIndex
				return nil
			}
			return err
		}
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}

		if s.relative {
			if !smooth {
				x1 += s.currentX
				y1 += s.currentY
			}
			x2 += s.currentX
			y2 += s.currentY
			x += s.currentX
			y += s.currentY
		}
		if smooth {
			x1, y1 = s.reflectedControl(CurveTo)
		}

		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: CurveTo, X: x, Y: y, X1: x1, Y1: y1, X2: x2, Y2: y2})
		s.currentX, s.currentY = x, y
		s.setLastCommand(CurveTo)
		s.lastCtrlX, s.lastCtrlY = x2, y2

		first = false
	}
}

// parseQuadTo handles Q/q, and T/t when smooth is true.
func (s *state) parseQuadTo(smooth bool) error {
	c := s.next()
	switch {
	case !smooth && c != 'Q' && c != 'q':
		return fmt.Errorf("expecting \"Q\" or \"q\", got %q", string(c))
	case smooth && c != 'T' && c != 't':
		return fmt.Errorf("expecting \"T\" or \"t\", got %q", string(c))
	}
	s.relative = c == 'q' || c == 't'
	s.whitespace()
	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		var x1, y1 float64
		var err error
		if !smooth {
			x1, y1, err = s.parseCoordinatePair()
			if err != nil {
				if !first {
					s.index = oldIndex
					return nil
				}
				return err
			}
			s.commaWhitespace()
		}

		x, y, err := s.parseCoordinatePair()
		if err != nil {
			if smooth && !first {
				s.index = oldIndex
				return nil
			}
			return err
		}

		if s.relative {
			if !smooth {
				x1 += s.currentX
				y1 += s.currentY
			}
			x += s.currentX
			y += s.currentY
		}
		if smooth {
			x1, y1 = s.reflectedControl(QuadTo)
		}

		s.group.DrawTo = append(s.group.DrawTo,
			&DrawTo{Command: QuadTo, X: x, Y: y, X1: x1, Y1: y1})
		s.currentX, s.currentY = x, y
		s.setLastCommand(QuadTo)
		s.lastCtrlX, s.lastCtrlY = x1, y1

		first = false
	}
}

// reflectedControl returns the previous control point reflected about the
// current point, per the SVG smoothing rule. When the previous command was
// not of the matching curve type, the current point is used.
func (s *state) reflectedControl(kind Command) (float64, float64) {
	if s.lastCmd != kind || !s.haveLastCtrl {
		return s.currentX, s.currentY
	}
	return 2*s.currentX - s.lastCtrlX, 2*s.currentY - s.lastCtrlY
}

func (s *state) parseArcTo() error {
	c := s.next()
	if c != 'A' && c != 'a' {
		return fmt.Errorf("expecting \"A\" or \"a\", got %q", string(c))
	}
	s.relative = c == 'a'
	s.whitespace()
	s.ensureSubPath()

	first := true
	for {
		oldIndex := s.index
		if !first {
			s.commaWhitespace()
		}

		rx, err := s.parseNonNegativeNumber()
		if err != nil {
			if !first {
				s.index = oldIndex
				return nil
			}
			return err
		}
		s.commaWhitespace()
		ry, err := s.parseNonNegativeNumber()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		rotation, err := s.parseNumber()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		largeArc, err := s.parseFlag()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		sweep, err := s.parseFlag()
		if err != nil {
			return err
		}
		s.commaWhitespace()
		x, y, err := s.parseCoordinatePair()
		if err != nil {
			return err
		}

		if s.relative {
			x += s.currentX
			y += s.currentY
		}

		s.group.DrawTo = append(s.group.DrawTo, &DrawTo{
			Command:       ArcTo,
			X:             x,
			Y:             y,
			RX:            rx,
			RY:            ry,
			XAxisRotation: rotation,
			LargeArc:      largeArc,
			Sweep:         sweep,
		})
		s.currentX, s.currentY = x, y
		s.setLastCommand(ArcTo)

		first = false
	}
}

func (s *state) parseFlag() (bool, error) {
	c := s.next()
	switch c {
	case '0':
		return false, nil
	case '1':
		return true, nil
	}
	return false, fmt.Errorf("expected arc flag \"0\" or \"1\", got %q", string(c))
}

func (s *state) parseCoordinatePair() (float64, float64, error) {
	x, err := s.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	s.commaWhitespace()
	y, err := s.parseNumber()
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func (s *state) parseNumber() (float64, error) {
	c := s.peek()
	if c == '+' || c == '-' {
		s.next()
		n, err := s.parseNonNegativeNumber()
		if c == '-' {
			n = -n
		}
		return n, err
	}
	return s.parseNonNegativeNumber()
}

func (s *state) parseNonNegativeNumber() (float64, error) {
	number := s.digitSequence()
	if number == "" {
		// Possible fractional constant starting with a decimal point.
		c := s.next()
		if c != '.' {
			return 0, fmt.Errorf("expected a number, got %q", string(c))
		}
		number = "." + s.digitSequence()
		if number == "." {
			return 0, fmt.Errorf("expected a number, got only a \".\"")
		}
	} else if s.peek() == '.' {
		s.next()
		number += "." + s.digitSequence()
	}

	c := s.peek()
	if c == 'E' || c == 'e' {
		s.next()
		sign := ""
		c = s.peek()
		if c == '+' || c == '-' {
			s.next()
			sign = string(c)
		}
		exponent := s.digitSequence()
		if exponent == "" {
			return 0, fmt.Errorf("expected an exponent, got %q", string(c))
		}
		number += "E" + sign + exponent
	}

	return strconv.ParseFloat(number, 64)
}

func (s *state) digitSequence() string {
	var sequence []byte
	for {
		c := s.peek()
		if '0' <= c && c <= '9' {
			sequence = append(sequence, c)
			s.next()
		} else {
			break
		}
	}
	return string(sequence)
}

// whitespace consumes "wsp*" and returns the number of bytes consumed.
func (s *state) whitespace() int {
	count := 0
	for {
		switch s.peek() {
		case ' ', '\t', '\n', '\r':
			s.next()
			count++
		default:
			return count
		}
	}
}

// commaWhitespace consumes an optional "(wsp+ comma? wsp*) | (comma wsp*)",
// and returns true if something was consumed.
func (s *state) commaWhitespace() bool {
	if s.peek() == ',' {
		s.next()
		s.whitespace()
		return true
	}
	consumed := s.whitespace()
	if consumed > 0 {
		if s.peek() == ',' {
			s.next()
		}
		s.whitespace()
		return true
	}
	return false
}

// peek returns the next byte without consuming it, or 0 at end of data.
func (s *state) peek() byte {
	if s.index < len(s.data) {
		return s.data[s.index]
	}
	return 0
}

// next consumes and returns the next byte, or 0 at end of data.
func (s *state) next() byte {
	if s.index < len(s.data) {
		i := s.index
		s.index++
		return s.data[i]
	}
	return 0
}

// ToString serializes subpaths back to path data. Only used for diagnostics
// and tests; it makes no attempt to produce a minimal string.
func ToString(groups []*SubPath) string {
	var buf strings.Builder
	f := func(n float64) string {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	for i, group := range groups {
		if i > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString("M " + f(group.X) + " " + f(group.Y))
		for _, d := range group.DrawTo {
			switch d.Command {
			case LineTo:
				buf.WriteString(" L " + f(d.X) + " " + f(d.Y))
			case QuadTo:
				buf.WriteString(" Q " + f(d.X1) + " " + f(d.Y1) + " " + f(d.X) + " " + f(d.Y))
			case CurveTo:
				buf.WriteString(" C " +
					f(d.X1) + " " + f(d.Y1) + " " +
					f(d.X2) + " " + f(d.Y2) + " " +
					f(d.X) + " " + f(d.Y))
			case ArcTo:
				large, sweep := "0", "0"
				if d.LargeArc {
					large = "1"
				}
				if d.Sweep {
					sweep = "1"
				}
				buf.WriteString(" A " + f(d.RX) + " " + f(d.RY) + " " + f(d.XAxisRotation) +
					" " + large + " " + sweep + " " + f(d.X) + " " + f(d.Y))
			case ClosePath:
				buf.WriteString(" Z")
			}
		}
	}
	return buf.String()
}
