package svgpath

import (
	"fmt"
	"math"
)

// Matrix is a 2D affine transform:
//
//	⎡ A C E ⎤
//	⎢ B D F ⎥
//	⎣ 0 0 1 ⎦
type Matrix struct {
	A float64
	B float64
	C float64
	D float64
	E float64
	F float64
}

// Identity returns the identity transform.
func Identity() Matrix {
	return Matrix{A: 1, D: 1}
}

// ParseTransform parses an SVG transform attribute into a single composed
// matrix. An empty string parses to the identity transform.
func ParseTransform(transform string) (Matrix, error) {
	m := Identity()
	if transform == "" {
		return m, nil
	}

	functions, err := ParseFunctions(transform)
	if err != nil {
		return m, fmt.Errorf("failed to parse transform %q: %w", transform, err)
	}

	for _, function := range functions {
		switch function.Name {
		case "matrix":
			if len(function.Args) != 6 {
				return m, fmt.Errorf("matrix transform requires 6 args, got %v", function.Args)
			}
			m = m.Multiply(Matrix{
				A: function.Args[0], C: function.Args[2], E: function.Args[4],
				B: function.Args[1], D: function.Args[3], F: function.Args[5],
			})
		case "translate":
			if len(function.Args) != 1 && len(function.Args) != 2 {
				return m, fmt.Errorf("translate transform requires 1 or 2 args, got %v", function.Args)
			}
			x := function.Args[0]
			y := 0.0
			if len(function.Args) == 2 {
				y = function.Args[1]
			}
			m = m.Multiply(Matrix{
				A: 1, C: 0, E: x,
				B: 0, D: 1, F: y,
			})
		case "scale":
			if len(function.Args) != 1 && len(function.Args) != 2 {
				return m, fmt.Errorf("scale transform requires 1 or 2 args, got %v", function.Args)
			}
			x := function.Args[0]
			y := x
			if len(function.Args) == 2 {
				y = function.Args[1]
			}
			m = m.Multiply(Matrix{
				A: x, C: 0, E: 0,
				B: 0, D: y, F: 0,
			})
		case "rotate":
			//  ⎡ cos(θ)  −sin(θ)  −x⋅cos(θ)+y⋅sin(θ)+x ⎤
			//  ⎢ sin(θ)   cos(θ)  −x⋅sin(θ)−y⋅cos(θ)+y |
			//  ⎣   0        0               1          ⎦
			if len(function.Args) != 1 && len(function.Args) != 3 {
				return m, fmt.Errorf("rotate transform requires 1 or 3 args, got %v", function.Args)
			}
			cos := math.Cos(function.Args[0] * math.Pi / 180)
			sin := math.Sin(function.Args[0] * math.Pi / 180)
			x, y := 0.0, 0.0
			if len(function.Args) == 3 {
				x, y = function.Args[1], function.Args[2]
			}
			m = m.Multiply(Matrix{
				A: cos, C: -sin, E: -x*cos + y*sin + x,
				B: sin, D: cos, F: -x*sin - y*cos + y,
			})
		default:
			return m, fmt.Errorf("unknown transform function %q %v", function.Name, function.Args)
		}
	}

	return m, nil
}

func (m Matrix) Multiply(other Matrix) Matrix {
	return Matrix{
		A: m.A*other.A + m.C*other.B,
		B: m.B*other.A + m.D*other.B,
		C: m.A*other.C + m.C*other.D,
		D: m.B*other.C + m.D*other.D,
		E: m.A*other.E + m.C*other.F + m.E,
		F: m.B*other.E + m.D*other.F + m.F,
	}
}

func (m Matrix) TransformPoint(x, y float64) (float64, float64) {
	return m.A*x + m.C*y + m.E, m.B*x + m.D*y + m.F
}

// ScaleMagnitude returns the average absolute scale factor of the transform,
// used to scale scalar lengths (like arc radii) through the matrix.
func (m Matrix) ScaleMagnitude() float64 {
	sx := math.Hypot(m.A, m.B)
	sy := math.Hypot(m.C, m.D)
	return (sx + sy) / 2
}

// TransformPath applies the transform to every point of a path in place,
// including curve control points.
func (m Matrix) TransformPath(path []*SubPath) {
	for _, group := range path {
		group.X, group.Y = m.TransformPoint(group.X, group.Y)
		for _, drawTo := range group.DrawTo {
			drawTo.X, drawTo.Y = m.TransformPoint(drawTo.X, drawTo.Y)
			switch drawTo.Command {
			case CurveTo:
				drawTo.X1, drawTo.Y1 = m.TransformPoint(drawTo.X1, drawTo.Y1)
				drawTo.X2, drawTo.Y2 = m.TransformPoint(drawTo.X2, drawTo.Y2)
			case QuadTo:
				drawTo.X1, drawTo.Y1 = m.TransformPoint(drawTo.X1, drawTo.Y1)
			case ArcTo:
				// Approximation: a single averaged magnitude cannot
				// represent non-uniform scale(sx,sy), which would turn
				// the arc ellipse into a different ellipse. Arc endpoints
				// transform exactly, so only sampled arc interiors see
				// the error.
				scale := m.ScaleMagnitude()
				drawTo.RX *= scale
				drawTo.RY *= scale
			}
		}
	}
}

// Function is one parsed transform-list entry, e.g. translate(10, 20).
type Function struct {
	Name string
	Args []float64
}

// ParseFunctions parses a transform list:
//
//	(wsp* identifier wsp* "(" wsp* number (comma-wsp number)* wsp* ")" wsp*)*
func ParseFunctions(functions string) ([]*Function, error) {
	s := &state{data: functions}
	return s.parseFunctions()
}

func (s *state) parseFunctions() ([]*Function, error) {
	var functions []*Function
	for {
		function := &Function{}
		functions = append(functions, function)

		// identifier
		s.whitespace()
		c := s.next()
		if !isLetter(c) {
			return functions, fmt.Errorf("identifier must start with a letter, got %q", string(c))
		}
		function.Name += string(c)
		for {
			c := s.peek()
			if isLetter(c) || ('0' <= c && c <= '9') || c == '_' || c == '-' {
				function.Name += string(s.next())
			} else {
				break
			}
		}

		// Open parenthesis
		s.whitespace()
		c = s.next()
		if c != '(' {
			return functions, fmt.Errorf("expected \"(\", got %q", string(c))
		}

		// First argument (optional)
		s.whitespace()
		oldIndex := s.index
		n, err := s.parseNumber()
		if err != nil {
			s.index = oldIndex
		} else {
			function.Args = append(function.Args, n)
			for {
				oldIndex = s.index
				s.commaWhitespace()
				n, err = s.parseNumber()
				if err != nil {
					s.index = oldIndex
					break
				}
				function.Args = append(function.Args, n)
			}
		}

		// Close parenthesis
		s.whitespace()
		c = s.next()
		if c != ')' {
			return functions, fmt.Errorf("expected \")\", got %q", string(c))
		}
		s.whitespace()

		if s.peek() == 0 {
			return functions, nil
		}
	}
}

func isLetter(c byte) bool {
	return ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}
