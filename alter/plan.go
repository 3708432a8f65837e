package alter

import (
	"strings"

	"imagesteps/common"
)

// Attribute names understood by BuildPlan
const (
	AttrWidth        = "Width"
	AttrHeight       = "Height"
	AttrResizeMethod = "Resize Method"
	AttrGravity      = "Gravity"
	AttrFormat       = "Format"
)

// ResizeCrop is the only resize method with its own fragment
const ResizeCrop = "Crop"

// Fragment is one self-contained transform request, as tool arguments
type Fragment []string

func (f Fragment) String() string { return strings.Join(f, " ") }

// Plan is the ordered set of fragments for one tool invocation on Path
type Plan struct {
	Fragments []Fragment
	Path      string

	// UnappliedResize holds a Resize Method value that produced no sizing
	// fragment. Only Crop and an absent method resize anything.
	UnappliedResize string
}

// Args flattens the plan into the tool's argument list, target path last
func (p Plan) Args() []string {
	var args []string
	for _, f := range p.Fragments {
		args = append(args, f...)
	}
	return append(args, p.Path)
}

// Command renders the plan as a single command line for logs
func (p Plan) Command(tool string) string {
	return strings.Join(append([]string{tool}, p.Args()...), " ")
}

// BuildPlan translates attrs into fragments for the image tool. Every
// attribute must be consumed; attrs itself is never modified.
func BuildPlan(path string, attrs common.Attributes) (Plan, error) {
	plan := Plan{Path: path}
	rest := attrs.Clone()

	width, hasWidth, rest := rest.Take(AttrWidth)
	height, hasHeight, rest := rest.Take(AttrHeight)
	method, hasMethod, rest := rest.Take(AttrResizeMethod)

	size := width + "x" + height

	switch {
	case !hasMethod:
		if hasWidth || hasHeight {
			plan.Fragments = append(plan.Fragments, Fragment{"-resize", size})
		}
	case method == ResizeCrop:
		var code string
		var ok bool
		code, ok, rest = rest.Take(AttrGravity)
		if !ok {
			code = DefaultGravity
		}
		gravity, err := LookupGravity(code)
		if err != nil {
			return Plan{}, err
		}
		plan.Fragments = append(plan.Fragments, Fragment{
			"-thumbnail", size + "^",
			"-extent", size,
			"-gravity", gravity,
		})
	default:
		plan.UnappliedResize = method
	}

	if format, ok, remaining := rest.Take(AttrFormat); ok {
		rest = remaining
		plan.Fragments = append(plan.Fragments, Fragment{"-format", format})
	}

	if len(rest) > 0 {
		return Plan{}, &UnhandledAttributesError{Keys: rest.Keys()}
	}

	return plan, nil
}
