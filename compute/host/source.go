package host

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/openfluke/maxbench/compute"
)

type declaration struct {
	Name   string
	Line   int
	Params []compute.ParamKind
}

type diagnostic struct {
	Line int
	Msg  string
}

func (d diagnostic) String() string {
	return fmt.Sprintf("<source>:%d: error: %s", d.Line, d.Msg)
}

func renderLog(diags []diagnostic) string {
	if len(diags) == 0 {
		return ""
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = d.String()
	}
	return strings.Join(lines, "\n") + fmt.Sprintf("\n%d error(s) generated.", len(diags))
}

var kernelDecl = regexp.MustCompile(`\b(?:__kernel|kernel)\s+void\s+([A-Za-z_]\w*)\s*\(([^)]*)\)`)

// parseSource finds the kernel declarations of an OpenCL C source and checks
// the parts of it the host backend relies on: balanced delimiters and
// parameter lists it can bind.
func parseSource(src string) ([]declaration, []diagnostic) {
	clean := stripComments(src)
	diags := checkBalance(clean)

	matches := kernelDecl.FindAllStringSubmatchIndex(clean, -1)
	if len(matches) == 0 {
		diags = append(diags, diagnostic{Line: 1, Msg: "no kernel functions found"})
	}
	seen := map[string]int{}
	var decls []declaration
	for _, m := range matches {
		line := 1 + strings.Count(clean[:m[0]], "\n")
		name := clean[m[2]:m[3]]
		if prev, dup := seen[name]; dup {
			diags = append(diags, diagnostic{Line: line, Msg: fmt.Sprintf("redefinition of kernel '%s' (first defined on line %d)", name, prev)})
			continue
		}
		seen[name] = line
		params, pd := parseParams(clean[m[4]:m[5]], name, line)
		diags = append(diags, pd...)
		decls = append(decls, declaration{Name: name, Line: line, Params: params})
	}
	return decls, diags
}

func parseParams(list, kernel string, line int) ([]compute.ParamKind, []diagnostic) {
	list = strings.TrimSpace(list)
	if list == "" || list == "void" {
		return nil, nil
	}
	var (
		params []compute.ParamKind
		diags  []diagnostic
	)
	for i, raw := range strings.Split(list, ",") {
		p := strings.Join(strings.Fields(raw), " ")
		kind, err := classifyParam(p)
		if err != nil {
			diags = append(diags, diagnostic{Line: line, Msg: fmt.Sprintf("kernel '%s' parameter %d (%q): %v", kernel, i+1, p, err)})
			continue
		}
		params = append(params, kind)
	}
	return params, diags
}

var (
	qualifiers = map[string]bool{"const": true, "restrict": true, "__restrict": true, "volatile": true}
	addrSpaces = map[string]string{
		"__global": "global", "global": "global",
		"__local": "local", "local": "local",
		"__constant": "constant", "constant": "constant",
		"__private": "private", "private": "private",
	}
	typeWords = map[string]bool{
		"int": true, "uint": true, "unsigned": true, "signed": true, "float": true, "double": true,
		"char": true, "uchar": true, "short": true, "ushort": true, "long": true, "ulong": true,
		"half": true, "bool": true, "size_t": true,
	}
)

func classifyParam(p string) (compute.ParamKind, error) {
	ptr := strings.Contains(p, "*")
	var space string
	var types []string
	for _, tok := range strings.Fields(strings.ReplaceAll(p, "*", " ")) {
		switch {
		case qualifiers[tok]:
		case addrSpaces[tok] != "":
			space = addrSpaces[tok]
		case typeWords[tok]:
			types = append(types, tok)
		}
	}
	if len(types) == 0 {
		return 0, errors.New("missing parameter type")
	}
	base := strings.Join(types, " ")

	if ptr {
		if base != "int" && base != "signed int" {
			return 0, fmt.Errorf("unsupported buffer element type '%s'", base)
		}
		switch space {
		case "global":
			return compute.ParamGlobalBuffer, nil
		case "local":
			return compute.ParamLocalBuffer, nil
		case "":
			return 0, errors.New("pointer parameter needs an address space qualifier")
		default:
			return 0, fmt.Errorf("%s buffers are not supported", space)
		}
	}
	switch base {
	case "uint", "unsigned int", "unsigned":
		return compute.ParamUint32, nil
	case "int", "signed int":
		return compute.ParamInt32, nil
	}
	return 0, fmt.Errorf("unsupported parameter type '%s'", base)
}

// stripComments blanks out comments while keeping line numbers intact.
func stripComments(src string) string {
	out := []byte(src)
	for i := 0; i < len(out); i++ {
		if out[i] != '/' || i+1 >= len(out) {
			continue
		}
		switch out[i+1] {
		case '/':
			for ; i < len(out) && out[i] != '\n'; i++ {
				out[i] = ' '
			}
		case '*':
			out[i], out[i+1] = ' ', ' '
			i += 2
			for ; i < len(out); i++ {
				if out[i] == '*' && i+1 < len(out) && out[i+1] == '/' {
					out[i], out[i+1] = ' ', ' '
					i++
					break
				}
				if out[i] != '\n' {
					out[i] = ' '
				}
			}
		}
	}
	return string(out)
}

func checkBalance(src string) []diagnostic {
	type open struct {
		ch   byte
		line int
	}
	closing := map[byte]byte{')': '(', '}': '{', ']': '['}
	var (
		stack []open
		diags []diagnostic
	)
	line := 1
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '\n':
			line++
		case '(', '{', '[':
			stack = append(stack, open{c, line})
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1].ch != closing[c] {
				diags = append(diags, diagnostic{Line: line, Msg: fmt.Sprintf("unexpected '%c'", c)})
				continue
			}
			stack = stack[:len(stack)-1]
		}
	}
	for _, o := range stack {
		diags = append(diags, diagnostic{Line: o.line, Msg: fmt.Sprintf("unmatched '%c'", o.ch)})
	}
	return diags
}
