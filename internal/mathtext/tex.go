package mathtext

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// texSymbols maps control words to their Unicode rendering.
var texSymbols = map[string]string{
	// Greek
	"alpha": "α", "beta": "β", "gamma": "γ", "delta": "δ", "epsilon": "ε",
	"varepsilon": "ε", "zeta": "ζ", "eta": "η", "theta": "θ", "vartheta": "ϑ",
	"iota": "ι", "kappa": "κ", "lambda": "λ", "mu": "μ", "nu": "ν", "xi": "ξ",
	"pi": "π", "rho": "ρ", "sigma": "σ", "tau": "τ", "upsilon": "υ",
	"phi": "φ", "varphi": "φ", "chi": "χ", "psi": "ψ", "omega": "ω",
	"Gamma": "Γ", "Delta": "Δ", "Theta": "Θ", "Lambda": "Λ", "Xi": "Ξ",
	"Pi": "Π", "Sigma": "Σ", "Phi": "Φ", "Psi": "Ψ", "Omega": "Ω",

	// Operators and relations
	"times": "×", "div": "÷", "cdot": "·", "pm": "±", "mp": "∓",
	"le": "≤", "leq": "≤", "ge": "≥", "geq": "≥", "ne": "≠", "neq": "≠",
	"leqslant": "≤", "geqslant": "≥", "approx": "≈", "equiv": "≡", "sim": "∼",
	"simeq": "≃", "cong": "≅", "propto": "∝", "lt": "<", "gt": ">",
	"nless": "≮", "ngtr": "≯", "nleq": "≰", "ngeq": "≱", "nmid": "∤",
	"mid": "∣", "parallel": "∥", "nparallel": "∦", "perp": "⊥",

	// Sets and logic
	"in": "∈", "notin": "∉", "ni": "∋", "subset": "⊂", "supset": "⊃",
	"subseteq": "⊆", "supseteq": "⊇", "nsubseteq": "⊈", "cup": "∪", "cap": "∩",
	"emptyset": "∅", "varnothing": "∅", "forall": "∀", "exists": "∃",
	"neg": "¬", "lnot": "¬", "land": "∧", "lor": "∨", "setminus": "∖",
	"N": "ℕ", "Z": "ℤ", "Q": "ℚ", "R": "ℝ", "C": "ℂ",

	// Arrows
	"to": "→", "rightarrow": "→", "leftarrow": "←", "gets": "←",
	"Rightarrow": "⇒", "Leftarrow": "⇐", "leftrightarrow": "↔",
	"Leftrightarrow": "⇔", "iff": "⇔", "implies": "⇒", "mapsto": "↦",
	"uparrow": "↑", "downarrow": "↓",

	// Geometry and misc
	"angle": "∠", "triangle": "△", "square": "□", "circ": "∘", "degree": "°",
	"infty": "∞", "partial": "∂", "nabla": "∇", "therefore": "∴",
	"because": "∵", "ldots": "…", "cdots": "⋯", "dots": "…", "vdots": "⋮",
	"prime": "′", "sum": "∑", "prod": "∏", "int": "∫", "oint": "∮",
	"frown": "⌒", "star": "⋆", "bigstar": "★", "not": "̸",
	"newline": " ",

	// Named functions
	"sin": "sin", "cos": "cos", "tan": "tan", "cot": "cot", "sec": "sec",
	"csc": "csc", "log": "log", "ln": "ln", "exp": "exp", "lim": "lim",
	"max": "max", "min": "min", "gcd": "gcd", "deg": "deg",

	// Spacing and escapes
	"quad": " ", "qquad": " ", ",": " ", ";": " ", ":": " ", "!": "",
	" ": " ", "{": "{", "}": "}", "%": "%", "$": "$", "&": "&", "#": "#",
	"_": "_", "\\": " ",
	"left": "", "right": "", "big": "", "Big": "", "bigg": "", "Bigg": "",
	"displaystyle": "", "textstyle": "", "limits": "", "nolimits": "",
	"lbrace": "{", "rbrace": "}", "langle": "⟨", "rangle": "⟩",
	"lfloor": "⌊", "rfloor": "⌋", "lceil": "⌈", "rceil": "⌉", "vert": "|",
	"Vert": "‖",
}

// groupCommands take one argument and render it unchanged.
var groupCommands = map[string]bool{
	"text": true, "mathrm": true, "mathbf": true, "mathit": true, "textbf": true,
	"textit": true, "operatorname": true, "mbox": true, "boldsymbol": true,
	"mathsf": true, "mathcal": true,
}

// accentCommands take one argument and add a combining mark after each rune.
var accentCommands = map[string]string{
	"overline": "̅", "bar": "̄", "hat": "̂", "widehat": "̂",
	"vec": "⃗", "overrightarrow": "⃗", "tilde": "̃", "dot": "̇",
	"underline": "̲", "overleftrightarrow": "⃡",
}

var superscripts = map[rune]rune{
	'0': '⁰', '1': '¹', '2': '²', '3': '³', '4': '⁴', '5': '⁵', '6': '⁶',
	'7': '⁷', '8': '⁸', '9': '⁹', '+': '⁺', '-': '⁻', '=': '⁼', '(': '⁽',
	')': '⁾', 'n': 'ⁿ', 'i': 'ⁱ', 'x': 'ˣ', 'y': 'ʸ', 'a': 'ᵃ', 'b': 'ᵇ',
	'c': 'ᶜ', 'd': 'ᵈ', 'e': 'ᵉ', 'k': 'ᵏ', 'm': 'ᵐ', 't': 'ᵗ', '°': '°',
	'∘': '°', '′': '′', '−': '⁻', '*': '*',
}

var subscripts = map[rune]rune{
	'0': '₀', '1': '₁', '2': '₂', '3': '₃', '4': '₄', '5': '₅', '6': '₆',
	'7': '₇', '8': '₈', '9': '₉', '+': '₊', '-': '₋', '=': '₌', '(': '₍',
	')': '₎', 'a': 'ₐ', 'e': 'ₑ', 'o': 'ₒ', 'x': 'ₓ', 'i': 'ᵢ', 'j': 'ⱼ',
	'k': 'ₖ', 'n': 'ₙ', 'm': 'ₘ', 'r': 'ᵣ', 't': 'ₜ', 'p': 'ₚ', 's': 'ₛ',
}

// ToUnicode converts a TeX math fragment to plain Unicode text. It fails
// only on unbalanced braces; unknown control words are printed by name.
func ToUnicode(src string) (string, error) {
	c := &converter{src: src}
	out, err := c.sequence(false)
	if err != nil {
		return "", err
	}
	if c.pos < len(c.src) {
		return "", fmt.Errorf("unexpected %q at offset %d", c.src[c.pos], c.pos)
	}
	return tidy(out), nil
}

type converter struct {
	src string
	pos int
}

// sequence converts tokens until end of input or, inside a group, the
// closing brace.
func (c *converter) sequence(inGroup bool) (string, error) {
	var b strings.Builder
	for c.pos < len(c.src) {
		ch := c.src[c.pos]
		switch ch {
		case '}':
			if !inGroup {
				return "", fmt.Errorf("unbalanced '}' at offset %d", c.pos)
			}
			return b.String(), nil
		case '{':
			c.pos++
			inner, err := c.sequence(true)
			if err != nil {
				return "", err
			}
			if err := c.expect('}'); err != nil {
				return "", err
			}
			b.WriteString(inner)
		case '^', '_':
			c.pos++
			arg, err := c.argument()
			if err != nil {
				return "", err
			}
			if ch == '^' {
				b.WriteString(script(arg, superscripts, "^"))
			} else {
				b.WriteString(script(arg, subscripts, "_"))
			}
		case '\\':
			s, err := c.command()
			if err != nil {
				return "", err
			}
			b.WriteString(s)
		case '-':
			c.pos++
			b.WriteString("−")
		case '~':
			c.pos++
			b.WriteByte(' ')
		case '&':
			c.pos++
		default:
			r, size := utf8.DecodeRuneInString(c.src[c.pos:])
			c.pos += size
			b.WriteRune(r)
		}
	}
	if inGroup {
		return "", fmt.Errorf("unbalanced '{': missing '}'")
	}
	return b.String(), nil
}

func (c *converter) expect(ch byte) error {
	if c.pos >= len(c.src) || c.src[c.pos] != ch {
		return fmt.Errorf("expected %q at offset %d", ch, c.pos)
	}
	c.pos++
	return nil
}

// argument reads one macro argument: a braced group, a control word or a
// single rune.
func (c *converter) argument() (string, error) {
	for c.pos < len(c.src) && c.src[c.pos] == ' ' {
		c.pos++
	}
	if c.pos >= len(c.src) {
		return "", nil
	}
	switch c.src[c.pos] {
	case '{':
		c.pos++
		inner, err := c.sequence(true)
		if err != nil {
			return "", err
		}
		return inner, c.expect('}')
	case '\\':
		return c.command()
	case '}':
		return "", fmt.Errorf("missing argument at offset %d", c.pos)
	}
	r, size := utf8.DecodeRuneInString(c.src[c.pos:])
	c.pos += size
	return string(r), nil
}

// optional reads a [..] argument if present.
func (c *converter) optional() (string, bool) {
	if c.pos >= len(c.src) || c.src[c.pos] != '[' {
		return "", false
	}
	end := strings.IndexByte(c.src[c.pos:], ']')
	if end < 0 {
		return "", false
	}
	inner := c.src[c.pos+1 : c.pos+end]
	c.pos += end + 1
	out, err := ToUnicode(inner)
	if err != nil {
		return inner, true
	}
	return out, true
}

func (c *converter) command() (string, error) {
	c.pos++ // backslash
	if c.pos >= len(c.src) {
		return "\\", nil
	}
	name := controlWord(c.src[c.pos:])
	if name == "" {
		// Control symbol such as \, or \{.
		_, size := utf8.DecodeRuneInString(c.src[c.pos:])
		name = c.src[c.pos : c.pos+size]
	}
	c.pos += len(name)

	switch name {
	case "frac", "dfrac", "tfrac", "cfrac":
		num, err := c.argument()
		if err != nil {
			return "", err
		}
		den, err := c.argument()
		if err != nil {
			return "", err
		}
		return wrapOperand(num) + "/" + wrapOperand(den), nil
	case "sqrt":
		index, hasIndex := c.optional()
		arg, err := c.argument()
		if err != nil {
			return "", err
		}
		root := "√"
		switch index {
		case "3":
			root = "∛"
		case "4":
			root = "∜"
		default:
			if hasIndex {
				root = script(index, superscripts, "") + "√"
			}
		}
		return root + wrapOperand(arg), nil
	case "binom":
		n, err := c.argument()
		if err != nil {
			return "", err
		}
		k, err := c.argument()
		if err != nil {
			return "", err
		}
		return "C(" + n + ", " + k + ")", nil
	case "mathbb":
		arg, err := c.argument()
		if err != nil {
			return "", err
		}
		if s, ok := texSymbols[arg]; ok && s != "" {
			return s, nil
		}
		return arg, nil
	case "begin", "end":
		// Environment names are dropped; their bodies render inline.
		_, err := c.argument()
		return "", err
	}

	if groupCommands[name] {
		return c.argument()
	}
	if mark, ok := accentCommands[name]; ok {
		arg, err := c.argument()
		if err != nil {
			return "", err
		}
		var b strings.Builder
		for _, r := range arg {
			b.WriteRune(r)
			b.WriteString(mark)
		}
		return b.String(), nil
	}
	if s, ok := texSymbols[name]; ok {
		return s, nil
	}
	return name, nil
}

// script renders arg with the given mapping if every rune maps, otherwise
// falls back to a caret/underscore form.
func script(arg string, table map[rune]rune, fallback string) string {
	if arg == "" {
		return ""
	}
	var b strings.Builder
	for _, r := range arg {
		m, ok := table[r]
		if !ok {
			if fallback == "" {
				return arg
			}
			return fallback + wrapOperand(arg)
		}
		b.WriteRune(m)
	}
	return b.String()
}

// wrapOperand parenthesises compound operands of / and √.
func wrapOperand(s string) string {
	if utf8.RuneCountInString(s) <= 1 {
		return s
	}
	if strings.ContainsAny(s, " +−-×÷·/=<>") {
		return "(" + s + ")"
	}
	return s
}

// tidy collapses the whitespace left behind by dropped commands.
func tidy(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
