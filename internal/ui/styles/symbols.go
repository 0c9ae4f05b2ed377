package styles

// Symbols holds the glyphs used in labels.
type Symbols struct {
	Branch string
	Head   string
}

var defaultSymbols = Symbols{
	Branch: "\ue0a0", // nf-pl-branch
	Head:   "*",
}

var asciiSymbols = Symbols{
	Branch: "",
	Head:   "*",
}

var currentSymbols = defaultSymbols

// SetNerdfont switches between nerd font glyphs and plain ASCII.
func SetNerdfont(enabled bool) {
	if enabled {
		currentSymbols = defaultSymbols
	} else {
		currentSymbols = asciiSymbols
	}
}

// CurrentSymbols returns the current symbol set
func CurrentSymbols() Symbols {
	return currentSymbols
}
