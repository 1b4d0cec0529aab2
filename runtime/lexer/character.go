package lexer

// Byte classification tables. Only single-byte characters exist here, so a
// full 256-entry table covers every input.
var (
	isSeparator [256]bool // space, tab, newline
	isWordByte  [256]bool // anything that can appear inside a WORD
)

const (
	pipeChar = '|'
	nulChar  = 0
)

func init() {
	for i := 0; i < 256; i++ {
		ch := byte(i)
		isSeparator[i] = ch == ' ' || ch == '\t' || ch == '\n'
		isWordByte[i] = !isSeparator[i] && ch != pipeChar && ch != nulChar
	}
}
