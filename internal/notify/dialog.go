package notify

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

// ターミナル上のダイアログ
// タイトルとメッセージを表示し、端末なら Enter (OK) を待つ
type Dialog struct {
	Out io.Writer
	In  io.Reader
}

func NewDialog() *Dialog {
	return &Dialog{Out: os.Stderr, In: os.Stdin}
}

func (d *Dialog) Show(title, message string) {
	width := max(len(title), len(message))
	rule := strings.Repeat("─", width+2)
	fmt.Fprintf(d.Out, "┌%s┐\n", rule)
	fmt.Fprintf(d.Out, "│ %-*s │\n", width, title)
	fmt.Fprintf(d.Out, "├%s┤\n", rule)
	fmt.Fprintf(d.Out, "│ %-*s │\n", width, message)
	fmt.Fprintf(d.Out, "└%s┘\n", rule)

	if !d.interactive() {
		return
	}
	fmt.Fprint(d.Out, "[ OK ] ")
	bufio.NewReader(d.In).ReadString('\n')
}

func (d *Dialog) interactive() bool {
	f, ok := d.In.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
