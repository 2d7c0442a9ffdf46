package iocli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// Streams реализует IO поверх произвольных потоков.
// Cobra передает сюда cmd.InOrStdin() и cmd.OutOrStdout().
type Streams struct {
	in  *bufio.Reader
	fd  int
	tty bool
	out io.Writer
}

// NewStdio returns IO bound to the process stdin and stdout
func NewStdio() IO {
	return NewStreams(os.Stdin, os.Stdout)
}

// NewStreams creates IO over in and out. Password prompts disable echo only
// when in is a terminal.
func NewStreams(in io.Reader, out io.Writer) *Streams {
	s := &Streams{in: bufio.NewReader(in), out: out}
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		s.fd = int(f.Fd())
		s.tty = true
	}
	return s
}

func (s *Streams) Write(p []byte) (int, error) {
	return s.out.Write(p)
}

func (s *Streams) Println(a ...any) {
	_, _ = fmt.Fprintln(s.out, a...)
}

func (s *Streams) Printf(format string, a ...any) {
	_, _ = fmt.Fprintf(s.out, format, a...)
}

func (s *Streams) ReadInput(prompt string) (string, error) {
	s.Printf("%s", prompt)
	return s.readLine()
}

func (s *Streams) ReadPassword(prompt string) (string, error) {
	s.Printf("%s", prompt)
	if !s.tty {
		return s.readLine()
	}

	pwBytes, err := term.ReadPassword(s.fd)
	s.Println("")
	if err != nil {
		return "", err
	}
	return string(pwBytes), nil
}

func (s *Streams) readLine() (string, error) {
	input, err := s.in.ReadString('\n')
	// Последняя строка без перевода строки тоже считается вводом
	if err != nil && !(errors.Is(err, io.EOF) && input != "") {
		return "", err
	}
	return strings.TrimSpace(input), nil
}
