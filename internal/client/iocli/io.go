// Package iocli abstracts terminal input and output of the client commands.
package iocli

import "io"

//go:generate moq -out io_mock.go . IO

// IO - ввод/вывод команд клиента
type IO interface {
	io.Writer
	Println(a ...any)
	Printf(format string, a ...any)
	ReadInput(prompt string) (string, error)
	// ReadPassword читает строку без эха, если ввод - терминал
	ReadPassword(prompt string) (string, error)
}
