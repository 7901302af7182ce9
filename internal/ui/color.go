package ui

import (
	"github.com/pterm/pterm"
)

func Green(a any) string {
	return pterm.Green(a)
}

func Yellow(a any) string {
	return pterm.Yellow(a)
}

func Cyan(a any) string {
	return pterm.Cyan(a)
}

func Blue(a any) string {
	return pterm.Blue(a)
}

func Red(a any) string {
	return pterm.Red(a)
}

func Highlight(a any) string {
	return pterm.LightWhite(a)
}
