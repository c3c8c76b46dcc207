package main

import (
	"github.com/fatih/color"
)

type styles struct {
	method     *color.Color
	key        *color.Color
	offset     *color.Color
	ok         *color.Color
	failed     *color.Color
	errorLabel *color.Color
	dim        *color.Color
}

func newStyles() *styles {
	return &styles{
		method:     color.New(color.Bold, color.FgHiBlue),
		key:        color.New(color.FgYellow),
		offset:     color.New(color.FgHiBlack),
		ok:         color.New(color.FgGreen),
		failed:     color.New(color.FgRed),
		errorLabel: color.New(color.Bold, color.FgRed),
		dim:        color.New(color.Faint),
	}
}

func (s *styles) status(status string) string {
	if status == "ok" {
		return s.ok.Sprint(status)
	}
	return s.failed.Sprint(status)
}
