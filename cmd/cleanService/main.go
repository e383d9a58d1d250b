package main

import (
	"github.com/aurimasl/voxpense/internal/app/clean"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	clean.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
 _   ______  _  ______  ___  ____  ________
| | / / __ \| |/_/ __ \/ _ \/ __ \/ ___/ _ \
| |/ / /_/ />  </ /_/ /  __/ / / (__  )  __/
|___/\____/_/|_/ .___/\___/_/ /_/____/\___/
              /_/  clean v: %s
%s
________________________________________________________

`
	cl := color.New()
	cl.Printf(banner, cl.Red(version), cl.Green("github.com/aurimasl/voxpense"))
}
