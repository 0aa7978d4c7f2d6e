package main

import (
	"os"

	"bitbucket.org/airenas/textcnn/internal/app/prepare"
	"github.com/labstack/gommon/color"
)

func main() {
	printBanner()
	prepare.Execute()
}

var (
	version string
)

func printBanner() {
	banner := `
   __            __                  
  / /____  _  __/ /__________  ____  
 / __/ _ \| |/_/ __/ ___/ __ \/ __ \ 
/ /_/  __/>  </ /_/ /__/ / / / / / / 
\__/\___/_/|_|\__/\___/_/ /_/_/ /_/   prepare v: %s

%s
________________________________________________________

`
	cl := color.New()
	cl.SetOutput(os.Stderr)
	cl.Printf(banner, cl.Red(version), cl.Green("bitbucket.org/airenas/textcnn"))
}
