package main

import (
	"os"

	"github.com/skyportlabs/panel/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
