package main

import (
	"os"

	"github.com/GoWings-Provision/GoWings-Provision/app"
)

func main() {
	err := app.Execute()
	if err != nil {
		os.Exit(1)
	}
}
