package main

import (
	"os"

	"github.com/abhisek/horoscope/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
