package main

import (
	"log"
)

// Информация о сборке, задаётся через ldflags.
var (
	buildVersion = "N/A"
	buildDate    = "N/A"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.Fatal(err)
	}
}
