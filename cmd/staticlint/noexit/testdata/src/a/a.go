package main

import "os"

func main() {
	defer cleanup()
	os.Exit(1) // want "вызов os.Exit в функции main запрещён"
}

func cleanup() {
	os.Exit(0)
}
