package main

import sys "os"

func main() {
	sys.Exit(2) // want "вызов os.Exit в функции main запрещён"

	go func() {
		sys.Exit(3)
	}()
}
