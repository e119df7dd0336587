package main

import (
	"os"

	"assistd/internal/assistctl"
)

func main() {
	os.Exit(assistctl.Execute(os.Args[1:]))
}
