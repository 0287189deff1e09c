package main

import (
	"os"

	"quill/service"
)

var exit = os.Exit

func main() {
	exit(service.HandleCommand(os.Args[1:]))
}
