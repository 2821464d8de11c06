package main

import (
	"github.com/eventscope/eventscope/cmd"
)

func main() {
	cmd.Execute()
}
