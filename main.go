package main

import (
	"github.com/fpgatools/regen/cmd"
)

func main() {
	cmd.Execute()
}
