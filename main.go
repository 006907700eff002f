package main

import (
	"github.com/onlyWebstar/travel-bot/cmd"
)

func main() {
	cmd.Execute()
}
