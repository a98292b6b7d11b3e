package main

import (
	"os"

	"github.com/DeadlyParkour777/problemset/problemctl/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
