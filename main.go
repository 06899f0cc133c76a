package main

import (
	"os"

	"VelArchiver/cmd"
)

func main() {
	os.Exit(cmd.Execute())
}
