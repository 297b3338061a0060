package main

import "github.com/notargets/gomhd/cmd"

func main() {
	cmd.Execute()
}
