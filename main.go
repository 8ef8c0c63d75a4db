package main

import "github.com/notargets/goharm/cmd"

func main() {
	cmd.Execute()
}
