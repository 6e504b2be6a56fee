package main

import "github.com/deploymenttheory/go-ptgen/cmd"

func main() {
	cmd.Execute()
}
