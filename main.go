package main

import "github.com/meshtools/go2dm/cmd"

func main() {
	cmd.Execute()
}
