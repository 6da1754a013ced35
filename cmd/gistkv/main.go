package main

import "github.com/bitfsorg/gistkv-go/cmd/gistkv/cmd"

func main() {
	cmd.Execute()
}
