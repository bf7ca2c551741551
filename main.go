package main

import (
	"servo2go/cmd"
)

func main() {
	cmd.Execute()
}
