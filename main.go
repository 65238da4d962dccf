package main

import (
	"github.com/chatspace/chatspace/cmd"
)

func main() {
	cmd.Execute()
}
