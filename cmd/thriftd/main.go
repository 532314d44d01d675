package main

import (
	"github.com/thriftstore/pos/internal/cmd"
)

func main() {
	cmd.Execute()
}
