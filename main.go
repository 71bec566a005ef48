package main

import (
	"github.com/mrostecki/cluster-diagnosis/cmd"
)

func main() {
	cmd.Execute()
}
