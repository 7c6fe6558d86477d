package main

import (
	"fmt"
	"os"

	_ "github.com/maxirosso/tpo-sipii-back/cmd/cli/cards"
	"github.com/maxirosso/tpo-sipii-back/cmd/cli/root"
	_ "github.com/maxirosso/tpo-sipii-back/cmd/cli/users"
)

func main() {
	if err := root.GetRoot().Execute(); err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
}
