package main

import (
	"fmt"
	"os"

	"github.com/Zhima-Mochi/minishop-catalog/internal/presentation/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "minishop:", err)
		os.Exit(1)
	}
}
