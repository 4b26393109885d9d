package main

import (
	"fmt"
	"os"

	cmd "github.com/func/beanstalk/cmd/beanstalk"
)

func main() {
	err := cmd.Beanstalk.Execute()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
