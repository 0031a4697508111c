package main

import "github.com/naka-gawa/readme-health/cmd"

func main() {
	cmd.Execute()
}
