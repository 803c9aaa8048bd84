package main

import "github.com/cmmoran/stylegen/cmd"

func main() {
	cmd.Execute()
}
