package main

import "github.com/jyje/pilot-agent/cmd"

func main() {
	cmd.Execute()
}
