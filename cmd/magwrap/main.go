package main

import "github.com/OpenTraceLab/magwrap/cmd/magwrap/cmd"

func main() {
	cmd.Execute()
}
