package main

import "github.com/josephlewis42/w25shell/cmd"

func main() {
	cmd.Execute()
}
