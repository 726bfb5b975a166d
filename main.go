package main

import "github.com/peekknuf/edaqa/cmd"

func main() {
	cmd.Execute()
}
