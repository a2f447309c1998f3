package main

import "github.com/jsphweid/buzzer/cmd"

func main() {
	cmd.Execute()
}
