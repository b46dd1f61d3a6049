package main

import "github.com/ridoystarlord/sqlamodel/cmd"

func main() {
	cmd.Execute()
}
