package main

import (
	"github.com/tanpawarit/student-assistant/cmd"
	_ "github.com/tanpawarit/student-assistant/pkg/logger/autoload"
)

func main() {
	cmd.Main()
}
