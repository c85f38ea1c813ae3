// Command habitrack tracks daily and weekly habits from the terminal.
package main

import "github.com/papapumpkin/habitrack/cmd"

func main() {
	cmd.Execute()
}
