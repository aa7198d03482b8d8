package main

import "pdfslim/cmd"

func main() {
	cmd.Execute()
}
