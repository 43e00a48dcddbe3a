// Package main is the entry point for the ESXi report tool.
package main

import (
	"esxi-report/cmd/esxreport/cmd"
)

func main() {
	cmd.Execute()
}
