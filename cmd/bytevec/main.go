/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/ssargent/bytevec/cmd/bytevec/cmd"

func main() {
	cmd.Execute()
}
