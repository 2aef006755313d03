/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package main

import "github.com/Petroslyros/musical-instrument-shop/cmd"

func main() {
	cmd.Execute()
}
