package main

import "github.com/CursosTech/cursoteca/cmd/cursoteca/cmd"

func main() {
	cmd.Execute()
}
