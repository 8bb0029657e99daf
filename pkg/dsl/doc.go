/*
Package dsl provides a Go DSL for programmatically constructing block programs.

It builds the same in-memory block graph that workspace documents produce,
using a fluent builder instead of YAML or JSON. This is particularly useful for
unit tests and for hosts that generate programs.

Example usage:

	b := dsl.New()
	b.Jump(1)
	b.Repeat(4).Do(func(body *dsl.Builder) {
		body.Turn(domain.DirectionRight)
		body.Jump(2)
	})
	b.Add("custom_block") // unknown types are kept; the compiler skips them

	root := b.Build()
	program := compiler.Flatten(root)
*/
package dsl
