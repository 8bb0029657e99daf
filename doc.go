/*
Package robobunny compiles block-shaped programs for a grid-walking bunny and
runs them against a simulation, in full or one step at a time.

A program is a chain of blocks as a visual editor produces it: jumps, turns
and repeat loops nested to any depth. The compiler unrolls it into a flat
list of commands; the runtime applies those commands one after another with a
pause between them, so a host can animate every move.

# Concept

Runs are asynchronous from the host's point of view and can be interrupted at
any time. Every run or step holds a token; Reset invalidates it, and the
superseded call stops before touching the simulation again. Only one run is
active at a time: a second request while one is in flight is rejected.

# Usage

	editor := robobunny.New(robobunny.WithStepDelay(200 * time.Millisecond))

	level, err := schema.ParseMap(mapBytes)
	if err != nil {
		log.Fatal(err)
	}
	if err := editor.LoadMap(level); err != nil {
		log.Fatal(err)
	}

	b := dsl.New()
	b.Repeat(4).Do(func(body *dsl.Builder) {
		body.Jump(2)
		body.Turn(domain.DirectionRight)
	})

	go func() {
		ok, err := editor.RunProgram(ctx, b.Build())
		log.Println(ok, err)
	}()

	// Later, from any goroutine:
	editor.Reset()

Hosts observe progress through domain.LifecycleHooks (command applied, run
finished, reset, status changed) or by polling Snapshot and Status.

# Packages

  - internal/compiler: block graph to Program.
  - internal/runtime: the execution controller.
  - pkg/simulation: the reference grid simulation.
  - pkg/schema: workspace and map documents.
  - pkg/adapters: program stores and the HTTP API.
*/
package robobunny
