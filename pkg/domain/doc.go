/*
Package domain contains the core domain models of the robobunny engine.

It defines the values that flow from the block compiler to the execution
controller and the snapshot types the simulation exposes to hosts. This package
is kept pure and free of I/O or persistence.

# Key Entities

  - Command: One atomic instruction (jump or turn) with its parameter.
  - Program: The ordered, loop-unrolled sequence of Commands for a run.
  - ExecutionState: The controller's running flag, cursor and active RunToken.
  - MapDefinition / Snapshot: The loaded level and the agents' live placement.
*/
package domain
