/*
Package ports defines the driven ports (interfaces) for the robobunny engine.

These interfaces decouple the compiler and controller from the block editor,
the simulation and the storage backends.

# Key Interfaces

  - BlockNode: Read-only view of one node of the editor-owned block graph.
  - Simulation: The agent/game state mutated by the execution controller.
  - ProgramStore: Persists named workspace documents.
*/
package ports
