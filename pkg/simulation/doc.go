/*
Package simulation provides a grid world that the execution controller can
drive. It is a small stand-in for the game's own simulation: agents jump and
turn on a square grid, collect carrots and end the game by leaving the grid or
landing on a rock.
*/
package simulation
