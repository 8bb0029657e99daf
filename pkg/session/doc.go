/*
Package session keeps one Editor per client so several players can run
programs side by side behind a single server.

Sessions live in memory; execution state is never persisted. Saved programs
go through a ports.ProgramStore shared by all sessions.
*/
package session
