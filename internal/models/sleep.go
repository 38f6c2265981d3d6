package models

// SleepResult holds the result of a remote sleep invocation. A zero
// exit status means the command was accepted, not that the host is
// confirmed asleep; confirming is a follow-up liveness check's job.
type SleepResult struct {
	Host    string
	Command string
	Output  string
}
