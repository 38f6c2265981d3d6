package models

// HostStatus classifies a remote host's power state from two
// independent probes.
type HostStatus string

const (
	// StatusOffline means the host did not answer the reachability probe.
	StatusOffline HostStatus = "offline"
	// StatusSleeping means the host answered the reachability probe but
	// the target TCP port refused or timed out. This deliberately covers
	// a suspended OS, a service that has not started yet, and a firewall
	// dropping the port.
	StatusSleeping HostStatus = "sleeping"
	// StatusOnline means both probes succeeded.
	StatusOnline HostStatus = "online"
)

// StatusResult holds the outcome of a liveness classification.
type StatusResult struct {
	Host   string     `json:"ip"`
	Port   int        `json:"port"`
	Status HostStatus `json:"status"`
	Ping   bool       `json:"ping"`
	TCP    bool       `json:"tcp"`
}
