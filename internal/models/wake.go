package models

// WakeResult holds the result of a Wake-on-LAN send. A sent packet only
// means the datagram was handed to the network stack; Wake-on-LAN has
// no acknowledgement.
type WakeResult struct {
	MAC         string
	Destination string
	PacketSent  bool
}
