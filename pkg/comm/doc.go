// Package comm provides the fin control frame protocol.
package comm

// Frames are exchanged with the fin controller over a peer-to-peer
// serial line as NMEA style ASCII sentences:
//
//   $<TAG>,<f1>,<f2>,<f3>,<f4>*<XX>\r\n
//
// XX is the XOR of every byte between '$' and '*' (exclusive) rendered
// as two uppercase hex digits.
//
// The checksum is generated on every outbound frame, but inbound frames
// are delivered as-is without verification. The serial line may chunk
// inbound bytes arbitrarily, Decoder reassembles them on "\r\n".
//
// Producer: L1 controller (RHACT setpoints)
// Consumer: fin firmware
