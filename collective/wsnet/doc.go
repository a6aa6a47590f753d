// Package wsnet implements collective.Transport across OS processes over
// websockets.
//
// Topology is a star: the coordinator (rank 0) listens, every worker dials it
// and announces its rank with a hello frame. All collectives are relayed by
// the coordinator:
//
//	Scatter    root -> rank r   : scatter frame carrying blocks[r]
//	Broadcast  root -> all      : broadcast frame carrying B
//	Gather     rank r -> root   : gather frame; root answers with gather-ack
//	Barrier    all -> root      : barrier frame; root answers with release
//
// Frames are binary websocket messages (see Encode). Matrix payloads are
// little-endian float64 values, optionally snappy-compressed.
package wsnet
