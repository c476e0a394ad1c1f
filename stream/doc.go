// Package stream hosts the collaborators on the audio side of the
// analyzer: channel mixdown to the mono stream the bank consumes, input
// metering, and the throttled fire-and-forget handoff of level vectors
// to display consumers.
package stream
