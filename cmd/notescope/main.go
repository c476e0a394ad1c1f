// Command notescope analyzes WAV recordings against a musical tuning
// table and reports the spectral level at every note.
//
// Usage:
//
//	notescope analyze recording.wav
//	notescope analyze --batch --top 3 recording.wav
//	notescope snapshot recording.wav
//	notescope tuning --write piano.yaml
//
// The tuning table defaults to the 88-key piano in equal temperament;
// pass --tuning to load one from YAML instead. Settings can also come
// from a notescope.yaml config file or NOTESCOPE_* environment
// variables.
package main

func main() {
	execute()
}
