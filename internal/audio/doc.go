// Package audio provides track playback for the player.
// It uses the beep library to decode WAV, OGG, and MP3 files and
// play them through the system audio device with volume control.
package audio
