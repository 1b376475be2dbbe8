// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/ik5/wavsource/audio"
	"github.com/ik5/wavsource/formats/wav"
)

// Example_registry demonstrates registering a handler for an extension.
func Example_registry() {
	registry := audio.NewRegistry()
	id := uuid.MustParse("b2c8b1af-a0cc-4a47-9f4c-9764cf1cbf6e")

	if err := registry.Register("WAV", id, "WAVE Source ByteStreamHandler"); err != nil {
		fmt.Printf("Error: %v\n", err)
		return
	}

	regs, ok := registry.Lookup(".wav")
	fmt.Printf("Found: %v\n", ok)
	for _, r := range regs {
		fmt.Printf("%s -> %s (%s)\n", r.Extension, r.HandlerID, r.Description)
	}
	// Output:
	// Found: true
	// .wav -> b2c8b1af-a0cc-4a47-9f4c-9764cf1cbf6e (WAVE Source ByteStreamHandler)
}

// Example_intBuffer shows converting delivered PCM into go-audio samples.
func Example_intBuffer() {
	buf := audio.SampleBuffer{
		Data: []byte{0x00, 0x01, 0x00, 0xFF},
		Format: wav.Format{
			Tag:           wav.TagPCM,
			Channels:      1,
			SampleRate:    8000,
			BitsPerSample: 16,
			BlockAlign:    2,
			ByteRate:      16000,
		},
	}

	ib := buf.IntBuffer()
	fmt.Printf("Frames: %d\n", buf.Frames())
	fmt.Printf("Samples: %v\n", ib.Data)
	// Output:
	// Frames: 2
	// Samples: [256 -256]
}
