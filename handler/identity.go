// SPDX-License-Identifier: EPL-2.0

package handler

import (
	"github.com/google/uuid"

	"github.com/ik5/wavsource/audio"
)

// ID identifies the handler to a host resolver.
var ID = uuid.MustParse("b2c8b1af-a0cc-4a47-9f4c-9764cf1cbf6e")

const (
	Description = "WAVE Source ByteStreamHandler"
	Extension   = ".wav"
)

// Register records the handler for Extension in store.
func Register(store audio.RegistrationStore) error {
	return store.Register(Extension, ID, Description)
}

// Unregister removes the handler's entry from store.
func Unregister(store audio.RegistrationStore) error {
	return store.Unregister(Extension, ID)
}
