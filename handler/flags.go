// SPDX-License-Identifier: EPL-2.0

package handler

import (
	"fmt"
	"strings"
)

// Flags are the resolution flags a host passes to BeginCreate.
type Flags uint32

const (
	FlagMediaSource                        Flags = 0x00000001
	FlagByteStream                         Flags = 0x00000002
	FlagContentDoesNotHaveToMatchExtension Flags = 0x00000010
	FlagKeepByteStreamAliveOnFail          Flags = 0x00000020
	FlagRead                               Flags = 0x00010000
	FlagWrite                              Flags = 0x00020000
)

var flagNames = []struct {
	flag Flags
	name string
}{
	{FlagMediaSource, "media-source"},
	{FlagByteStream, "byte-stream"},
	{FlagContentDoesNotHaveToMatchExtension, "content-does-not-have-to-match-extension"},
	{FlagKeepByteStreamAliveOnFail, "keep-byte-stream-alive-on-fail"},
	{FlagRead, "read"},
	{FlagWrite, "write"},
}

// wantsByteStreamOnly reports a request for a byte stream object, which
// this handler cannot produce.
func (f Flags) wantsByteStreamOnly() bool {
	return f&FlagByteStream != 0 && f&FlagMediaSource == 0
}

func (f Flags) String() string {
	if f == 0 {
		return "none"
	}

	var parts []string
	rest := f
	for _, fn := range flagNames {
		if f&fn.flag != 0 {
			parts = append(parts, fn.name)
			rest &^= fn.flag
		}
	}
	if rest != 0 {
		parts = append(parts, fmt.Sprintf("0x%x", uint32(rest)))
	}
	return strings.Join(parts, "|")
}

// ObjectKind identifies the object EndCreate hands back.
type ObjectKind int

const (
	ObjectInvalid ObjectKind = iota
	ObjectMediaSource
)

func (k ObjectKind) String() string {
	switch k {
	case ObjectMediaSource:
		return "media source"
	}
	return "invalid"
}
