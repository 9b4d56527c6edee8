// Copyright: This file is part of netrace, released under https://github.com/netrace/netrace/blob/main/LICENSE

package network

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Kind distinguishes identifiers read from source data from identifiers generated while building the graph.
type Kind int

const (
	Data Kind = iota
	Generated
)

var kindNames = []string{"data", "generated"}

func (k Kind) String() string {
	if k >= 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

func (k *Kind) UnmarshalText(b []byte) error {
	for i, name := range kindNames {
		if strings.EqualFold(string(b), name) {
			*k = Kind(i)
			return nil
		}
	}
	return fmt.Errorf("invalid identifier kind: %q", string(b))
}

// ID identifies a vertex or edge.
// The network name is part of the identity, so IDs are unique across all networks of a graph.
//
// ID is comparable and is used directly as a map key.
type ID struct {
	Network string `json:"network"`
	Local   string `json:"id"`
	Kind    Kind   `json:"kind,omitempty"`
}

// NewID returns a [Data] identifier.
func NewID(network, local string) ID { return ID{Network: network, Local: local} }

// GeneratedID returns a [Generated] identifier.
func GeneratedID(network, local string) ID {
	return ID{Network: network, Local: local, Kind: Generated}
}

const generatedSuffix = "~"

// String returns "network:local", with a "~" suffix for generated IDs.
func (id ID) String() string {
	s := id.Network + ":" + id.Local
	if id.Kind == Generated {
		s += generatedSuffix
	}
	return s
}

// ParseID parses the format returned by [ID.String].
func ParseID(s string) (ID, error) {
	network, local, ok := strings.Cut(s, ":")
	if !ok || network == "" || local == "" {
		return ID{}, fmt.Errorf("invalid identifier, expecting NETWORK:ID: %q", s)
	}
	id := NewID(network, local)
	if l, ok := strings.CutSuffix(local, generatedSuffix); ok && l != "" {
		id.Local, id.Kind = l, Generated
	}
	return id, nil
}

// MarshalText allows IDs to be used as JSON object keys.
func (id ID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }

// UnmarshalText accepts the [ID.String] format.
func (id *ID) UnmarshalText(b []byte) (err error) {
	*id, err = ParseID(string(b))
	return err
}

// MarshalJSON writes the structured form, MarshalText is only used for map keys.
func (id ID) MarshalJSON() ([]byte, error) {
	type plain ID
	return json.Marshal(plain(id))
}

// UnmarshalJSON accepts either the structured form or a "network:id" string.
func (id *ID) UnmarshalJSON(b []byte) error {
	var s string
	if json.Unmarshal(b, &s) == nil {
		return id.UnmarshalText([]byte(s))
	}
	type plain ID
	return json.Unmarshal(b, (*plain)(id))
}
