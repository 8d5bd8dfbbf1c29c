package metadata

import "strconv"

// Metadata represents the filterable attributes carried alongside a message.
// Subscription rules match on these attributes, never on the message body, so
// anything a downstream filter needs must be promoted into this map.
type Metadata map[string]string

func (m Metadata) cloneWithExtra(extra int) Metadata {
	size := len(m) + extra
	if size <= 0 {
		return Metadata{}
	}

	cloned := make(Metadata, size)
	for k, v := range m {
		cloned[k] = v
	}
	return cloned
}

// Clone returns a shallow copy of the metadata map.
func (m Metadata) Clone() Metadata {
	return m.cloneWithExtra(0)
}

// With returns a cloned metadata map containing the provided key/value pair.
func (m Metadata) With(key, value string) Metadata {
	cloned := m.cloneWithExtra(1)
	cloned[key] = value
	return cloned
}

// WithBool returns a cloned metadata map with the key set to "true" or
// "false", the canonical encoding for boolean subscription attributes.
func (m Metadata) WithBool(key string, value bool) Metadata {
	return m.With(key, strconv.FormatBool(value))
}

// WithAll returns a cloned metadata map containing the supplied entries.
func (m Metadata) WithAll(entries Metadata) Metadata {
	cloned := m.cloneWithExtra(len(entries))
	for k, v := range entries {
		cloned[k] = v
	}
	return cloned
}

// Bool reports the boolean value of an attribute. Absent or malformed
// attributes report ok=false so filters can distinguish "false" from "unset".
func (m Metadata) Bool(key string) (value, ok bool) {
	raw, present := m[key]
	if !present {
		return false, false
	}
	parsed, err := strconv.ParseBool(raw)
	if err != nil {
		return false, false
	}
	return parsed, true
}

// New constructs a Metadata map from alternating key/value pairs.
func New(pairs ...string) Metadata {
	md := make(Metadata, len(pairs)/2)
	for i := 0; i < len(pairs)-1; i += 2 {
		md[pairs[i]] = pairs[i+1]
	}
	return md
}
