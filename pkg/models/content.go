package models

import "fmt"

// ContentType discriminates the content union.
type ContentType string

const (
	ContentText      ContentType = "text"
	ContentEncrypted ContentType = "encrypted"
	ContentMedia     ContentType = "media"
	ContentMultipart ContentType = "multipart"
)

// Content is a tagged union of capsule payload variants. Exactly the fields
// for the declared Type are meaningful; the rest stay zero. Multipart
// content nests recursively via Parts.
//
// Encrypted payloads are opaque: the server stores bytes and a key label
// and never performs any cryptography. Media references are external
// content addresses and are never dereferenced.
type Content struct {
	Type ContentType `json:"type"`

	// text
	Text string `json:"text,omitempty"`

	// encrypted
	Data      []byte `json:"content,omitempty"`
	PublicKey string `json:"public_key,omitempty"`

	// media
	IPFSHash  string `json:"ipfs_hash,omitempty"`
	MediaType string `json:"media_type,omitempty"`

	// multipart
	Title string    `json:"title,omitempty"`
	Parts []Content `json:"parts,omitempty"`
}

// Depth returns the nesting depth of the content tree. A leaf variant has
// depth 1.
func (c Content) Depth() int {
	if c.Type != ContentMultipart {
		return 1
	}
	max := 0
	for _, p := range c.Parts {
		if d := p.Depth(); d > max {
			max = d
		}
	}
	return max + 1
}

// PartCount returns the total number of nodes in the content tree.
func (c Content) PartCount() int {
	n := 1
	for _, p := range c.Parts {
		n += p.PartCount()
	}
	return n
}

// ByteSize returns the total payload bytes carried by the tree: text and
// opaque encrypted data, summed over all parts.
func (c Content) ByteSize() int64 {
	n := int64(len(c.Text)) + int64(len(c.Data))
	for _, p := range c.Parts {
		n += p.ByteSize()
	}
	return n
}

// CheckType verifies the content tree only uses known variant tags.
func (c Content) CheckType() error {
	switch c.Type {
	case ContentText, ContentEncrypted, ContentMedia:
		return nil
	case ContentMultipart:
		for _, p := range c.Parts {
			if err := p.CheckType(); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("unknown content type: %q", c.Type)
	}
}
