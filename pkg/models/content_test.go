package models

import "testing"

func multipart(parts ...Content) Content {
	return Content{Type: ContentMultipart, Title: "bundle", Parts: parts}
}

func TestContentDepth(t *testing.T) {
	leaf := Content{Type: ContentText, Text: "hi"}
	if d := leaf.Depth(); d != 1 {
		t.Fatalf("leaf depth = %d, want 1", d)
	}
	nested := multipart(multipart(leaf), leaf)
	if d := nested.Depth(); d != 3 {
		t.Fatalf("nested depth = %d, want 3", d)
	}
}

func TestContentPartCount(t *testing.T) {
	leaf := Content{Type: ContentText, Text: "hi"}
	c := multipart(leaf, multipart(leaf, leaf))
	// root + leaf + inner multipart + 2 leaves
	if n := c.PartCount(); n != 5 {
		t.Fatalf("part count = %d, want 5", n)
	}
}

func TestContentByteSize(t *testing.T) {
	c := multipart(
		Content{Type: ContentText, Text: "hello"},
		Content{Type: ContentEncrypted, Data: []byte{1, 2, 3}, PublicKey: "k1"},
	)
	if b := c.ByteSize(); b != 8 {
		t.Fatalf("byte size = %d, want 8", b)
	}
}

func TestContentCheckType(t *testing.T) {
	ok := multipart(
		Content{Type: ContentText, Text: "x"},
		Content{Type: ContentMedia, IPFSHash: "Qm123", MediaType: "image/png"},
	)
	if err := ok.CheckType(); err != nil {
		t.Fatalf("valid content rejected: %v", err)
	}
	bad := multipart(Content{Type: "hologram"})
	if err := bad.CheckType(); err == nil {
		t.Fatalf("unknown nested content type accepted")
	}
}
