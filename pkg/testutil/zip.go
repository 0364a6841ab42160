package testutil

import (
	"archive/zip"
	"bytes"
	"fmt"
	"strings"
	"testing"
)

// ZipBuilder assembles an in-memory zip archive for tests. Entries ending
// in "/" become directory entries, mirroring real Thunderstore packages.
type ZipBuilder struct {
	buf *bytes.Buffer
	w   *zip.Writer
}

// NewZip returns an empty archive builder.
func NewZip() *ZipBuilder {
	buf := &bytes.Buffer{}
	return &ZipBuilder{buf: buf, w: zip.NewWriter(buf)}
}

// Add appends an entry. Directory entries have a trailing slash and empty
// content.
func (z *ZipBuilder) Add(name, content string) *ZipBuilder {
	if strings.HasSuffix(name, "/") {
		if _, err := z.w.Create(name); err != nil {
			panic(fmt.Sprintf("zip builder: %v", err))
		}
		return z
	}
	f, err := z.w.Create(name)
	if err != nil {
		panic(fmt.Sprintf("zip builder: %v", err))
	}
	if _, err := f.Write([]byte(content)); err != nil {
		panic(fmt.Sprintf("zip builder: %v", err))
	}
	return z
}

// Bytes finalizes the archive and returns its contents.
func (z *ZipBuilder) Bytes(t *testing.T) []byte {
	t.Helper()
	if err := z.w.Close(); err != nil {
		t.Fatalf("Failed to finalize zip archive: %v", err)
	}
	return z.buf.Bytes()
}

// ModArchive builds a typical mod package: a manifest at the root and one
// submod under mods/<name>/ with a mod.json descriptor.
func ModArchive(t *testing.T, manifest, submodName, modJSON string) []byte {
	t.Helper()
	return NewZip().
		Add("manifest.json", manifest).
		Add("icon.png", "png-bytes").
		Add("mods/", "").
		Add("mods/"+submodName+"/", "").
		Add("mods/"+submodName+"/mod.json", modJSON).
		Add("mods/"+submodName+"/scripts/vscripts/hello.nut", "// script").
		Bytes(t)
}
