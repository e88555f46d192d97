// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs_test

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"encoding/base64"
	"encoding/hex"
	"io/fs"
	"math/rand"
	"testing"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/dsnet/compress/bzip2"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zlib"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
	"github.com/spf13/afero"
	"github.com/ulikunitz/xz"
)

// testRarArchiveBase64 holds a rar archive with the entries "dir", "dir/foo",
// "file" and the symlink "link".
var testRarArchiveBase64 = "UmFyIRoHAQAzkrXlCgEFBgAFAQGAgAADk1YoJQIDC50ABJ0ApIMClAgA9IAAAQdkaXIvZm9vCgMTQPjXZsjBSQhNaSAgNCBTZXAgMjAyNCAwODowMzo0NCBDRVNUCpQdu+oiAgMLnQAEnQCkgwI+z7uqgAABBGZpbGUKAxPEDddmxHsQDkRpICAzIFNlcCAyMDI0IDE1OjIzOjE2IENFU1QKe1xvKCwCAxcABAftwwIAAAAAgAABBGxpbmsKAxNM+NdmSCZHGAsFAQAHZGlyL2Zvb0A2hh0bAgMLAAEA7YMBgAABA2RpcgoDE0D412Z533kHHXdWUQMFBAA="

// magicBytes7zip is the signature of a 7-zip archive
var magicBytes7zip = []byte{0x37, 0x7A, 0xBC, 0xAF, 0x27, 0x1C}

// test7zipArchiveHex holds a 7zip archive with the file "test/data"
var test7zipArchiveHex = "377abcaf271c00049af18e7973000000000000002000000000000000a7e80f9801000b48656c6c6f20576f726c6421000000813307ae0fcef2b20c07c8437f41b1fafddb88b6d7636b8bd58a0e24a2f717a5f156e37f41fd00833298421d5d088c0cf987b30c0473663599e4d2f21cb69620038f10458109662135c3024189f42799abe3227b174a853e824f808b2efaab000017061001096300070b01000123030101055d001000000c760a015bcfa0a70000"

// sevenZipArchive returns the decoded test 7zip archive
func sevenZipArchive(t *testing.T) []byte {
	t.Helper()
	data, err := hex.DecodeString(test7zipArchiveHex)
	if err != nil {
		t.Fatalf("error decoding hex string: %v", err)
	}
	return data
}

// rarArchive returns the decoded test rar archive
func rarArchive(t *testing.T) []byte {
	t.Helper()
	data, err := base64.StdEncoding.DecodeString(testRarArchiveBase64)
	if err != nil {
		t.Fatalf("error decoding base64 string: %v", err)
	}
	return data
}

// tarContent is a struct to store the content of a tar file
type tarContent struct {
	content    []byte
	linktarget string
	mode       fs.FileMode
	name       string
	fileType   byte
}

// packTarWithContent creates a tar file with the given content
func packTarWithContent(t *testing.T, content []tarContent) []byte {
	t.Helper()

	// create tar writer
	writeBuffer := bytes.NewBuffer([]byte{})
	tw := tar.NewWriter(writeBuffer)

	// write content
	for _, c := range content {
		// create header
		hdr := &tar.Header{
			Name:     c.name,
			Mode:     int64(c.mode),
			Size:     int64(len(c.content)),
			Linkname: c.linktarget,
			Typeflag: c.fileType,
			ModTime:  time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC),
		}

		// write header
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatalf("error writing tar header: %v", err)
		}

		// write data
		if _, err := tw.Write(c.content); err != nil {
			t.Fatalf("error writing tar data: %v", err)
		}
	}

	// close tar writer
	if err := tw.Close(); err != nil {
		t.Fatalf("error closing tar writer: %v", err)
	}

	return writeBuffer.Bytes()
}

// packTar creates a tar file with two regular files and a directory
func packTar(t *testing.T) []byte {
	t.Helper()
	return packTarWithContent(t, []tarContent{
		{name: "dir/", mode: 0755, fileType: tar.TypeDir},
		{name: "dir/foo", content: []byte("foo"), mode: 0644, fileType: tar.TypeReg},
		{name: "bar", content: []byte("bar bar"), mode: 0644, fileType: tar.TypeReg},
	})
}

// packLargeTar creates a tar file with one 400 KiB file of random letters, so
// its compressed form spans more than the first block of every codec
func packLargeTar(t *testing.T) []byte {
	t.Helper()
	rng := rand.New(rand.NewSource(1))
	content := make([]byte, 400*1024)
	for i := range content {
		content[i] = byte('a' + rng.Intn(26))
	}
	return packTarWithContent(t, []tarContent{
		{name: "large.txt", content: content, mode: 0644, fileType: tar.TypeReg},
	})
}

// zipContent is a struct to store the content of a zip file
type zipContent struct {
	content []byte
	name    string
}

// packZipWithContent creates a zip file with the given content
func packZipWithContent(t *testing.T, content []zipContent) []byte {
	t.Helper()

	buf := bytes.NewBuffer([]byte{})
	zw := zip.NewWriter(buf)
	for _, c := range content {
		w, err := zw.Create(c.name)
		if err != nil {
			t.Fatalf("error creating zip entry: %v", err)
		}
		if _, err := w.Write(c.content); err != nil {
			t.Fatalf("error writing zip entry: %v", err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("error closing zip writer: %v", err)
	}
	return buf.Bytes()
}

// packZip creates a zip file with the files "a.txt" and "b.txt"
func packZip(t *testing.T) []byte {
	t.Helper()
	return packZipWithContent(t, []zipContent{
		{name: "a.txt", content: []byte("aaa")},
		{name: "b.txt", content: []byte("bbbbbb")},
	})
}

// compressGzip compresses the data using the gzip algorithm
func compressGzip(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := gzip.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to gzip writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing gzip writer: %v", err)
	}
	return buf.Bytes()
}

// compressBzip2 compresses the data using the bzip2 algorithm
func compressBzip2(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := bzip2.NewWriter(&buf, &bzip2.WriterConfig{})
	if err != nil {
		t.Fatalf("error creating bzip2 writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to bzip2 writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing bzip2 writer: %v", err)
	}
	return buf.Bytes()
}

// compressXz compresses the data using the Xz algorithm
func compressXz(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("error creating xz writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to xz writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing xz writer: %v", err)
	}
	return buf.Bytes()
}

// compressZstd compresses the data using the zstandard algorithm
func compressZstd(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := zstd.NewWriter(&buf)
	if err != nil {
		t.Fatalf("error creating zstd writer: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to zstd writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing zstd writer: %v", err)
	}
	return buf.Bytes()
}

// compressLZ4 compresses the data using the lz4 algorithm
func compressLZ4(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := lz4.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to lz4 writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing lz4 writer: %v", err)
	}
	return buf.Bytes()
}

// compressSnappy compresses the data using the framed snappy format
func compressSnappy(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := snappy.NewBufferedWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to snappy writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing snappy writer: %v", err)
	}
	return buf.Bytes()
}

// compressZlib compresses the data using the zlib algorithm
func compressZlib(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to zlib writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing zlib writer: %v", err)
	}
	return buf.Bytes()
}

// compressBrotli compresses the data using the brotli algorithm
func compressBrotli(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w := brotli.NewWriter(&buf)
	if _, err := w.Write(data); err != nil {
		t.Fatalf("error writing data to brotli writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("error closing brotli writer: %v", err)
	}
	return buf.Bytes()
}

// writeFile creates name on fsys with data
func writeFile(t *testing.T, fsys afero.Fs, name string, data []byte) {
	t.Helper()
	if err := afero.WriteFile(fsys, name, data, 0644); err != nil {
		t.Fatalf("error writing %s: %v", name, err)
	}
}
