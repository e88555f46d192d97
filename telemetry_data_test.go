// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

package magicfs_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/hashicorp/go-magicfs"
)

// TestDataString tests the String method of the data struct
func TestDataString(t *testing.T) {
	m := magicfs.TelemetryData{
		CacheHit:            false,
		ContentType:         magicfs.ContentTypeTar,
		Duration:            time.Duration(5 * time.Millisecond),
		Hint:                magicfs.ContentTypeGZip,
		InputSize:           2048,
		LastError:           fmt.Errorf("example error"),
		MountedDirs:         1,
		MountedFiles:        5,
		MountSize:           1024,
		Operation:           magicfs.OperationMount,
		Path:                "/backup.tgz",
		SniffedBytes:        0,
		UnsupportedFiles:    1,
		LastUnsupportedFile: "/link",
	}

	expected := `{"last_error":"example error","cache_hit":false,"content_type":"application/x-tar","duration":5000000,"hint":"application/gzip","input_size":2048,"mounted_dirs":1,"mounted_files":5,"mount_size":1024,"operation":"mount","path":"/backup.tgz","sniffed_bytes":0,"unsupported_files":1,"last_unsupported_file":"/link"}`
	if m.String() != expected {
		t.Errorf("Expected '%s', but got '%s'", expected, m.String())
	}
}

// TestDataStringNoError tests that a missing error is rendered as empty string
func TestDataStringNoError(t *testing.T) {
	m := magicfs.TelemetryData{Operation: magicfs.OperationClassify, Path: "/a.zip", CacheHit: true}

	expected := `{"last_error":"","cache_hit":true,"content_type":"","duration":0,"hint":"","input_size":0,"mounted_dirs":0,"mounted_files":0,"mount_size":0,"operation":"classify","path":"/a.zip","sniffed_bytes":0,"unsupported_files":0,"last_unsupported_file":""}`
	if m.String() != expected {
		t.Errorf("Expected '%s', but got '%s'", expected, m.String())
	}
}
