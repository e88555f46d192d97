// Copyright IBM Corp. 2023, 2025
// SPDX-License-Identifier: MPL-2.0

// Package magicfs classifies files on an [afero.Fs] by content and mounts
// archives as nested read-only filesystems.
//
// A [Classifier] uses the file extension as a gate: only files with a known
// extension hint are sniffed, and the [Sniffer] result is authoritative. A
// [Dispatcher] mounts every classified file for which an [ArchiveFactory] is
// registered in its [ArchiveRegistry]. The returned [ArchiveFs] is an
// [afero.Fs] itself and can be classified and mounted again.
//
// Configuration is done using the [Config], which carries the logger, the
// telemetry hook, the sniffer, the extension hints and the limits applied
// while mounting. [TelemetryData] is passed to the hook after every
// classification and mount.
package magicfs
