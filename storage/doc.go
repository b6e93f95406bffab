// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package storage provides the storage abstraction layer for videograph.
//
// Two ports live here. ObjectStore is the byte-level artifact store every
// pipeline step writes through, with local filesystem, in-memory and
// MinIO/S3 backends in subpackages. ManifestRepository (implemented on
// BadgerDB in the badger subpackage) is the append-only arena that records
// every manifest version a job produces.
//
// All public constructors return interfaces rather than concrete types, so
// callers cannot couple to a specific backend.
//
// Artifacts follow the layout videos/{video_id}/{category}/{file}; the Path
// helper builds conventional paths and the category constants name the
// folders.
package storage
