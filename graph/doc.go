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


// Package graph materializes the typed node/edge graph of an ingestion batch.
//
// Graphs are reconstructed on demand from stored chunk rows; nothing in this
// package is persisted. Node and edge ids are deterministic, so repeated
// reconstructions of the same rows produce the same graph and ids stay valid
// across requests.
//
// The package has three layers:
//
//   - Identity: NodeID / EdgeID produce stable, collision-resistant ids
//     from semantic parts.
//   - Synthesis: Synthesize builds the Document / Section / Chunk graph
//     for one ingestion from its chunk rows.
//   - Query: Slice and Neighborhood answer bounded, filtered views over
//     a synthesized graph. Service binds them to the storage layer.
//
// Synthesis and queries are pure and stateless; concurrent use is safe.
package graph
