// Copyright 2026 SirSeer, LLC
//
// Licensed under the Business Source License 1.1 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://mariadb.com/bsl11
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package version holds the build version of unraidql. The Version
// variable is overridden at release time via -ldflags.
package version

// Version is the semantic version of the binary, set at build time:
//
//	go build -ldflags "-X github.com/sirseerhq/unraidql/pkg/version.Version=v1.2.3"
var Version = "dev"
