// Copyright 2026 Ian Lewis
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

// Package doxysearch implements a library for reading the client-side search
// index of Doxygen HTML documentation in pure Go.
//
// A Doxygen search directory (usually html/search) contains several files:
//  1. A searchdata.js manifest that lists the search sections (e.g. "all",
//     "classes", "groups"), their labels and the first characters of the
//     keywords in each section.
//  2. One bucket file per section and first character, named
//     <section>_<n in hex>.js. Each holds a JavaScript array of keywords and
//     the documentation pages they link to. Bucket files may be compressed
//     with gzip or dictzip and carry a .js.gz or .js.dz extension.
//
// The linked HTML pages live in the parent of the search directory and can
// optionally be included in full-text search.
//
// A SearchIndex answers keyword queries the way the browser search box does:
// a query matches every keyword that starts with it, ignoring case and
// accents.
package doxysearch
