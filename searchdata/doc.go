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

// Package searchdata implements reading and writing Doxygen search index
// bucket files.
//
// A bucket file (e.g. search/groups_9.js) is a JavaScript statement that
// assigns a literal array to the searchData variable:
//
//	var searchData=
//	[
//	  ['masks_4',['Masks',['../group__can__frame__format.html',1,'CAN Frame Format and Masks'],['../group__mti__field__masks.html',1,'MTI Bit Field Masks']]],
//	  ...
//	];
//
// Each element comes in two parts:
//  1. The keyword id: the lower-cased search term with non-alphanumeric
//     ASCII bytes escaped as '_' and two hex digits, followed by '_' and a
//     counter.
//  2. A list holding the display name followed by one or more
//     [url, flag, scope] link triples.
//
// Files written by Doxygen survive a Decode/Encode round trip byte for byte.
package searchdata
