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

package searchdata

import (
	"errors"
	"testing"
)

func TestEncodeID(t *testing.T) {
	t.Parallel()

	tests := []struct {
		term    string
		counter int
		id      string
		decoded string
	}{
		{
			term:    "masks",
			counter: 4,
			id:      "masks_4",
			decoded: "masks",
		},
		{
			term:    "machine states",
			counter: 0,
			id:      "machine_20states_0",
			decoded: "machine states",
		},
		{
			term:    "MTI Codes",
			counter: 20,
			id:      "mti_20codes_20",
			decoded: "mti codes",
		},
		{
			term:    "_can_frame",
			counter: 1,
			id:      "_5fcan_5fframe_1",
			decoded: "_can_frame",
		},
		{
			term:    "operator<<",
			counter: 12,
			id:      "operator_3c_3c_12",
			decoded: "operator<<",
		},
		{
			term:    "Größe",
			counter: 3,
			id:      "größe_3",
			decoded: "größe",
		},
	}

	for _, test := range tests {
		t.Run(test.id, func(t *testing.T) {
			t.Parallel()

			if got := EncodeID(test.term, test.counter); got != test.id {
				t.Fatalf("EncodeID: got %q, want %q", got, test.id)
			}

			term, counter, err := DecodeID(test.id)
			if err != nil {
				t.Fatalf("DecodeID: %v", err)
			}
			if term != test.decoded {
				t.Errorf("DecodeID term: got %q, want %q", term, test.decoded)
			}
			if counter != test.counter {
				t.Errorf("DecodeID counter: got %d, want %d", counter, test.counter)
			}
		})
	}
}

func TestDecodeID_errors(t *testing.T) {
	t.Parallel()

	tests := []string{
		"nocounter",
		"trailing_",
		"bad_counter_x1",
		"x_a_0",
		"bad_zzescape_0",
		"short_2_0",
	}

	for _, id := range tests {
		t.Run(id, func(t *testing.T) {
			t.Parallel()

			if _, _, err := DecodeID(id); !errors.Is(err, ErrInvalidID) {
				t.Fatalf("DecodeID(%q): got %v, want %v", id, err, ErrInvalidID)
			}
		})
	}
}
