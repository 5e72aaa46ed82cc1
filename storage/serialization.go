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


package storage

import (
	"github.com/poiesic/graphseek/core"
)

// MarshalUID serializes a UID to bytes.
func MarshalUID(uid core.UID) []byte {
	buf := make([]byte, core.UIDMUS.Size(uid))
	core.UIDMUS.Marshal(uid, buf)
	return buf
}

// UnmarshalUID deserializes a UID from bytes.
func UnmarshalUID(data []byte) (core.UID, error) {
	uid, _, err := core.UIDMUS.Unmarshal(data)
	return uid, err
}

// MarshalBlock serializes a Block to bytes.
func MarshalBlock(block *core.Block) []byte {
	buf := make([]byte, core.BlockMUS.Size(*block))
	core.BlockMUS.Marshal(*block, buf)
	return buf
}

// UnmarshalBlock deserializes a Block from bytes.
func UnmarshalBlock(data []byte) (*core.Block, error) {
	block, _, err := core.BlockMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &block, nil
}

// MarshalPage serializes a Page to bytes.
func MarshalPage(page *core.Page) []byte {
	buf := make([]byte, core.PageMUS.Size(*page))
	core.PageMUS.Marshal(*page, buf)
	return buf
}

// UnmarshalPage deserializes a Page from bytes.
func UnmarshalPage(data []byte) (*core.Page, error) {
	page, _, err := core.PageMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &page, nil
}
