// Code generated by musgen-go. DO NOT EDIT.

package core

import (
	"github.com/mus-format/mus-go/ord"
	"github.com/mus-format/mus-go/raw"
)

var (
	slice8xbxHPqk0Da5ΔfhIhMHcLQΞΞ = ord.NewSliceSer[UID](UIDMUS)
)

var UIDMUS = uIDMUS{}

type uIDMUS struct{}

func (s uIDMUS) Marshal(v UID, bs []byte) (n int) {
	return ord.String.Marshal(string(v), bs)
}

func (s uIDMUS) Unmarshal(bs []byte) (v UID, n int, err error) {
	tmp, n, err := ord.String.Unmarshal(bs)
	if err != nil {
		return
	}
	v = UID(tmp)
	return
}

func (s uIDMUS) Size(v UID) (size int) {
	return ord.String.Size(string(v))
}

func (s uIDMUS) Skip(bs []byte) (n int, err error) {
	return ord.String.Skip(bs)
}

var BlockMUS = blockMUS{}

type blockMUS struct{}

func (s blockMUS) Marshal(v Block, bs []byte) (n int) {
	n = UIDMUS.Marshal(v.UID, bs)
	n += ord.String.Marshal(v.Content, bs[n:])
	n += UIDMUS.Marshal(v.PageUID, bs[n:])
	n += ord.String.Marshal(v.PageTitle, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.EditTime, bs[n:])
	n += UIDMUS.Marshal(v.ParentUID, bs[n:])
	return n + slice8xbxHPqk0Da5ΔfhIhMHcLQΞΞ.Marshal(v.ChildrenUIDs, bs[n:])
}

func (s blockMUS) Unmarshal(bs []byte) (v Block, n int, err error) {
	v.UID, n, err = UIDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Content, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PageUID, n1, err = UIDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.PageTitle, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EditTime, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ParentUID, n1, err = UIDMUS.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.ChildrenUIDs, n1, err = slice8xbxHPqk0Da5ΔfhIhMHcLQΞΞ.Unmarshal(bs[n:])
	n += n1
	return
}

func (s blockMUS) Size(v Block) (size int) {
	size = UIDMUS.Size(v.UID)
	size += ord.String.Size(v.Content)
	size += UIDMUS.Size(v.PageUID)
	size += ord.String.Size(v.PageTitle)
	size += raw.TimeUnixMicro.Size(v.EditTime)
	size += UIDMUS.Size(v.ParentUID)
	return size + slice8xbxHPqk0Da5ΔfhIhMHcLQΞΞ.Size(v.ChildrenUIDs)
}

func (s blockMUS) Skip(bs []byte) (n int, err error) {
	n, err = UIDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = UIDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = UIDMUS.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = slice8xbxHPqk0Da5ΔfhIhMHcLQΞΞ.Skip(bs[n:])
	n += n1
	return
}

var PageMUS = pageMUS{}

type pageMUS struct{}

func (s pageMUS) Marshal(v Page, bs []byte) (n int) {
	n = UIDMUS.Marshal(v.UID, bs)
	n += ord.String.Marshal(v.Title, bs[n:])
	n += raw.TimeUnixMicro.Marshal(v.CreateTime, bs[n:])
	return n + raw.TimeUnixMicro.Marshal(v.EditTime, bs[n:])
}

func (s pageMUS) Unmarshal(bs []byte) (v Page, n int, err error) {
	v.UID, n, err = UIDMUS.Unmarshal(bs)
	if err != nil {
		return
	}
	var n1 int
	v.Title, n1, err = ord.String.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.CreateTime, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	if err != nil {
		return
	}
	v.EditTime, n1, err = raw.TimeUnixMicro.Unmarshal(bs[n:])
	n += n1
	return
}

func (s pageMUS) Size(v Page) (size int) {
	size = UIDMUS.Size(v.UID)
	size += ord.String.Size(v.Title)
	size += raw.TimeUnixMicro.Size(v.CreateTime)
	return size + raw.TimeUnixMicro.Size(v.EditTime)
}

func (s pageMUS) Skip(bs []byte) (n int, err error) {
	n, err = UIDMUS.Skip(bs)
	if err != nil {
		return
	}
	var n1 int
	n1, err = ord.String.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	if err != nil {
		return
	}
	n1, err = raw.TimeUnixMicro.Skip(bs[n:])
	n += n1
	return
}
