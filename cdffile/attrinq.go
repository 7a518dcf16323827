package cdffile

import (
	"fmt"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/record"
)

// AttrInq is the metadata returned for one attribute by Attinq, symmetric
// to VarInq for variables.
type AttrInq struct {
	Name         string
	Number       int32
	Scope        format.AttrScope
	NumGrEntries int32
	MaxGrEntry   int32
	NumZEntries  int32
	MaxZEntry    int32
}

func (ae *attrEntry) inq() AttrInq {
	return AttrInq{
		Name: ae.adr.Name, Number: ae.adr.Num, Scope: ae.adr.Scope,
		NumGrEntries: ae.adr.NgrEntries, MaxGrEntry: ae.adr.MAXgrEntry,
		NumZEntries: ae.adr.NzEntries, MaxZEntry: ae.adr.MAXzEntry,
	}
}

// Attinq returns the metadata for the named attribute.
func (r *Reader) Attinq(name string) (AttrInq, error) {
	ae, ok := r.attrs[name]
	if !ok {
		return AttrInq{}, fmt.Errorf("%w: %q", errs.ErrAttributeNotFound, name)
	}
	return ae.inq(), nil
}

// AttinqNum returns the metadata for the attribute with the given number.
func (r *Reader) AttinqNum(num int32) (AttrInq, error) {
	ae, ok := r.attrsByNum[num]
	if !ok {
		return AttrInq{}, fmt.Errorf("%w: number %d", errs.ErrAttributeNotFound, num)
	}
	return ae.inq(), nil
}

// Attget returns the single entry numbered entryNum (a global-entry number
// for a global attribute, a variable number for a variable attribute) of
// the named attribute, searching both its r/z and z-only entry chains.
func (r *Reader) Attget(attrName string, entryNum int32) (AttrEntry, error) {
	ae, ok := r.attrs[attrName]
	if !ok {
		return AttrEntry{}, fmt.Errorf("%w: %q", errs.ErrAttributeNotFound, attrName)
	}

	for _, chain := range [][]record.AEDR{ae.grEntries, ae.zEntries} {
		for _, e := range chain {
			if e.Num != entryNum {
				continue
			}
			decoded, err := decodeEntries(r.ctx, []record.AEDR{e})
			if err != nil {
				return AttrEntry{}, err
			}
			return decoded[0], nil
		}
	}

	return AttrEntry{}, fmt.Errorf("%w: %q has no entry numbered %d", errs.ErrEntryNotFound, attrName, entryNum)
}
