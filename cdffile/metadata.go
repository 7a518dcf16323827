package cdffile

import (
	"fmt"
	"sort"

	"github.com/cdflib/cdf/errs"
	"github.com/cdflib/cdf/format"
	"github.com/cdflib/cdf/primitive"
	"github.com/cdflib/cdf/record"
	"github.com/cdflib/cdf/variable"
)

// VarInq is the metadata returned for one variable by Varinq.
type VarInq struct {
	Name           string
	Number         int32
	Kind           format.VarKind
	DataType       format.DataType
	NumElems       int32
	DimSizes       []int32
	DimVarys       []int32
	RecVary        bool
	MaxRec         int32
	Sparseness     format.Sparseness
	BlockingFactor int32
	Compressed     bool
}

// VarNames returns every variable name in the file, r- and z-variables
// together, sorted by name.
func (r *Reader) VarNames() []string {
	names := make([]string, 0, len(r.varsByName))
	for name := range r.varsByName {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Varinq returns the metadata for the named variable.
func (r *Reader) Varinq(name string) (VarInq, error) {
	ve, ok := r.varsByName[name]
	if !ok {
		return VarInq{}, fmt.Errorf("%w: %q", errs.ErrVariableNotFound, name)
	}
	v := ve.vdr
	return VarInq{
		Name: v.Name, Number: v.Num, Kind: v.Kind, DataType: v.DataType,
		NumElems: v.NumElems, DimSizes: v.DimSizes, DimVarys: v.DimVarys,
		RecVary: v.HasRecVary(), MaxRec: v.MaxRec, Sparseness: v.SRecords,
		BlockingFactor: v.BlockingFactor, Compressed: v.IsCompressed(),
	}, nil
}

// variableReader lazily builds (and caches) the variable.Reader for name.
// Every data read funnels through here, so a checksum mismatch detected at
// Open (which does not itself abort Open) surfaces right here, on the
// first read, rather than silently returning bytes from a file that failed
// its own integrity check.
func (r *Reader) variableReader(name string) (*variable.Reader, error) {
	if r.checksumErr != nil {
		return nil, r.checksumErr
	}
	ve, ok := r.varsByName[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrVariableNotFound, name)
	}
	if ve.reader != nil {
		return ve.reader, nil
	}

	desc := variable.FromVDR(ve.vdr, r.gdr.RDimSizes)

	var cpr record.CPR
	if ve.vdr.IsCompressed() && ve.vdr.CPRorSPRoffset >= 0 {
		var err error
		cpr, _, err = record.ParseCPR(r.ctx, r.buf, ve.vdr.CPRorSPRoffset)
		if err != nil {
			return nil, err
		}
	}

	codec := primitive.NewCodec(r.ctx.Engine)
	reader, err := variable.NewReader(r.ctx, codec, r.buf, desc, cpr)
	if err != nil {
		return nil, err
	}
	ve.reader = reader
	return reader, nil
}

// GetRecord reads a single record's stored-shape raw bytes for variable
// name. Decode the bytes with a primitive.Codec built over the same
// encoding as the file (see Info().Encoding) to get typed values.
func (r *Reader) GetRecord(name string, rec int64) ([]byte, error) {
	vr, err := r.variableReader(name)
	if err != nil {
		return nil, err
	}
	return vr.ReadRecord(r.buf, rec)
}

// GetRange reads records [first, last] inclusive for variable name.
func (r *Reader) GetRange(name string, first, last int64) ([][]byte, error) {
	vr, err := r.variableReader(name)
	if err != nil {
		return nil, err
	}
	return vr.ReadRange(r.buf, first, last)
}

// AttrNames returns every attribute name in the file, in declaration order.
func (r *Reader) AttrNames() []string {
	out := make([]string, len(r.attrOrder))
	copy(out, r.attrOrder)
	return out
}

// AttrEntry is one decoded attribute entry value, together with the
// variable number or global-entry number it targets.
type AttrEntry struct {
	Num      int32
	DataType format.DataType
	Value    any
}

// Globalattsget returns every entry of a global-scoped attribute.
func (r *Reader) Globalattsget(name string) ([]AttrEntry, error) {
	ae, ok := r.attrs[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrAttributeNotFound, name)
	}
	if ae.adr.Scope != format.ScopeGlobal {
		return nil, fmt.Errorf("%w: %q is not a global attribute", errs.ErrAttributeNotFound, name)
	}
	return decodeEntries(r.ctx, ae.grEntries)
}

// Varattsget returns every entry of a variable-scoped attribute that
// targets varName, searching both the r/z (AgrEDR) and z-only (AzEDR)
// chains.
func (r *Reader) Varattsget(attrName, varName string) ([]AttrEntry, error) {
	ae, ok := r.attrs[attrName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrAttributeNotFound, attrName)
	}
	ve, ok := r.varsByName[varName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", errs.ErrVariableNotFound, varName)
	}

	var out []AttrEntry
	chains := ae.grEntries
	if ve.vdr.Kind == format.KindZVariable {
		chains = append(append([]record.AEDR(nil), ae.grEntries...), ae.zEntries...)
	}
	for _, e := range chains {
		if e.Num != ve.vdr.Num {
			continue
		}
		decoded, err := decodeEntries(r.ctx, []record.AEDR{e})
		if err != nil {
			return nil, err
		}
		out = append(out, decoded...)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %q has no entry for %q", errs.ErrEntryNotFound, attrName, varName)
	}
	return out, nil
}

func decodeEntries(ctx *record.Ctx, entries []record.AEDR) ([]AttrEntry, error) {
	codec := primitive.NewCodec(ctx.Engine)
	out := make([]AttrEntry, 0, len(entries))
	for _, e := range entries {
		v, err := codec.ReadScalar(e.Value, e.DataType, int(e.NumElems))
		if err != nil {
			return nil, err
		}
		out = append(out, AttrEntry{Num: e.Num, DataType: e.DataType, Value: v})
	}
	return out, nil
}
